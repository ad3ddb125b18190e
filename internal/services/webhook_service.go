package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/aqibjamil02172004-beep/marketplace/internal/model"
	"github.com/aqibjamil02172004-beep/marketplace/internal/repository"

	"github.com/google/uuid"
)

// CartClearer empties a buyer's stored cart once their order materializes.
// Satisfied by cart.Storage.
type CartClearer interface {
	Delete(ctx context.Context, ownerID string) error
}

// WebhookService materializes orders from provider callbacks. Deliveries are
// at-least-once and may race across instances; the unique constraint on
// external_session_id is the only idempotency guarantee.
type WebhookService struct {
	Provider CheckoutProvider
	Orders   OrderStore
	Resolver *SellerResolver
	Carts    CartClearer
}

func NewWebhookService(provider CheckoutProvider, orders OrderStore, resolver *SellerResolver, carts CartClearer) *WebhookService {
	return &WebhookService{Provider: provider, Orders: orders, Resolver: resolver, Carts: carts}
}

// HandleEvent processes one raw callback. Only an ErrBadSignature return may
// be answered with a rejection; every other error must still be acknowledged
// to the provider, or it will retry indefinitely.
func (s *WebhookService) HandleEvent(ctx context.Context, payload []byte, sigHeader string) error {
	event, err := s.Provider.VerifyEvent(payload, sigHeader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadSignature, err)
	}

	if event.Kind != EventPaymentCompleted {
		return nil
	}

	// The event body is not trusted to carry complete line detail.
	lines, err := s.Provider.SessionLines(ctx, event.SessionID)
	if err != nil {
		return fmt.Errorf("fetch session lines: %w", err)
	}

	order := buildOrder(event)
	if err := s.Orders.InsertOrder(ctx, order); err != nil {
		if errors.Is(err, repository.ErrDuplicateSession) {
			// Redelivery. The order exists; acknowledge without error.
			return nil
		}
		return fmt.Errorf("insert order: %w", err)
	}

	for _, ln := range lines {
		item := s.buildItem(ctx, order.OrderID, ln)
		if err := s.Orders.InsertOrderItem(ctx, item); err != nil {
			// A partially-itemized order beats an order that never appears.
			log.Printf("webhook: skipping item %q for order %s: %v", ln.Title, order.OrderID, err)
			continue
		}
	}

	// The purchase succeeded, so the stored cart is stale. Best effort only.
	if s.Carts != nil && order.UserID != nil {
		if err := s.Carts.Delete(ctx, *order.UserID); err != nil {
			log.Printf("webhook: clear cart for %s: %v", *order.UserID, err)
		}
	}
	return nil
}

func (s *WebhookService) buildItem(ctx context.Context, orderID string, ln SessionLine) *model.OrderItem {
	item := &model.OrderItem{
		OrderID:        orderID,
		Title:          ln.Title,
		ProductSlug:    ln.Slug,
		ImageURL:       ln.ImageURL,
		Quantity:       int(ln.Quantity),
		UnitPriceMinor: ln.UnitPriceMinor,
	}
	if ln.SellerID != "" {
		item.SellerID = &ln.SellerID
		return item
	}
	// The provider-side metadata is authoritative but may predate the seller
	// mapping; the slug lookup fills the gap when it can.
	item.SellerID = s.Resolver.ResolveSlug(ctx, ln.Slug)
	return item
}

func buildOrder(event *PaymentEvent) *model.Order {
	first, last := splitName(event.ShippingName)

	order := &model.Order{
		OrderID:           uuid.NewString(),
		ExternalSessionID: event.SessionID,
		AmountMinor:       event.AmountMinor,
		Currency:          event.Currency,
		FirstName:         first,
		LastName:          last,
		Address: model.Address{
			Line1:      event.AddressLine1,
			Line2:      event.AddressLine2,
			City:       event.City,
			State:      event.State,
			PostalCode: event.PostalCode,
			Country:    event.Country,
		},
	}
	if event.PaymentRef != "" {
		order.ExternalPaymentRef = &event.PaymentRef
	}
	if event.UserID != "" {
		order.UserID = &event.UserID
	}
	if event.Phone != "" {
		order.Phone = &event.Phone
	}
	return order
}

// splitName cuts a full name at the first whitespace boundary. Single-token
// names get a nil last name.
func splitName(full string) (string, *string) {
	full = strings.TrimSpace(full)
	if full == "" {
		return "", nil
	}
	first, rest, found := strings.Cut(full, " ")
	if !found {
		return first, nil
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return first, nil
	}
	return first, &rest
}
