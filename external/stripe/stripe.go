package stripe

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/aqibjamil02172004-beep/marketplace/internal/services"
)

// Provider implements services.CheckoutProvider against Stripe Checkout.
// The client is constructed here and injected; nothing touches the SDK's
// package-level key.
type Provider struct {
	api           *client.API
	webhookSecret string
}

func NewProvider(apiKey, webhookSecret string) *Provider {
	api := &client.API{}
	api.Init(apiKey, nil)
	return &Provider{api: api, webhookSecret: webhookSecret}
}

func (p *Provider) CreateSession(ctx context.Context, params services.CreateSessionParams) (*services.Session, error) {
	items := make([]*stripe.CheckoutSessionLineItemParams, 0, len(params.Lines))
	for _, ln := range params.Lines {
		product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(ln.Title),
			// Per-line attribution rides on the price's product record;
			// session metadata is too coarse to recover it later.
			Metadata: map[string]string{
				"productId": ln.ProductID,
				"slug":      ln.Slug,
				"sellerId":  ln.SellerID,
			},
		}
		if ln.ImageURL != "" {
			product.Images = stripe.StringSlice([]string{ln.ImageURL})
		}
		items = append(items, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(ln.Quantity),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(ln.Currency),
				UnitAmount:  stripe.Int64(ln.UnitPriceMinor),
				ProductData: product,
			},
		})
	}

	sp := &stripe.CheckoutSessionParams{
		Mode:                     stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:                items,
		SuccessURL:               stripe.String(params.SuccessURL),
		CancelURL:                stripe.String(params.CancelURL),
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionRequired)),
		PhoneNumberCollection: &stripe.CheckoutSessionPhoneNumberCollectionParams{
			Enabled: stripe.Bool(true),
		},
		ShippingAddressCollection: &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice([]string{"US", "CA", "GB", "DE", "FR"}),
		},
		ShippingOptions: []*stripe.CheckoutSessionShippingOptionParams{{
			ShippingRateData: &stripe.CheckoutSessionShippingOptionShippingRateDataParams{
				DisplayName: stripe.String("Free shipping"),
				Type:        stripe.String("fixed_amount"),
				FixedAmount: &stripe.CheckoutSessionShippingOptionShippingRateDataFixedAmountParams{
					Amount:   stripe.Int64(0),
					Currency: stripe.String("usd"),
				},
			},
		}},
	}
	sp.Context = ctx
	if params.UserID != "" {
		sp.AddMetadata("userId", params.UserID)
	}

	sess, err := p.api.CheckoutSessions.New(sp)
	if err != nil {
		return nil, err
	}
	return &services.Session{ID: sess.ID, RedirectURL: sess.URL}, nil
}

func (p *Provider) SessionLines(ctx context.Context, sessionID string) ([]services.SessionLine, error) {
	lp := &stripe.CheckoutSessionListLineItemsParams{
		Session: stripe.String(sessionID),
	}
	lp.Context = ctx
	lp.AddExpand("data.price.product")

	iter := p.api.CheckoutSessions.ListLineItems(lp)
	var out []services.SessionLine
	for iter.Next() {
		li := iter.LineItem()
		ln := services.SessionLine{
			Title:    li.Description,
			Quantity: li.Quantity,
		}
		if li.Price != nil {
			ln.UnitPriceMinor = li.Price.UnitAmount
			ln.Currency = string(li.Price.Currency)
			if prod := li.Price.Product; prod != nil {
				ln.ProductID = prod.Metadata["productId"]
				ln.Slug = prod.Metadata["slug"]
				ln.SellerID = prod.Metadata["sellerId"]
				if prod.Name != "" {
					ln.Title = prod.Name
				}
				if len(prod.Images) > 0 {
					ln.ImageURL = prod.Images[0]
				}
			}
		}
		out = append(out, ln)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Provider) VerifyEvent(payload []byte, sigHeader string) (*services.PaymentEvent, error) {
	event, err := webhook.ConstructEvent(payload, sigHeader, p.webhookSecret)
	if err != nil {
		return nil, err
	}

	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		return &services.PaymentEvent{Kind: services.EventIgnored}, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("decode session payload: %w", err)
	}

	ev := &services.PaymentEvent{
		Kind:        services.EventPaymentCompleted,
		SessionID:   sess.ID,
		AmountMinor: sess.AmountTotal,
		Currency:    string(sess.Currency),
		UserID:      sess.Metadata["userId"],
	}
	if sess.PaymentIntent != nil {
		ev.PaymentRef = sess.PaymentIntent.ID
	}

	var addr *stripe.Address
	if cd := sess.CustomerDetails; cd != nil {
		ev.ShippingName = cd.Name
		ev.Phone = cd.Phone
		addr = cd.Address
	}
	if sd := sess.ShippingDetails; sd != nil {
		if sd.Name != "" {
			ev.ShippingName = sd.Name
		}
		if sd.Address != nil {
			addr = sd.Address
		}
	}
	if addr != nil {
		ev.AddressLine1 = addr.Line1
		ev.AddressLine2 = addr.Line2
		ev.City = addr.City
		ev.State = addr.State
		ev.PostalCode = addr.PostalCode
		ev.Country = addr.Country
	}
	return ev, nil
}
