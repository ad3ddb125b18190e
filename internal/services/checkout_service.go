package services

import (
	"context"
	"fmt"
	"log"

	"github.com/aqibjamil02172004-beep/marketplace/internal/config"
	"github.com/aqibjamil02172004-beep/marketplace/internal/model"
)

// sessionIDPlaceholder is substituted by the provider when redirecting back.
const sessionIDPlaceholder = "{CHECKOUT_SESSION_ID}"

// RequestOrigin carries the request headers that participate in base-URL
// resolution when no public URL is configured.
type RequestOrigin struct {
	Origin string
	Host   string
}

// CheckoutService turns a validated cart into a hosted checkout session and
// hands back the provider's redirect URL.
type CheckoutService struct {
	Provider CheckoutProvider
	Resolver *SellerResolver
	Cfg      *config.Config
}

func NewCheckoutService(provider CheckoutProvider, resolver *SellerResolver, cfg *config.Config) *CheckoutService {
	return &CheckoutService{Provider: provider, Resolver: resolver, Cfg: cfg}
}

// Initiate validates the cart, resolves per-line seller attribution best
// effort, creates the provider session and returns its redirect URL verbatim.
// It never retries session creation: a retried create is not idempotent on
// the provider side and would mint a duplicate session.
func (s *CheckoutService) Initiate(ctx context.Context, lines []model.CartLine, userID string, req RequestOrigin) (string, error) {
	if len(lines) == 0 {
		return "", fmt.Errorf("%w: cart is empty", ErrValidation)
	}
	for _, l := range lines {
		if l.UnitPriceMinor <= 0 {
			return "", fmt.Errorf("%w: item %q has non-positive price", ErrValidation, l.ItemID)
		}
	}

	sessionLines := make([]SessionLine, 0, len(lines))
	for _, l := range lines {
		sellerID := s.Resolver.Resolve(ctx, l)

		sl := SessionLine{
			Title:          l.Title,
			ImageURL:       l.Metadata[model.MetaImage],
			Currency:       "usd",
			UnitPriceMinor: l.UnitPriceMinor,
			Quantity:       int64(l.Quantity),
			ProductID:      l.Metadata[model.MetaProductID],
			Slug:           l.Metadata[model.MetaSlug],
		}
		if sellerID != nil {
			sl.SellerID = *sellerID
		}
		sessionLines = append(sessionLines, sl)
	}

	base, source := s.resolveBaseURL(req)
	log.Printf("checkout: redirect base url %s (from %s)", base, source)

	session, err := s.Provider.CreateSession(ctx, CreateSessionParams{
		Lines:      sessionLines,
		SuccessURL: base + "/checkout/success?session_id=" + sessionIDPlaceholder,
		CancelURL:  base + "/checkout/cancel?session_id=" + sessionIDPlaceholder,
		UserID:     userID,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}
	return session.RedirectURL, nil
}

// resolveBaseURL picks the redirect base by a fixed precedence: configured
// public URL, request origin, host header, platform URL, localhost.
func (s *CheckoutService) resolveBaseURL(req RequestOrigin) (url, source string) {
	switch {
	case s.Cfg.PublicBaseURL != "":
		return s.Cfg.PublicBaseURL, "config"
	case req.Origin != "":
		return req.Origin, "origin header"
	case req.Host != "":
		return "https://" + req.Host, "host header"
	case s.Cfg.PlatformURL != "":
		return s.Cfg.PlatformURL, "platform"
	default:
		return "http://localhost:8080", "default"
	}
}
