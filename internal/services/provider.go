package services

import "context"

// SessionLine is one line of a hosted checkout session, in provider-neutral
// terms. ProductID, Slug and SellerID ride as opaque metadata on the price
// record itself: session-level metadata is too coarse to recover per-line
// attribution after payment.
type SessionLine struct {
	Title          string
	ImageURL       string
	Currency       string
	UnitPriceMinor int64
	Quantity       int64

	ProductID string
	Slug      string
	SellerID  string
}

// CreateSessionParams describes the hosted session to create. SuccessURL and
// CancelURL contain the provider's session-id placeholder, which the provider
// substitutes on redirect.
type CreateSessionParams struct {
	Lines      []SessionLine
	SuccessURL string
	CancelURL  string
	// UserID is attached as session metadata when the checkout is not
	// anonymous.
	UserID string
}

// Session references a provider-hosted checkout flow instance.
type Session struct {
	ID          string
	RedirectURL string
}

// EventKind classifies verified provider events. Anything the pipeline does
// not act on maps to EventIgnored.
type EventKind string

const (
	EventPaymentCompleted EventKind = "payment.completed"
	EventIgnored          EventKind = "ignored"
)

// PaymentEvent is a verified, decoded provider callback. The embedded line
// detail is deliberately absent: the event payload is not trusted to carry it,
// callers re-fetch via SessionLines.
type PaymentEvent struct {
	Kind       EventKind
	SessionID  string
	PaymentRef string

	AmountMinor int64
	Currency    string

	ShippingName string
	Phone        string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	PostalCode   string
	Country      string

	UserID string
}

// CheckoutProvider is the behaviour required of a hosted payment vendor.
// Constructed explicitly and injected; there is no package-level client.
type CheckoutProvider interface {
	// CreateSession creates a hosted checkout session. Not retried by
	// callers: session creation is not idempotent on the provider side.
	CreateSession(ctx context.Context, params CreateSessionParams) (*Session, error)

	// SessionLines re-fetches the session's expanded line items, including
	// the per-line metadata attached at creation time.
	SessionLines(ctx context.Context, sessionID string) ([]SessionLine, error)

	// VerifyEvent authenticates a raw callback body against its signature
	// header and decodes it. The returned error means the event must be
	// rejected, which triggers provider-side redelivery.
	VerifyEvent(payload []byte, sigHeader string) (*PaymentEvent, error)
}
