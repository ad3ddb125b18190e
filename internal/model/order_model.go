package model

import "time"

// Address is the structured shipping address captured by the payment provider.
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Order is the durable record of a completed payment. It is created only by
// the payment webhook, exactly once per external checkout session, and is
// immutable afterwards.
type Order struct {
	OrderID            string     `json:"order_id"`
	ExternalSessionID  string     `json:"external_session_id"`
	ExternalPaymentRef *string    `json:"external_payment_ref,omitempty"`
	UserID             *string    `json:"user_id,omitempty"`
	AmountMinor        int64      `json:"amount_minor"`
	Currency           string     `json:"currency"`
	FirstName          string     `json:"first_name"`
	LastName           *string    `json:"last_name,omitempty"`
	Phone              *string    `json:"phone,omitempty"`
	Address            Address    `json:"address"`
	CreatedAt          *time.Time `json:"created_at,omitempty"`
}

// OrderItem is one line of a materialized order. SellerID may be null when
// attribution could not be resolved; seller-facing views simply won't show it.
type OrderItem struct {
	OrderItemID    int64   `json:"order_item_id"`
	OrderID        string  `json:"order_id"`
	SellerID       *string `json:"seller_id,omitempty"`
	Title          string  `json:"title"`
	ProductSlug    string  `json:"product_slug"`
	ImageURL       string  `json:"image_url,omitempty"`
	Quantity       int     `json:"quantity"`
	UnitPriceMinor int64   `json:"unit_price_minor"`
}

// SaleItem is what the seller sales view exposes: an order item joined with
// the owning order's timestamp. OrderCreatedAt stays nil when the parent row
// was hidden by the row-level policy and only the stitched item is available.
type SaleItem struct {
	OrderItem
	OrderCreatedAt *time.Time `json:"order_created_at,omitempty"`
}
