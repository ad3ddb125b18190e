package model

import "time"

// Product is a catalog entry listed by a seller. Slug is the stable public
// key used for seller attribution lookups.
type Product struct {
	ProductID      string     `json:"product_id"`
	SellerID       string     `json:"seller_id"`
	Slug           string     `json:"slug"`
	Title          string     `json:"title"`
	UnitPriceMinor int64      `json:"unit_price_minor"`
	Currency       string     `json:"currency"`
	ImageURL       string     `json:"image_url,omitempty"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
}
