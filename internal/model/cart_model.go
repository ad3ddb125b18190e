package model

// CartLine is one product/variant entry held in a buyer's cart before checkout.
// ItemID is the stable merge key (product id plus variant id when variants
// exist). Prices are integer minor units, never floats.
type CartLine struct {
	ItemID         string            `json:"item_id"`
	Title          string            `json:"title"`
	UnitPriceMinor int64             `json:"unit_price_minor"`
	Quantity       int               `json:"quantity"`
	SellerID       *string           `json:"seller_id,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// Metadata keys the pipeline relies on. Everything else in the map is
// display-only and passes through untouched.
const (
	MetaProductID = "productId"
	MetaSlug      = "slug"
	MetaImage     = "image"
)

// CartResponse is returned when reading the cart.
type CartResponse struct {
	Items      []CartLine `json:"items"`
	Count      int        `json:"count"`
	TotalMinor int64      `json:"total_minor"`
}
