package services

import (
	"context"

	"github.com/aqibjamil02172004-beep/marketplace/internal/model"
)

// CatalogReader is the slice of the catalog the resolver needs.
type CatalogReader interface {
	GetBySlug(ctx context.Context, slug string) (*model.Product, error)
}

// SellerResolver maps a cart line to the seller who owns it. Resolution
// order: attribution already on the line, then catalog lookup by slug, then
// nil. Callers tolerate nil.
type SellerResolver struct {
	Catalog CatalogReader
}

func NewSellerResolver(catalog CatalogReader) *SellerResolver {
	return &SellerResolver{Catalog: catalog}
}

func (r *SellerResolver) Resolve(ctx context.Context, line model.CartLine) *string {
	if line.SellerID != nil && *line.SellerID != "" {
		return line.SellerID
	}
	return r.ResolveSlug(ctx, line.Metadata[model.MetaSlug])
}

// ResolveSlug is the fallback path, also used authoritatively at webhook time
// against the metadata captured on the provider-side price record.
func (r *SellerResolver) ResolveSlug(ctx context.Context, slug string) *string {
	if slug == "" {
		return nil
	}
	p, err := r.Catalog.GetBySlug(ctx, slug)
	if err != nil {
		return nil
	}
	return &p.SellerID
}
