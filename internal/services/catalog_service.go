package services

import (
	"context"
	"fmt"

	"github.com/aqibjamil02172004-beep/marketplace/internal/model"
	"github.com/aqibjamil02172004-beep/marketplace/internal/repository"

	"github.com/google/uuid"
)

// CatalogService is the minimal catalog surface: sellers list products, the
// pipeline resolves them by slug. Browse/search UX lives elsewhere.
type CatalogService struct {
	Repo *repository.ProductRepository
}

func NewCatalogService(repo *repository.ProductRepository) *CatalogService {
	return &CatalogService{Repo: repo}
}

func (s *CatalogService) Create(ctx context.Context, sellerID string, p model.Product) (*model.Product, error) {
	if p.Slug == "" || p.Title == "" {
		return nil, fmt.Errorf("%w: slug and title are required", ErrValidation)
	}
	if p.UnitPriceMinor <= 0 {
		return nil, fmt.Errorf("%w: price must be positive", ErrValidation)
	}
	p.ProductID = uuid.NewString()
	p.SellerID = sellerID
	if p.Currency == "" {
		p.Currency = "usd"
	}
	if err := s.Repo.Insert(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *CatalogService) BySlug(ctx context.Context, slug string) (*model.Product, error) {
	return s.Repo.GetBySlug(ctx, slug)
}

func (s *CatalogService) ListBySeller(ctx context.Context, sellerID string) ([]model.Product, error) {
	return s.Repo.ListBySeller(ctx, sellerID)
}
