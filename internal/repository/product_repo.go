package repository

import (
	"context"
	"errors"

	"github.com/aqibjamil02172004-beep/marketplace/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductRepository struct {
	DB *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{DB: db}
}

func (r *ProductRepository) Insert(ctx context.Context, p *model.Product) error {
	q := `
		INSERT INTO products (product_id, seller_id, slug, title, unit_price_minor, currency, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`
	_, err := r.DB.Exec(ctx, q,
		p.ProductID, p.SellerID, p.Slug, p.Title,
		p.UnitPriceMinor, p.Currency, nullable(p.ImageURL),
	)
	return err
}

// GetBySlug resolves a catalog entry by its public slug.
func (r *ProductRepository) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	q := `
		SELECT product_id, seller_id, slug, title, unit_price_minor, currency, image_url, created_at
		FROM products WHERE slug=$1
	`
	var p model.Product
	var image *string
	err := r.DB.QueryRow(ctx, q, slug).Scan(
		&p.ProductID, &p.SellerID, &p.Slug, &p.Title,
		&p.UnitPriceMinor, &p.Currency, &image, &p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	if image != nil {
		p.ImageURL = *image
	}
	return &p, nil
}

// ListBySeller returns a seller's catalog, newest first.
func (r *ProductRepository) ListBySeller(ctx context.Context, sellerID string) ([]model.Product, error) {
	q := `
		SELECT product_id, seller_id, slug, title, unit_price_minor, currency, image_url, created_at
		FROM products WHERE seller_id=$1 ORDER BY created_at DESC
	`
	rows, err := r.DB.Query(ctx, q, sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Product
	for rows.Next() {
		var p model.Product
		var image *string
		if err := rows.Scan(&p.ProductID, &p.SellerID, &p.Slug, &p.Title,
			&p.UnitPriceMinor, &p.Currency, &image, &p.CreatedAt); err != nil {
			return nil, err
		}
		if image != nil {
			p.ImageURL = *image
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
