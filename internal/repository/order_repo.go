package repository

import (
	"context"
	"errors"

	"github.com/aqibjamil02172004-beep/marketplace/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	DB *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{DB: db}
}

const uniqueViolation = "23505"

// InsertOrder writes the order shell. The unique constraint on
// external_session_id turns a redelivered or racing insert into
// ErrDuplicateSession instead of a second row.
func (r *OrderRepository) InsertOrder(ctx context.Context, o *model.Order) error {
	q := `
		INSERT INTO orders
			(order_id, external_session_id, external_payment_ref, user_id,
			 amount_minor, currency, first_name, last_name, phone,
			 address_line1, address_line2, address_city, address_state,
			 address_postal_code, address_country, created_at)
		VALUES
			($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW())
	`
	_, err := r.DB.Exec(ctx, q,
		o.OrderID, o.ExternalSessionID, o.ExternalPaymentRef, o.UserID,
		o.AmountMinor, o.Currency, o.FirstName, o.LastName, o.Phone,
		o.Address.Line1, nullable(o.Address.Line2), o.Address.City,
		nullable(o.Address.State), o.Address.PostalCode, o.Address.Country,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateSession
		}
		return err
	}
	return nil
}

// InsertOrderItem appends one item row to an existing order.
func (r *OrderRepository) InsertOrderItem(ctx context.Context, it *model.OrderItem) error {
	q := `
		INSERT INTO order_items
			(order_id, seller_id, title, product_slug, image_url, quantity, unit_price_minor)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING order_item_id
	`
	return r.DB.QueryRow(ctx, q,
		it.OrderID, it.SellerID, it.Title, it.ProductSlug,
		nullable(it.ImageURL), it.Quantity, it.UnitPriceMinor,
	).Scan(&it.OrderItemID)
}

const orderColumns = `
	order_id, external_session_id, external_payment_ref, user_id,
	amount_minor, currency, first_name, last_name, phone,
	address_line1, address_line2, address_city, address_state,
	address_postal_code, address_country, created_at`

// GetOrderBySessionID looks an order up by its external checkout session id.
func (r *OrderRepository) GetOrderBySessionID(ctx context.Context, sessionID string) (*model.Order, error) {
	row := r.DB.QueryRow(ctx, `SELECT`+orderColumns+` FROM orders WHERE external_session_id=$1`, sessionID)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	return o, err
}

// GetOrderItems returns the items of one order.
func (r *OrderRepository) GetOrderItems(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	q := `
		SELECT order_item_id, order_id, seller_id, title, product_slug, image_url, quantity, unit_price_minor
		FROM order_items WHERE order_id=$1 ORDER BY order_item_id
	`
	rows, err := r.DB.Query(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.OrderItem
	for rows.Next() {
		var it model.OrderItem
		var image *string
		if err := rows.Scan(&it.OrderItemID, &it.OrderID, &it.SellerID, &it.Title,
			&it.ProductSlug, &image, &it.Quantity, &it.UnitPriceMinor); err != nil {
			return nil, err
		}
		if image != nil {
			it.ImageURL = *image
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// ListOrdersByUser returns a buyer's orders, newest first.
func (r *OrderRepository) ListOrdersByUser(ctx context.Context, userID string) ([]model.Order, error) {
	rows, err := r.DB.Query(ctx, `SELECT`+orderColumns+` FROM orders WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

// ListUserOrdersJoined is the primary buyer view: orders left-joined with
// their items in one query. Orders come back deduplicated in scan order,
// items with their parent ids; an itemless order yields no item rows.
func (r *OrderRepository) ListUserOrdersJoined(ctx context.Context, userID string) ([]model.Order, []model.OrderItem, error) {
	q := `
		SELECT o.order_id, o.external_session_id, o.external_payment_ref, o.user_id,
		       o.amount_minor, o.currency, o.first_name, o.last_name, o.phone,
		       o.address_line1, o.address_line2, o.address_city, o.address_state,
		       o.address_postal_code, o.address_country, o.created_at,
		       oi.order_item_id, oi.seller_id, oi.title, oi.product_slug,
		       oi.image_url, oi.quantity, oi.unit_price_minor
		FROM orders o
		LEFT JOIN order_items oi ON oi.order_id = o.order_id
		WHERE o.user_id=$1
		ORDER BY o.created_at DESC, oi.order_item_id
	`
	rows, err := r.DB.Query(ctx, q, userID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var orders []model.Order
	var items []model.OrderItem
	seen := map[string]bool{}
	for rows.Next() {
		var o model.Order
		var line2, state *string
		var itemID *int64
		var sellerID, title, slug, image *string
		var qty *int
		var price *int64
		if err := rows.Scan(
			&o.OrderID, &o.ExternalSessionID, &o.ExternalPaymentRef, &o.UserID,
			&o.AmountMinor, &o.Currency, &o.FirstName, &o.LastName, &o.Phone,
			&o.Address.Line1, &line2, &o.Address.City, &state,
			&o.Address.PostalCode, &o.Address.Country, &o.CreatedAt,
			&itemID, &sellerID, &title, &slug, &image, &qty, &price,
		); err != nil {
			return nil, nil, err
		}
		if line2 != nil {
			o.Address.Line2 = *line2
		}
		if state != nil {
			o.Address.State = *state
		}
		if !seen[o.OrderID] {
			seen[o.OrderID] = true
			orders = append(orders, o)
		}
		if itemID != nil {
			it := model.OrderItem{
				OrderItemID:    *itemID,
				OrderID:        o.OrderID,
				SellerID:       sellerID,
				Quantity:       *qty,
				UnitPriceMinor: *price,
			}
			if title != nil {
				it.Title = *title
			}
			if slug != nil {
				it.ProductSlug = *slug
			}
			if image != nil {
				it.ImageURL = *image
			}
			items = append(items, it)
		}
	}
	return orders, items, rows.Err()
}

// ListSellerSalesJoined is the primary seller view: items inner-joined with
// their orders. Row-level policy on orders can silently empty this join even
// when item rows exist; callers fall back to the stitched reads below.
func (r *OrderRepository) ListSellerSalesJoined(ctx context.Context, sellerID string) ([]model.SaleItem, error) {
	q := `
		SELECT oi.order_item_id, oi.order_id, oi.seller_id, oi.title, oi.product_slug,
		       oi.image_url, oi.quantity, oi.unit_price_minor, o.created_at
		FROM order_items oi
		JOIN orders o ON o.order_id = oi.order_id
		WHERE oi.seller_id=$1
		ORDER BY o.created_at DESC, oi.order_item_id
	`
	rows, err := r.DB.Query(ctx, q, sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SaleItem
	for rows.Next() {
		var s model.SaleItem
		var image *string
		if err := rows.Scan(&s.OrderItemID, &s.OrderID, &s.SellerID, &s.Title,
			&s.ProductSlug, &image, &s.Quantity, &s.UnitPriceMinor, &s.OrderCreatedAt); err != nil {
			return nil, err
		}
		if image != nil {
			s.ImageURL = *image
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListItemsBySeller reads item rows alone, without touching orders.
func (r *OrderRepository) ListItemsBySeller(ctx context.Context, sellerID string) ([]model.OrderItem, error) {
	q := `
		SELECT order_item_id, order_id, seller_id, title, product_slug, image_url, quantity, unit_price_minor
		FROM order_items WHERE seller_id=$1 ORDER BY order_item_id DESC
	`
	rows, err := r.DB.Query(ctx, q, sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.OrderItem
	for rows.Next() {
		var it model.OrderItem
		var image *string
		if err := rows.Scan(&it.OrderItemID, &it.OrderID, &it.SellerID, &it.Title,
			&it.ProductSlug, &image, &it.Quantity, &it.UnitPriceMinor); err != nil {
			return nil, err
		}
		if image != nil {
			it.ImageURL = *image
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// GetOrdersByIDs fetches the given orders. Under a restrictive row policy the
// result may contain fewer orders than ids; that is not an error.
func (r *OrderRepository) GetOrdersByIDs(ctx context.Context, ids []string) ([]model.Order, error) {
	rows, err := r.DB.Query(ctx, `SELECT`+orderColumns+` FROM orders WHERE order_id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	var line2, state *string
	err := row.Scan(
		&o.OrderID, &o.ExternalSessionID, &o.ExternalPaymentRef, &o.UserID,
		&o.AmountMinor, &o.Currency, &o.FirstName, &o.LastName, &o.Phone,
		&o.Address.Line1, &line2, &o.Address.City, &state,
		&o.Address.PostalCode, &o.Address.Country, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if line2 != nil {
		o.Address.Line2 = *line2
	}
	if state != nil {
		o.Address.State = *state
	}
	return &o, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
