package services

import (
	"context"

	"github.com/aqibjamil02172004-beep/marketplace/internal/model"
)

// OrderStore is the durable-store surface the pipeline writes and reads.
// Implemented by repository.OrderRepository; tests substitute an in-memory
// double. The write discipline is insert once, append child rows, never
// mutate the parent order.
type OrderStore interface {
	InsertOrder(ctx context.Context, o *model.Order) error
	InsertOrderItem(ctx context.Context, it *model.OrderItem) error

	GetOrderBySessionID(ctx context.Context, sessionID string) (*model.Order, error)
	GetOrderItems(ctx context.Context, orderID string) ([]model.OrderItem, error)

	ListOrdersByUser(ctx context.Context, userID string) ([]model.Order, error)
	ListUserOrdersJoined(ctx context.Context, userID string) ([]model.Order, []model.OrderItem, error)
	ListSellerSalesJoined(ctx context.Context, sellerID string) ([]model.SaleItem, error)
	ListItemsBySeller(ctx context.Context, sellerID string) ([]model.OrderItem, error)
	GetOrdersByIDs(ctx context.Context, ids []string) ([]model.Order, error)
}
