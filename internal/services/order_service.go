package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/aqibjamil02172004-beep/marketplace/internal/model"
	"github.com/aqibjamil02172004-beep/marketplace/internal/repository"
)

// OrderView is an order with its items.
type OrderView struct {
	Order model.Order       `json:"order"`
	Items []model.OrderItem `json:"items"`
}

// AwaitResult is the outcome of a reconciliation read. Processing means the
// webhook has not materialized the order within the retry window; the caller
// should point the buyer at their order history, not show an error.
type AwaitResult struct {
	Order      *OrderView `json:"order,omitempty"`
	Processing bool       `json:"processing"`
}

// OrderService reads materialized orders on behalf of buyers and sellers.
// Every read is guarded per view: issuing a new load for the same session,
// buyer or seller supersedes an in-flight one, and the superseded load
// returns ErrSuperseded instead of committing a stale result.
type OrderService struct {
	Orders OrderStore

	// Await polling policy. The webhook has no delivery-time guarantee, so
	// the post-redirect read retries a handful of times before degrading.
	Attempts int
	Delay    time.Duration

	mu     sync.Mutex
	guards map[string]*LoadGuard
}

func NewOrderService(orders OrderStore) *OrderService {
	return &OrderService{
		Orders:   orders,
		Attempts: 6,
		Delay:    1200 * time.Millisecond,
		guards:   map[string]*LoadGuard{},
	}
}

func (s *OrderService) guardFor(key string) *LoadGuard {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.guards[key]
	if !ok {
		g = &LoadGuard{}
		s.guards[key] = g
	}
	return g
}

// AwaitOrder polls for the order the webhook should create for sessionID.
// Absence and transient store failures are retried; after the window closes
// the result degrades to Processing. Returns only the context's error or
// ErrSuperseded, so navigating away or re-issuing the read cancels cleanly.
func (s *OrderService) AwaitOrder(ctx context.Context, sessionID string) (*AwaitResult, error) {
	guard := s.guardFor("session:" + sessionID)
	gen := guard.Begin()

	for attempt := 0; attempt < s.Attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(s.Delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		order, err := s.Orders.GetOrderBySessionID(ctx, sessionID)
		if err != nil {
			if !errors.Is(err, repository.ErrOrderNotFound) {
				log.Printf("orders: await %s attempt %d: %v", sessionID, attempt+1, err)
			}
			continue
		}

		items, err := s.Orders.GetOrderItems(ctx, order.OrderID)
		if err != nil {
			// The shell is enough to confirm the order exists.
			log.Printf("orders: items for %s: %v", order.OrderID, err)
		}

		result := &AwaitResult{Order: &OrderView{Order: *order, Items: items}}
		if !guard.Commit(gen, func() {}) {
			return nil, ErrSuperseded
		}
		return result, nil
	}

	if !guard.Commit(gen, func() {}) {
		return nil, ErrSuperseded
	}
	return &AwaitResult{Processing: true}, nil
}

// ListOrdersForUser returns a buyer's order history with items attached.
// The joined read comes first; when it is empty the decomposed path settles
// whether that was true absence or a policy artifact.
func (s *OrderService) ListOrdersForUser(ctx context.Context, userID string) ([]OrderView, error) {
	guard := s.guardFor("user:" + userID)
	gen := guard.Begin()

	orders, items, err := s.Orders.ListUserOrdersJoined(ctx, userID)
	if err != nil {
		return nil, err
	}

	var views []OrderView
	if len(orders) > 0 {
		views = groupViews(orders, items)
	} else {
		views, err = s.stitchUserOrders(ctx, userID)
		if err != nil {
			return nil, err
		}
	}

	if !guard.Commit(gen, func() {}) {
		return nil, ErrSuperseded
	}
	return views, nil
}

// stitchUserOrders is the decomposed buyer read: orders, then items per order.
func (s *OrderService) stitchUserOrders(ctx context.Context, userID string) ([]OrderView, error) {
	orders, err := s.Orders.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		items, err := s.Orders.GetOrderItems(ctx, o.OrderID)
		if err != nil {
			log.Printf("orders: items for %s: %v", o.OrderID, err)
		}
		views = append(views, OrderView{Order: o, Items: items})
	}
	return views, nil
}

func groupViews(orders []model.Order, items []model.OrderItem) []OrderView {
	byOrder := make(map[string][]model.OrderItem, len(orders))
	for _, it := range items {
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}
	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, OrderView{Order: o, Items: byOrder[o.OrderID]})
	}
	return views
}

// ListItemsForSeller returns the seller's sold items. The joined read comes
// first; an empty join cannot be trusted, because a row-level policy on
// orders empties the inner join even though item rows exist. The decomposed
// stitch read settles which it was.
func (s *OrderService) ListItemsForSeller(ctx context.Context, sellerID string) ([]model.SaleItem, error) {
	guard := s.guardFor("seller:" + sellerID)
	gen := guard.Begin()

	sales, err := s.Orders.ListSellerSalesJoined(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if len(sales) == 0 {
		sales, err = s.stitchSellerSales(ctx, sellerID)
		if err != nil {
			return nil, err
		}
	}

	if !guard.Commit(gen, func() {}) {
		return nil, ErrSuperseded
	}
	return sales, nil
}

// stitchSellerSales issues the two decomposed queries (items, then parent
// orders by id) and merges them in memory. Parents hidden by the row policy
// leave OrderCreatedAt nil rather than dropping the sale.
func (s *OrderService) stitchSellerSales(ctx context.Context, sellerID string) ([]model.SaleItem, error) {
	items, err := s.Orders.ListItemsBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		// True absence, not an access artifact.
		return []model.SaleItem{}, nil
	}

	ids := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if !seen[it.OrderID] {
			seen[it.OrderID] = true
			ids = append(ids, it.OrderID)
		}
	}

	orders, err := s.Orders.GetOrdersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.Order, len(orders))
	for _, o := range orders {
		byID[o.OrderID] = o
	}

	sales := make([]model.SaleItem, 0, len(items))
	for _, it := range items {
		sale := model.SaleItem{OrderItem: it}
		if o, ok := byID[it.OrderID]; ok {
			sale.OrderCreatedAt = o.CreatedAt
		}
		sales = append(sales, sale)
	}
	return sales, nil
}
