package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aqibjamil02172004-beep/marketplace/internal/model"
	"github.com/aqibjamil02172004-beep/marketplace/internal/repository"
)

var errInsertFailed = errors.New("insert failed")

// mockProvider implements CheckoutProvider and records what it was asked.
type mockProvider struct {
	created   []CreateSessionParams
	session   *Session
	createErr error

	lines    []SessionLine
	linesErr error

	event     *PaymentEvent
	verifyErr error
}

func (m *mockProvider) CreateSession(_ context.Context, params CreateSessionParams) (*Session, error) {
	m.created = append(m.created, params)
	if m.createErr != nil {
		return nil, m.createErr
	}
	if m.session != nil {
		return m.session, nil
	}
	return &Session{ID: "sess_1", RedirectURL: "https://pay.example.com/sess_1"}, nil
}

func (m *mockProvider) SessionLines(context.Context, string) ([]SessionLine, error) {
	return m.lines, m.linesErr
}

func (m *mockProvider) VerifyEvent([]byte, string) (*PaymentEvent, error) {
	if m.verifyErr != nil {
		return nil, m.verifyErr
	}
	return m.event, nil
}

// mockCatalog implements CatalogReader from a slug → seller map.
type mockCatalog struct {
	bySlug map[string]string
}

func (m *mockCatalog) GetBySlug(_ context.Context, slug string) (*model.Product, error) {
	sellerID, ok := m.bySlug[slug]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return &model.Product{ProductID: "prod-" + slug, SellerID: sellerID, Slug: slug}, nil
}

// memStore is an in-memory OrderStore honouring the same contracts as the
// Postgres repository: duplicate session inserts fail with
// ErrDuplicateSession, missing orders with ErrOrderNotFound.
type memStore struct {
	mu sync.Mutex

	ordersBySession map[string]model.Order
	itemsByOrder    map[string][]model.OrderItem
	nextItemID      int64

	// failItemTitles simulates a malformed line: inserts of items with these
	// titles error out.
	failItemTitles map[string]bool

	// availableAfter hides existing orders from GetOrderBySessionID for the
	// first n-1 calls, simulating a webhook that lands mid-poll.
	availableAfter  int
	getSessionCalls int

	// hideJoined empties the joined reads the way a row-level policy
	// on orders would; hideParents additionally hides them from the
	// stitched parent fetch.
	hideJoined  bool
	hideParents bool

	// One-shot hooks, run before the store lock is taken. Tests use them to
	// hold a load open while a newer one races past it.
	onGetSession     func()
	onListUserJoined func()
}

func (m *memStore) takeHook(h *func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn := *h
	*h = nil
	return fn
}

func newMemStore() *memStore {
	return &memStore{
		ordersBySession: map[string]model.Order{},
		itemsByOrder:    map[string][]model.OrderItem{},
	}
}

func (m *memStore) InsertOrder(_ context.Context, o *model.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.ordersBySession[o.ExternalSessionID]; exists {
		return repository.ErrDuplicateSession
	}
	now := time.Now()
	o.CreatedAt = &now
	m.ordersBySession[o.ExternalSessionID] = *o
	return nil
}

func (m *memStore) InsertOrderItem(_ context.Context, it *model.OrderItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failItemTitles[it.Title] {
		return errInsertFailed
	}
	m.nextItemID++
	it.OrderItemID = m.nextItemID
	m.itemsByOrder[it.OrderID] = append(m.itemsByOrder[it.OrderID], *it)
	return nil
}

func (m *memStore) GetOrderBySessionID(_ context.Context, sessionID string) (*model.Order, error) {
	if fn := m.takeHook(&m.onGetSession); fn != nil {
		fn()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getSessionCalls++
	if m.getSessionCalls < m.availableAfter {
		return nil, repository.ErrOrderNotFound
	}
	o, ok := m.ordersBySession[sessionID]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	return &o, nil
}

func (m *memStore) GetOrderItems(_ context.Context, orderID string) ([]model.OrderItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.OrderItem(nil), m.itemsByOrder[orderID]...), nil
}

func (m *memStore) ListOrdersByUser(_ context.Context, userID string) ([]model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Order
	for _, o := range m.ordersBySession {
		if o.UserID != nil && *o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memStore) ListUserOrdersJoined(_ context.Context, userID string) ([]model.Order, []model.OrderItem, error) {
	if fn := m.takeHook(&m.onListUserJoined); fn != nil {
		fn()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hideJoined {
		return nil, nil, nil
	}
	var orders []model.Order
	var items []model.OrderItem
	for _, o := range m.ordersBySession {
		if o.UserID != nil && *o.UserID == userID {
			orders = append(orders, o)
			items = append(items, m.itemsByOrder[o.OrderID]...)
		}
	}
	return orders, items, nil
}

func (m *memStore) ListSellerSalesJoined(_ context.Context, sellerID string) ([]model.SaleItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hideJoined {
		return nil, nil
	}
	var out []model.SaleItem
	for _, o := range m.ordersBySession {
		for _, it := range m.itemsByOrder[o.OrderID] {
			if it.SellerID != nil && *it.SellerID == sellerID {
				out = append(out, model.SaleItem{OrderItem: it, OrderCreatedAt: o.CreatedAt})
			}
		}
	}
	return out, nil
}

func (m *memStore) ListItemsBySeller(_ context.Context, sellerID string) ([]model.OrderItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.OrderItem
	for _, items := range m.itemsByOrder {
		for _, it := range items {
			if it.SellerID != nil && *it.SellerID == sellerID {
				out = append(out, it)
			}
		}
	}
	return out, nil
}

func (m *memStore) GetOrdersByIDs(_ context.Context, ids []string) ([]model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hideParents {
		return nil, nil
	}
	want := map[string]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []model.Order
	for _, o := range m.ordersBySession {
		if want[o.OrderID] {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memStore) orderCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ordersBySession)
}

// mockCartClearer records cart clears.
type mockCartClearer struct {
	mu      sync.Mutex
	cleared []string
}

func (m *mockCartClearer) Delete(_ context.Context, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleared = append(m.cleared, ownerID)
	return nil
}
