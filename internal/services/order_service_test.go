package services

import (
	"context"
	"testing"
	"time"

	"github.com/aqibjamil02172004-beep/marketplace/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedOrder(t *testing.T, store *memStore, sessionID, userID, sellerID string) *model.Order {
	t.Helper()
	o := &model.Order{
		OrderID:           "order-" + sessionID,
		ExternalSessionID: sessionID,
		AmountMinor:       2000,
		Currency:          "usd",
		FirstName:         "Ada",
	}
	if userID != "" {
		o.UserID = &userID
	}
	require.NoError(t, store.InsertOrder(context.Background(), o))
	item := &model.OrderItem{
		OrderID:        o.OrderID,
		Title:          "Blue Mug",
		ProductSlug:    "blue-mug",
		Quantity:       2,
		UnitPriceMinor: 1000,
	}
	if sellerID != "" {
		item.SellerID = &sellerID
	}
	require.NoError(t, store.InsertOrderItem(context.Background(), item))
	return o
}

func pollingService(store *memStore) *OrderService {
	svc := NewOrderService(store)
	svc.Attempts = 5
	svc.Delay = 5 * time.Millisecond
	return svc
}

func TestAwaitOrder_ImmediatelyVisible(t *testing.T) {
	store := newMemStore()
	seedOrder(t, store, "sess_1", "user-1", "seller-7")
	svc := pollingService(store)

	result, err := svc.AwaitOrder(context.Background(), "sess_1")

	require.NoError(t, err)
	assert.False(t, result.Processing)
	require.NotNil(t, result.Order)
	assert.Equal(t, int64(2000), result.Order.Order.AmountMinor)
	require.Len(t, result.Order.Items, 1)
	assert.Equal(t, 2, result.Order.Items[0].Quantity)
	assert.Equal(t, int64(1000), result.Order.Items[0].UnitPriceMinor)
}

func TestAwaitOrder_VisibleAfterDelay(t *testing.T) {
	store := newMemStore()
	seedOrder(t, store, "sess_1", "user-1", "")
	// Hidden for the first two polls, as if the webhook landed mid-window.
	store.availableAfter = 3
	svc := pollingService(store)

	result, err := svc.AwaitOrder(context.Background(), "sess_1")

	require.NoError(t, err)
	assert.False(t, result.Processing)
	require.NotNil(t, result.Order)
	assert.Equal(t, "sess_1", result.Order.Order.ExternalSessionID)
}

func TestAwaitOrder_ExhaustedReturnsProcessing(t *testing.T) {
	store := newMemStore()
	svc := pollingService(store)

	result, err := svc.AwaitOrder(context.Background(), "sess_missing")

	require.NoError(t, err, "absence is a state, not an error")
	assert.True(t, result.Processing)
	assert.Nil(t, result.Order)
}

func TestAwaitOrder_Cancellable(t *testing.T) {
	store := newMemStore()
	svc := pollingService(store)
	svc.Delay = time.Hour // only cancellation can end the wait

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	result, err := svc.AwaitOrder(ctx, "sess_missing")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result)
}

func TestListOrdersForUser(t *testing.T) {
	store := newMemStore()
	seedOrder(t, store, "sess_1", "user-1", "")
	seedOrder(t, store, "sess_2", "user-2", "")
	svc := pollingService(store)

	views, err := svc.ListOrdersForUser(context.Background(), "user-1")

	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "sess_1", views[0].Order.ExternalSessionID)
	assert.Len(t, views[0].Items, 1)
}

func TestListItemsForSeller_JoinedPath(t *testing.T) {
	store := newMemStore()
	seedOrder(t, store, "sess_1", "user-1", "seller-7")
	svc := pollingService(store)

	sales, err := svc.ListItemsForSeller(context.Background(), "seller-7")

	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.NotNil(t, sales[0].OrderCreatedAt)
}

func TestListItemsForSeller_StitchFallback(t *testing.T) {
	store := newMemStore()
	seedOrder(t, store, "sess_1", "user-1", "seller-7")
	// Row policy empties the join, but parents are reachable by id.
	store.hideJoined = true
	svc := pollingService(store)

	sales, err := svc.ListItemsForSeller(context.Background(), "seller-7")

	require.NoError(t, err)
	require.Len(t, sales, 1, "stitched read recovers the sale")
	assert.Equal(t, "Blue Mug", sales[0].Title)
	assert.NotNil(t, sales[0].OrderCreatedAt, "parent stitched in")
}

func TestListItemsForSeller_StitchWithHiddenParents(t *testing.T) {
	store := newMemStore()
	seedOrder(t, store, "sess_1", "user-1", "seller-7")
	store.hideJoined = true
	store.hideParents = true
	svc := pollingService(store)

	sales, err := svc.ListItemsForSeller(context.Background(), "seller-7")

	require.NoError(t, err, "access restriction is not an error")
	require.Len(t, sales, 1, "sale kept even without its parent")
	assert.Nil(t, sales[0].OrderCreatedAt)
}

func TestListItemsForSeller_TrueAbsence(t *testing.T) {
	store := newMemStore()
	svc := pollingService(store)

	sales, err := svc.ListItemsForSeller(context.Background(), "seller-7")

	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestAwaitOrder_SupersededByNewerLoad(t *testing.T) {
	store := newMemStore()
	seedOrder(t, store, "sess_1", "user-1", "")
	svc := pollingService(store)

	entered := make(chan struct{})
	release := make(chan struct{})
	store.onGetSession = func() {
		close(entered)
		<-release
	}

	type outcome struct {
		result *AwaitResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		r, err := svc.AwaitOrder(context.Background(), "sess_1")
		done <- outcome{r, err}
	}()

	// The first load is held inside the store; a second one for the same
	// session starts and finishes while it waits.
	<-entered
	result, err := svc.AwaitOrder(context.Background(), "sess_1")
	require.NoError(t, err)
	require.NotNil(t, result.Order)

	close(release)
	stale := <-done
	assert.ErrorIs(t, stale.err, ErrSuperseded)
	assert.Nil(t, stale.result)
}

func TestListOrdersForUser_SupersededByNewerLoad(t *testing.T) {
	store := newMemStore()
	seedOrder(t, store, "sess_1", "user-1", "")
	svc := pollingService(store)

	entered := make(chan struct{})
	release := make(chan struct{})
	store.onListUserJoined = func() {
		close(entered)
		<-release
	}

	errCh := make(chan error, 1)
	go func() {
		_, err := svc.ListOrdersForUser(context.Background(), "user-1")
		errCh <- err
	}()

	<-entered
	views, err := svc.ListOrdersForUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, views, 1)

	close(release)
	assert.ErrorIs(t, <-errCh, ErrSuperseded)
}

func TestListOrdersForUser_StitchFallback(t *testing.T) {
	store := newMemStore()
	seedOrder(t, store, "sess_1", "user-1", "")
	// Row policy empties the joined buyer read.
	store.hideJoined = true
	svc := pollingService(store)

	views, err := svc.ListOrdersForUser(context.Background(), "user-1")

	require.NoError(t, err)
	require.Len(t, views, 1, "decomposed read recovers the order")
	assert.Equal(t, "sess_1", views[0].Order.ExternalSessionID)
	assert.Len(t, views[0].Items, 1)
}

func TestLoadGuard_StaleWriteRejected(t *testing.T) {
	var guard LoadGuard
	var current string

	first := guard.Begin()
	second := guard.Begin()

	// The newer load resolves first.
	ok := guard.Commit(second, func() { current = "second" })
	assert.True(t, ok)

	// The older load's response arrives late and must not commit.
	ok = guard.Commit(first, func() { current = "first" })
	assert.False(t, ok)
	assert.Equal(t, "second", current)
}

func TestLoadGuard_LatestCommits(t *testing.T) {
	var guard LoadGuard
	committed := false

	gen := guard.Begin()
	assert.True(t, guard.Commit(gen, func() { committed = true }))
	assert.True(t, committed)
}
