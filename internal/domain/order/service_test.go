package order_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/marketplace/internal/domain/inventory"
	"github.com/example/marketplace/internal/domain/notification"
	"github.com/example/marketplace/internal/domain/order"
	"github.com/example/marketplace/internal/domain/product"
	"github.com/example/marketplace/internal/infrastructure/store/mocks"
)

type fixture struct {
	svc           *order.Service
	orders        *mocks.MockOrderStore
	products      *mocks.MockProductStore
	ledger        *mocks.MockLedgerStore
	notifications *mocks.MockNotificationStore
}

func newFixture() *fixture {
	orders := mocks.NewMockOrderStore()
	products := mocks.NewMockProductStore()
	ledger := mocks.NewMockLedgerStore()
	notifications := mocks.NewMockNotificationStore()

	svc := order.NewService(
		orders,
		products,
		inventory.NewService(ledger),
		notification.NewService(notifications),
	)
	return &fixture{svc: svc, orders: orders, products: products, ledger: ledger, notifications: notifications}
}

func (f *fixture) seedProduct(id string, stock int) {
	f.products.Seed(&product.Product{ID: id, SellerID: "seller-1", Title: "Product " + id, Price: 1000, Stock: stock})
}

func (f *fixture) seedOrder(id string, status order.Status, items ...order.OrderItem) {
	if len(items) == 0 {
		items = []order.OrderItem{{ProductID: "p1", Title: "Product p1", Price: 1000, Quantity: 2}}
	}
	o := &order.Order{
		ID:       id,
		BuyerID:  "buyer-1",
		SellerID: "seller-1",
		Items:    items,
		Status:   status,
	}
	o.Total = o.ItemsTotal()
	f.orders.Seed(o)
}

// ============================================
// Accept Tests
// ============================================

func TestService_Accept_DeductsStockAndRecordsLedger(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.seedProduct("p1", 10)
	f.seedOrder("o1", order.StatusPending)

	o, err := f.svc.Accept(ctx, "o1", "seller-1")

	require.NoError(t, err)
	assert.Equal(t, order.StatusAccepted, o.Status)
	assert.Equal(t, order.StatusAccepted, f.orders.Status("o1"))
	assert.Equal(t, 8, f.products.Stock("p1"))

	entries := f.ledger.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, inventory.ChangeOrder, entries[0].ChangeType)
	assert.Equal(t, 2, entries[0].QuantityChanged)
	assert.Equal(t, 10, entries[0].PreviousStock)
	assert.Equal(t, 8, entries[0].NewStock)
	assert.Equal(t, "o1", entries[0].OrderID)

	notes := f.notifications.All()
	require.Len(t, notes, 1)
	assert.Equal(t, "buyer-1", notes[0].UserID)
	assert.Equal(t, notification.TypeOrderAccepted, notes[0].Type)
	assert.Contains(t, notes[0].Message, "$20.00")
}

func TestService_Accept_MultiItem(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.seedProduct("p1", 5)
	f.seedProduct("p2", 5)
	f.seedOrder("o1", order.StatusPending,
		order.OrderItem{ProductID: "p1", Price: 1000, Quantity: 2},
		order.OrderItem{ProductID: "p2", Price: 500, Quantity: 4},
	)

	_, err := f.svc.Accept(ctx, "o1", "seller-1")

	require.NoError(t, err)
	assert.Equal(t, 3, f.products.Stock("p1"))
	assert.Equal(t, 1, f.products.Stock("p2"))
	assert.Len(t, f.ledger.Entries(), 2)
}

func TestService_Accept_InsufficientStockCompensates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.seedProduct("p1", 5)
	f.seedProduct("p2", 1) // cannot cover quantity 4
	f.seedOrder("o1", order.StatusPending,
		order.OrderItem{ProductID: "p1", Price: 1000, Quantity: 2},
		order.OrderItem{ProductID: "p2", Price: 500, Quantity: 4},
	)

	_, err := f.svc.Accept(ctx, "o1", "seller-1")

	require.Error(t, err)
	assert.ErrorIs(t, err, order.ErrInsufficientStock)

	// Order untouched, first deduction restored.
	assert.Equal(t, order.StatusPending, f.orders.Status("o1"))
	assert.Equal(t, 5, f.products.Stock("p1"))
	assert.Equal(t, 1, f.products.Stock("p2"))

	// Only the compensating return entry; no order entries were written.
	entries := f.ledger.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, inventory.ChangeReturn, entries[0].ChangeType)
	assert.Equal(t, "p1", entries[0].ProductID)
	assert.Equal(t, 2, entries[0].QuantityChanged)

	// No notification for a failed acceptance.
	assert.Empty(t, f.notifications.All())
}

func TestService_Accept_LostRaceCompensates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.seedProduct("p1", 10)
	f.seedOrder("o1", order.StatusPending)

	// A concurrent transition wins between the stock deduction and the
	// conditional status update.
	f.orders.TransitionErr = order.ErrOrderNotFound

	_, err := f.svc.Accept(ctx, "o1", "seller-1")

	require.Error(t, err)
	assert.Equal(t, 10, f.products.Stock("p1"))

	entries := f.ledger.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, inventory.ChangeReturn, entries[0].ChangeType)
	assert.Equal(t, "acceptance lost update race", entries[0].Reason)
}

func TestService_Accept_WrongSeller(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", 10)
	f.seedOrder("o1", order.StatusPending)

	_, err := f.svc.Accept(context.Background(), "o1", "other-seller")

	assert.ErrorIs(t, err, order.ErrOrderNotFound)
	assert.Equal(t, 10, f.products.Stock("p1"))
	assert.Empty(t, f.products.AdjustStockCalls)
}

func TestService_Accept_NotPending(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", 10)
	f.seedOrder("o1", order.StatusAccepted)

	_, err := f.svc.Accept(context.Background(), "o1", "seller-1")

	assert.ErrorIs(t, err, order.ErrOrderNotPending)
	assert.Empty(t, f.products.AdjustStockCalls)
}

// ============================================
// Reject Tests
// ============================================

func TestService_Reject_LeavesStockAlone(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.seedProduct("p1", 10)
	f.seedOrder("o1", order.StatusPending)

	o, err := f.svc.Reject(ctx, "o1", "seller-1")

	require.NoError(t, err)
	assert.Equal(t, order.StatusRejected, o.Status)
	assert.Equal(t, order.StatusRejected, f.orders.Status("o1"))
	assert.Equal(t, 10, f.products.Stock("p1"))
	assert.Empty(t, f.products.AdjustStockCalls)
	assert.Empty(t, f.ledger.Entries())

	notes := f.notifications.All()
	require.Len(t, notes, 1)
	assert.Equal(t, notification.TypeOrderRejected, notes[0].Type)
}

func TestService_Reject_TerminalOrder(t *testing.T) {
	f := newFixture()
	f.seedOrder("o1", order.StatusDelivered)

	_, err := f.svc.Reject(context.Background(), "o1", "seller-1")

	assert.ErrorIs(t, err, order.ErrOrderClosed)
}

// ============================================
// Ship / Deliver Tests
// ============================================

func TestService_MarkShipped(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.seedOrder("o1", order.StatusAccepted)

	o, err := f.svc.MarkShipped(ctx, "o1", "seller-1", order.ShippingInfo{
		CourierName:    "FastShip",
		TrackingNumber: "TRACK-123",
	})

	require.NoError(t, err)
	assert.Equal(t, order.StatusShipped, o.Status)
	assert.Equal(t, "FastShip", o.CourierName)
	assert.Equal(t, "TRACK-123", o.TrackingNumber)

	require.Len(t, f.orders.TransitionCalls, 1)
	require.NotNil(t, f.orders.TransitionCalls[0].Ship)
	assert.Equal(t, "FastShip", f.orders.TransitionCalls[0].Ship.CourierName)

	notes := f.notifications.All()
	require.Len(t, notes, 1)
	assert.Equal(t, notification.TypeOrderShipped, notes[0].Type)
	assert.Contains(t, notes[0].Message, "TRACK-123")
}

func TestService_MarkShipped_RequiresCourierDetails(t *testing.T) {
	f := newFixture()
	f.seedOrder("o1", order.StatusAccepted)

	_, err := f.svc.MarkShipped(context.Background(), "o1", "seller-1", order.ShippingInfo{})

	require.Error(t, err)
	assert.Equal(t, order.StatusAccepted, f.orders.Status("o1"))
}

func TestService_MarkShipped_FromPending(t *testing.T) {
	f := newFixture()
	f.seedOrder("o1", order.StatusPending)

	_, err := f.svc.MarkShipped(context.Background(), "o1", "seller-1", order.ShippingInfo{
		CourierName:    "FastShip",
		TrackingNumber: "TRACK-123",
	})

	assert.ErrorIs(t, err, order.ErrOrderNotAccepted)
}

func TestService_MarkDelivered(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.seedOrder("o1", order.StatusShipped)

	o, err := f.svc.MarkDelivered(ctx, "o1", "seller-1")

	require.NoError(t, err)
	assert.Equal(t, order.StatusDelivered, o.Status)
	assert.Equal(t, order.StatusDelivered, f.orders.Status("o1"))

	notes := f.notifications.All()
	require.Len(t, notes, 1)
	assert.Equal(t, notification.TypeOrderDelivered, notes[0].Type)
}

func TestService_MarkDelivered_FromAccepted(t *testing.T) {
	f := newFixture()
	f.seedOrder("o1", order.StatusAccepted)

	_, err := f.svc.MarkDelivered(context.Background(), "o1", "seller-1")

	assert.ErrorIs(t, err, order.ErrOrderNotShipped)
}

// ============================================
// Stats Tests
// ============================================

func TestService_StatsForSeller(t *testing.T) {
	f := newFixture()
	f.seedOrder("o1", order.StatusPending)
	f.seedOrder("o2", order.StatusDelivered)
	f.seedOrder("o3", order.StatusDelivered)
	f.seedOrder("o4", order.StatusRejected)

	stats, err := f.svc.StatsForSeller(context.Background(), "seller-1")

	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalOrders)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 2, stats.Delivered)
	assert.Equal(t, 1, stats.Rejected)
	// Revenue counts delivered orders only: 2 * $20.00
	assert.Equal(t, 4000, stats.Revenue)
}
