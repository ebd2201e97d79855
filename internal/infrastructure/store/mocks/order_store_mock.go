package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/example/marketplace/internal/domain/order"
)

// MockOrderStore is an in-memory implementation of order.Store for testing
type MockOrderStore struct {
	mu     sync.RWMutex
	orders map[string]*order.Order

	// For tracking calls in tests
	InsertCalls     []*order.Order
	TransitionCalls []TransitionCall
	InsertErr       error
	TransitionErr   error

	// InsertErrOnCall scopes InsertErr to the nth insert (1-based).
	// Zero fails every insert while InsertErr is set.
	InsertErrOnCall int
}

// TransitionCall records parameters passed to TransitionStatus
type TransitionCall struct {
	OrderID  string
	SellerID string
	From     order.Status
	To       order.Status
	Ship     *order.ShippingInfo
}

func NewMockOrderStore() *MockOrderStore {
	return &MockOrderStore{
		orders:          make(map[string]*order.Order),
		InsertCalls:     make([]*order.Order, 0),
		TransitionCalls: make([]TransitionCall, 0),
	}
}

func (m *MockOrderStore) Insert(ctx context.Context, o *order.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *o
	m.InsertCalls = append(m.InsertCalls, &cp)

	if m.InsertErr != nil && (m.InsertErrOnCall == 0 || len(m.InsertCalls) == m.InsertErrOnCall) {
		return m.InsertErr
	}
	m.orders[o.ID] = &cp
	return nil
}

func (m *MockOrderStore) Get(ctx context.Context, id string) (*order.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *MockOrderStore) ListByBuyer(ctx context.Context, buyerID string) ([]*order.Order, error) {
	return m.list(func(o *order.Order) bool { return o.BuyerID == buyerID })
}

func (m *MockOrderStore) ListBySeller(ctx context.Context, sellerID string) ([]*order.Order, error) {
	return m.list(func(o *order.Order) bool { return o.SellerID == sellerID })
}

func (m *MockOrderStore) list(match func(*order.Order) bool) ([]*order.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*order.Order, 0)
	for _, o := range m.orders {
		if match(o) {
			cp := *o
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// TransitionStatus mirrors the conditional update of the real store:
// the write only lands when id, seller and current status all match.
func (m *MockOrderStore) TransitionStatus(ctx context.Context, orderID, sellerID string, from, to order.Status, ship *order.ShippingInfo, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TransitionCalls = append(m.TransitionCalls, TransitionCall{
		OrderID: orderID, SellerID: sellerID, From: from, To: to, Ship: ship,
	})

	if m.TransitionErr != nil {
		return m.TransitionErr
	}

	o, ok := m.orders[orderID]
	if !ok || o.SellerID != sellerID || o.Status != from {
		return order.ErrOrderNotFound
	}
	o.Status = to
	o.UpdatedAt = at
	if ship != nil {
		o.CourierName = ship.CourierName
		o.TrackingNumber = ship.TrackingNumber
		o.EstimatedDelivery = ship.EstimatedDelivery
	}
	return nil
}

func (m *MockOrderStore) StatsBySeller(ctx context.Context, sellerID string) (*order.SellerStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := &order.SellerStats{}
	for _, o := range m.orders {
		if o.SellerID != sellerID {
			continue
		}
		stats.TotalOrders++
		switch o.Status {
		case order.StatusPending:
			stats.Pending++
		case order.StatusAccepted:
			stats.Accepted++
		case order.StatusRejected:
			stats.Rejected++
		case order.StatusShipped:
			stats.Shipped++
		case order.StatusDelivered:
			stats.Delivered++
			stats.Revenue += o.Total
		}
	}
	return stats, nil
}

// Seed inserts an order directly for testing
func (m *MockOrderStore) Seed(o *order.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *o
	m.orders[o.ID] = &cp
}

// Status returns the stored status for assertions
func (m *MockOrderStore) Status(id string) order.Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if o, ok := m.orders[id]; ok {
		return o.Status
	}
	return ""
}
