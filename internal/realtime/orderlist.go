package realtime

import (
	"context"
	"sync"

	"github.com/example/marketplace/internal/domain/order"
	"github.com/example/marketplace/internal/infrastructure/store"
)

// Fetcher loads the full order row when an update arrives for an order
// the list has never seen. The order store satisfies this.
type Fetcher interface {
	Get(ctx context.Context, id string) (*order.Order, error)
}

// OrderList is a live mirror of one user's orders, kept current by
// applying feed updates. New orders are prepended (newest first);
// updates merge into the existing entry by id. Applying the same update
// twice leaves the list unchanged.
type OrderList struct {
	mu      sync.RWMutex
	filter  Filter
	fetcher Fetcher
	orders  []*order.Order
}

// NewOrderList seeds the mirror with an initial snapshot, newest first.
func NewOrderList(filter Filter, fetcher Fetcher, initial []*order.Order) *OrderList {
	orders := make([]*order.Order, 0, len(initial))
	for _, o := range initial {
		if filter.Matches(o) {
			orders = append(orders, o)
		}
	}
	return &OrderList{filter: filter, fetcher: fetcher, orders: orders}
}

// Apply folds one update into the list.
//
// An update for a known id merges field-by-field, keeping the existing
// Items; feed rows can carry a partial item view and must never shrink
// what the list already holds. An insert, or an update for an unknown
// id, fetches the full row and prepends it.
func (l *OrderList) Apply(ctx context.Context, u Update) error {
	if !l.filter.Matches(u.Order) {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if i := l.find(u.Order.ID); i >= 0 {
		if u.Op == store.OpInsert {
			// Duplicate insert, already known.
			return nil
		}
		l.merge(l.orders[i], u.Order)
		return nil
	}

	o := u.Order
	if u.Op == store.OpUpdate && l.fetcher != nil {
		full, err := l.fetcher.Get(ctx, u.Order.ID)
		if err != nil {
			return err
		}
		o = full
	}
	l.orders = append([]*order.Order{o}, l.orders...)
	return nil
}

func (l *OrderList) find(id string) int {
	for i := range l.orders {
		if l.orders[i].ID == id {
			return i
		}
	}
	return -1
}

func (l *OrderList) merge(dst, src *order.Order) {
	dst.Status = src.Status
	dst.Total = src.Total
	dst.ShippingAddress = src.ShippingAddress
	dst.PaymentMethod = src.PaymentMethod
	dst.CourierName = src.CourierName
	dst.TrackingNumber = src.TrackingNumber
	dst.EstimatedDelivery = src.EstimatedDelivery
	dst.UpdatedAt = src.UpdatedAt
	if len(src.Items) > 0 {
		dst.Items = src.Items
	}
}

// Refresh replaces the list with a fresh snapshot. The bridge does not
// replay missed updates; a client that lost its connection refetches
// and calls this.
func (l *OrderList) Refresh(snapshot []*order.Order) {
	l.mu.Lock()
	defer l.mu.Unlock()
	orders := make([]*order.Order, 0, len(snapshot))
	for _, o := range snapshot {
		if l.filter.Matches(o) {
			orders = append(orders, o)
		}
	}
	l.orders = orders
}

// Orders returns a copy of the current list, newest first.
func (l *OrderList) Orders() []*order.Order {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*order.Order, len(l.orders))
	copy(out, l.orders)
	return out
}

// Len reports the number of mirrored orders.
func (l *OrderList) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.orders)
}
