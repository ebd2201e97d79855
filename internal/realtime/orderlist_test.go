package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/marketplace/internal/domain/order"
	"github.com/example/marketplace/internal/infrastructure/store"
)

type fakeFetcher struct {
	orders map[string]*order.Order
	calls  int
}

func (f *fakeFetcher) Get(ctx context.Context, id string) (*order.Order, error) {
	f.calls++
	o, ok := f.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func buyerOrder(id string, status order.Status) *order.Order {
	return &order.Order{
		ID:       id,
		BuyerID:  "buyer-1",
		SellerID: "seller-1",
		Status:   status,
		Items:    []order.OrderItem{{ProductID: "p1", Price: 1000, Quantity: 1}},
		Total:    1000,
	}
}

func TestOrderList_InitialSnapshotFiltered(t *testing.T) {
	other := buyerOrder("o2", order.StatusPending)
	other.BuyerID = "buyer-2"

	l := NewOrderList(Filter{BuyerID: "buyer-1"}, nil, []*order.Order{
		buyerOrder("o1", order.StatusPending),
		other,
	})

	assert.Equal(t, 1, l.Len())
	assert.Equal(t, "o1", l.Orders()[0].ID)
}

func TestOrderList_InsertPrepends(t *testing.T) {
	l := NewOrderList(Filter{BuyerID: "buyer-1"}, nil, []*order.Order{buyerOrder("o1", order.StatusPending)})

	err := l.Apply(context.Background(), Update{Op: store.OpInsert, Order: buyerOrder("o2", order.StatusPending)})

	require.NoError(t, err)
	orders := l.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, "o2", orders[0].ID)
	assert.Equal(t, "o1", orders[1].ID)
}

func TestOrderList_DuplicateInsertIsIdempotent(t *testing.T) {
	l := NewOrderList(Filter{BuyerID: "buyer-1"}, nil, nil)
	ctx := context.Background()

	o := buyerOrder("o1", order.StatusPending)
	require.NoError(t, l.Apply(ctx, Update{Op: store.OpInsert, Order: o}))
	require.NoError(t, l.Apply(ctx, Update{Op: store.OpInsert, Order: o}))

	assert.Equal(t, 1, l.Len())
}

func TestOrderList_UpdateMergesWithoutShrinkingItems(t *testing.T) {
	seeded := buyerOrder("o1", order.StatusPending)
	seeded.Items = []order.OrderItem{
		{ProductID: "p1", Price: 1000, Quantity: 1},
		{ProductID: "p2", Price: 500, Quantity: 2},
	}
	l := NewOrderList(Filter{BuyerID: "buyer-1"}, nil, []*order.Order{seeded})

	// Feed rows may carry no items at all; the merge must keep ours.
	partial := buyerOrder("o1", order.StatusAccepted)
	partial.Items = nil
	partial.UpdatedAt = time.Now()

	require.NoError(t, l.Apply(context.Background(), Update{Op: store.OpUpdate, Order: partial}))

	orders := l.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, order.StatusAccepted, orders[0].Status)
	assert.Len(t, orders[0].Items, 2)
}

func TestOrderList_RepeatedUpdateIsIdempotent(t *testing.T) {
	l := NewOrderList(Filter{BuyerID: "buyer-1"}, nil, []*order.Order{buyerOrder("o1", order.StatusPending)})
	ctx := context.Background()

	updated := buyerOrder("o1", order.StatusAccepted)
	require.NoError(t, l.Apply(ctx, Update{Op: store.OpUpdate, Order: updated}))
	require.NoError(t, l.Apply(ctx, Update{Op: store.OpUpdate, Order: updated}))

	orders := l.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, order.StatusAccepted, orders[0].Status)
}

func TestOrderList_UnknownUpdateFetchesFullRow(t *testing.T) {
	full := buyerOrder("o1", order.StatusShipped)
	fetcher := &fakeFetcher{orders: map[string]*order.Order{"o1": full}}
	l := NewOrderList(Filter{BuyerID: "buyer-1"}, fetcher, nil)

	partial := buyerOrder("o1", order.StatusShipped)
	partial.Items = nil

	require.NoError(t, l.Apply(context.Background(), Update{Op: store.OpUpdate, Order: partial}))

	assert.Equal(t, 1, fetcher.calls)
	orders := l.Orders()
	require.Len(t, orders, 1)
	assert.Len(t, orders[0].Items, 1, "the fetched row carries the full item list")
}

func TestOrderList_RefreshReplacesAndFilters(t *testing.T) {
	l := NewOrderList(Filter{BuyerID: "buyer-1"}, nil, []*order.Order{
		buyerOrder("o1", order.StatusPending),
		buyerOrder("o2", order.StatusPending),
	})

	other := buyerOrder("o9", order.StatusPending)
	other.BuyerID = "buyer-2"

	l.Refresh([]*order.Order{
		buyerOrder("o3", order.StatusAccepted),
		other,
	})

	orders := l.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, "o3", orders[0].ID)
	assert.Equal(t, order.StatusAccepted, orders[0].Status)
}

func TestOrderList_IgnoresOtherUsersOrders(t *testing.T) {
	l := NewOrderList(Filter{BuyerID: "buyer-1"}, nil, nil)

	other := buyerOrder("o9", order.StatusPending)
	other.BuyerID = "buyer-2"

	require.NoError(t, l.Apply(context.Background(), Update{Op: store.OpInsert, Order: other}))

	assert.Equal(t, 0, l.Len())
}
