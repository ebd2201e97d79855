package realtime

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/example/marketplace/internal/domain/order"
	"github.com/example/marketplace/internal/infrastructure/store"
)

// Filter scopes a subscription to one side of the marketplace. Zero
// fields match everything; set fields must all match.
type Filter struct {
	BuyerID  string
	SellerID string
}

// Matches reports whether an order row falls inside the filter.
func (f Filter) Matches(o *order.Order) bool {
	if f.BuyerID != "" && o.BuyerID != f.BuyerID {
		return false
	}
	if f.SellerID != "" && o.SellerID != f.SellerID {
		return false
	}
	return true
}

// Update is one order row change delivered to subscribers after the
// bridge decoded and filtered it.
type Update struct {
	Op    store.Op
	Order *order.Order
}

type subscriber struct {
	filter Filter
	ch     chan Update
}

// Bridge consumes order rows off the change feed and fans them out to
// filtered subscribers. Its HandleMessage is shaped to plug straight
// into the feed consumer.
type Bridge struct {
	mu     sync.RWMutex
	subs   map[int]*subscriber
	nextID int
	events chan store.ChangeEvent
}

func NewBridge() *Bridge {
	return &Bridge{
		subs:   make(map[int]*subscriber),
		events: make(chan store.ChangeEvent, 256),
	}
}

// HandleMessage decodes one feed message and queues it for dispatch.
// Non-order tables and undecodable payloads are skipped, never retried.
func (b *Bridge) HandleMessage(ctx context.Context, key, value []byte) error {
	var event store.ChangeEvent
	if err := json.Unmarshal(value, &event); err != nil {
		log.Printf("[Realtime] skipping undecodable feed message key=%s: %v", key, err)
		return nil
	}
	if event.Table != store.TableOrders {
		return nil
	}
	select {
	case b.events <- event:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// Run dispatches queued events to subscribers until ctx is cancelled.
// A subscriber that cannot keep up has the update dropped; the next
// update for the same order supersedes it anyway.
func (b *Bridge) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-b.events:
			var o order.Order
			if err := json.Unmarshal(event.Row, &o); err != nil {
				log.Printf("[Realtime] skipping undecodable order row: %v", err)
				continue
			}
			b.dispatch(Update{Op: event.Op, Order: &o})
		}
	}
}

func (b *Bridge) dispatch(u Update) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subs {
		if !sub.filter.Matches(u.Order) {
			continue
		}
		// Each subscriber gets its own copy. An OrderList merges
		// updates into the order in place, so a shared pointer would
		// have two lists writing the same struct.
		o := *u.Order
		o.Items = append([]order.OrderItem(nil), u.Order.Items...)
		select {
		case sub.ch <- Update{Op: u.Op, Order: &o}:
		default:
			log.Printf("[Realtime] dropping update for slow subscriber, order %s", u.Order.ID)
		}
	}
}

// Subscribe registers a filtered listener. The returned function
// removes the subscription and closes the channel.
func (b *Bridge) Subscribe(filter Filter) (<-chan Update, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	sub := &subscriber{filter: filter, ch: make(chan Update, 64)}
	b.subs[id] = sub

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if s, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(s.ch)
		}
	}
	return sub.ch, unsubscribe
}
