package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Op is the kind of row change carried on the feed. Deletes are not
// published; no consumer reacts to them.
type Op string

const (
	OpInsert Op = "INSERT"
	OpUpdate Op = "UPDATE"
)

// Table names used on the change feed.
const (
	TableOrders        = "orders"
	TableProducts      = "products"
	TableNotifications = "notifications"
)

// ChangeEvent is one row change published to the feed after a
// successful write. Row is the full row after the change, marshaled by
// the publishing store.
type ChangeEvent struct {
	ID         string          `json:"id"`
	Table      string          `json:"table"`
	Op         Op              `json:"op"`
	Row        json.RawMessage `json:"row"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewChangeEvent marshals row and wraps it in an event envelope.
func NewChangeEvent(table string, op Op, row any) (*ChangeEvent, error) {
	raw, err := json.Marshal(row)
	if err != nil {
		return nil, err
	}
	return &ChangeEvent{
		ID:         uuid.New().String(),
		Table:      table,
		Op:         op,
		Row:        raw,
		OccurredAt: time.Now(),
	}, nil
}

// Feed publishes change events. The key keeps changes to the same row
// ordered on a partitioned transport. The kafka producer satisfies this.
type Feed interface {
	Publish(ctx context.Context, key string, event any) error
}
