package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrUnknownChangeType = errors.New("unknown inventory change type")
	ErrLedgerMismatch    = errors.New("new stock does not match previous stock plus delta")
)

// ChangeType classifies a stock mutation in the ledger.
type ChangeType string

const (
	ChangeAdd        ChangeType = "add"        // seller added stock
	ChangeRemove     ChangeType = "remove"     // seller removed stock
	ChangeOrder      ChangeType = "order"      // deducted for an accepted order
	ChangeReturn     ChangeType = "return"     // restored after a cancellation/compensation
	ChangeAdjustment ChangeType = "adjustment" // manual correction, signed
)

// SignedDelta returns the stock delta implied by a change type.
// add/return increase stock, remove/order decrease it, adjustment
// carries its own sign.
func SignedDelta(changeType ChangeType, quantity int) (int, error) {
	switch changeType {
	case ChangeAdd, ChangeReturn:
		return quantity, nil
	case ChangeRemove, ChangeOrder:
		return -quantity, nil
	case ChangeAdjustment:
		return quantity, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownChangeType, changeType)
	}
}

// Entry is one immutable row of the stock audit trail.
// Entries are never updated or deleted; mistakes are offset by a
// compensating "adjustment" entry.
type Entry struct {
	ID              string     `json:"id"`
	ProductID       string     `json:"product_id"`
	ChangeType      ChangeType `json:"change_type"`
	QuantityChanged int        `json:"quantity_changed"`
	PreviousStock   int        `json:"previous_stock"`
	NewStock        int        `json:"new_stock"`
	OrderID         string     `json:"order_id,omitempty"`
	TriggeredBy     string     `json:"triggered_by"`
	Reason          string     `json:"reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Store is the append-only persistence for ledger entries.
// ListByProduct returns entries newest-first.
type Store interface {
	Append(ctx context.Context, entry *Entry) error
	ListByProduct(ctx context.Context, productID string) ([]*Entry, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Record validates and appends one ledger entry. The invariant
// newStock = previousStock + SignedDelta(changeType, quantityChanged)
// is enforced here; a violation means the caller mutated stock through
// a path the ledger does not describe.
func (s *Service) Record(ctx context.Context, productID string, changeType ChangeType, quantityChanged, previousStock, newStock int, orderID, triggeredBy, reason string) (*Entry, error) {
	if changeType != ChangeAdjustment && quantityChanged <= 0 {
		return nil, ErrInvalidQuantity
	}
	if changeType == ChangeAdjustment && quantityChanged == 0 {
		return nil, ErrInvalidQuantity
	}

	delta, err := SignedDelta(changeType, quantityChanged)
	if err != nil {
		return nil, err
	}
	if newStock != previousStock+delta {
		return nil, fmt.Errorf("%w: %d != %d%+d", ErrLedgerMismatch, newStock, previousStock, delta)
	}

	entry := &Entry{
		ID:              uuid.New().String(),
		ProductID:       productID,
		ChangeType:      changeType,
		QuantityChanged: quantityChanged,
		PreviousStock:   previousStock,
		NewStock:        newStock,
		OrderID:         orderID,
		TriggeredBy:     triggeredBy,
		Reason:          reason,
		CreatedAt:       time.Now(),
	}

	if err := s.store.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to append ledger entry: %w", err)
	}
	return entry, nil
}

// History returns the audit trail for a product, newest-first.
func (s *Service) History(ctx context.Context, productID string) ([]*Entry, error) {
	return s.store.ListByProduct(ctx, productID)
}
