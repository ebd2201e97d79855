package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu        sync.Mutex
	entries   []*Entry
	appendErr error
}

func (s *memoryStore) Append(ctx context.Context, e *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.appendErr != nil {
		return s.appendErr
	}
	cp := *e
	s.entries = append(s.entries, &cp)
	return nil
}

func (s *memoryStore) ListByProduct(ctx context.Context, productID string) ([]*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Entry, 0)
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].ProductID == productID {
			out = append(out, s.entries[i])
		}
	}
	return out, nil
}

// ============================================
// SignedDelta Tests
// ============================================

func TestSignedDelta(t *testing.T) {
	tests := []struct {
		changeType ChangeType
		quantity   int
		want       int
	}{
		{ChangeAdd, 5, 5},
		{ChangeReturn, 3, 3},
		{ChangeRemove, 5, -5},
		{ChangeOrder, 2, -2},
		{ChangeAdjustment, 4, 4},
		{ChangeAdjustment, -4, -4},
	}
	for _, tt := range tests {
		got, err := SignedDelta(tt.changeType, tt.quantity)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "change type %s", tt.changeType)
	}
}

func TestSignedDelta_UnknownType(t *testing.T) {
	_, err := SignedDelta(ChangeType("bogus"), 1)
	assert.ErrorIs(t, err, ErrUnknownChangeType)
}

// ============================================
// Record Tests
// ============================================

func TestService_Record_Success(t *testing.T) {
	store := &memoryStore{}
	svc := NewService(store)
	ctx := context.Background()

	entry, err := svc.Record(ctx, "p1", ChangeOrder, 3, 10, 7, "order-1", "seller-1", "")

	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "p1", entry.ProductID)
	assert.Equal(t, ChangeOrder, entry.ChangeType)
	assert.Equal(t, 3, entry.QuantityChanged)
	assert.Equal(t, 10, entry.PreviousStock)
	assert.Equal(t, 7, entry.NewStock)
	assert.Equal(t, "order-1", entry.OrderID)
	require.Len(t, store.entries, 1)
}

func TestService_Record_LedgerMismatch(t *testing.T) {
	svc := NewService(&memoryStore{})

	// order of 3 from 10 must land on 7, not 8
	_, err := svc.Record(context.Background(), "p1", ChangeOrder, 3, 10, 8, "", "seller-1", "")

	assert.ErrorIs(t, err, ErrLedgerMismatch)
}

func TestService_Record_RejectsNonPositiveQuantity(t *testing.T) {
	svc := NewService(&memoryStore{})
	ctx := context.Background()

	_, err := svc.Record(ctx, "p1", ChangeAdd, 0, 5, 5, "", "seller-1", "")
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.Record(ctx, "p1", ChangeRemove, -2, 5, 7, "", "seller-1", "")
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestService_Record_AdjustmentMayBeNegative(t *testing.T) {
	store := &memoryStore{}
	svc := NewService(store)

	entry, err := svc.Record(context.Background(), "p1", ChangeAdjustment, -2, 5, 3, "", "seller-1", "damaged units")

	require.NoError(t, err)
	assert.Equal(t, -2, entry.QuantityChanged)
	assert.Equal(t, 3, entry.NewStock)
}

func TestService_Record_ZeroAdjustmentRejected(t *testing.T) {
	svc := NewService(&memoryStore{})

	_, err := svc.Record(context.Background(), "p1", ChangeAdjustment, 0, 5, 5, "", "seller-1", "")

	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestService_Record_AppendFailure(t *testing.T) {
	store := &memoryStore{appendErr: errors.New("db down")}
	svc := NewService(store)

	_, err := svc.Record(context.Background(), "p1", ChangeAdd, 1, 0, 1, "", "seller-1", "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

// ============================================
// History Tests
// ============================================

func TestService_History_NewestFirst(t *testing.T) {
	store := &memoryStore{}
	svc := NewService(store)
	ctx := context.Background()

	_, err := svc.Record(ctx, "p1", ChangeAdd, 10, 0, 10, "", "seller-1", "initial stock")
	require.NoError(t, err)
	_, err = svc.Record(ctx, "p1", ChangeOrder, 2, 10, 8, "order-1", "seller-1", "")
	require.NoError(t, err)
	_, err = svc.Record(ctx, "p2", ChangeAdd, 5, 0, 5, "", "seller-1", "")
	require.NoError(t, err)

	entries, err := svc.History(ctx, "p1")

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ChangeOrder, entries[0].ChangeType)
	assert.Equal(t, ChangeAdd, entries[1].ChangeType)
}
