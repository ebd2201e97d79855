package mocks

import (
	"context"
	"sync"

	"github.com/example/marketplace/internal/domain/inventory"
)

// MockLedgerStore is an in-memory implementation of inventory.Store for testing
type MockLedgerStore struct {
	mu      sync.RWMutex
	entries []*inventory.Entry

	AppendErr error
}

func NewMockLedgerStore() *MockLedgerStore {
	return &MockLedgerStore{entries: make([]*inventory.Entry, 0)}
}

func (m *MockLedgerStore) Append(ctx context.Context, e *inventory.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AppendErr != nil {
		return m.AppendErr
	}
	cp := *e
	m.entries = append(m.entries, &cp)
	return nil
}

// ListByProduct returns entries newest-first, matching the real store.
func (m *MockLedgerStore) ListByProduct(ctx context.Context, productID string) ([]*inventory.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*inventory.Entry, 0)
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].ProductID == productID {
			cp := *m.entries[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

// Entries returns everything appended, oldest first, for assertions
func (m *MockLedgerStore) Entries() []*inventory.Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*inventory.Entry, len(m.entries))
	copy(out, m.entries)
	return out
}
