package mocks

import (
	"context"
	"sync"

	"github.com/example/marketplace/internal/domain/payment"
)

// MockPaymentStore is an in-memory implementation of payment.Store for testing
type MockPaymentStore struct {
	mu           sync.RWMutex
	transactions []*payment.Transaction

	InsertErr error
}

func NewMockPaymentStore() *MockPaymentStore {
	return &MockPaymentStore{transactions: make([]*payment.Transaction, 0)}
}

func (m *MockPaymentStore) Insert(ctx context.Context, t *payment.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertErr != nil {
		return m.InsertErr
	}
	cp := *t
	m.transactions = append(m.transactions, &cp)
	return nil
}

func (m *MockPaymentStore) ListByUser(ctx context.Context, userID string) ([]*payment.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*payment.Transaction, 0)
	for i := len(m.transactions) - 1; i >= 0; i-- {
		if m.transactions[i].UserID == userID {
			cp := *m.transactions[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockPaymentStore) UpdateStatus(ctx context.Context, id string, status payment.Status, externalID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.transactions {
		if t.ID == id {
			t.Status = status
			t.ExternalID = externalID
			return nil
		}
	}
	return nil
}

// All returns every stored transaction, oldest first, for assertions
func (m *MockPaymentStore) All() []*payment.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*payment.Transaction, len(m.transactions))
	copy(out, m.transactions)
	return out
}
