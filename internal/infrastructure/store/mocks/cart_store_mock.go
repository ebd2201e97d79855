package mocks

import (
	"context"
	"sync"

	"github.com/example/marketplace/internal/domain/cart"
)

// MockCartStore is an in-memory implementation of cart.Store for testing
type MockCartStore struct {
	mu    sync.RWMutex
	carts map[string]*cart.Cart

	SaveErr   error
	LoadErr   error
	DeleteErr error
}

func NewMockCartStore() *MockCartStore {
	return &MockCartStore{carts: make(map[string]*cart.Cart)}
}

func (m *MockCartStore) Save(ctx context.Context, c *cart.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	cp := *c
	cp.Items = append([]cart.Item(nil), c.Items...)
	m.carts[c.UserID] = &cp
	return nil
}

// Load returns an empty cart for an unknown user, matching the real store.
func (m *MockCartStore) Load(ctx context.Context, userID string) (*cart.Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	c, ok := m.carts[userID]
	if !ok {
		return cart.New(userID), nil
	}
	cp := *c
	cp.Items = append([]cart.Item(nil), c.Items...)
	return &cp, nil
}

func (m *MockCartStore) Delete(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.carts, userID)
	return nil
}

// Has reports whether a cart is stored for the user
func (m *MockCartStore) Has(userID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.carts[userID]
	return ok
}
