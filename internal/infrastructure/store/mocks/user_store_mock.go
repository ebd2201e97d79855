package mocks

import (
	"context"
	"sync"

	"github.com/example/marketplace/internal/domain/user"
)

// MockUserStore is an in-memory implementation of user.Store for testing
type MockUserStore struct {
	mu    sync.RWMutex
	users map[string]*user.User // keyed by id

	InsertErr error
}

func NewMockUserStore() *MockUserStore {
	return &MockUserStore{users: make(map[string]*user.User)}
}

func (m *MockUserStore) Insert(ctx context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertErr != nil {
		return m.InsertErr
	}
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return user.ErrEmailTaken
		}
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (m *MockUserStore) GetByID(ctx context.Context, id string) (*user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}
