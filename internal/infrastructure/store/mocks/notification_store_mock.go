package mocks

import (
	"context"
	"sync"

	"github.com/example/marketplace/internal/domain/notification"
)

// MockNotificationStore is an in-memory implementation of notification.Store for testing
type MockNotificationStore struct {
	mu            sync.RWMutex
	notifications []*notification.Notification

	InsertErr error
}

func NewMockNotificationStore() *MockNotificationStore {
	return &MockNotificationStore{notifications: make([]*notification.Notification, 0)}
}

func (m *MockNotificationStore) Insert(ctx context.Context, n *notification.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertErr != nil {
		return m.InsertErr
	}
	cp := *n
	m.notifications = append(m.notifications, &cp)
	return nil
}

func (m *MockNotificationStore) ListByUser(ctx context.Context, userID string) ([]*notification.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*notification.Notification, 0)
	for i := len(m.notifications) - 1; i >= 0; i-- {
		if m.notifications[i].UserID == userID {
			cp := *m.notifications[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockNotificationStore) MarkRead(ctx context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		if n.ID == id && n.UserID == userID {
			n.Read = true
			return nil
		}
	}
	return notification.ErrNotificationNotFound
}

func (m *MockNotificationStore) MarkAllRead(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

func (m *MockNotificationStore) CountUnread(ctx context.Context, userID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, n := range m.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

// All returns every stored notification, oldest first, for assertions
func (m *MockNotificationStore) All() []*notification.Notification {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*notification.Notification, len(m.notifications))
	copy(out, m.notifications)
	return out
}
