package mocks

import (
	"context"
	"sync"

	"github.com/example/marketplace/internal/infrastructure/store"
)

// MockFeed records change events published by stores under test
type MockFeed struct {
	mu sync.Mutex

	PublishCalls []PublishCall
	PublishErr   error
}

// PublishCall records parameters passed to Publish
type PublishCall struct {
	Key   string
	Event *store.ChangeEvent
}

func NewMockFeed() *MockFeed {
	return &MockFeed{PublishCalls: make([]PublishCall, 0)}
}

func (m *MockFeed) Publish(ctx context.Context, key string, event any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	call := PublishCall{Key: key}
	if ce, ok := event.(*store.ChangeEvent); ok {
		call.Event = ce
	}
	m.PublishCalls = append(m.PublishCalls, call)
	return m.PublishErr
}

// Events returns the recorded change events in publish order
func (m *MockFeed) Events() []*store.ChangeEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*store.ChangeEvent, 0, len(m.PublishCalls))
	for _, c := range m.PublishCalls {
		if c.Event != nil {
			out = append(out, c.Event)
		}
	}
	return out
}
