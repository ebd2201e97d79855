package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/example/marketplace/internal/domain/review"
)

// MockReviewStore is an in-memory implementation of review.Store for testing
type MockReviewStore struct {
	mu      sync.RWMutex
	reviews map[string]*review.Review

	// For tracking calls in tests
	InsertCalls []review.Review
	InsertErr   error
	UpdateErr   error
	ListErr     error
}

func NewMockReviewStore() *MockReviewStore {
	return &MockReviewStore{
		reviews:     make(map[string]*review.Review),
		InsertCalls: make([]review.Review, 0),
	}
}

func (m *MockReviewStore) Insert(ctx context.Context, r *review.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InsertCalls = append(m.InsertCalls, *r)

	if m.InsertErr != nil {
		return m.InsertErr
	}
	cp := *r
	m.reviews[r.ID] = &cp
	return nil
}

func (m *MockReviewStore) Get(ctx context.Context, id string) (*review.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.reviews[id]
	if !ok {
		return nil, review.ErrReviewNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *MockReviewStore) Update(ctx context.Context, r *review.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	if _, ok := m.reviews[r.ID]; !ok {
		return review.ErrReviewNotFound
	}
	cp := *r
	m.reviews[r.ID] = &cp
	return nil
}

func (m *MockReviewStore) ListByProduct(ctx context.Context, productID string) ([]*review.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := make([]*review.Review, 0)
	for _, r := range m.reviews {
		if r.ProductID == productID {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
