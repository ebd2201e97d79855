package mocks

import (
	"context"
	"sync"

	"github.com/example/marketplace/internal/domain/product"
)

// MockProductStore is an in-memory implementation of product.Store for testing
type MockProductStore struct {
	mu       sync.RWMutex
	products map[string]*product.Product

	// For tracking calls in tests
	AdjustStockCalls []AdjustStockCall
	SetRatingCalls   []SetRatingCall
	AdjustStockErr   error
	InsertErr        error
	UpdateErr        error
	SetRatingErr     error
}

// AdjustStockCall records parameters passed to AdjustStock
type AdjustStockCall struct {
	ProductID string
	Delta     int
}

// SetRatingCall records parameters passed to SetRating
type SetRatingCall struct {
	ProductID string
	Rating    float64
	Count     int
}

func NewMockProductStore() *MockProductStore {
	return &MockProductStore{
		products:         make(map[string]*product.Product),
		AdjustStockCalls: make([]AdjustStockCall, 0),
	}
}

func (m *MockProductStore) Insert(ctx context.Context, p *product.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertErr != nil {
		return m.InsertErr
	}
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *MockProductStore) Get(ctx context.Context, id string) (*product.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return nil, product.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockProductStore) List(ctx context.Context) ([]*product.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*product.Product, 0, len(m.products))
	for _, p := range m.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockProductStore) ListBySeller(ctx context.Context, sellerID string) ([]*product.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*product.Product, 0)
	for _, p := range m.products {
		if p.SellerID == sellerID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockProductStore) Update(ctx context.Context, p *product.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	if _, ok := m.products[p.ID]; !ok {
		return product.ErrProductNotFound
	}
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *MockProductStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return product.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

// AdjustStock mirrors the compare-and-swap guard of the real store:
// the delta only applies when the result stays non-negative.
func (m *MockProductStore) AdjustStock(ctx context.Context, productID string, delta int) (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.AdjustStockCalls = append(m.AdjustStockCalls, AdjustStockCall{ProductID: productID, Delta: delta})

	if m.AdjustStockErr != nil {
		return 0, 0, m.AdjustStockErr
	}

	p, ok := m.products[productID]
	if !ok {
		return 0, 0, product.ErrProductNotFound
	}
	if p.Stock+delta < 0 {
		return 0, 0, product.ErrInsufficientStock
	}
	previous := p.Stock
	p.Stock += delta
	return previous, p.Stock, nil
}

func (m *MockProductStore) SetRating(ctx context.Context, productID string, rating float64, count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SetRatingCalls = append(m.SetRatingCalls, SetRatingCall{ProductID: productID, Rating: rating, Count: count})

	if m.SetRatingErr != nil {
		return m.SetRatingErr
	}

	p, ok := m.products[productID]
	if !ok {
		return product.ErrProductNotFound
	}
	p.Rating = rating
	p.ReviewCount = count
	return nil
}

// Seed inserts a product directly for testing
func (m *MockProductStore) Seed(p *product.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.products[p.ID] = &cp
}

// Stock returns the current stock for assertions
func (m *MockProductStore) Stock(id string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.products[id]; ok {
		return p.Stock
	}
	return -1
}
