package cart

import (
	"context"
	"fmt"

	"github.com/example/marketplace/internal/domain/product"
)

// Store persists the serialized cart so a session restart reconstructs
// the same aggregate. Load returns an empty cart for an unknown user.
type Store interface {
	Save(ctx context.Context, c *Cart) error
	Load(ctx context.Context, userID string) (*Cart, error)
	Delete(ctx context.Context, userID string) error
}

// Service wraps the aggregate with load-mutate-save persistence. Every
// mutation writes through; the cart is single-writer (one buyer), so
// there is no cross-session locking.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Get(ctx context.Context, userID string) (*Cart, error) {
	return s.store.Load(ctx, userID)
}

func (s *Service) Add(ctx context.Context, userID string, snap product.Snapshot, quantity int) (*Cart, error) {
	c, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.Add(snap, quantity)
	if err := s.store.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to persist cart: %w", err)
	}
	return c, nil
}

func (s *Service) Remove(ctx context.Context, userID, productID string) (*Cart, error) {
	c, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.Remove(productID)
	if err := s.store.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to persist cart: %w", err)
	}
	return c, nil
}

func (s *Service) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*Cart, error) {
	c, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.UpdateQuantity(productID, quantity)
	if err := s.store.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to persist cart: %w", err)
	}
	return c, nil
}

func (s *Service) Clear(ctx context.Context, userID string) error {
	return s.store.Delete(ctx, userID)
}
