package review

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/example/marketplace/internal/domain/product"
)

type Service struct {
	store    Store
	products product.Store
}

func NewService(store Store, products product.Store) *Service {
	return &Service{store: store, products: products}
}

// Add records a buyer's review and rolls the new average onto the
// product row.
func (s *Service) Add(ctx context.Context, userID, productID, orderID string, rating int, comment string) (*Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	if _, err := s.products.Get(ctx, productID); err != nil {
		return nil, err
	}

	now := time.Now()
	r := &Review{
		ID:        uuid.New().String(),
		ProductID: productID,
		UserID:    userID,
		OrderID:   orderID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Insert(ctx, r); err != nil {
		return nil, err
	}

	s.rollUp(ctx, productID)
	return r, nil
}

// Update rewrites the author's own review.
func (s *Service) Update(ctx context.Context, userID, reviewID string, rating int, comment string) (*Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	r, err := s.store.Get(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if r.UserID != userID {
		return nil, ErrNotAuthor
	}

	r.Rating = rating
	r.Comment = comment
	r.UpdatedAt = time.Now()
	if err := s.store.Update(ctx, r); err != nil {
		return nil, err
	}

	s.rollUp(ctx, r.ProductID)
	return r, nil
}

// ListByProduct returns a product's reviews, newest-first.
func (s *Service) ListByProduct(ctx context.Context, productID string) ([]*Review, error) {
	return s.store.ListByProduct(ctx, productID)
}

// rollUp recomputes the product's average rating and review count. A
// failed roll-up only means the summary lags the reviews; it never
// fails the review write.
func (s *Service) rollUp(ctx context.Context, productID string) {
	reviews, err := s.store.ListByProduct(ctx, productID)
	if err != nil {
		log.Printf("[Review] failed to list reviews for roll-up, product %s: %v", productID, err)
		return
	}

	var rating float64
	if len(reviews) > 0 {
		sum := 0
		for _, r := range reviews {
			sum += r.Rating
		}
		rating = math.Round(float64(sum)/float64(len(reviews))*10) / 10
	}

	if err := s.products.SetRating(ctx, productID, rating, len(reviews)); err != nil {
		log.Printf("[Review] failed to roll up rating for product %s: %v", productID, err)
	}
}
