package review

import (
	"context"
	"errors"
	"time"
)

var (
	ErrReviewNotFound = errors.New("review not found")
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
	ErrNotAuthor      = errors.New("review belongs to another user")
)

// Review is a buyer's rating of a purchased product, tied to the order
// it came from.
type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user_id"`
	OrderID   string    `json:"order_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is the review persistence. ListByProduct returns reviews
// newest-first.
type Store interface {
	Insert(ctx context.Context, r *Review) error
	Get(ctx context.Context, id string) (*Review, error)
	Update(ctx context.Context, r *Review) error
	ListByProduct(ctx context.Context, productID string) ([]*Review, error)
}
