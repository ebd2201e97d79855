package store

import (
	"context"
	"database/sql"

	"github.com/example/marketplace/internal/domain/review"
)

// PostgresReviewStore implements review.Store.
type PostgresReviewStore struct {
	db *sql.DB
}

func NewPostgresReviewStore(db *sql.DB) *PostgresReviewStore {
	return &PostgresReviewStore{db: db}
}

const reviewColumns = `id, product_id, user_id, order_id, rating, comment, created_at, updated_at`

func (s *PostgresReviewStore) Insert(ctx context.Context, r *review.Review) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO product_reviews (`+reviewColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		r.ID, r.ProductID, r.UserID, r.OrderID, r.Rating, r.Comment, r.CreatedAt, r.UpdatedAt,
	)
	return err
}

func (s *PostgresReviewStore) Get(ctx context.Context, id string) (*review.Review, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+reviewColumns+` FROM product_reviews WHERE id = $1`, id)
	r, err := scanReview(row)
	if err == sql.ErrNoRows {
		return nil, review.ErrReviewNotFound
	}
	return r, err
}

func (s *PostgresReviewStore) Update(ctx context.Context, r *review.Review) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE product_reviews SET rating = $2, comment = $3, updated_at = $4 WHERE id = $1`,
		r.ID, r.Rating, r.Comment, r.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return review.ErrReviewNotFound
	}
	return nil
}

func (s *PostgresReviewStore) ListByProduct(ctx context.Context, productID string) ([]*review.Review, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+reviewColumns+` FROM product_reviews WHERE product_id = $1 ORDER BY created_at DESC`,
		productID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := make([]*review.Review, 0)
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

func scanReview(row rowScanner) (*review.Review, error) {
	var r review.Review
	var comment sql.NullString
	err := row.Scan(&r.ID, &r.ProductID, &r.UserID, &r.OrderID, &r.Rating, &comment,
		&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	r.Comment = comment.String
	return &r, nil
}
