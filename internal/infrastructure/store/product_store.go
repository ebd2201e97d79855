package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"

	"github.com/example/marketplace/internal/domain/product"
)

// PostgresProductStore implements product.Store on PostgreSQL. Writes
// publish to the change feed when one is configured.
type PostgresProductStore struct {
	db   *sql.DB
	feed Feed
}

func NewPostgresProductStore(db *sql.DB, feed Feed) *PostgresProductStore {
	return &PostgresProductStore{db: db, feed: feed}
}

const productColumns = `id, seller_id, seller_name, title, description, price, original_price, images, category, stock, rating, review_count, featured, created_at`

func (s *PostgresProductStore) Insert(ctx context.Context, p *product.Product) error {
	images, err := json.Marshal(p.Images)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO products (`+productColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		p.ID, p.SellerID, p.SellerName, p.Title, p.Description, p.Price, p.OriginalPrice,
		images, p.Category, p.Stock, p.Rating, p.ReviewCount, p.Featured, p.CreatedAt,
	)
	if err != nil {
		return err
	}
	s.publish(ctx, OpInsert, p)
	return nil
}

func (s *PostgresProductStore) Get(ctx context.Context, id string) (*product.Product, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, product.ErrProductNotFound
	}
	return p, err
}

func (s *PostgresProductStore) List(ctx context.Context) ([]*product.Product, error) {
	return s.query(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at DESC`)
}

func (s *PostgresProductStore) ListBySeller(ctx context.Context, sellerID string) ([]*product.Product, error) {
	return s.query(ctx,
		`SELECT `+productColumns+` FROM products WHERE seller_id = $1 ORDER BY created_at DESC`,
		sellerID)
}

func (s *PostgresProductStore) Update(ctx context.Context, p *product.Product) error {
	images, err := json.Marshal(p.Images)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET
			title = $2, description = $3, price = $4, original_price = $5,
			images = $6, category = $7, featured = $8
		 WHERE id = $1`,
		p.ID, p.Title, p.Description, p.Price, p.OriginalPrice, images, p.Category, p.Featured,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return product.ErrProductNotFound
	}
	s.publish(ctx, OpUpdate, p)
	return nil
}

func (s *PostgresProductStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return product.ErrProductNotFound
	}
	return nil
}

// AdjustStock applies a signed delta with a compare-and-swap guard:
// the row only updates when the resulting stock stays non-negative, so
// two concurrent acceptances cannot both win the last unit.
func (s *PostgresProductStore) AdjustStock(ctx context.Context, productID string, delta int) (int, int, error) {
	var previous, current int
	err := s.db.QueryRowContext(ctx,
		`UPDATE products SET stock = stock + $2
		 WHERE id = $1 AND stock + $2 >= 0
		 RETURNING stock - $2, stock`,
		productID, delta,
	).Scan(&previous, &current)
	if err == sql.ErrNoRows {
		// Either the product is gone or the guard failed; distinguish.
		var exists bool
		if checkErr := s.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, productID,
		).Scan(&exists); checkErr != nil {
			return 0, 0, checkErr
		}
		if !exists {
			return 0, 0, product.ErrProductNotFound
		}
		return 0, 0, product.ErrInsufficientStock
	}
	if err != nil {
		return 0, 0, err
	}

	if p, getErr := s.Get(ctx, productID); getErr == nil {
		s.publish(ctx, OpUpdate, p)
	}
	return previous, current, nil
}

// SetRating writes the denormalized review summary onto the product row.
func (s *PostgresProductStore) SetRating(ctx context.Context, productID string, rating float64, count int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET rating = $2, review_count = $3 WHERE id = $1`,
		productID, rating, count,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return product.ErrProductNotFound
	}

	if p, getErr := s.Get(ctx, productID); getErr == nil {
		s.publish(ctx, OpUpdate, p)
	}
	return nil
}

func (s *PostgresProductStore) query(ctx context.Context, q string, args ...any) ([]*product.Product, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]*product.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*product.Product, error) {
	var p product.Product
	var images []byte
	err := row.Scan(&p.ID, &p.SellerID, &p.SellerName, &p.Title, &p.Description,
		&p.Price, &p.OriginalPrice, &images, &p.Category, &p.Stock,
		&p.Rating, &p.ReviewCount, &p.Featured, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(images, &p.Images); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresProductStore) publish(ctx context.Context, op Op, p *product.Product) {
	if s.feed == nil {
		return
	}
	event, err := NewChangeEvent(TableProducts, op, p)
	if err != nil {
		log.Printf("[ProductStore] failed to build change event for %s: %v", p.ID, err)
		return
	}
	if err := s.feed.Publish(ctx, p.ID, event); err != nil {
		log.Printf("[ProductStore] failed to publish change event for %s: %v", p.ID, err)
	}
}
