package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"time"

	"github.com/example/marketplace/internal/domain/order"
)

// PostgresOrderStore implements order.Store. Every successful write is
// published to the change feed; the realtime bridge lives off that.
type PostgresOrderStore struct {
	db   *sql.DB
	feed Feed
}

func NewPostgresOrderStore(db *sql.DB, feed Feed) *PostgresOrderStore {
	return &PostgresOrderStore{db: db, feed: feed}
}

const orderColumns = `id, buyer_id, seller_id, items, total, status, shipping_address, payment_method, courier_name, tracking_number, estimated_delivery_date, created_at, updated_at`

func (s *PostgresOrderStore) Insert(ctx context.Context, o *order.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO orders (`+orderColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		o.ID, o.BuyerID, o.SellerID, items, o.Total, o.Status,
		o.ShippingAddress, o.PaymentMethod,
		nullString(o.CourierName), nullString(o.TrackingNumber), o.EstimatedDelivery,
		o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return err
	}
	s.publish(ctx, OpInsert, o)
	return nil
}

func (s *PostgresOrderStore) Get(ctx context.Context, id string) (*order.Order, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, order.ErrOrderNotFound
	}
	return o, err
}

func (s *PostgresOrderStore) ListByBuyer(ctx context.Context, buyerID string) ([]*order.Order, error) {
	return s.query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE buyer_id = $1 ORDER BY created_at DESC`,
		buyerID)
}

func (s *PostgresOrderStore) ListBySeller(ctx context.Context, sellerID string) ([]*order.Order, error) {
	return s.query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE seller_id = $1 ORDER BY created_at DESC`,
		sellerID)
}

// TransitionStatus is a single conditional update. The WHERE clause
// carries the order id, the owning seller, and the expected current
// status; zero rows affected means the order is missing, not the
// seller's, or already moved on. All three collapse to
// order.ErrOrderNotFound, and the caller never sees a half-applied
// transition.
func (s *PostgresOrderStore) TransitionStatus(ctx context.Context, orderID, sellerID string, from, to order.Status, ship *order.ShippingInfo, at time.Time) error {
	var res sql.Result
	var err error
	if ship != nil {
		res, err = s.db.ExecContext(ctx,
			`UPDATE orders SET status = $4, courier_name = $5, tracking_number = $6, estimated_delivery_date = $7, updated_at = $8
			 WHERE id = $1 AND seller_id = $2 AND status = $3`,
			orderID, sellerID, from, to,
			ship.CourierName, ship.TrackingNumber, ship.EstimatedDelivery, at,
		)
	} else {
		res, err = s.db.ExecContext(ctx,
			`UPDATE orders SET status = $4, updated_at = $5
			 WHERE id = $1 AND seller_id = $2 AND status = $3`,
			orderID, sellerID, from, to, at,
		)
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return order.ErrOrderNotFound
	}

	if o, getErr := s.Get(ctx, orderID); getErr == nil {
		s.publish(ctx, OpUpdate, o)
	}
	return nil
}

// StatsBySeller aggregates order counts and delivered revenue in one
// grouped query.
func (s *PostgresOrderStore) StatsBySeller(ctx context.Context, sellerID string) (*order.SellerStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(*), COALESCE(SUM(total), 0)
		 FROM orders
		 WHERE seller_id = $1
		 GROUP BY status`,
		sellerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &order.SellerStats{}
	for rows.Next() {
		var status order.Status
		var count, total int
		if err := rows.Scan(&status, &count, &total); err != nil {
			return nil, err
		}
		stats.TotalOrders += count
		switch status {
		case order.StatusPending:
			stats.Pending = count
		case order.StatusAccepted:
			stats.Accepted = count
		case order.StatusRejected:
			stats.Rejected = count
		case order.StatusShipped:
			stats.Shipped = count
		case order.StatusDelivered:
			stats.Delivered = count
			stats.Revenue = total
		}
	}
	return stats, rows.Err()
}

func (s *PostgresOrderStore) query(ctx context.Context, q string, args ...any) ([]*order.Order, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]*order.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func scanOrder(row rowScanner) (*order.Order, error) {
	var o order.Order
	var items []byte
	var courier, tracking sql.NullString
	var estimated sql.NullTime
	err := row.Scan(&o.ID, &o.BuyerID, &o.SellerID, &items, &o.Total, &o.Status,
		&o.ShippingAddress, &o.PaymentMethod, &courier, &tracking, &estimated,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, err
	}
	o.CourierName = courier.String
	o.TrackingNumber = tracking.String
	if estimated.Valid {
		t := estimated.Time
		o.EstimatedDelivery = &t
	}
	return &o, nil
}

func (s *PostgresOrderStore) publish(ctx context.Context, op Op, o *order.Order) {
	if s.feed == nil {
		return
	}
	event, err := NewChangeEvent(TableOrders, op, o)
	if err != nil {
		log.Printf("[OrderStore] failed to build change event for %s: %v", o.ID, err)
		return
	}
	if err := s.feed.Publish(ctx, o.ID, event); err != nil {
		log.Printf("[OrderStore] failed to publish change event for %s: %v", o.ID, err)
	}
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
