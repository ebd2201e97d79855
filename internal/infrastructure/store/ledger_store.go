package store

import (
	"context"
	"database/sql"

	"github.com/example/marketplace/internal/domain/inventory"
)

// PostgresLedgerStore implements inventory.Store. The table is
// append-only; there is no update or delete path.
type PostgresLedgerStore struct {
	db *sql.DB
}

func NewPostgresLedgerStore(db *sql.DB) *PostgresLedgerStore {
	return &PostgresLedgerStore{db: db}
}

func (s *PostgresLedgerStore) Append(ctx context.Context, e *inventory.Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO inventory_logs (id, product_id, change_type, quantity_changed, previous_stock, new_stock, order_id, triggered_by, reason, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		e.ID, e.ProductID, e.ChangeType, e.QuantityChanged, e.PreviousStock, e.NewStock,
		nullString(e.OrderID), e.TriggeredBy, nullString(e.Reason), e.CreatedAt,
	)
	return err
}

func (s *PostgresLedgerStore) ListByProduct(ctx context.Context, productID string) ([]*inventory.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, product_id, change_type, quantity_changed, previous_stock, new_stock, order_id, triggered_by, reason, created_at
		 FROM inventory_logs
		 WHERE product_id = $1
		 ORDER BY created_at DESC`,
		productID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*inventory.Entry, 0)
	for rows.Next() {
		var e inventory.Entry
		var orderID, reason sql.NullString
		if err := rows.Scan(&e.ID, &e.ProductID, &e.ChangeType, &e.QuantityChanged,
			&e.PreviousStock, &e.NewStock, &orderID, &e.TriggeredBy, &reason, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.OrderID = orderID.String
		e.Reason = reason.String
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
