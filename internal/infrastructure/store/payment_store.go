package store

import (
	"context"
	"database/sql"

	"github.com/example/marketplace/internal/domain/payment"
)

// PostgresPaymentStore implements payment.Store.
type PostgresPaymentStore struct {
	db *sql.DB
}

func NewPostgresPaymentStore(db *sql.DB) *PostgresPaymentStore {
	return &PostgresPaymentStore{db: db}
}

func (s *PostgresPaymentStore) Insert(ctx context.Context, t *payment.Transaction) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO payment_transactions (id, user_id, order_id, amount, currency, status, payment_method, gateway, external_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		t.ID, t.UserID, t.OrderID, t.Amount, t.Currency, t.Status, t.PaymentMethod,
		nullString(t.Gateway), nullString(t.ExternalID), t.CreatedAt, t.UpdatedAt,
	)
	return err
}

func (s *PostgresPaymentStore) ListByUser(ctx context.Context, userID string) ([]*payment.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, order_id, amount, currency, status, payment_method, gateway, external_id, created_at, updated_at
		 FROM payment_transactions
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]*payment.Transaction, 0)
	for rows.Next() {
		var t payment.Transaction
		var gateway, externalID sql.NullString
		if err := rows.Scan(&t.ID, &t.UserID, &t.OrderID, &t.Amount, &t.Currency, &t.Status,
			&t.PaymentMethod, &gateway, &externalID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		t.Gateway = gateway.String
		t.ExternalID = externalID.String
		transactions = append(transactions, &t)
	}
	return transactions, rows.Err()
}

func (s *PostgresPaymentStore) UpdateStatus(ctx context.Context, id string, status payment.Status, externalID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE payment_transactions SET status = $2, external_id = $3, updated_at = NOW() WHERE id = $1`,
		id, status, nullString(externalID),
	)
	return err
}
