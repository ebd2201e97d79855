package store

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

// ConnectPostgres establishes a connection to PostgreSQL
func ConnectPostgres(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// EnsureSchema creates the tables if they do not exist. Idempotent, run
// at startup.
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			name TEXT NOT NULL,
			role TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id UUID PRIMARY KEY,
			seller_id UUID NOT NULL,
			seller_name TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price BIGINT NOT NULL,
			original_price BIGINT NOT NULL DEFAULT 0,
			images JSONB NOT NULL DEFAULT '[]',
			category TEXT NOT NULL DEFAULT '',
			stock INT NOT NULL DEFAULT 0,
			rating DOUBLE PRECISION NOT NULL DEFAULT 0,
			review_count INT NOT NULL DEFAULT 0,
			featured BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			buyer_id UUID NOT NULL,
			seller_id UUID NOT NULL,
			items JSONB NOT NULL,
			total BIGINT NOT NULL,
			status TEXT NOT NULL,
			shipping_address TEXT NOT NULL,
			payment_method TEXT NOT NULL,
			courier_name TEXT,
			tracking_number TEXT,
			estimated_delivery_date TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_buyer ON orders (buyer_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_seller ON orders (seller_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS inventory_logs (
			id UUID PRIMARY KEY,
			product_id UUID NOT NULL,
			change_type TEXT NOT NULL,
			quantity_changed INT NOT NULL,
			previous_stock INT NOT NULL,
			new_stock INT NOT NULL,
			order_id UUID,
			triggered_by UUID NOT NULL,
			reason TEXT,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_inventory_logs_product ON inventory_logs (product_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			type TEXT NOT NULL,
			title TEXT NOT NULL,
			message TEXT NOT NULL,
			order_id UUID,
			read BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications (user_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS product_reviews (
			id UUID PRIMARY KEY,
			product_id UUID NOT NULL,
			user_id UUID NOT NULL,
			order_id UUID NOT NULL,
			rating INT NOT NULL,
			comment TEXT,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_product_reviews_product ON product_reviews (product_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS payment_transactions (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			order_id UUID NOT NULL,
			amount BIGINT NOT NULL,
			currency TEXT NOT NULL,
			status TEXT NOT NULL,
			payment_method TEXT NOT NULL,
			gateway TEXT,
			external_id TEXT,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
