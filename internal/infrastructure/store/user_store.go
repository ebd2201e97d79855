package store

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/example/marketplace/internal/domain/user"
)

// PostgresUserStore implements user.Store. The unique index on email
// is the source of truth for duplicate registrations.
type PostgresUserStore struct {
	db *sql.DB
}

func NewPostgresUserStore(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

func (s *PostgresUserStore) Insert(ctx context.Context, u *user.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, name, role, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Email, u.PasswordHash, u.Name, u.Role, u.CreatedAt,
	)
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		return user.ErrEmailTaken
	}
	return err
}

func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return s.get(ctx, `SELECT id, email, password_hash, name, role, created_at FROM users WHERE email = $1`, email)
}

func (s *PostgresUserStore) GetByID(ctx context.Context, id string) (*user.User, error) {
	return s.get(ctx, `SELECT id, email, password_hash, name, role, created_at FROM users WHERE id = $1`, id)
}

func (s *PostgresUserStore) get(ctx context.Context, q string, arg any) (*user.User, error) {
	var u user.User
	err := s.db.QueryRowContext(ctx, q, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
