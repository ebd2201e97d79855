package store

import (
	"context"
	"database/sql"
	"log"

	"github.com/example/marketplace/internal/domain/notification"
)

// PostgresNotificationStore implements notification.Store. Inserts go
// to the change feed so the email notifier can react; read-state
// changes stay local.
type PostgresNotificationStore struct {
	db   *sql.DB
	feed Feed
}

func NewPostgresNotificationStore(db *sql.DB, feed Feed) *PostgresNotificationStore {
	return &PostgresNotificationStore{db: db, feed: feed}
}

func (s *PostgresNotificationStore) Insert(ctx context.Context, n *notification.Notification) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notifications (id, user_id, type, title, message, order_id, read, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		n.ID, n.UserID, n.Type, n.Title, n.Message, nullString(n.OrderID), n.Read, n.CreatedAt,
	)
	if err != nil {
		return err
	}

	if s.feed != nil {
		event, err := NewChangeEvent(TableNotifications, OpInsert, n)
		if err != nil {
			log.Printf("[NotificationStore] failed to build change event for %s: %v", n.ID, err)
			return nil
		}
		if err := s.feed.Publish(ctx, n.UserID, event); err != nil {
			log.Printf("[NotificationStore] failed to publish change event for %s: %v", n.ID, err)
		}
	}
	return nil
}

func (s *PostgresNotificationStore) ListByUser(ctx context.Context, userID string) ([]*notification.Notification, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, type, title, message, order_id, read, created_at
		 FROM notifications
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := make([]*notification.Notification, 0)
	for rows.Next() {
		var n notification.Notification
		var orderID sql.NullString
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &orderID, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.OrderID = orderID.String
		notifications = append(notifications, &n)
	}
	return notifications, rows.Err()
}

func (s *PostgresNotificationStore) MarkRead(ctx context.Context, id, userID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notification.ErrNotificationNotFound
	}
	return nil
}

func (s *PostgresNotificationStore) MarkAllRead(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE`,
		userID,
	)
	return err
}

func (s *PostgresNotificationStore) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = FALSE`,
		userID,
	).Scan(&count)
	return count, err
}
