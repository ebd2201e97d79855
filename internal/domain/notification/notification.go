package notification

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotificationNotFound = errors.New("notification not found")

type Type string

const (
	TypeNewOrder       Type = "new_order"
	TypeOrderAccepted  Type = "order_accepted"
	TypeOrderRejected  Type = "order_rejected"
	TypeOrderShipped   Type = "order_shipped"
	TypeOrderDelivered Type = "order_delivered"
	TypePromo          Type = "promo"
	TypeSystem         Type = "system"
)

// Notification is owned by its recipient; the only mutation after
// creation is marking it read.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      Type      `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	OrderID   string    `json:"order_id,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists notifications. ListByUser returns newest-first;
// MarkRead is scoped by recipient and returns ErrNotificationNotFound
// when no row matches.
type Store interface {
	Insert(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, userID string) ([]*Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
	CountUnread(ctx context.Context, userID string) (int, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Create(ctx context.Context, userID string, t Type, title, message, orderID string) (*Notification, error) {
	n := &Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      t,
		Title:     title,
		Message:   message,
		OrderID:   orderID,
		CreatedAt: time.Now(),
	}
	if err := s.store.Insert(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]*Notification, error) {
	return s.store.ListByUser(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, id, userID string) error {
	return s.store.MarkRead(ctx, id, userID)
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) error {
	return s.store.MarkAllRead(ctx, userID)
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.store.CountUnread(ctx, userID)
}
