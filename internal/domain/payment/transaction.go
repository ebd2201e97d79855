package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Status mirrors the transaction lifecycle of the (stubbed) gateway.
// No gateway integration exists; rows stay pending unless updated by an
// operator.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusSuccess    Status = "success"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
)

type Transaction struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	OrderID       string    `json:"order_id"`
	Amount        int       `json:"amount"` // minor units
	Currency      string    `json:"currency"`
	Status        Status    `json:"status"`
	PaymentMethod string    `json:"payment_method"`
	Gateway       string    `json:"gateway,omitempty"`
	ExternalID    string    `json:"external_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Store interface {
	Insert(ctx context.Context, t *Transaction) error
	ListByUser(ctx context.Context, userID string) ([]*Transaction, error)
	UpdateStatus(ctx context.Context, id string, status Status, externalID string) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create writes the pending transaction stub recorded at checkout.
func (s *Service) Create(ctx context.Context, userID, orderID string, amount int, paymentMethod string) (*Transaction, error) {
	now := time.Now()
	t := &Transaction{
		ID:            uuid.New().String(),
		UserID:        userID,
		OrderID:       orderID,
		Amount:        amount,
		Currency:      "USD",
		Status:        StatusPending,
		PaymentMethod: paymentMethod,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.Insert(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]*Transaction, error) {
	return s.store.ListByUser(ctx, userID)
}
