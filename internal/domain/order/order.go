package order

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrEmptyOrder        = errors.New("order must have at least one item")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrOrderNotPending   = errors.New("order is no longer pending")
	ErrOrderNotAccepted  = errors.New("order must be accepted before shipping")
	ErrOrderNotShipped   = errors.New("order must be shipped before delivery")
	ErrOrderClosed       = errors.New("order is in a terminal state")
	ErrInsufficientStock = errors.New("insufficient stock to accept order")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
)

// validTransitions defines allowed state transitions
var validTransitions = map[Status][]Status{
	StatusPending:   {StatusAccepted, StatusRejected},
	StatusAccepted:  {StatusShipped},
	StatusShipped:   {StatusDelivered},
	StatusRejected:  {}, // terminal state
	StatusDelivered: {}, // terminal state
}

// IsTerminal reports whether no further transition is defined.
func (s Status) IsTerminal() bool {
	allowed, ok := validTransitions[s]
	return ok && len(allowed) == 0
}

// OrderItem is an immutable price snapshot taken from the cart line at
// checkout time.
type OrderItem struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	Price     int    `json:"price"` // minor units, snapshotted
	Quantity  int    `json:"quantity"`
	Image     string `json:"image,omitempty"`
}

// Order is scoped to exactly one seller; the splitter never mixes
// sellers. Total must equal the sum of price*quantity over Items.
type Order struct {
	ID                string      `json:"id"`
	BuyerID           string      `json:"buyer_id"`
	SellerID          string      `json:"seller_id"`
	Items             []OrderItem `json:"items"`
	Total             int         `json:"total"`
	Status            Status      `json:"status"`
	ShippingAddress   string      `json:"shipping_address"`
	PaymentMethod     string      `json:"payment_method"`
	CourierName       string      `json:"courier_name,omitempty"`
	TrackingNumber    string      `json:"tracking_number,omitempty"`
	EstimatedDelivery *time.Time  `json:"estimated_delivery_date,omitempty"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// CanTransitionTo checks if the order can transition to the target status
func (o *Order) CanTransitionTo(target Status) bool {
	allowed, exists := validTransitions[o.Status]
	if !exists {
		return false
	}
	for _, s := range allowed {
		if s == target {
			return true
		}
	}
	return false
}

// TransitionError returns an appropriate error for an invalid transition
func (o *Order) TransitionError(target Status) error {
	switch {
	case o.Status.IsTerminal():
		return fmt.Errorf("%w: %s", ErrOrderClosed, o.Status)
	case target == StatusAccepted || target == StatusRejected:
		return ErrOrderNotPending
	case target == StatusShipped:
		return ErrOrderNotAccepted
	case target == StatusDelivered:
		return ErrOrderNotShipped
	default:
		return fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalidTransition, o.Status, target)
	}
}

// ItemsTotal recomputes the sum of price*quantity over Items.
func (o *Order) ItemsTotal() int {
	total := 0
	for _, item := range o.Items {
		total += item.Price * item.Quantity
	}
	return total
}
