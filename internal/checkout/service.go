package checkout

import (
	"context"
	"fmt"
	"log"

	"github.com/example/marketplace/internal/domain/cart"
	"github.com/example/marketplace/internal/domain/notification"
	"github.com/example/marketplace/internal/domain/order"
	"github.com/example/marketplace/internal/domain/payment"
)

// PartialError reports a checkout that created some orders before a
// seller's insert failed. Orders already created are not rolled back;
// their sellers can still fulfil them.
type PartialError struct {
	Created      []*order.Order
	FailedSeller string
	Err          error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("checkout failed for seller %s after %d orders were created: %v", e.FailedSeller, len(e.Created), e.Err)
}

func (e *PartialError) Unwrap() error { return e.Err }

// Service turns one cart into one pending order per seller.
type Service struct {
	carts         *cart.Service
	orders        order.Store
	payments      *payment.Service
	notifications *notification.Service
}

func NewService(carts *cart.Service, orders order.Store, payments *payment.Service, notifications *notification.Service) *Service {
	return &Service{
		carts:         carts,
		orders:        orders,
		payments:      payments,
		notifications: notifications,
	}
}

// PlaceOrders validates the checkout form, splits the buyer's cart by
// seller, and inserts one pending order per group. Order inserts are
// sequential; the first failure aborts with a PartialError carrying the
// orders that made it in. The cart is cleared only after every order
// succeeded. Payment stubs and seller notifications are best-effort.
func (s *Service) PlaceOrders(ctx context.Context, buyerID string, details Details) ([]*order.Order, error) {
	if err := details.Validate(); err != nil {
		return nil, err
	}

	c, err := s.carts.Get(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if len(c.Items) == 0 {
		return nil, ErrEmptyCart
	}

	address := details.shippingAddress()
	created := make([]*order.Order, 0)
	for _, group := range SplitBySeller(c.Items) {
		o, err := order.New(buyerID, group.SellerID, group.Items, address, details.PaymentMethod)
		if err != nil {
			return created, &PartialError{Created: created, FailedSeller: group.SellerID, Err: err}
		}
		if err := s.orders.Insert(ctx, o); err != nil {
			return created, &PartialError{Created: created, FailedSeller: group.SellerID, Err: err}
		}
		created = append(created, o)

		if s.payments != nil {
			if _, err := s.payments.Create(ctx, buyerID, o.ID, o.Total, details.PaymentMethod); err != nil {
				log.Printf("[Checkout] failed to record payment stub for order %s: %v", o.ID, err)
			}
		}
		if s.notifications != nil {
			message := fmt.Sprintf("You have a new order of %s from %s.", order.FormatMoney(o.Total), details.FullName)
			if _, err := s.notifications.Create(ctx, group.SellerID, notification.TypeNewOrder, "New order received", message, o.ID); err != nil {
				log.Printf("[Checkout] failed to notify seller %s for order %s: %v", group.SellerID, o.ID, err)
			}
		}
	}

	if err := s.carts.Clear(ctx, buyerID); err != nil {
		log.Printf("[Checkout] failed to clear cart for buyer %s: %v", buyerID, err)
	}
	return created, nil
}
