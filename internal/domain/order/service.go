package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/example/marketplace/internal/domain/inventory"
	"github.com/example/marketplace/internal/domain/notification"
	"github.com/example/marketplace/internal/domain/product"
)

// Service drives the order state machine for a seller's orders.
// Notifications to the buyer are best-effort: a failure is logged, never
// surfaced, so a transition is not rolled back over a notification row.
type Service struct {
	store         Store
	products      product.Store
	ledger        *inventory.Service
	notifications *notification.Service
}

func NewService(store Store, products product.Store, ledger *inventory.Service, notifications *notification.Service) *Service {
	return &Service{
		store:         store,
		products:      products,
		ledger:        ledger,
		notifications: notifications,
	}
}

// New builds an unsaved pending order for one seller. The caller (the
// checkout splitter) persists it via the store.
func New(buyerID, sellerID string, items []OrderItem, shippingAddress, paymentMethod string) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}
	now := time.Now()
	o := &Order{
		ID:              uuid.New().String(),
		BuyerID:         buyerID,
		SellerID:        sellerID,
		Items:           items,
		Status:          StatusPending,
		ShippingAddress: shippingAddress,
		PaymentMethod:   paymentMethod,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	o.Total = o.ItemsTotal()
	return o, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Order, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) ListForBuyer(ctx context.Context, buyerID string) ([]*Order, error) {
	return s.store.ListByBuyer(ctx, buyerID)
}

func (s *Service) ListForSeller(ctx context.Context, sellerID string) ([]*Order, error) {
	return s.store.ListBySeller(ctx, sellerID)
}

func (s *Service) StatsForSeller(ctx context.Context, sellerID string) (*SellerStats, error) {
	return s.store.StatsBySeller(ctx, sellerID)
}

// Accept moves a pending order to accepted and deducts stock for every
// line item. Stock is deducted per item with a compare-and-swap guard;
// if any line cannot be covered, already-deducted lines are restored
// with compensating return entries and the order stays pending.
func (s *Service) Accept(ctx context.Context, orderID, sellerID string) (*Order, error) {
	o, err := s.loadForSeller(ctx, orderID, sellerID)
	if err != nil {
		return nil, err
	}
	if !o.CanTransitionTo(StatusAccepted) {
		return nil, o.TransitionError(StatusAccepted)
	}

	deducted := make([]deduction, 0, len(o.Items))
	for _, item := range o.Items {
		previous, current, err := s.products.AdjustStock(ctx, item.ProductID, -item.Quantity)
		if err != nil {
			s.compensate(ctx, o, sellerID, deducted, "acceptance aborted")
			if errors.Is(err, product.ErrInsufficientStock) {
				return nil, fmt.Errorf("%w: product %s", ErrInsufficientStock, item.ProductID)
			}
			return nil, fmt.Errorf("failed to deduct stock for product %s: %w", item.ProductID, err)
		}
		deducted = append(deducted, deduction{item: item, previous: previous, current: current})
	}

	now := time.Now()
	if err := s.store.TransitionStatus(ctx, orderID, sellerID, StatusPending, StatusAccepted, nil, now); err != nil {
		// Lost the race to a concurrent transition; give the stock back.
		s.compensate(ctx, o, sellerID, deducted, "acceptance lost update race")
		return nil, err
	}

	for _, d := range deducted {
		if _, err := s.ledger.Record(ctx, d.item.ProductID, inventory.ChangeOrder, d.item.Quantity, d.previous, d.current, o.ID, sellerID, ""); err != nil {
			log.Printf("[Order] ledger append failed for product %s order %s: %v", d.item.ProductID, o.ID, err)
		}
	}

	o.Status = StatusAccepted
	o.UpdatedAt = now
	s.notifyBuyer(ctx, o, notification.TypeOrderAccepted,
		"Order accepted",
		fmt.Sprintf("Your order of %s has been accepted by the seller.", FormatMoney(o.Total)))
	return o, nil
}

// Reject moves a pending order to rejected. Stock is untouched; nothing
// was deducted while the order was pending.
func (s *Service) Reject(ctx context.Context, orderID, sellerID string) (*Order, error) {
	o, err := s.loadForSeller(ctx, orderID, sellerID)
	if err != nil {
		return nil, err
	}
	if !o.CanTransitionTo(StatusRejected) {
		return nil, o.TransitionError(StatusRejected)
	}

	now := time.Now()
	if err := s.store.TransitionStatus(ctx, orderID, sellerID, StatusPending, StatusRejected, nil, now); err != nil {
		return nil, err
	}

	o.Status = StatusRejected
	o.UpdatedAt = now
	s.notifyBuyer(ctx, o, notification.TypeOrderRejected,
		"Order rejected",
		fmt.Sprintf("Your order of %s was rejected by the seller.", FormatMoney(o.Total)))
	return o, nil
}

// MarkShipped moves an accepted order to shipped and records the
// courier details.
func (s *Service) MarkShipped(ctx context.Context, orderID, sellerID string, ship ShippingInfo) (*Order, error) {
	o, err := s.loadForSeller(ctx, orderID, sellerID)
	if err != nil {
		return nil, err
	}
	if !o.CanTransitionTo(StatusShipped) {
		return nil, o.TransitionError(StatusShipped)
	}
	if ship.CourierName == "" || ship.TrackingNumber == "" {
		return nil, errors.New("courier name and tracking number are required")
	}

	now := time.Now()
	if err := s.store.TransitionStatus(ctx, orderID, sellerID, StatusAccepted, StatusShipped, &ship, now); err != nil {
		return nil, err
	}

	o.Status = StatusShipped
	o.CourierName = ship.CourierName
	o.TrackingNumber = ship.TrackingNumber
	o.EstimatedDelivery = ship.EstimatedDelivery
	o.UpdatedAt = now
	s.notifyBuyer(ctx, o, notification.TypeOrderShipped,
		"Order shipped",
		fmt.Sprintf("Your order is on its way via %s, tracking number %s.", ship.CourierName, ship.TrackingNumber))
	return o, nil
}

// MarkDelivered moves a shipped order to delivered, the terminal happy
// state.
func (s *Service) MarkDelivered(ctx context.Context, orderID, sellerID string) (*Order, error) {
	o, err := s.loadForSeller(ctx, orderID, sellerID)
	if err != nil {
		return nil, err
	}
	if !o.CanTransitionTo(StatusDelivered) {
		return nil, o.TransitionError(StatusDelivered)
	}

	now := time.Now()
	if err := s.store.TransitionStatus(ctx, orderID, sellerID, StatusShipped, StatusDelivered, nil, now); err != nil {
		return nil, err
	}

	o.Status = StatusDelivered
	o.UpdatedAt = now
	s.notifyBuyer(ctx, o, notification.TypeOrderDelivered,
		"Order delivered",
		"Your order has been delivered. Enjoy!")
	return o, nil
}

type deduction struct {
	item     OrderItem
	previous int
	current  int
}

// compensate restores stock for lines that were already deducted and
// writes matching return entries. Failures here are logged; there is no
// second-level compensation.
func (s *Service) compensate(ctx context.Context, o *Order, sellerID string, deducted []deduction, reason string) {
	for _, d := range deducted {
		previous, current, err := s.products.AdjustStock(ctx, d.item.ProductID, d.item.Quantity)
		if err != nil {
			log.Printf("[Order] stock compensation failed for product %s order %s: %v", d.item.ProductID, o.ID, err)
			continue
		}
		if _, err := s.ledger.Record(ctx, d.item.ProductID, inventory.ChangeReturn, d.item.Quantity, previous, current, o.ID, sellerID, reason); err != nil {
			log.Printf("[Order] compensation ledger append failed for product %s order %s: %v", d.item.ProductID, o.ID, err)
		}
	}
}

func (s *Service) loadForSeller(ctx context.Context, orderID, sellerID string) (*Order, error) {
	o, err := s.store.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.SellerID != sellerID {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (s *Service) notifyBuyer(ctx context.Context, o *Order, t notification.Type, title, message string) {
	if s.notifications == nil {
		return
	}
	if _, err := s.notifications.Create(ctx, o.BuyerID, t, title, message, o.ID); err != nil {
		log.Printf("[Order] failed to notify buyer %s for order %s: %v", o.BuyerID, o.ID, err)
	}
}

// FormatMoney renders minor units as a dollar string, e.g. 1999 -> $19.99.
func FormatMoney(amount int) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s$%d.%02d", sign, amount/100, amount%100)
}
