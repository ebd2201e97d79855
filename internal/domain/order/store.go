package order

import (
	"context"
	"time"
)

// ShippingInfo is the seller-entered courier data attached on the
// transition to shipped.
type ShippingInfo struct {
	CourierName       string     `json:"courier_name"`
	TrackingNumber    string     `json:"tracking_number"`
	EstimatedDelivery *time.Time `json:"estimated_delivery_date,omitempty"`
}

// SellerStats aggregates a seller's orders by status. Revenue counts
// delivered orders only, in minor units.
type SellerStats struct {
	TotalOrders int `json:"total_orders"`
	Pending     int `json:"pending"`
	Accepted    int `json:"accepted"`
	Rejected    int `json:"rejected"`
	Shipped     int `json:"shipped"`
	Delivered   int `json:"delivered"`
	Revenue     int `json:"revenue"`
}

// Store persists orders. TransitionStatus performs a single conditional
// update scoped by (orderID, sellerID, from); it returns
// ErrOrderNotFound when zero rows match, which covers both a missing
// order and a lost status race. ship is non-nil only for the transition
// to shipped.
type Store interface {
	Insert(ctx context.Context, o *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]*Order, error)
	ListBySeller(ctx context.Context, sellerID string) ([]*Order, error)
	TransitionStatus(ctx context.Context, orderID, sellerID string, from, to Status, ship *ShippingInfo, at time.Time) error
	StatsBySeller(ctx context.Context, sellerID string) (*SellerStats, error)
}
