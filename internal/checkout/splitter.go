package checkout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/example/marketplace/internal/domain/cart"
	"github.com/example/marketplace/internal/domain/order"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrMissingField         = errors.New("missing required checkout field")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

var validPaymentMethods = map[string]bool{
	"card":   true,
	"upi":    true,
	"wallet": true,
	"cod":    true,
}

// Details carries the buyer-entered checkout form.
type Details struct {
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	City          string `json:"city"`
	State         string `json:"state"`
	ZipCode       string `json:"zip_code"`
	PaymentMethod string `json:"payment_method"`
}

// Validate checks presence of every field and that the payment method
// is one of card, upi, wallet, cod.
func (d Details) Validate() error {
	fields := map[string]string{
		"full_name": d.FullName,
		"email":     d.Email,
		"phone":     d.Phone,
		"address":   d.Address,
		"city":      d.City,
		"state":     d.State,
		"zip_code":  d.ZipCode,
	}
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, name)
		}
	}
	if !validPaymentMethods[d.PaymentMethod] {
		return fmt.Errorf("%w: %s", ErrInvalidPaymentMethod, d.PaymentMethod)
	}
	return nil
}

// shippingAddress flattens the form into the single line stored on each
// order: "address, city, state zip".
func (d Details) shippingAddress() string {
	return fmt.Sprintf("%s, %s, %s %s", d.Address, d.City, d.State, d.ZipCode)
}

// SellerGroup is one seller's slice of the cart.
type SellerGroup struct {
	SellerID string
	Items    []order.OrderItem
}

// SplitBySeller partitions cart lines by seller. Group order follows
// the first appearance of each seller in the cart, and lines keep their
// cart order within a group, so the same cart always splits the same
// way.
func SplitBySeller(items []cart.Item) []SellerGroup {
	groups := make([]SellerGroup, 0)
	index := make(map[string]int)
	for _, item := range items {
		oi := order.OrderItem{
			ProductID: item.ProductID,
			Title:     item.Product.Title,
			Price:     item.Product.Price,
			Quantity:  item.Quantity,
			Image:     item.Product.Image,
		}
		sellerID := item.Product.SellerID
		if i, ok := index[sellerID]; ok {
			groups[i].Items = append(groups[i].Items, oi)
			continue
		}
		index[sellerID] = len(groups)
		groups = append(groups, SellerGroup{SellerID: sellerID, Items: []order.OrderItem{oi}})
	}
	return groups
}
