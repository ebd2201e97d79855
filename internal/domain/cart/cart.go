package cart

import (
	"time"

	"github.com/example/marketplace/internal/domain/product"
)

// MaxLineQuantity is the absolute per-line ceiling, independent of stock.
const MaxLineQuantity = 10

// Item is one cart line. The product snapshot is taken when the line is
// created and is what checkout prices against.
type Item struct {
	ProductID string           `json:"product_id"`
	Product   product.Snapshot `json:"product"`
	Quantity  int              `json:"quantity"`
}

// Cart is the buyer's in-memory aggregate. Lines are unique by product
// and keep insertion order; the order splitter relies on that for
// stable per-seller grouping.
type Cart struct {
	UserID    string    `json:"user_id"`
	Items     []Item    `json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
}

func New(userID string) *Cart {
	return &Cart{UserID: userID, Items: []Item{}}
}

func (c *Cart) find(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// ceiling is min(stock, MaxLineQuantity) for a given snapshot.
func ceiling(snap product.Snapshot) int {
	limit := MaxLineQuantity
	if snap.Stock < limit {
		limit = snap.Stock
	}
	return limit
}

func clamp(quantity, limit int) int {
	if quantity > limit {
		return limit
	}
	if quantity < 1 {
		return 1
	}
	return quantity
}

// Add inserts a line or increments an existing one. Over-quantity is
// clamped silently rather than rejected; an out-of-stock product is a
// no-op.
func (c *Cart) Add(snap product.Snapshot, quantity int) {
	if snap.ProductID == "" || snap.Stock <= 0 {
		return
	}
	if quantity < 1 {
		quantity = 1
	}
	limit := ceiling(snap)
	if i := c.find(snap.ProductID); i >= 0 {
		c.Items[i].Quantity = clamp(c.Items[i].Quantity+quantity, limit)
		c.Items[i].Product = snap
	} else {
		c.Items = append(c.Items, Item{
			ProductID: snap.ProductID,
			Product:   snap,
			Quantity:  clamp(quantity, limit),
		})
	}
	c.UpdatedAt = time.Now()
}

// Remove deletes a line; absent lines are a no-op.
func (c *Cart) Remove(productID string) {
	i := c.find(productID)
	if i < 0 {
		return
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	c.UpdatedAt = time.Now()
}

// UpdateQuantity sets a line's quantity. Zero or negative removes the
// line; anything else is clamped to [1, min(stock, MaxLineQuantity)].
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	if quantity <= 0 {
		c.Remove(productID)
		return
	}
	i := c.find(productID)
	if i < 0 {
		return
	}
	c.Items[i].Quantity = clamp(quantity, ceiling(c.Items[i].Product))
	c.UpdatedAt = time.Now()
}

// Clear empties the cart, called after a successful checkout.
func (c *Cart) Clear() {
	c.Items = []Item{}
	c.UpdatedAt = time.Now()
}

// Total is the sum of price*quantity over all lines, in minor units.
func (c *Cart) Total() int {
	total := 0
	for _, item := range c.Items {
		total += item.Product.Price * item.Quantity
	}
	return total
}

// ItemCount is the sum of quantities over all lines.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}
