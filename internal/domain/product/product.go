package product

import (
	"context"
	"errors"
	"time"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInvalidTitle      = errors.New("product title is required")
	ErrInvalidPrice      = errors.New("price must be positive")
	ErrInvalidStock      = errors.New("stock must not be negative")
	ErrNotOwner          = errors.New("product belongs to another seller")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Product is a seller-owned listing. Stock is mutated only through
// Store.AdjustStock so every change can be mirrored into the inventory
// ledger.
type Product struct {
	ID            string    `json:"id"`
	SellerID      string    `json:"seller_id"`
	SellerName    string    `json:"seller_name"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Price         int       `json:"price"` // minor units (cents)
	OriginalPrice int       `json:"original_price,omitempty"`
	Images        []string  `json:"images"`
	Category      string    `json:"category"`
	Stock         int       `json:"stock"`
	Rating        float64   `json:"rating"`
	ReviewCount   int       `json:"review_count"`
	Featured      bool      `json:"featured,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Snapshot is the slice of a product a cart line carries. Prices in
// orders are taken from the snapshot, never re-read from the live row.
type Snapshot struct {
	ProductID string `json:"product_id"`
	SellerID  string `json:"seller_id"`
	Title     string `json:"title"`
	Price     int    `json:"price"`
	Image     string `json:"image,omitempty"`
	Stock     int    `json:"stock"`
}

// Snapshot captures the fields a cart line needs.
func (p *Product) Snapshot() Snapshot {
	image := ""
	if len(p.Images) > 0 {
		image = p.Images[0]
	}
	return Snapshot{
		ProductID: p.ID,
		SellerID:  p.SellerID,
		Title:     p.Title,
		Price:     p.Price,
		Image:     image,
		Stock:     p.Stock,
	}
}

// Store is the product persistence.
//
// AdjustStock applies a relative stock change with a compare-and-swap
// guard (stock + delta must stay >= 0) and reports the stock before and
// after; a failed guard returns ErrInsufficientStock.
//
// SetRating overwrites the denormalized review summary; the review
// service owns the numbers.
type Store interface {
	Insert(ctx context.Context, p *Product) error
	Get(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context) ([]*Product, error)
	ListBySeller(ctx context.Context, sellerID string) ([]*Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
	AdjustStock(ctx context.Context, productID string, delta int) (previous, current int, err error)
	SetRating(ctx context.Context, productID string, rating float64, count int) error
}
