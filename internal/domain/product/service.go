package product

import (
	"context"
	"strings"
	"time"

	"github.com/example/marketplace/internal/domain/inventory"
	"github.com/google/uuid"
)

type Service struct {
	store  Store
	ledger *inventory.Service
}

func NewService(store Store, ledger *inventory.Service) *Service {
	return &Service{store: store, ledger: ledger}
}

// CreateInput carries the seller-entered fields for a new listing.
type CreateInput struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Price         int      `json:"price"`
	OriginalPrice int      `json:"original_price"`
	Images        []string `json:"images"`
	Category      string   `json:"category"`
	Stock         int      `json:"stock"`
	Featured      bool     `json:"featured"`
}

func (s *Service) Create(ctx context.Context, sellerID, sellerName string, in CreateInput) (*Product, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrInvalidTitle
	}
	if in.Price <= 0 {
		return nil, ErrInvalidPrice
	}
	if in.Stock < 0 {
		return nil, ErrInvalidStock
	}

	p := &Product{
		ID:            uuid.New().String(),
		SellerID:      sellerID,
		SellerName:    sellerName,
		Title:         in.Title,
		Description:   in.Description,
		Price:         in.Price,
		OriginalPrice: in.OriginalPrice,
		Images:        in.Images,
		Category:      in.Category,
		Stock:         in.Stock,
		Featured:      in.Featured,
		CreatedAt:     time.Now(),
	}
	if err := s.store.Insert(ctx, p); err != nil {
		return nil, err
	}

	if in.Stock > 0 {
		if _, err := s.ledger.Record(ctx, p.ID, inventory.ChangeAdd, in.Stock, 0, in.Stock, "", sellerID, "initial stock"); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Product, error) {
	return s.store.List(ctx)
}

func (s *Service) ListBySeller(ctx context.Context, sellerID string) ([]*Product, error) {
	return s.store.ListBySeller(ctx, sellerID)
}

// Search does a linear case-insensitive substring match over title,
// description and category. No relevance ranking.
func (s *Service) Search(ctx context.Context, query string) ([]*Product, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return all, nil
	}
	matched := make([]*Product, 0)
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Description), q) ||
			strings.Contains(strings.ToLower(p.Category), q) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// History returns the stock audit trail for a seller's own product.
func (s *Service) History(ctx context.Context, sellerID, productID string) ([]*inventory.Entry, error) {
	p, err := s.store.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.SellerID != sellerID {
		return nil, ErrNotOwner
	}
	return s.ledger.History(ctx, productID)
}

// UpdateInput carries the editable listing fields. Stock is excluded;
// it goes through SetStock so the ledger stays complete.
type UpdateInput struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Price         int      `json:"price"`
	OriginalPrice int      `json:"original_price"`
	Images        []string `json:"images"`
	Category      string   `json:"category"`
	Featured      bool     `json:"featured"`
}

func (s *Service) Update(ctx context.Context, sellerID, productID string, in UpdateInput) (*Product, error) {
	p, err := s.store.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.SellerID != sellerID {
		return nil, ErrNotOwner
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrInvalidTitle
	}
	if in.Price <= 0 {
		return nil, ErrInvalidPrice
	}

	p.Title = in.Title
	p.Description = in.Description
	p.Price = in.Price
	p.OriginalPrice = in.OriginalPrice
	p.Images = in.Images
	p.Category = in.Category
	p.Featured = in.Featured

	if err := s.store.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, sellerID, productID string) error {
	p, err := s.store.Get(ctx, productID)
	if err != nil {
		return err
	}
	if p.SellerID != sellerID {
		return ErrNotOwner
	}
	return s.store.Delete(ctx, productID)
}

// SetStock applies a seller's manual stock edit and records the delta
// in the ledger (change type add or remove). The stock write and the
// ledger append are two operations, not one transaction; the ledger can
// lag the stock row if the second write fails.
func (s *Service) SetStock(ctx context.Context, sellerID, productID string, newStock int, reason string) (*Product, error) {
	if newStock < 0 {
		return nil, ErrInvalidStock
	}
	p, err := s.store.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.SellerID != sellerID {
		return nil, ErrNotOwner
	}

	delta := newStock - p.Stock
	if delta == 0 {
		return p, nil
	}

	previous, current, err := s.store.AdjustStock(ctx, productID, delta)
	if err != nil {
		return nil, err
	}

	changeType := inventory.ChangeAdd
	quantity := delta
	if delta < 0 {
		changeType = inventory.ChangeRemove
		quantity = -delta
	}
	if _, err := s.ledger.Record(ctx, productID, changeType, quantity, previous, current, "", sellerID, reason); err != nil {
		return nil, err
	}

	p.Stock = current
	return p, nil
}
