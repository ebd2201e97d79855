package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/example/marketplace/internal/domain/order"
	"github.com/example/marketplace/internal/domain/product"
	"github.com/example/marketplace/internal/domain/user"
)

// SellerHandlers groups the endpoints behind the seller role.
type SellerHandlers struct {
	products *product.Service
	orders   *order.Service
	users    *user.Service
}

func NewSellerHandlers(products *product.Service, orders *order.Service, users *user.Service) *SellerHandlers {
	return &SellerHandlers{products: products, orders: orders, users: users}
}

// Product management

func (h *SellerHandlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	sellerID := getUserID(r)

	sellerName := ""
	if u, err := h.users.Get(r.Context(), sellerID); err == nil {
		sellerName = u.Name
	}

	var in product.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	p, err := h.products.Create(r.Context(), sellerID, sellerName, in)
	if err != nil {
		respondProductError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

func (h *SellerHandlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	sellerID := getUserID(r)
	products, err := h.products.ListBySeller(r.Context(), sellerID)
	if err != nil {
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *SellerHandlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	sellerID := getUserID(r)
	id := extractPathParam(r.URL.Path, "/seller/products/")

	var in product.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	p, err := h.products.Update(r.Context(), sellerID, id, in)
	if err != nil {
		respondProductError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *SellerHandlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	sellerID := getUserID(r)
	id := extractPathParam(r.URL.Path, "/seller/products/")

	if err := h.products.Delete(r.Context(), sellerID, id); err != nil {
		respondProductError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SellerHandlers) SetStock(w http.ResponseWriter, r *http.Request) {
	sellerID := getUserID(r)
	id := strings.TrimSuffix(extractPathParam(r.URL.Path, "/seller/products/"), "/stock")

	var req struct {
		Stock  int    `json:"stock"`
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	p, err := h.products.SetStock(r.Context(), sellerID, id, req.Stock, req.Reason)
	if err != nil {
		respondProductError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *SellerHandlers) GetInventoryHistory(w http.ResponseWriter, r *http.Request) {
	sellerID := getUserID(r)
	id := strings.TrimSuffix(extractPathParam(r.URL.Path, "/seller/products/"), "/history")

	entries, err := h.products.History(r.Context(), sellerID, id)
	if err != nil {
		respondProductError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

// Order fulfilment

func (h *SellerHandlers) ListOrders(w http.ResponseWriter, r *http.Request) {
	sellerID := getUserID(r)
	orders, err := h.orders.ListForSeller(r.Context(), sellerID)
	if err != nil {
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *SellerHandlers) AcceptOrder(w http.ResponseWriter, r *http.Request) {
	sellerID := getUserID(r)
	id := strings.TrimSuffix(extractPathParam(r.URL.Path, "/seller/orders/"), "/accept")

	o, err := h.orders.Accept(r.Context(), id, sellerID)
	if err != nil {
		respondOrderError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

func (h *SellerHandlers) RejectOrder(w http.ResponseWriter, r *http.Request) {
	sellerID := getUserID(r)
	id := strings.TrimSuffix(extractPathParam(r.URL.Path, "/seller/orders/"), "/reject")

	o, err := h.orders.Reject(r.Context(), id, sellerID)
	if err != nil {
		respondOrderError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

func (h *SellerHandlers) ShipOrder(w http.ResponseWriter, r *http.Request) {
	sellerID := getUserID(r)
	id := strings.TrimSuffix(extractPathParam(r.URL.Path, "/seller/orders/"), "/ship")

	var req struct {
		CourierName       string     `json:"courier_name"`
		TrackingNumber    string     `json:"tracking_number"`
		EstimatedDelivery *time.Time `json:"estimated_delivery_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	o, err := h.orders.MarkShipped(r.Context(), id, sellerID, order.ShippingInfo{
		CourierName:       req.CourierName,
		TrackingNumber:    req.TrackingNumber,
		EstimatedDelivery: req.EstimatedDelivery,
	})
	if err != nil {
		respondOrderError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

func (h *SellerHandlers) DeliverOrder(w http.ResponseWriter, r *http.Request) {
	sellerID := getUserID(r)
	id := strings.TrimSuffix(extractPathParam(r.URL.Path, "/seller/orders/"), "/deliver")

	o, err := h.orders.MarkDelivered(r.Context(), id, sellerID)
	if err != nil {
		respondOrderError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

func (h *SellerHandlers) GetStats(w http.ResponseWriter, r *http.Request) {
	sellerID := getUserID(r)
	stats, err := h.orders.StatsForSeller(r.Context(), sellerID)
	if err != nil {
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// Error mapping

func respondProductError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, product.ErrProductNotFound):
		respondJSONError(w, "Product not found", http.StatusNotFound)
	case errors.Is(err, product.ErrNotOwner):
		respondJSONError(w, "Not your product", http.StatusForbidden)
	case errors.Is(err, product.ErrInvalidTitle),
		errors.Is(err, product.ErrInvalidPrice),
		errors.Is(err, product.ErrInvalidStock):
		respondJSONError(w, err.Error(), http.StatusBadRequest)
	default:
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
	}
}

func respondOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		respondJSONError(w, "Order not found", http.StatusNotFound)
	case errors.Is(err, order.ErrInsufficientStock):
		respondJSONError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, order.ErrOrderNotPending),
		errors.Is(err, order.ErrOrderNotAccepted),
		errors.Is(err, order.ErrOrderNotShipped),
		errors.Is(err, order.ErrOrderClosed),
		errors.Is(err, order.ErrInvalidTransition):
		respondJSONError(w, err.Error(), http.StatusConflict)
	default:
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
	}
}
