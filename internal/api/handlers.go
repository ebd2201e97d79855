package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/example/marketplace/internal/api/middleware"
	"github.com/example/marketplace/internal/checkout"
	"github.com/example/marketplace/internal/domain/cart"
	"github.com/example/marketplace/internal/domain/notification"
	"github.com/example/marketplace/internal/domain/order"
	"github.com/example/marketplace/internal/domain/payment"
	"github.com/example/marketplace/internal/domain/product"
	"github.com/example/marketplace/internal/domain/review"
)

type Handlers struct {
	products      *product.Service
	carts         *cart.Service
	checkout      *checkout.Service
	orders        *order.Service
	notifications *notification.Service
	payments      *payment.Service
	reviews       *review.Service
}

func NewHandlers(products *product.Service, carts *cart.Service, co *checkout.Service, orders *order.Service, notifications *notification.Service, payments *payment.Service, reviews *review.Service) *Handlers {
	return &Handlers{
		products:      products,
		carts:         carts,
		checkout:      co,
		orders:        orders,
		notifications: notifications,
		payments:      payments,
		reviews:       reviews,
	}
}

// Product Handlers

func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	if q := r.URL.Query().Get("q"); q != "" {
		products, err := h.products.Search(r.Context(), q)
		if err != nil {
			respondJSONError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		respondJSON(w, http.StatusOK, products)
		return
	}

	products, err := h.products.List(r.Context())
	if err != nil {
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/products/")
	p, err := h.products.Get(r.Context(), id)
	if err != nil {
		respondJSONError(w, "Product not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// Review Handlers

func (h *Handlers) GetProductReviews(w http.ResponseWriter, r *http.Request) {
	productID := strings.TrimSuffix(extractPathParam(r.URL.Path, "/products/"), "/reviews")
	reviews, err := h.reviews.ListByProduct(r.Context(), productID)
	if err != nil {
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, reviews)
}

func (h *Handlers) AddReview(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)
	productID := strings.TrimSuffix(extractPathParam(r.URL.Path, "/products/"), "/reviews")

	var req struct {
		OrderID string `json:"order_id"`
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	rev, err := h.reviews.Add(r.Context(), userID, productID, req.OrderID, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, review.ErrInvalidRating):
			respondJSONError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, product.ErrProductNotFound):
			respondJSONError(w, "Product not found", http.StatusNotFound)
		default:
			respondJSONError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	respondJSON(w, http.StatusCreated, rev)
}

func (h *Handlers) UpdateReview(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)
	id := extractPathParam(r.URL.Path, "/reviews/")

	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	rev, err := h.reviews.Update(r.Context(), userID, id, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, review.ErrInvalidRating):
			respondJSONError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, review.ErrNotAuthor):
			respondJSONError(w, "forbidden", http.StatusForbidden)
		case errors.Is(err, review.ErrReviewNotFound):
			respondJSONError(w, "Review not found", http.StatusNotFound)
		default:
			respondJSONError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	respondJSON(w, http.StatusOK, rev)
}

// Cart Handlers

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)
	c, err := h.carts.Get(r.Context(), userID)
	if err != nil {
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)

	var req struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// The snapshot priced into the cart is the product as it is right now.
	p, err := h.products.Get(r.Context(), req.ProductID)
	if err != nil {
		respondJSONError(w, "Product not found", http.StatusNotFound)
		return
	}

	c, err := h.carts.Add(r.Context(), userID, p.Snapshot(), req.Quantity)
	if err != nil {
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *Handlers) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)
	productID := extractPathParam(r.URL.Path, "/cart/items/")

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	c, err := h.carts.UpdateQuantity(r.Context(), userID, productID, req.Quantity)
	if err != nil {
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *Handlers) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)
	productID := extractPathParam(r.URL.Path, "/cart/items/")

	c, err := h.carts.Remove(r.Context(), userID, productID)
	if err != nil {
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)
	if err := h.carts.Clear(r.Context(), userID); err != nil {
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Checkout and Order Handlers

func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)

	var details checkout.Details
	if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	orders, err := h.checkout.PlaceOrders(r.Context(), userID, details)
	if err != nil {
		var partial *checkout.PartialError
		switch {
		case errors.As(err, &partial):
			// Some orders were created; report both sides.
			respondJSON(w, http.StatusConflict, map[string]any{
				"error":         partial.Error(),
				"orders":        partial.Created,
				"failed_seller": partial.FailedSeller,
			})
		case errors.Is(err, checkout.ErrEmptyCart),
			errors.Is(err, checkout.ErrMissingField),
			errors.Is(err, checkout.ErrInvalidPaymentMethod):
			respondJSONError(w, err.Error(), http.StatusBadRequest)
		default:
			respondJSONError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	respondJSON(w, http.StatusCreated, orders)
}

func (h *Handlers) GetOrders(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)
	orders, err := h.orders.ListForBuyer(r.Context(), userID)
	if err != nil {
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)
	id := extractPathParam(r.URL.Path, "/orders/")

	o, err := h.orders.Get(r.Context(), id)
	if err != nil {
		respondJSONError(w, "Order not found", http.StatusNotFound)
		return
	}
	// Visible to its buyer or its seller, nobody else.
	if o.BuyerID != userID && o.SellerID != userID {
		respondJSONError(w, "Order not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

// Notification Handlers

func (h *Handlers) GetNotifications(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)
	notifications, err := h.notifications.ListForUser(r.Context(), userID)
	if err != nil {
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, notifications)
}

func (h *Handlers) GetUnreadCount(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)
	count, err := h.notifications.UnreadCount(r.Context(), userID)
	if err != nil {
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"unread": count})
}

func (h *Handlers) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)
	id := strings.TrimSuffix(extractPathParam(r.URL.Path, "/notifications/"), "/read")

	if err := h.notifications.MarkRead(r.Context(), id, userID); err != nil {
		respondJSONError(w, "Notification not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)
	if err := h.notifications.MarkAllRead(r.Context(), userID); err != nil {
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Payment Handlers

func (h *Handlers) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)
	transactions, err := h.payments.ListForUser(r.Context(), userID)
	if err != nil {
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, transactions)
}

// Helpers

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondJSONError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, status, map[string]string{"error": message})
}

func extractPathParam(path, prefix string) string {
	return strings.TrimPrefix(path, prefix)
}

func getUserID(r *http.Request) string {
	return middleware.GetUserID(r.Context())
}
