package api

import (
	"log"
	"net/http"
	"strings"

	"github.com/example/marketplace/internal/api/middleware"
	"github.com/example/marketplace/internal/auth"
	"github.com/example/marketplace/internal/realtime"
)

func NewRouter(handlers *Handlers, sellerHandlers *SellerHandlers, authHandlers *AuthHandlers, hub *realtime.Hub, jwtService *auth.JWTService) http.Handler {
	mux := http.NewServeMux()

	requireAuth := middleware.AuthMiddleware(jwtService)
	requireSeller := func(h http.HandlerFunc) http.Handler {
		return requireAuth(middleware.RequireRole(auth.RoleSeller)(h))
	}

	// Auth
	mux.HandleFunc("/auth/register", methodHandler(http.MethodPost, authHandlers.Register))
	mux.HandleFunc("/auth/login", methodHandler(http.MethodPost, authHandlers.Login))
	mux.HandleFunc("/auth/refresh", methodHandler(http.MethodPost, authHandlers.Refresh))
	mux.HandleFunc("/auth/logout", methodHandler(http.MethodPost, authHandlers.Logout))
	mux.Handle("/auth/me", requireAuth(http.HandlerFunc(authHandlers.Me)))

	// Products (public catalog; reviews hang off the product path)
	mux.HandleFunc("/products", methodHandler(http.MethodGet, handlers.GetProducts))
	mux.HandleFunc("/products/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/reviews") {
			switch r.Method {
			case http.MethodGet:
				handlers.GetProductReviews(w, r)
			case http.MethodPost:
				requireAuth(http.HandlerFunc(handlers.AddReview)).ServeHTTP(w, r)
			default:
				respondJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
			}
			return
		}
		methodHandler(http.MethodGet, handlers.GetProduct)(w, r)
	})

	// Reviews (author-scoped edits)
	mux.Handle("/reviews/", requireAuth(methodHandler(http.MethodPut, handlers.UpdateReview)))

	// Cart
	mux.Handle("/cart", requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.GetCart(w, r)
		case http.MethodDelete:
			handlers.ClearCart(w, r)
		default:
			respondJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))
	mux.Handle("/cart/items", requireAuth(methodHandler(http.MethodPost, handlers.AddToCart)))
	mux.Handle("/cart/items/", requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			handlers.UpdateCartItem(w, r)
		case http.MethodDelete:
			handlers.RemoveFromCart(w, r)
		default:
			respondJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	// Checkout and buyer orders
	mux.Handle("/checkout", requireAuth(methodHandler(http.MethodPost, handlers.Checkout)))
	mux.Handle("/orders", requireAuth(methodHandler(http.MethodGet, handlers.GetOrders)))
	mux.Handle("/orders/", requireAuth(methodHandler(http.MethodGet, handlers.GetOrder)))

	// Notifications
	mux.Handle("/notifications", requireAuth(methodHandler(http.MethodGet, handlers.GetNotifications)))
	mux.Handle("/notifications/unread", requireAuth(methodHandler(http.MethodGet, handlers.GetUnreadCount)))
	mux.Handle("/notifications/read-all", requireAuth(methodHandler(http.MethodPost, handlers.MarkAllNotificationsRead)))
	mux.Handle("/notifications/", requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/read") {
			handlers.MarkNotificationRead(w, r)
			return
		}
		respondJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
	})))

	// Payments
	mux.Handle("/payments", requireAuth(methodHandler(http.MethodGet, handlers.GetTransactions)))

	// Seller surface
	mux.Handle("/seller/products", requireSeller(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			sellerHandlers.ListProducts(w, r)
		case http.MethodPost:
			sellerHandlers.CreateProduct(w, r)
		default:
			respondJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}))
	mux.Handle("/seller/products/", requireSeller(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		switch {
		case strings.HasSuffix(path, "/stock") && r.Method == http.MethodPut:
			sellerHandlers.SetStock(w, r)
		case strings.HasSuffix(path, "/history") && r.Method == http.MethodGet:
			sellerHandlers.GetInventoryHistory(w, r)
		case r.Method == http.MethodPut:
			sellerHandlers.UpdateProduct(w, r)
		case r.Method == http.MethodDelete:
			sellerHandlers.DeleteProduct(w, r)
		default:
			respondJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}))
	mux.Handle("/seller/orders", requireSeller(sellerHandlers.ListOrders))
	mux.Handle("/seller/orders/", requireSeller(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		path := r.URL.Path
		switch {
		case strings.HasSuffix(path, "/accept"):
			sellerHandlers.AcceptOrder(w, r)
		case strings.HasSuffix(path, "/reject"):
			sellerHandlers.RejectOrder(w, r)
		case strings.HasSuffix(path, "/ship"):
			sellerHandlers.ShipOrder(w, r)
		case strings.HasSuffix(path, "/deliver"):
			sellerHandlers.DeliverOrder(w, r)
		default:
			respondJSONError(w, "Not found", http.StatusNotFound)
		}
	}))
	mux.Handle("/seller/stats", requireSeller(sellerHandlers.GetStats))

	// Realtime order stream
	if hub != nil {
		mux.Handle("/ws/orders", requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := middleware.GetUserFromContext(r.Context())
			if !ok {
				respondJSONError(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			hub.ServeWS(w, r, claims.UserID, claims.Role)
		})))
	}

	return withLogging(mux)
}

func methodHandler(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			respondJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("[API] %s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
