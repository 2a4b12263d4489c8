package router

import (
	"net/http"
	"strings"

	"skullcart/internal/handler"
	"skullcart/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	cartHandler *handler.CartHandler,
	checkoutHandler *handler.CheckoutHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Cart routes: GET/DELETE on the cart itself, POST on its coupon.
	cartRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			cartHandler.Get(w, r)
		case http.MethodDelete:
			cartHandler.Clear(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
	mux.HandleFunc("/api/cart", cartRouteHandler)
	mux.HandleFunc("/api/cart/", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/cart/":
			cartRouteHandler(w, r)
		case r.URL.Path == "/api/cart/coupon":
			cartHandler.ApplyCoupon(w, r)
		case r.URL.Path == "/api/cart/items":
			cartHandler.AddItem(w, r)
		case strings.HasPrefix(r.URL.Path, "/api/cart/items/"):
			cartHandler.RemoveItem(w, r)
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	})

	// Checkout routes: the gated total and the completion callback.
	mux.HandleFunc("/api/checkout", checkoutHandler.Summary)
	mux.HandleFunc("/api/checkout/complete", checkoutHandler.Complete)

	// Apply middleware in order: Recovery -> Logging -> RequestID -> CORS -> APIKeyAuth
	var h http.Handler = mux
	h = middleware.APIKeyAuth(apiKey, logger)(h)
	h = middleware.CORS(h)
	h = middleware.RequestID(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
