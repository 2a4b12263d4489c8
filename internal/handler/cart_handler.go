package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"skullcart/internal/cart"
	"skullcart/internal/model"
	"skullcart/internal/pricing"

	"github.com/rs/zerolog"
)

// CartHandler handles cart and coupon HTTP requests, forwarding raw UI
// events into the cart store and pricing engine and returning the
// snapshot the page renders from.
type CartHandler struct {
	store  *cart.Store
	engine *pricing.Engine
	logger zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(store *cart.Store, engine *pricing.Engine, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		store:  store,
		engine: engine,
		logger: logger.With().Str("handler", "cart").Logger(),
	}
}

// CartResponse is the rendered view of the cart: line items plus the
// derived totals and the badge count.
type CartResponse struct {
	Items     []model.LineItem `json:"items"`
	ItemCount int              `json:"itemCount"`
	Pricing   pricing.Snapshot `json:"pricing"`
}

// CouponRequest is the apply-coupon form payload.
type CouponRequest struct {
	Code string `json:"code"`
}

// CouponResponse reports the coupon decision and the refreshed totals.
type CouponResponse struct {
	Applied bool             `json:"applied"`
	Message string           `json:"message"`
	Pricing pricing.Snapshot `json:"pricing"`
}

// Get handles GET /api/cart requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, h.cartResponse())
}

// AddItem handles POST /api/cart/items requests.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var product model.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	if err := h.store.Add(r.Context(), product); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, h.cartResponse())
}

// RemoveItem handles DELETE /api/cart/items/{id} requests.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	// Expecting path: /api/cart/items/{id}
	id := strings.TrimPrefix(r.URL.Path, "/api/cart/items/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "item ID is required", h.logger)
		return
	}

	if err := h.store.Remove(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to remove item", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, h.cartResponse())
}

// Clear handles DELETE /api/cart requests.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	if err := h.store.Clear(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to clear cart", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, h.cartResponse())
}

// ApplyCoupon handles POST /api/cart/coupon requests.
func (h *CartHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req CouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	message, applied := h.engine.ApplyCoupon(req.Code, h.store.Items())

	writeJSON(w, http.StatusOK, CouponResponse{
		Applied: applied,
		Message: message,
		Pricing: h.engine.Evaluate(h.store.Items()),
	})
}

// cartResponse assembles the full rendered cart view.
func (h *CartHandler) cartResponse() CartResponse {
	items := h.store.Items()
	return CartResponse{
		Items:     items,
		ItemCount: h.store.ItemCount(),
		Pricing:   h.engine.Evaluate(items),
	}
}
