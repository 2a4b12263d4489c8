package handler

import (
	"encoding/json"
	"net/http"

	"skullcart/internal/checkout"
	"skullcart/internal/model"

	"github.com/rs/zerolog"
)

// CheckoutHandler exposes the payment-button boundary over HTTP: the
// gated total for rendering, and the completion callback the payment
// collaborator reports into.
type CheckoutHandler struct {
	service *checkout.Service
	logger  zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(service *checkout.Service, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		logger:  logger.With().Str("handler", "checkout").Logger(),
	}
}

// CompleteRequest is the payment completion callback payload.
type CompleteRequest struct {
	Outcome string `json:"outcome"`
}

// CompleteResponse reports whether the payment cleared the cart.
type CompleteResponse struct {
	Cleared bool `json:"cleared"`
}

// Summary handles GET /api/checkout requests.
func (h *CheckoutHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, h.service.Summary())
}

// Complete handles POST /api/checkout/complete requests.
func (h *CheckoutHandler) Complete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req CompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}
	if req.Outcome == "" {
		writeDomainError(w, model.ErrInvalidOutcome, h.logger)
		return
	}

	cleared, err := h.service.CompletePayment(r.Context(), req.Outcome)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to complete payment", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, CompleteResponse{Cleared: cleared})
}
