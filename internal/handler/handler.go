package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"skullcart/internal/model"

	"github.com/rs/zerolog"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Response is already committed; nothing useful to send.
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeDomainError maps a domain error to a 400 carrying its code, and
// anything else to a generic 500.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		logger.Warn().Str("code", domainErr.Code).Str("error", domainErr.Message).Msg("request rejected")
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: domainErr.Message, Code: domainErr.Code})
		return
	}
	writeError(w, http.StatusInternalServerError, "internal error", logger)
}
