package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"chrono-checkout/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: message})
}

// statusForError maps a service error to the HTTP status and client-facing
// message of the error taxonomy: domain errors carry their own message,
// configuration faults are 500, everything else is a generic 500 with no
// internal detail leaked.
func statusForError(err error) (int, string) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		if domainErr.Code == model.ErrCodePaymentConfig {
			return http.StatusInternalServerError, domainErr.Message
		}
		return http.StatusBadRequest, domainErr.Message
	}
	return http.StatusInternalServerError, "Erro ao criar preferência de pagamento"
}
