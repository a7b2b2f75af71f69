package handler

import (
	"encoding/json"
	"net/http"

	"chrono-checkout/internal/model"
	"chrono-checkout/internal/service"

	"github.com/rs/zerolog"
)

// PreferenceHandler handles checkout preference HTTP requests.
type PreferenceHandler struct {
	service service.PreferenceService
	logger  zerolog.Logger
}

// NewPreferenceHandler creates a new preference handler.
func NewPreferenceHandler(service service.PreferenceService, logger zerolog.Logger) *PreferenceHandler {
	return &PreferenceHandler{
		service: service,
		logger:  logger.With().Str("handler", "preference").Logger(),
	}
}

// Create handles POST /api/create-preference requests. CORS preflight is
// answered by the middleware before reaching here.
func (h *PreferenceHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req model.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	resp, err := h.service.CreatePreference(r.Context(), &req)
	if err != nil {
		status, message := statusForError(err)
		writeError(w, status, message, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
