package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"chrono-checkout/internal/model"
	"chrono-checkout/internal/service"

	"github.com/rs/zerolog"
)

// WebhookHandler handles payment processor notifications.
type WebhookHandler struct {
	service service.WebhookService
	logger  zerolog.Logger
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(service service.WebhookService, logger zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{
		service: service,
		logger:  logger.With().Str("handler", "webhook").Logger(),
	}
}

// Handle handles POST|GET /api/webhook-mercadopago requests.
//
// The processor retries until it receives a 200, so every outcome except a
// signature failure acknowledges the delivery: internal faults respond 200
// with an error flag instead of a 5xx that would cause a retry storm.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error().
				Interface("panic", rec).
				Str("method", r.Method).
				Msg("panic while processing notification")
			writeJSON(w, http.StatusOK, model.WebhookAck{Received: true, Error: true})
		}
	}()

	if r.Method != http.MethodPost && r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	notification, raw, err := parseNotification(r)
	if err != nil {
		h.logger.Warn().Err(err).Str("method", r.Method).Msg("unparseable notification")
		writeJSON(w, http.StatusOK, model.WebhookAck{Received: true, Error: true})
		return
	}

	headers := model.WebhookHeaders{
		Signature: r.Header.Get("x-signature"),
		RequestID: r.Header.Get("x-request-id"),
	}

	h.logger.Info().
		Str("type", notification.Type).
		Str("data_id", notification.Data.ID.String()).
		Str("request_id", headers.RequestID).
		Msg("notification received")

	if err := h.service.Handle(r.Context(), notification, headers, raw); err != nil {
		if errors.Is(err, model.ErrInvalidSignature) {
			writeError(w, http.StatusUnauthorized, model.ErrInvalidSignature.Message, h.logger)
			return
		}

		h.logger.Error().Err(err).Msg("notification processing failed")
		writeJSON(w, http.StatusOK, model.WebhookAck{Received: true, Error: true})
		return
	}

	writeJSON(w, http.StatusOK, model.WebhookAck{Received: true})
}

// parseNotification normalizes the two transport shapes the processor uses
// (JSON body on POST, query string on GET) into one typed notification.
func parseNotification(r *http.Request) (*model.WebhookNotification, []byte, error) {
	if r.Method == http.MethodGet {
		q := r.URL.Query()

		notification := &model.WebhookNotification{Type: q.Get("type")}
		if notification.Type == "" {
			notification.Type = q.Get("topic")
		}

		id := q.Get("data.id")
		if id == "" {
			id = q.Get("id")
		}
		notification.Data.ID = model.NotificationID(id)

		return notification, []byte(r.URL.RawQuery), nil
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, nil, err
	}
	defer r.Body.Close()

	var notification model.WebhookNotification
	if err := json.Unmarshal(raw, &notification); err != nil {
		return nil, nil, err
	}

	return &notification, raw, nil
}
