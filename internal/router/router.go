package router

import (
	"net/http"

	"chrono-checkout/internal/config"
	"chrono-checkout/internal/handler"
	"chrono-checkout/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	preferenceHandler *handler.PreferenceHandler,
	webhookHandler *handler.WebhookHandler,
	checkout config.CheckoutConfig,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	mux.HandleFunc("/api/create-preference", preferenceHandler.Create)
	mux.HandleFunc("/api/webhook-mercadopago", webhookHandler.Handle)

	// Apply middleware in order: Recovery -> Logging -> CORS
	var h http.Handler = mux
	h = middleware.CORS(checkout.AllowedOrigins, checkout.DefaultOrigin)(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
