package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORS(t *testing.T) {
	allowed := []string{"https://www.chronoatelier.com.br", "https://staging.chronoatelier.com.br"}
	defaultOrigin := "https://www.chronoatelier.com.br"

	tests := []struct {
		name           string
		origin         string
		expectedOrigin string
	}{
		{
			name:           "Allow-listed origin is echoed",
			origin:         "https://staging.chronoatelier.com.br",
			expectedOrigin: "https://staging.chronoatelier.com.br",
		},
		{
			name:           "Unknown origin gets the default",
			origin:         "https://evil.example",
			expectedOrigin: "https://www.chronoatelier.com.br",
		},
		{
			name:           "No origin gets the default",
			origin:         "",
			expectedOrigin: "https://www.chronoatelier.com.br",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := CORS(allowed, defaultOrigin)(okHandler())

			req := httptest.NewRequest(http.MethodPost, "/api/create-preference", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.expectedOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestCORS_Preflight(t *testing.T) {
	handler := CORS([]string{"https://a.example"}, "https://a.example")(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("preflight must not reach the next handler")
		}),
	)

	req := httptest.NewRequest(http.MethodOptions, "/api/create-preference", nil)
	req.Header.Set("Origin", "https://a.example")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://a.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestLogging_SetsCorrelationID(t *testing.T) {
	handler := Logging(zerolog.Nop())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Correlation-ID"))
}

func TestRecovery(t *testing.T) {
	handler := Recovery(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/create-preference", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error": "internal server error"}`, w.Body.String())
}
