package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"chrono-checkout/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockWebhookService is a mock implementation of WebhookService.
type MockWebhookService struct {
	mock.Mock
}

func (m *MockWebhookService) Handle(ctx context.Context, n *model.WebhookNotification, headers model.WebhookHeaders, raw []byte) error {
	args := m.Called(ctx, n, headers, raw)
	return args.Error(0)
}

// panicWebhookService forces an internal panic to exercise the
// always-acknowledge contract.
type panicWebhookService struct{}

func (panicWebhookService) Handle(ctx context.Context, n *model.WebhookNotification, headers model.WebhookHeaders, raw []byte) error {
	panic("boom")
}

func decodeAck(t *testing.T, w *httptest.ResponseRecorder) model.WebhookAck {
	t.Helper()
	var ack model.WebhookAck
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ack))
	return ack
}

func TestWebhookHandler_Handle_Post(t *testing.T) {
	logger := zerolog.Nop()
	mockService := new(MockWebhookService)
	handler := NewWebhookHandler(mockService, logger)

	var gotNotification *model.WebhookNotification
	var gotHeaders model.WebhookHeaders
	mockService.On("Handle", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			gotNotification = args.Get(1).(*model.WebhookNotification)
			gotHeaders = args.Get(2).(model.WebhookHeaders)
		}).
		Return(nil)

	body := []byte(`{"type": "payment", "data": {"id": 4242}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/webhook-mercadopago", bytes.NewBuffer(body))
	req.Header.Set("x-signature", "ts=1700000000,v1=abc")
	req.Header.Set("x-request-id", "req-abc")
	w := httptest.NewRecorder()

	handler.Handle(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	ack := decodeAck(t, w)
	assert.True(t, ack.Received)
	assert.False(t, ack.Error)

	require.NotNil(t, gotNotification)
	assert.Equal(t, "payment", gotNotification.Type)
	assert.Equal(t, "4242", gotNotification.Data.ID.String())
	assert.Equal(t, "ts=1700000000,v1=abc", gotHeaders.Signature)
	assert.Equal(t, "req-abc", gotHeaders.RequestID)
}

func TestWebhookHandler_Handle_PostStringID(t *testing.T) {
	logger := zerolog.Nop()
	mockService := new(MockWebhookService)
	handler := NewWebhookHandler(mockService, logger)

	var gotNotification *model.WebhookNotification
	mockService.On("Handle", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			gotNotification = args.Get(1).(*model.WebhookNotification)
		}).
		Return(nil)

	body := []byte(`{"type": "merchant_order", "data": {"id": "777"}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/webhook-mercadopago", bytes.NewBuffer(body))
	w := httptest.NewRecorder()

	handler.Handle(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, gotNotification)
	assert.Equal(t, "777", gotNotification.Data.ID.String())
}

func TestWebhookHandler_Handle_GetQuery(t *testing.T) {
	tests := []struct {
		name         string
		target       string
		expectedType string
		expectedID   string
	}{
		{
			name:         "data.id and type",
			target:       "/api/webhook-mercadopago?type=payment&data.id=4242",
			expectedType: "payment",
			expectedID:   "4242",
		},
		{
			name:         "topic and id fallbacks",
			target:       "/api/webhook-mercadopago?topic=merchant_order&id=777",
			expectedType: "merchant_order",
			expectedID:   "777",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := zerolog.Nop()
			mockService := new(MockWebhookService)
			handler := NewWebhookHandler(mockService, logger)

			var gotNotification *model.WebhookNotification
			mockService.On("Handle", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
				Run(func(args mock.Arguments) {
					gotNotification = args.Get(1).(*model.WebhookNotification)
				}).
				Return(nil)

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			w := httptest.NewRecorder()

			handler.Handle(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			require.NotNil(t, gotNotification)
			assert.Equal(t, tt.expectedType, gotNotification.Type)
			assert.Equal(t, tt.expectedID, gotNotification.Data.ID.String())
		})
	}
}

func TestWebhookHandler_Handle_InvalidSignature(t *testing.T) {
	logger := zerolog.Nop()
	mockService := new(MockWebhookService)
	handler := NewWebhookHandler(mockService, logger)

	mockService.On("Handle", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(model.ErrInvalidSignature)

	req := httptest.NewRequest(http.MethodPost, "/api/webhook-mercadopago",
		bytes.NewBufferString(`{"type": "payment", "data": {"id": 4242}}`))
	w := httptest.NewRecorder()

	handler.Handle(w, req)

	// Signature failure is the sole non-200 outcome.
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var errResp model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, "Invalid signature", errResp.Error)
}

func TestWebhookHandler_Handle_InternalErrorAcknowledged(t *testing.T) {
	logger := zerolog.Nop()
	mockService := new(MockWebhookService)
	handler := NewWebhookHandler(mockService, logger)

	mockService.On("Handle", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("unexpected internal fault"))

	req := httptest.NewRequest(http.MethodPost, "/api/webhook-mercadopago",
		bytes.NewBufferString(`{"type": "payment", "data": {"id": 4242}}`))
	w := httptest.NewRecorder()

	handler.Handle(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	ack := decodeAck(t, w)
	assert.True(t, ack.Received)
	assert.True(t, ack.Error)
}

func TestWebhookHandler_Handle_PanicAcknowledged(t *testing.T) {
	logger := zerolog.Nop()
	handler := NewWebhookHandler(panicWebhookService{}, logger)

	req := httptest.NewRequest(http.MethodPost, "/api/webhook-mercadopago",
		bytes.NewBufferString(`{"type": "payment", "data": {"id": 4242}}`))
	w := httptest.NewRecorder()

	handler.Handle(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	ack := decodeAck(t, w)
	assert.True(t, ack.Received)
	assert.True(t, ack.Error)
}

func TestWebhookHandler_Handle_MalformedBodyAcknowledged(t *testing.T) {
	logger := zerolog.Nop()
	mockService := new(MockWebhookService)
	handler := NewWebhookHandler(mockService, logger)

	req := httptest.NewRequest(http.MethodPost, "/api/webhook-mercadopago",
		bytes.NewBufferString(`{not json`))
	w := httptest.NewRecorder()

	handler.Handle(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	ack := decodeAck(t, w)
	assert.True(t, ack.Received)
	assert.True(t, ack.Error)

	mockService.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWebhookHandler_Handle_MethodNotAllowed(t *testing.T) {
	logger := zerolog.Nop()
	mockService := new(MockWebhookService)
	handler := NewWebhookHandler(mockService, logger)

	req := httptest.NewRequest(http.MethodDelete, "/api/webhook-mercadopago", nil)
	w := httptest.NewRecorder()

	handler.Handle(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
