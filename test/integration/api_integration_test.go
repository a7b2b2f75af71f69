package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"chrono-checkout/internal/archive"
	"chrono-checkout/internal/config"
	"chrono-checkout/internal/handler"
	"chrono-checkout/internal/mercadopago"
	"chrono-checkout/internal/model"
	"chrono-checkout/internal/repository"
	"chrono-checkout/internal/router"
	"chrono-checkout/internal/service"
	"chrono-checkout/internal/shopify"
	"chrono-checkout/internal/signature"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const webhookSecret = "integration-secret"

// fakeShopify serves a fixed variant catalog.
func fakeShopify(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"data": {
				"nodes": [
					{
						"id": "gid://shopify/ProductVariant/123",
						"title": "Calibre 39mm",
						"availableForSale": true,
						"price": {"amount": "18500.00", "currencyCode": "BRL"}
					}
				]
			}
		}`))
	}))
	t.Cleanup(server.Close)
	return server
}

// fakeMercadoPago serves preference creation and payment lookup.
func fakeMercadoPago(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/checkout/preferences", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{
			"id": "pref-integration",
			"init_point": "https://mp.example/init",
			"sandbox_init_point": "https://mp.example/sandbox"
		}`))
	})
	mux.HandleFunc("/v1/payments/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"id": 4242,
			"status": "approved",
			"status_detail": "accredited",
			"external_reference": "order-1700000000000-abc123def",
			"transaction_amount": 18500.0
		}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// setupAPI wires the full stack against fake upstreams.
func setupAPI(t *testing.T) *httptest.Server {
	t.Helper()

	logger := zerolog.Nop()
	shopifyServer := fakeShopify(t)
	mpServer := fakeMercadoPago(t)

	mpCfg := config.MercadoPagoConfig{
		AccessToken:   "APP_USR-integration",
		WebhookSecret: webhookSecret,
		APIBaseURL:    mpServer.URL,
	}
	checkoutCfg := config.CheckoutConfig{
		SiteURL:             "https://loja.example",
		CurrencyID:          "BRL",
		MaxShipping:         500,
		StatementDescriptor: "CHRONO ATELIER",
		AllowedOrigins:      []string{"https://loja.example"},
		DefaultOrigin:       "https://loja.example",
	}

	catalog := shopify.NewClient(config.ShopifyConfig{
		StorefrontToken: "shpat-integration",
		Endpoint:        shopifyServer.URL,
	}, logger)
	gateway := mercadopago.NewClient(mpCfg, logger)

	preferenceService := service.NewPreferenceService(catalog, gateway, mpCfg, checkoutCfg, logger)
	webhookService := service.NewWebhookService(
		gateway,
		repository.NewNoopReceiptRepository(),
		archive.NewNoopArchiver(),
		mpCfg,
		logger,
	)

	api := httptest.NewServer(router.New(
		handler.NewPreferenceHandler(preferenceService, logger),
		handler.NewWebhookHandler(webhookService, logger),
		checkoutCfg,
		logger,
	))
	t.Cleanup(api.Close)
	return api
}

func TestAPI_CreatePreference(t *testing.T) {
	api := setupAPI(t)

	body, err := json.Marshal(model.CheckoutRequest{
		Items: []model.CartItem{
			{VariantID: "123", Title: "Calibre 39mm", Quantity: 1},
		},
		Customer:     model.CustomerInfo{Email: "payer@example.com"},
		ShippingCost: 49.90,
	})
	require.NoError(t, err)

	resp, err := http.Post(api.URL+"/api/create-preference", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var checkout model.CheckoutResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&checkout))
	assert.Equal(t, "pref-integration", checkout.PreferenceID)
	assert.Equal(t, "https://mp.example/init", checkout.InitPoint)
}

func TestAPI_CreatePreference_UnknownVariant(t *testing.T) {
	api := setupAPI(t)

	body, err := json.Marshal(model.CheckoutRequest{
		Items: []model.CartItem{
			{VariantID: "999", Title: "Calibre 41mm", Quantity: 1},
		},
		Customer: model.CustomerInfo{Email: "payer@example.com"},
	})
	require.NoError(t, err)

	resp, err := http.Post(api.URL+"/api/create-preference", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp model.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Contains(t, errResp.Error, "Calibre 41mm")
}

func TestAPI_Webhook_SignedDelivery(t *testing.T) {
	api := setupAPI(t)

	ts := "1700000000"
	requestID := "req-integration"
	digest := signature.Digest(webhookSecret, signature.Manifest("4242", requestID, ts))

	req, err := http.NewRequest(http.MethodPost, api.URL+"/api/webhook-mercadopago",
		bytes.NewBufferString(`{"type": "payment", "data": {"id": 4242}}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-signature", fmt.Sprintf("ts=%s,v1=%s", ts, digest))
	req.Header.Set("x-request-id", requestID)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var ack model.WebhookAck
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ack))
	assert.True(t, ack.Received)
	assert.False(t, ack.Error)
}

func TestAPI_Webhook_ForgedDelivery(t *testing.T) {
	api := setupAPI(t)

	req, err := http.NewRequest(http.MethodPost, api.URL+"/api/webhook-mercadopago",
		bytes.NewBufferString(`{"type": "payment", "data": {"id": 4242}}`))
	require.NoError(t, err)
	req.Header.Set("x-signature", "ts=1700000000,v1=deadbeef")
	req.Header.Set("x-request-id", "req-forged")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
