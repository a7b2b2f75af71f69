// Package mercadopago implements the payment processor REST client:
// preference creation and payment lookup, both bearer-authenticated.
package mercadopago

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"chrono-checkout/internal/config"
	"chrono-checkout/internal/model"

	"github.com/rs/zerolog"
)

// Client calls the MercadoPago REST API.
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	logger      zerolog.Logger
}

// NewClient creates a new payment processor client.
func NewClient(cfg config.MercadoPagoConfig, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:     cfg.APIBaseURL,
		accessToken: cfg.AccessToken,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger.With().Str("client", "mercadopago").Logger(),
	}
}

// CreatePreference posts a checkout preference and returns the hosted
// checkout identifiers. Processor error bodies are logged server-side and
// never propagated verbatim.
func (c *Client) CreatePreference(ctx context.Context, pref *model.Preference) (*model.PreferenceResult, error) {
	body, err := json.Marshal(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to encode preference: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/checkout/preferences", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build preference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Msg("preference creation request failed")
		return nil, fmt.Errorf("preference creation failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("body", string(raw)).
			Str("external_reference", pref.ExternalReference).
			Msg("preference creation returned non-2xx")
		return nil, fmt.Errorf("preference creation returned status %d", resp.StatusCode)
	}

	var result model.PreferenceResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode preference response: %w", err)
	}

	c.logger.Info().
		Str("preference_id", result.ID).
		Str("external_reference", pref.ExternalReference).
		Msg("preference created")

	return &result, nil
}

// GetPayment fetches the payment record for a webhook notification.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*model.PaymentDetails, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v1/payments/"+url.PathEscape(paymentID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build payment request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("payment_id", paymentID).Msg("payment fetch request failed")
		return nil, fmt.Errorf("payment fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("payment_id", paymentID).
			Str("body", string(raw)).
			Msg("payment fetch returned non-200")
		return nil, fmt.Errorf("payment fetch returned status %d", resp.StatusCode)
	}

	var details model.PaymentDetails
	if err := json.NewDecoder(resp.Body).Decode(&details); err != nil {
		return nil, fmt.Errorf("failed to decode payment response: %w", err)
	}

	return &details, nil
}
