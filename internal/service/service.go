package service

import (
	"context"

	"chrono-checkout/internal/model"
)

// PriceSource resolves cart variant ids to authoritative catalog price
// records. The returned map is keyed by both the bare numeric id and the
// fully qualified catalog id.
type PriceSource interface {
	VariantPrices(ctx context.Context, variantIDs []string) (map[string]model.VariantPrice, error)
}

// PaymentGateway is the payment processor surface the services depend on.
type PaymentGateway interface {
	CreatePreference(ctx context.Context, pref *model.Preference) (*model.PreferenceResult, error)
	GetPayment(ctx context.Context, paymentID string) (*model.PaymentDetails, error)
}

// PreferenceService defines the checkout preference operation.
type PreferenceService interface {
	// CreatePreference re-validates every cart item against the catalog,
	// builds the processor payload and returns the hosted checkout handles.
	CreatePreference(ctx context.Context, req *model.CheckoutRequest) (*model.CheckoutResponse, error)
}

// WebhookService defines processor notification handling.
type WebhookService interface {
	// Handle verifies and processes one notification. It returns
	// model.ErrInvalidSignature when the signature check fails; any other
	// error is an internal fault the transport layer acknowledges anyway.
	Handle(ctx context.Context, n *model.WebhookNotification, headers model.WebhookHeaders, raw []byte) error
}
