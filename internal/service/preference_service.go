package service

import (
	"context"
	"fmt"
	"strings"

	"chrono-checkout/internal/config"
	"chrono-checkout/internal/model"

	"github.com/rs/zerolog"
)

// preferenceService implements PreferenceService.
type preferenceService struct {
	prices   PriceSource
	gateway  PaymentGateway
	mpCfg    config.MercadoPagoConfig
	checkout config.CheckoutConfig
	logger   zerolog.Logger
}

// NewPreferenceService creates a new preference service.
func NewPreferenceService(
	prices PriceSource,
	gateway PaymentGateway,
	mpCfg config.MercadoPagoConfig,
	checkout config.CheckoutConfig,
	logger zerolog.Logger,
) PreferenceService {
	return &preferenceService{
		prices:   prices,
		gateway:  gateway,
		mpCfg:    mpCfg,
		checkout: checkout,
		logger:   logger.With().Str("service", "preference").Logger(),
	}
}

// CreatePreference builds and submits a checkout preference. Every line
// item price comes from the catalog lookup made during this call; client
// input never reaches a unit_price field.
func (s *preferenceService) CreatePreference(ctx context.Context, req *model.CheckoutRequest) (*model.CheckoutResponse, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	if s.mpCfg.AccessToken == "" {
		// Deployment fault, not a client error. Logged loudly so it pages.
		s.logger.Error().Msg("payment access token is not configured")
		return nil, model.ErrPaymentConfig
	}

	variantIDs := make([]string, len(req.Items))
	for i, item := range req.Items {
		variantIDs[i] = item.VariantID
	}

	priceMap, err := s.prices.VariantPrices(ctx, variantIDs)
	if err != nil {
		s.logger.Error().Err(err).Int("variant_count", len(variantIDs)).Msg("catalog price lookup failed")
		return nil, fmt.Errorf("failed to fetch catalog prices: %w", err)
	}

	items := make([]model.PreferenceItem, 0, len(req.Items)+1)
	for _, cartItem := range req.Items {
		record, ok := priceMap[cartItem.VariantID]
		if !ok {
			s.logger.Warn().
				Str("variant_id", cartItem.VariantID).
				Str("title", cartItem.Title).
				Msg("cart variant missing from catalog lookup")
			return nil, model.ErrProductNotFound(cartItem.Title)
		}

		if !record.Available {
			s.logger.Warn().
				Str("variant_id", cartItem.VariantID).
				Str("title", record.Title).
				Msg("cart variant unavailable for sale")
			return nil, model.ErrProductUnavailable(itemTitle(cartItem, record))
		}

		items = append(items, model.PreferenceItem{
			ID:         cartItem.VariantID,
			Title:      itemTitle(cartItem, record),
			Quantity:   cartItem.Quantity,
			UnitPrice:  record.Price,
			CurrencyID: s.checkout.CurrencyID,
			PictureURL: cartItem.Image,
		})
	}

	if req.ShippingCost > 0 {
		items = append(items, model.PreferenceItem{
			ID:         "shipping",
			Title:      "Frete",
			Quantity:   1,
			UnitPrice:  clampShipping(req.ShippingCost, s.checkout.MaxShipping),
			CurrencyID: s.checkout.CurrencyID,
		})
	}

	// Audit only; the total is never an input to anything.
	var total float64
	for _, item := range items {
		total += item.UnitPrice * float64(item.Quantity)
	}

	externalReference := NewExternalReference()
	baseURL := s.checkout.BaseURL()

	pref := &model.Preference{
		Items: items,
		Payer: buildPayer(req.Customer),
		BackURLs: model.PreferenceBackURLs{
			Success: baseURL + "/checkout/success",
			Failure: baseURL + "/checkout/failure",
			Pending: baseURL + "/checkout/pending",
		},
		AutoReturn:          "approved",
		NotificationURL:     baseURL + "/api/webhook-mercadopago",
		StatementDescriptor: s.checkout.StatementDescriptor,
		ExternalReference:   externalReference,
	}

	s.logger.Info().
		Str("external_reference", externalReference).
		Int("item_count", len(items)).
		Float64("total", total).
		Str("payer_email", req.Customer.Email).
		Msg("submitting checkout preference")

	result, err := s.gateway.CreatePreference(ctx, pref)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("external_reference", externalReference).
			Msg("preference creation failed")
		return nil, fmt.Errorf("failed to create preference: %w", err)
	}

	return &model.CheckoutResponse{
		PreferenceID:     result.ID,
		InitPoint:        result.InitPoint,
		SandboxInitPoint: result.SandboxInitPoint,
	}, nil
}

// validateRequest applies the client-input preconditions.
func (s *preferenceService) validateRequest(req *model.CheckoutRequest) error {
	if req == nil || len(req.Items) == 0 {
		return model.ErrEmptyCart
	}

	if req.Customer.Email == "" {
		return model.ErrMissingEmail
	}

	for i, item := range req.Items {
		if item.VariantID == "" {
			s.logger.Warn().Int("item_index", i).Str("title", item.Title).Msg("cart item missing variant id")
			return model.ErrMissingVariant
		}

		if item.Quantity < 1 {
			s.logger.Warn().
				Int("item_index", i).
				Str("variant_id", item.VariantID).
				Int("quantity", item.Quantity).
				Msg("invalid quantity")
			return model.ErrInvalidQuantity
		}
	}

	return nil
}

// clampShipping bounds the server-computed shipping cost. Out-of-range
// values are clamped, never rejected.
func clampShipping(cost, max float64) float64 {
	if cost < 0 {
		return 0
	}
	if cost > max {
		return max
	}
	return cost
}

// itemTitle prefers the authoritative catalog title, appending the variant
// title when it is meaningful.
func itemTitle(item model.CartItem, record model.VariantPrice) string {
	title := item.Title
	if title == "" {
		title = record.Title
	}
	if record.Title != "" && record.Title != "Default Title" && record.Title != title {
		return title + " - " + record.Title
	}
	return title
}

// buildPayer maps customer info to the processor payer block, keeping only
// digits in the phone number and postal code.
func buildPayer(customer model.CustomerInfo) model.PreferencePayer {
	payer := model.PreferencePayer{
		Email:   customer.Email,
		Name:    customer.FirstName,
		Surname: customer.LastName,
	}

	if digits := digitsOnly(customer.Phone); digits != "" {
		payer.Phone = &model.PreferencePhone{Number: digits}
	}

	if customer.Address != nil {
		if digits := digitsOnly(customer.Address.ZipCode); digits != "" {
			payer.Address = &model.PreferenceAddress{
				ZipCode:    digits,
				StreetName: customer.Address.Street,
			}
		}
	}

	return payer
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
