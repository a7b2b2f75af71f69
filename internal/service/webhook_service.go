package service

import (
	"context"
	"fmt"
	"time"

	"chrono-checkout/internal/archive"
	"chrono-checkout/internal/config"
	"chrono-checkout/internal/model"
	"chrono-checkout/internal/repository"
	"chrono-checkout/internal/signature"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// webhookService implements WebhookService.
type webhookService struct {
	gateway  PaymentGateway
	receipts repository.ReceiptRepository
	archiver archive.Archiver
	mpCfg    config.MercadoPagoConfig
	logger   zerolog.Logger
}

// NewWebhookService creates a new webhook service.
func NewWebhookService(
	gateway PaymentGateway,
	receipts repository.ReceiptRepository,
	archiver archive.Archiver,
	mpCfg config.MercadoPagoConfig,
	logger zerolog.Logger,
) WebhookService {
	return &webhookService{
		gateway:  gateway,
		receipts: receipts,
		archiver: archiver,
		mpCfg:    mpCfg,
		logger:   logger.With().Str("service", "webhook").Logger(),
	}
}

// Handle verifies the notification signature and reacts to the reported
// status change. Signature failure is the only error that must be loud;
// everything downstream of verification is best-effort because the
// processor redelivers until it sees a 200.
func (s *webhookService) Handle(ctx context.Context, n *model.WebhookNotification, headers model.WebhookHeaders, raw []byte) error {
	dataID := n.Data.ID.String()

	if err := s.verifySignature(dataID, headers); err != nil {
		return err
	}

	s.archivePayload(ctx, headers.RequestID, raw)

	switch {
	case n.Type == model.NotificationTypePayment && dataID != "":
		s.handlePayment(ctx, dataID, headers.RequestID)

	case n.Type == model.NotificationTypeMerchantOrder && dataID != "":
		s.logger.Info().
			Str("merchant_order_id", dataID).
			Msg("merchant order notification received")

	default:
		s.logger.Info().
			Str("type", n.Type).
			Str("data_id", dataID).
			Msg("unhandled notification type")
	}

	return nil
}

// verifySignature checks the HMAC over the canonical manifest. When no
// signing secret is configured verification is skipped entirely; that is a
// known-insecure development fallback and is logged as such.
func (s *webhookService) verifySignature(dataID string, headers model.WebhookHeaders) error {
	if s.mpCfg.WebhookSecret == "" {
		s.logger.Warn().Msg("webhook secret not configured, skipping signature verification")
		return nil
	}

	if headers.Signature == "" || headers.RequestID == "" {
		s.logger.Warn().
			Bool("has_signature", headers.Signature != "").
			Bool("has_request_id", headers.RequestID != "").
			Msg("notification missing signature headers")
		return model.ErrInvalidSignature
	}

	sig, err := signature.ParseHeader(headers.Signature)
	if err != nil {
		s.logger.Warn().Err(err).Msg("malformed signature header")
		return model.ErrInvalidSignature
	}

	manifest := signature.Manifest(dataID, headers.RequestID, sig.TS)
	expected := signature.Digest(s.mpCfg.WebhookSecret, manifest)

	if !signature.Equal(expected, sig.V1) {
		// The manifest is logged for forensic comparison, never returned.
		s.logger.Warn().
			Str("manifest", manifest).
			Str("request_id", headers.RequestID).
			Msg("webhook signature mismatch")
		return model.ErrInvalidSignature
	}

	return nil
}

// archivePayload stores the raw payload best-effort; archive failures never
// fail the notification.
func (s *webhookService) archivePayload(ctx context.Context, requestID string, raw []byte) {
	if len(raw) == 0 {
		return
	}

	if requestID == "" {
		requestID = uuid.NewString()
	}
	key := time.Now().UTC().Format("2006/01/02") + "/" + requestID + ".json"

	if err := s.archiver.Archive(ctx, key, raw); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to archive webhook payload")
	}
}

// handlePayment fetches the payment record and logs the status transition.
// Fetch failures are logged and swallowed so the processor is not driven
// into a retry storm by a transient fault on our side.
func (s *webhookService) handlePayment(ctx context.Context, paymentID, requestID string) {
	first, err := s.recordDelivery(ctx, paymentID, requestID)
	if err != nil {
		s.logger.Warn().Err(err).Str("payment_id", paymentID).Msg("receipt bookkeeping failed")
	} else if !first {
		s.logger.Info().
			Str("payment_id", paymentID).
			Msg("redelivered payment notification, skipping status handling")
		return
	}

	details, err := s.gateway.GetPayment(ctx, paymentID)
	if err != nil {
		s.logger.Error().Err(err).Str("payment_id", paymentID).Msg("failed to fetch payment details")
		return
	}

	logEvent := s.logger.Info().
		Int64("payment_id", details.ID).
		Str("status", details.Status).
		Str("status_detail", details.StatusDetail).
		Str("external_reference", details.ExternalReference).
		Float64("transaction_amount", details.TransactionAmount)

	switch details.Status {
	case "approved":
		logEvent.Msg("payment approved")
		// TODO: trigger order fulfillment once the fulfillment flow exists.
	case "pending", "in_process":
		logEvent.Msg("payment pending")
	case "rejected":
		logEvent.Msg("payment rejected")
	case "refunded", "cancelled":
		logEvent.Msg("payment reversed")
	default:
		logEvent.Msg("payment status update")
	}
}

// recordDelivery persists the receipt used for duplicate detection.
func (s *webhookService) recordDelivery(ctx context.Context, paymentID, requestID string) (bool, error) {
	receipt := &model.WebhookReceipt{
		ID:               uuid.New(),
		PaymentID:        paymentID,
		NotificationType: model.NotificationTypePayment,
		RequestID:        requestID,
		ReceivedAt:       time.Now().UTC(),
	}

	first, err := s.receipts.RecordDelivery(ctx, receipt)
	if err != nil {
		return true, fmt.Errorf("record delivery: %w", err)
	}
	return first, nil
}
