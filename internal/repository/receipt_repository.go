package repository

import (
	"context"
	"fmt"

	"chrono-checkout/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// receiptRepository implements ReceiptRepository using PostgreSQL.
type receiptRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewReceiptRepository creates a new PostgreSQL-backed receipt repository.
func NewReceiptRepository(pool *pgxpool.Pool, logger zerolog.Logger) ReceiptRepository {
	return &receiptRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "receipt").Logger(),
	}
}

// RecordDelivery inserts the receipt, relying on the primary key over
// (payment_id, notification_type) to detect redeliveries.
func (r *receiptRepository) RecordDelivery(ctx context.Context, receipt *model.WebhookReceipt) (bool, error) {
	query := `
		INSERT INTO webhook_receipts (id, payment_id, notification_type, request_id, received_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (payment_id, notification_type) DO NOTHING
	`

	tag, err := r.pool.Exec(ctx, query,
		receipt.ID,
		receipt.PaymentID,
		receipt.NotificationType,
		receipt.RequestID,
		receipt.ReceivedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("payment_id", receipt.PaymentID).
			Str("notification_type", receipt.NotificationType).
			Msg("failed to record webhook receipt")
		return false, fmt.Errorf("failed to record webhook receipt: %w", err)
	}

	first := tag.RowsAffected() == 1
	if !first {
		r.logger.Info().
			Str("payment_id", receipt.PaymentID).
			Str("notification_type", receipt.NotificationType).
			Msg("duplicate webhook delivery detected")
	}

	return first, nil
}

// noopReceiptRepository is used when no database is configured: the service
// stays stateless and every delivery is treated as the first.
type noopReceiptRepository struct{}

// NewNoopReceiptRepository creates a receipt repository that records nothing.
func NewNoopReceiptRepository() ReceiptRepository {
	return noopReceiptRepository{}
}

func (noopReceiptRepository) RecordDelivery(ctx context.Context, receipt *model.WebhookReceipt) (bool, error) {
	return true, nil
}
