package repository

import (
	"context"

	"chrono-checkout/internal/model"
)

// ReceiptRepository defines the interface for webhook delivery bookkeeping.
type ReceiptRepository interface {
	// RecordDelivery stores a notification receipt. It returns true when
	// this is the first delivery for the (payment id, type) pair, false
	// when the processor redelivered an already-seen notification.
	RecordDelivery(ctx context.Context, receipt *model.WebhookReceipt) (bool, error)
}
