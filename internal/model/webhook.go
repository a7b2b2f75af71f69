package model

import (
	"bytes"
	"time"

	"github.com/google/uuid"
)

// NotificationID tolerates both JSON encodings MercadoPago uses for the
// data.id field (a bare number for payments, a string for merchant orders).
type NotificationID string

func (id *NotificationID) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if string(b) == "null" {
		*id = ""
		return nil
	}
	*id = NotificationID(b)
	return nil
}

func (id NotificationID) String() string {
	return string(id)
}

// Notification types delivered by the payment processor.
const (
	NotificationTypePayment       = "payment"
	NotificationTypeMerchantOrder = "merchant_order"
)

// WebhookNotification is the normalized form of an inbound processor
// callback, whether it arrived as a JSON body (POST) or query string (GET).
type WebhookNotification struct {
	Type string         `json:"type"`
	Data struct {
		ID NotificationID `json:"id"`
	} `json:"data"`
}

// WebhookHeaders are the two signature-bearing headers of a notification.
type WebhookHeaders struct {
	Signature string // x-signature: "ts=<unix>,v1=<hex hmac>"
	RequestID string // x-request-id
}

// WebhookReceipt records one accepted notification delivery, keyed by
// payment id and notification type for duplicate detection.
type WebhookReceipt struct {
	ID               uuid.UUID `db:"id"`
	PaymentID        string    `db:"payment_id"`
	NotificationType string    `db:"notification_type"`
	RequestID        string    `db:"request_id"`
	ReceivedAt       time.Time `db:"received_at"`
}

// WebhookAck is the acknowledgement body returned to the processor.
type WebhookAck struct {
	Received bool `json:"received"`
	Error    bool `json:"error,omitempty"`
}

// PaymentDetails is the subset of the processor's payment record used for
// status logging and fulfillment hooks.
type PaymentDetails struct {
	ID                int64   `json:"id"`
	Status            string  `json:"status"`
	StatusDetail      string  `json:"status_detail"`
	ExternalReference string  `json:"external_reference"`
	TransactionAmount float64 `json:"transaction_amount"`
}
