package service

import (
	"crypto/rand"
	"fmt"
	"time"
)

const referenceAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// NewExternalReference generates an order correlation reference of the form
// "order-<unix ms>-<9 random chars>". The random suffix keeps two requests
// within the same millisecond distinct; the reference is advisory
// correlation, not a payment key.
func NewExternalReference() string {
	suffix := make([]byte, 9)
	// rand.Read on crypto/rand never fails on supported platforms.
	_, _ = rand.Read(suffix)
	for i, b := range suffix {
		suffix[i] = referenceAlphabet[int(b)%len(referenceAlphabet)]
	}
	return fmt.Sprintf("order-%d-%s", time.Now().UnixMilli(), suffix)
}
