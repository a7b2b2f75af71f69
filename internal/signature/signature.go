// Package signature implements MercadoPago's webhook signature scheme:
// an HMAC-SHA256 hex digest over a canonical manifest built from the
// notification's data id, the x-request-id header and the timestamp
// carried inside the x-signature header.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Signature is the parsed content of an x-signature header.
type Signature struct {
	TS string
	V1 string
}

// ParseHeader parses an x-signature header of the form
// "ts=<unix>,v1=<hex hmac>". Both keys are required; unknown keys are
// ignored.
func ParseHeader(header string) (Signature, error) {
	var sig Signature

	if header == "" {
		return sig, fmt.Errorf("empty signature header")
	}

	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch strings.TrimSpace(key) {
		case "ts":
			sig.TS = strings.TrimSpace(value)
		case "v1":
			sig.V1 = strings.TrimSpace(value)
		}
	}

	if sig.TS == "" || sig.V1 == "" {
		return Signature{}, fmt.Errorf("signature header missing ts or v1")
	}

	return sig, nil
}

// Manifest builds the canonical string the processor signs. The id segment
// is omitted entirely when the notification carries no data id.
func Manifest(dataID, requestID, ts string) string {
	var b strings.Builder
	if dataID != "" {
		b.WriteString("id:")
		b.WriteString(dataID)
		b.WriteString(";")
	}
	b.WriteString("request-id:")
	b.WriteString(requestID)
	b.WriteString(";ts:")
	b.WriteString(ts)
	b.WriteString(";")
	return b.String()
}

// Digest computes the hex-encoded HMAC-SHA256 of the manifest under the
// shared secret.
func Digest(secret, manifest string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(manifest))
	return hex.EncodeToString(mac.Sum(nil))
}

// Equal compares two digests in constant time. Plain string comparison
// would leak the length of the matching prefix through timing.
func Equal(a, b string) bool {
	return hmac.Equal([]byte(a), []byte(b))
}
