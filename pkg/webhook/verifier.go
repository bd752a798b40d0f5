// Package webhook authenticates Square webhook notifications and evicts the
// cached catalog views when the catalog changes.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

const (
	// NotificationPath is where Square delivers notifications.
	NotificationPath = "/api/webhooks/square"

	// SignatureHeader carries the base64 HMAC-SHA256 signature.
	SignatureHeader = "x-square-hmacsha256-signature"

	// DefaultPublicBaseURL is used when no public base URL is configured.
	DefaultPublicBaseURL = "http://localhost:3000"
)

// NotificationURL is the URL Square signs alongside the body. It must match
// the subscription URL registered with Square byte for byte.
func NotificationURL(publicBaseURL string) string {
	if publicBaseURL == "" {
		publicBaseURL = DefaultPublicBaseURL
	}
	return publicBaseURL + NotificationPath
}

// Verifier checks notification signatures.
type Verifier struct {
	key             []byte
	notificationURL string
}

// NewVerifier creates a verifier. An empty key disables verification.
func NewVerifier(signatureKey, notificationURL string) *Verifier {
	return &Verifier{
		key:             []byte(signatureKey),
		notificationURL: notificationURL,
	}
}

// Enabled reports whether a signing key is configured.
func (v *Verifier) Enabled() bool {
	return len(v.key) > 0
}

// Sign returns the signature Square would send for body.
func (v *Verifier) Sign(body []byte) string {
	mac := hmac.New(sha256.New, v.key)
	mac.Write([]byte(v.notificationURL))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Valid reports whether signature authenticates body. Every body is valid
// when no key is configured. The comparison is constant time.
func (v *Verifier) Valid(body []byte, signature string) bool {
	if !v.Enabled() {
		return true
	}
	if signature == "" {
		return false
	}
	return hmac.Equal([]byte(v.Sign(body)), []byte(signature))
}
