package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// VerifyPaymentSignature checks the checkout confirmation signature,
// an HMAC-SHA256 over "orderID|paymentID" keyed with the API secret.
func VerifyPaymentSignature(orderID, paymentID, signature, keySecret string) bool {
	if strings.TrimSpace(keySecret) == "" {
		return false
	}
	return verifyHMAC([]byte(orderID+"|"+paymentID), signature, keySecret)
}

// VerifyWebhookSignature checks the X-Razorpay-Signature header
// against the exact raw request body. Returns false when no webhook
// secret is configured; callers must treat that as a rejection.
func VerifyWebhookSignature(rawBody []byte, signature, webhookSecret string) bool {
	if strings.TrimSpace(webhookSecret) == "" {
		return false
	}
	return verifyHMAC(rawBody, signature, webhookSecret)
}

func verifyHMAC(payload []byte, signature, secret string) bool {
	sig := strings.TrimSpace(signature)
	if sig == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(sig)))
}

// SignPayload computes the hex HMAC-SHA256 of a payload. Exported for
// tests that need to forge valid signatures.
func SignPayload(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
