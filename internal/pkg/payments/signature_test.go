package payments

import "testing"

func TestVerifyPaymentSignature(t *testing.T) {
	secret := "test-key-secret"
	sig := SignPayload([]byte("order_abc|pay_xyz"), secret)

	if !VerifyPaymentSignature("order_abc", "pay_xyz", sig, secret) {
		t.Fatal("valid signature rejected")
	}
	if VerifyPaymentSignature("order_abc", "pay_other", sig, secret) {
		t.Fatal("signature accepted for wrong payment id")
	}
	if VerifyPaymentSignature("order_abc", "pay_xyz", sig, "wrong-secret") {
		t.Fatal("signature accepted with wrong secret")
	}
	if VerifyPaymentSignature("order_abc", "pay_xyz", "", secret) {
		t.Fatal("empty signature accepted")
	}
	if VerifyPaymentSignature("order_abc", "pay_xyz", sig, "") {
		t.Fatal("signature accepted without a configured secret")
	}
}

func TestVerifyWebhookSignature(t *testing.T) {
	secret := "hook-secret"
	body := []byte(`{"id":"evt_1","event":"payment.captured"}`)
	sig := SignPayload(body, secret)

	if !VerifyWebhookSignature(body, sig, secret) {
		t.Fatal("valid webhook signature rejected")
	}
	if VerifyWebhookSignature([]byte(`{"id":"evt_2"}`), sig, secret) {
		t.Fatal("signature accepted for different body")
	}
	if VerifyWebhookSignature(body, sig, "") {
		t.Fatal("webhook accepted without a configured secret")
	}
}
