package billing

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"strings"
	"testing"
)

func signBody(payload []byte, secret string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyPaystackWebhookSignature(t *testing.T) {
	payload := []byte(`{"event":"charge.success","data":{"id":42}}`)
	secret := "sk_test_secret"

	validSig := signBody(payload, secret)

	if !VerifyPaystackWebhookSignature(payload, validSig, secret) {
		t.Fatalf("expected valid signature to verify")
	}
	if !VerifyPaystackWebhookSignature(payload, strings.ToUpper(validSig), secret) {
		t.Fatalf("expected uppercase hex signature to verify")
	}
	if VerifyPaystackWebhookSignature(payload, validSig, "sk_test_other") {
		t.Fatalf("expected signature under a different secret to fail")
	}
	if VerifyPaystackWebhookSignature(payload, "deadbeef", secret) {
		t.Fatalf("expected bogus signature to fail")
	}
	if VerifyPaystackWebhookSignature(payload, "not-hex!!", secret) {
		t.Fatalf("expected non-hex signature to fail")
	}
}

func TestVerifyPaystackWebhookSignatureSingleByteChange(t *testing.T) {
	payload := []byte(`{"event":"charge.success","data":{"id":42}}`)
	secret := "sk_test_secret"
	sig := signBody(payload, secret)

	tampered := append([]byte(nil), payload...)
	tampered[len(tampered)-2] = '3'
	if VerifyPaystackWebhookSignature(tampered, sig, secret) {
		t.Fatalf("expected tampered body to fail verification")
	}
}

func TestVerifyPaystackWebhookSignatureEmptyInputs(t *testing.T) {
	payload := []byte(`{}`)
	if VerifyPaystackWebhookSignature(payload, "", "secret") {
		t.Fatalf("expected empty signature to fail")
	}
	if VerifyPaystackWebhookSignature(payload, signBody(payload, ""), "") {
		t.Fatalf("expected empty secret to fail")
	}
}
