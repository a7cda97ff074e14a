package controllers

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWebhookTestApp() *fiber.App {
	app := fiber.New()
	app.Post("/api/paystack/webhook", HandlePaystackWebhook)
	return app
}

func paystackSign(body []byte, secret string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	t.Setenv("PAYSTACK_SECRET_KEY", "sk_test_secret")
	app := newWebhookTestApp()

	req := httptest.NewRequest("POST", "/api/paystack/webhook",
		strings.NewReader(`{"event":"charge.success","data":{"id":1}}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	t.Setenv("PAYSTACK_SECRET_KEY", "sk_test_secret")
	app := newWebhookTestApp()

	body := `{"event":"charge.success","data":{"id":1}}`
	req := httptest.NewRequest("POST", "/api/paystack/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Paystack-Signature", paystackSign([]byte(body), "some-other-secret"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestWebhookRejectsUnparseableSignedBody(t *testing.T) {
	t.Setenv("PAYSTACK_SECRET_KEY", "sk_test_secret")
	app := newWebhookTestApp()

	body := `not json at all`
	req := httptest.NewRequest("POST", "/api/paystack/webhook", strings.NewReader(body))
	req.Header.Set("X-Paystack-Signature", paystackSign([]byte(body), "sk_test_secret"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
