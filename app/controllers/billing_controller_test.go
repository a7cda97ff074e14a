package controllers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subsyncapp/subsync/internal/pkg/constants"
)

func TestCallbackWithoutReferenceRedirectsToPricing(t *testing.T) {
	app := fiber.New()
	app.Get("/api/paystack/callback", HandlePaystackCallback)

	req := httptest.NewRequest("GET", "/api/paystack/callback", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, constants.PricingRoute+"?error="+constants.ErrMissingReference, resp.Header.Get("Location"))
}

func TestCheckoutRequiresSession(t *testing.T) {
	app := fiber.New()
	app.Post("/api/checkout", HandleCheckoutInitialize)

	req := httptest.NewRequest("POST", "/api/checkout",
		strings.NewReader(`{"plan":"pro","billing":"monthly"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestSubscriptionQueryRequiresSession(t *testing.T) {
	app := fiber.New()
	app.Get("/api/user/subscription", HandleSubscriptionQuery)

	req := httptest.NewRequest("GET", "/api/user/subscription", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
