package controllers

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/subsyncapp/subsync/internal/pkg/billing"
	"github.com/subsyncapp/subsync/internal/pkg/constants"
	"github.com/subsyncapp/subsync/internal/pkg/database"
	"github.com/subsyncapp/subsync/internal/pkg/env"
	"github.com/subsyncapp/subsync/internal/pkg/plans"
	"github.com/subsyncapp/subsync/internal/pkg/usercontext"
)

var checkoutValidate = validator.New()

type checkoutRequest struct {
	Plan    string `json:"plan" validate:"required,oneof=basic pro premium"`
	Billing string `json:"billing" validate:"required,oneof=monthly yearly"`
}

// HandleCheckoutInitialize starts a Paystack checkout for the logged-in user.
// The checkout metadata carries user identity and plan choice so both the
// redirect callback and later webhook deliveries can attribute the payment.
func HandleCheckoutInitialize(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Please login first"})
	}

	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	req.Plan = strings.ToLower(strings.TrimSpace(req.Plan))
	req.Billing = strings.ToLower(strings.TrimSpace(req.Billing))
	if err := checkoutValidate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid plan or billing cycle"})
	}

	price, err := plans.PriceFor(req.Plan, req.Billing)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid plan selected"})
	}

	client := billing.NewPaystackClientFromEnv()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	callbackURL := strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", ""), "/") + constants.CallbackRoute
	reference := uuid.New().String()

	tx, err := client.InitializeTransaction(ctx, userCtx.Email, price.AmountKobo, price.PlanCode, reference, callbackURL, billing.CheckoutMetadata{
		UserID:    userCtx.UserID,
		UserName:  userCtx.Username,
		UserEmail: userCtx.Email,
		Plan:      req.Plan,
		Billing:   req.Billing,
	})
	if err != nil {
		log.Printf("checkout init for user %d failed: %v", userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to initialize payment"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":           true,
		"authorization_url": tx.AuthorizationURL,
		"reference":         tx.Reference,
	})
}

// HandlePaystackCallback is the synchronous reconciliation path: the user's
// browser returns from checkout with a transaction reference, which is
// verified against the Paystack API before any store mutation.
func HandlePaystackCallback(c *fiber.Ctx) error {
	reference := strings.TrimSpace(c.Query("reference"))
	if reference == "" {
		return c.Redirect(constants.PricingRoute+"?error="+constants.ErrMissingReference, fiber.StatusSeeOther)
	}

	client := billing.NewPaystackClientFromEnv()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	tx, err := client.VerifyTransaction(ctx, reference)
	if err != nil {
		if errors.Is(err, billing.ErrPaymentNotSuccessful) {
			log.Printf("callback: verification of %s reported failure", reference)
			return c.Redirect(constants.PricingRoute+"?error="+constants.ErrPaymentFailed, fiber.StatusSeeOther)
		}
		log.Printf("callback: verification of %s errored: %v", reference, err)
		return c.Redirect(constants.PricingRoute+"?error="+constants.ErrServerError, fiber.StatusSeeOther)
	}

	svc := billing.NewServiceFromDB(database.GetDB(), billingNotifier)

	meta := tx.Metadata
	if meta.UserEmail == "" {
		meta.UserEmail = tx.CustomerEmail
	}
	if meta.UserID == 0 {
		// Initialization always sets user_id, but verify responses have been
		// seen with truncated metadata; recover through the email lookup.
		user, uerr := svc.ResolveUserByEmail(ctx, meta.UserEmail)
		if uerr != nil {
			log.Printf("callback: cannot attribute transaction %s: %v", reference, uerr)
			return c.Redirect(constants.PricingRoute+"?error="+constants.ErrServerError, fiber.StatusSeeOther)
		}
		meta.UserID = user.ID
		if meta.UserName == "" {
			meta.UserName = user.Name
		}
	}

	if _, err := svc.Activate(ctx, billing.ActivationInput{
		UserID:            meta.UserID,
		UserName:          meta.UserName,
		UserEmail:         meta.UserEmail,
		Plan:              meta.Plan,
		Billing:           meta.Billing,
		CustomerCode:      tx.CustomerCode,
		AuthorizationCode: tx.AuthorizationCode,
		SubscriptionCode:  tx.SubscriptionCode,
	}); err != nil {
		// A verified payment that cannot be persisted must not masquerade as
		// success; the user lands back on pricing and the log carries the cause.
		log.Printf("callback: persisting subscription for user %d failed: %v", meta.UserID, err)
		return c.Redirect(constants.PricingRoute+"?error="+constants.ErrServerError, fiber.StatusSeeOther)
	}

	return c.Redirect(constants.DashboardRoute+"?success=true", fiber.StatusSeeOther)
}
