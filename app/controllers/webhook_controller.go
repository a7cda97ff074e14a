package controllers

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/subsyncapp/subsync/app/models"
	"github.com/subsyncapp/subsync/internal/pkg/billing"
	"github.com/subsyncapp/subsync/internal/pkg/database"
	"github.com/subsyncapp/subsync/internal/pkg/env"
	"github.com/subsyncapp/subsync/internal/pkg/metrics/counter"
)

// HandlePaystackWebhook is the asynchronous reconciliation path. Deliveries
// are at-least-once and unordered: a signature check gates all processing,
// the ledger insert dedupes replays, and every resolvable outcome is
// acknowledged with 200 so Paystack stops redelivering events that can never
// succeed (unknown user, intentionally ignored types).
func HandlePaystackWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	signature := strings.TrimSpace(c.Get("X-Paystack-Signature"))
	secret := env.GetEnv("PAYSTACK_SECRET_KEY", "")

	if !billing.VerifyPaystackWebhookSignature(rawBody, signature, secret) {
		log.Print("webhook: invalid signature")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid signature"})
	}

	payload, err := billing.ParsePaystackWebhook(rawBody)
	if err != nil {
		log.Printf("webhook: unparseable signed payload: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payload"})
	}

	_ = counter.AddWebhookReceived(payload.Event)

	svc := billing.NewServiceFromDB(database.GetDB(), billingNotifier)
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	created, stored, err := svc.RecordWebhookEvent(ctx, billing.WebhookEventInput{
		Provider:        models.BillingProviderPaystack,
		ProviderEventID: payload.EventID(),
		EventType:       payload.Event,
		PayloadJSON:     string(rawBody),
		SignatureValid:  true,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Webhook processing failed"})
	}
	if !created && stored.Processed() {
		// Exact replay of an already-applied event; ack without reprocessing.
		_ = counter.AddWebhookDuplicate(payload.Event)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true, "duplicate": true})
	}

	var procErr error
	switch billing.ClassifyEvent(payload.Event) {
	case billing.IntentActivate:
		procErr = applyWebhookActivation(ctx, svc, payload)
	case billing.IntentCancel:
		procErr = svc.CancelByEmail(ctx, payload.CustomerEmail)
	case billing.IntentPastDue:
		procErr = svc.MarkPastDueByEmail(ctx, payload.CustomerEmail)
	default:
		log.Printf("webhook: unhandled event %q", payload.Event)
	}

	if errors.Is(procErr, billing.ErrUserNotFound) || errors.Is(procErr, billing.ErrUnknownPlan) {
		// Permanent condition; retrying cannot fix it. Ack and keep the note
		// on the ledger row for manual review.
		log.Printf("webhook: %s not applicable (customer %q): %v", payload.Event, payload.CustomerEmail, procErr)
		if markErr := svc.MarkWebhookProcessed(ctx, stored.ID, procErr); markErr != nil {
			log.Printf("webhook: marking event %d processed failed: %v", stored.ID, markErr)
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true})
	}

	if markErr := svc.MarkWebhookProcessed(ctx, stored.ID, procErr); markErr != nil {
		// An acked delivery whose ledger row still reads unprocessed would be
		// re-applied on redelivery (duplicate notification, period reset), so
		// a failed mark after a clean run must not turn into a 200.
		log.Printf("webhook: marking event %d processed failed: %v", stored.ID, markErr)
		if procErr == nil {
			_ = counter.AddWebhookFailed(payload.Event)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Webhook processing failed"})
		}
	}
	if procErr != nil {
		// Transient (store/notification infrastructure); 500 keeps the event
		// in Paystack's redelivery schedule and the ledger row records the
		// failure until a redelivery succeeds.
		log.Printf("webhook: processing %s failed: %v", payload.Event, procErr)
		_ = counter.AddWebhookFailed(payload.Event)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Webhook processing failed"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true})
}

// applyWebhookActivation funnels a successful-payment event into the same
// upsert-and-activate logic as the redirect callback. Metadata user_id is
// trusted when present; otherwise the customer email resolves the target.
func applyWebhookActivation(ctx context.Context, svc *billing.Service, payload *billing.WebhookPayload) error {
	in := billing.ActivationInput{
		UserID:            payload.Metadata.UserID,
		UserName:          payload.Metadata.UserName,
		UserEmail:         payload.Metadata.UserEmail,
		Plan:              payload.Metadata.Plan,
		Billing:           payload.Metadata.Billing,
		CustomerCode:      payload.CustomerCode,
		AuthorizationCode: payload.AuthorizationCode,
		SubscriptionCode:  payload.SubscriptionCode,
	}
	if in.UserEmail == "" {
		in.UserEmail = payload.CustomerEmail
	}
	if in.UserID == 0 {
		user, err := svc.ResolveUserByEmail(ctx, payload.CustomerEmail)
		if err != nil {
			return err
		}
		in.UserID = user.ID
		if in.UserName == "" {
			in.UserName = user.Name
		}
	}

	_, err := svc.Activate(ctx, in)
	return err
}
