package controllers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/subsyncapp/subsync/internal/pkg/billing"
	"github.com/subsyncapp/subsync/internal/pkg/database"
	"github.com/subsyncapp/subsync/internal/pkg/usercontext"
)

// HandleSubscriptionQuery returns the logged-in user's subscription state.
// Staleness is resolved on this read: an active row past its period end comes
// back expired, persisted exactly once even under concurrent queries.
func HandleSubscriptionQuery(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}

	svc := billing.NewServiceFromDB(database.GetDB(), billingNotifier)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sub, err := svc.GetSubscription(ctx, userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"plan":    nil,
				"status":  "inactive",
				"billing": nil,
			})
		}
		log.Printf("subscription query for user %d failed: %v", userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch subscription"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"plan":               sub.Plan,
		"billing":            sub.Billing,
		"status":             sub.Status,
		"current_period_end": sub.CurrentPeriodEnd,
		"created_at":         sub.CreatedAt,
	})
}
