package controllers

import (
	"github.com/subsyncapp/subsync/internal/pkg/billing"
)

// billingNotifier is injected at bootstrap so reconciliation handlers can
// dispatch notifications through the job queue. Left nil (tests, migrate CLI)
// notification dispatch is skipped.
var billingNotifier billing.Notifier

// InitializeBillingControllers wires the notification dispatcher used by the
// callback and webhook handlers.
func InitializeBillingControllers(notifier billing.Notifier) {
	billingNotifier = notifier
}
