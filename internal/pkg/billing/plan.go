package billing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/subsyncapp/subsync/app/models"
)

// ErrUnknownPlan signals an explicit plan value outside the catalog.
// Permanent: redelivering the same payload cannot make the plan sellable, so
// callers quarantine the event on the ledger instead of retrying.
var ErrUnknownPlan = errors.New("plan is not in the catalog")

// normalizePlan maps checkout metadata to a catalog plan id. Renewal charges
// carry no metadata at all, so an absent plan falls back to basic; that
// fallback is a policy choice, not a derived fact, and the raw payload stays
// in the webhook ledger for manual review. An explicit value outside the
// catalog is a different condition: it is rejected rather than silently
// coerced.
func normalizePlan(plan string) (string, error) {
	switch p := strings.ToLower(strings.TrimSpace(plan)); p {
	case "":
		return models.PlanBasic, nil
	case models.PlanBasic, models.PlanPro, models.PlanPremium:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPlan, plan)
	}
}

// normalizeBilling defaults absent or unknown billing cycles to monthly. The
// period math treats anything non-yearly as monthly, so an off-catalog value
// here cannot grant unintended time the way an off-catalog plan could grant
// unintended features.
func normalizeBilling(billing string) string {
	switch strings.ToLower(strings.TrimSpace(billing)) {
	case models.BillingYearly:
		return models.BillingYearly
	default:
		return models.BillingMonthly
	}
}
