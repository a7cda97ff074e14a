package plans

import (
	"fmt"

	"github.com/subsyncapp/subsync/app/models"
)

// Price describes one billing-cycle variant of a plan. Amounts are in kobo,
// matching what the Paystack initialize API expects.
type Price struct {
	AmountKobo int64
	Display    string
	PlanCode   string
}

// Plan is a sellable tier from the static catalog.
type Plan struct {
	ID          string
	Name        string
	Description string
	Features    []string
	Monthly     Price
	Yearly      Price
}

// Catalog mirrors the plans configured in the Paystack dashboard. Plan codes
// must match the PLN_* identifiers created there.
var Catalog = map[string]Plan{
	models.PlanBasic: {
		ID:          models.PlanBasic,
		Name:        "Basic",
		Description: "Perfect for getting started",
		Features: []string{
			"Access to basic dashboard",
			"Email support",
			"5 projects",
			"Basic analytics",
		},
		Monthly: Price{AmountKobo: 700000, Display: "₦7,000", PlanCode: "PLN_basic_monthly"},
		Yearly:  Price{AmountKobo: 6720000, Display: "₦67,200", PlanCode: "PLN_basic_yearly"},
	},
	models.PlanPro: {
		ID:          models.PlanPro,
		Name:        "Pro",
		Description: "Most popular for professionals",
		Features: []string{
			"Everything in Basic",
			"Priority support",
			"Unlimited projects",
			"Advanced analytics",
			"API access",
			"Team collaboration",
		},
		Monthly: Price{AmountKobo: 1600000, Display: "₦16,000", PlanCode: "PLN_pro_monthly"},
		Yearly:  Price{AmountKobo: 15360000, Display: "₦153,600", PlanCode: "PLN_pro_yearly"},
	},
	models.PlanPremium: {
		ID:          models.PlanPremium,
		Name:        "Premium",
		Description: "For enterprises and power users",
		Features: []string{
			"Everything in Pro",
			"Dedicated support",
			"Custom integrations",
			"White-label options",
			"SLA guarantee",
		},
		Monthly: Price{AmountKobo: 3000000, Display: "₦30,000", PlanCode: "PLN_premium_monthly"},
		Yearly:  Price{AmountKobo: 27000000, Display: "₦270,000", PlanCode: "PLN_premium_yearly"},
	},
}

// PriceFor resolves the price variant for a plan id and billing cycle.
func PriceFor(planID, billing string) (Price, error) {
	p, ok := Catalog[planID]
	if !ok {
		return Price{}, fmt.Errorf("unknown plan: %s", planID)
	}
	switch billing {
	case models.BillingYearly:
		return p.Yearly, nil
	case models.BillingMonthly:
		return p.Monthly, nil
	default:
		return Price{}, fmt.Errorf("unknown billing cycle: %s", billing)
	}
}

// DisplayName returns the human-readable plan name, falling back to the id.
func DisplayName(planID string) string {
	if p, ok := Catalog[planID]; ok {
		return p.Name
	}
	return planID
}
