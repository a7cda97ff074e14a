package models

import "testing"

func TestIsValidPlan(t *testing.T) {
	for _, plan := range []string{PlanBasic, PlanPro, PlanPremium} {
		if !IsValidPlan(plan) {
			t.Fatalf("expected plan %q to be valid", plan)
		}
	}
	for _, plan := range []string{"", "free", "enterprise", "Basic"} {
		if IsValidPlan(plan) {
			t.Fatalf("expected plan %q to be invalid", plan)
		}
	}
}

func TestIsValidBilling(t *testing.T) {
	for _, billing := range []string{BillingMonthly, BillingYearly} {
		if !IsValidBilling(billing) {
			t.Fatalf("expected billing %q to be valid", billing)
		}
	}
	for _, billing := range []string{"", "weekly", "Monthly"} {
		if IsValidBilling(billing) {
			t.Fatalf("expected billing %q to be invalid", billing)
		}
	}
}
