package plans

import "testing"

func TestPriceFor(t *testing.T) {
	tests := []struct {
		plan     string
		billing  string
		wantKobo int64
		wantCode string
	}{
		{plan: "basic", billing: "monthly", wantKobo: 700000, wantCode: "PLN_basic_monthly"},
		{plan: "basic", billing: "yearly", wantKobo: 6720000, wantCode: "PLN_basic_yearly"},
		{plan: "pro", billing: "monthly", wantKobo: 1600000, wantCode: "PLN_pro_monthly"},
		{plan: "pro", billing: "yearly", wantKobo: 15360000, wantCode: "PLN_pro_yearly"},
		{plan: "premium", billing: "monthly", wantKobo: 3000000, wantCode: "PLN_premium_monthly"},
		{plan: "premium", billing: "yearly", wantKobo: 27000000, wantCode: "PLN_premium_yearly"},
	}

	for _, tt := range tests {
		price, err := PriceFor(tt.plan, tt.billing)
		if err != nil {
			t.Fatalf("PriceFor(%q, %q) returned error: %v", tt.plan, tt.billing, err)
		}
		if price.AmountKobo != tt.wantKobo {
			t.Fatalf("PriceFor(%q, %q).AmountKobo = %d, want %d", tt.plan, tt.billing, price.AmountKobo, tt.wantKobo)
		}
		if price.PlanCode != tt.wantCode {
			t.Fatalf("PriceFor(%q, %q).PlanCode = %q, want %q", tt.plan, tt.billing, price.PlanCode, tt.wantCode)
		}
	}
}

func TestPriceForUnknownInputs(t *testing.T) {
	if _, err := PriceFor("enterprise", "monthly"); err == nil {
		t.Fatalf("expected error for unknown plan")
	}
	if _, err := PriceFor("basic", "weekly"); err == nil {
		t.Fatalf("expected error for unknown billing cycle")
	}
}

func TestYearlyIsDiscountedAgainstTwelveMonths(t *testing.T) {
	for id, plan := range Catalog {
		if plan.Yearly.AmountKobo >= plan.Monthly.AmountKobo*12 {
			t.Fatalf("plan %q yearly price %d is not below 12x monthly %d", id, plan.Yearly.AmountKobo, plan.Monthly.AmountKobo)
		}
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName("premium"); got != "Premium" {
		t.Fatalf("DisplayName(premium) = %q", got)
	}
	if got := DisplayName("mystery"); got != "mystery" {
		t.Fatalf("DisplayName should fall back to the id, got %q", got)
	}
}
