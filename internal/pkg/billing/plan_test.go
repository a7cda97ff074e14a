package billing

import (
	"errors"
	"testing"
)

func TestNormalizePlan(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "basic", want: "basic"},
		{in: "pro", want: "pro"},
		{in: "premium", want: "premium"},
		{in: "PREMIUM", want: "premium"},
		{in: " pro ", want: "pro"},
		{in: "", want: "basic"},
		{in: "   ", want: "basic"},
	}

	for _, tt := range tests {
		got, err := normalizePlan(tt.in)
		if err != nil {
			t.Fatalf("normalizePlan(%q) returned error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("normalizePlan(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizePlanRejectsOffCatalogValues(t *testing.T) {
	for _, in := range []string{"gold", "enterprise", "free"} {
		if _, err := normalizePlan(in); !errors.Is(err, ErrUnknownPlan) {
			t.Fatalf("normalizePlan(%q) = %v, want ErrUnknownPlan", in, err)
		}
	}
}

func TestNormalizeBilling(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "monthly", want: "monthly"},
		{in: "yearly", want: "yearly"},
		{in: "YEARLY", want: "yearly"},
		{in: "", want: "monthly"},
		{in: "weekly", want: "monthly"},
	}

	for _, tt := range tests {
		if got := normalizeBilling(tt.in); got != tt.want {
			t.Fatalf("normalizeBilling(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
