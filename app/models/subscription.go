package models

import "time"

const (
	PlanBasic   = "basic"
	PlanPro     = "pro"
	PlanPremium = "premium"
)

const (
	BillingMonthly = "monthly"
	BillingYearly  = "yearly"
)

const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusPastDue   = "past_due"
	SubscriptionStatusCancelled = "cancelled"
	SubscriptionStatusExpired   = "expired"
)

// Subscription holds the single per-user billing record reconciled from
// Paystack redirect callbacks and webhook deliveries. Rows are never
// hard-deleted; lapsed access is expressed through status transitions.
type Subscription struct {
	ID                        uint       `gorm:"primaryKey" json:"id"`
	UserID                    uint       `gorm:"not null;uniqueIndex:ux_subscriptions_user" json:"user_id"`
	Plan                      string     `gorm:"type:varchar(20);not null;default:'basic'" json:"plan"`
	Billing                   string     `gorm:"type:varchar(16);not null;default:'monthly'" json:"billing"`
	Status                    string     `gorm:"type:varchar(32);not null;default:'active';index" json:"status"`
	PaystackCustomerCode      string     `gorm:"type:varchar(191);default:''" json:"paystack_customer_code"`
	PaystackAuthorizationCode string     `gorm:"type:varchar(191);default:''" json:"-"`
	PaystackSubscriptionCode  string     `gorm:"type:varchar(191);default:''" json:"paystack_subscription_code"`
	CurrentPeriodStart        *time.Time `gorm:"type:timestamp;default:null" json:"current_period_start,omitempty"`
	CurrentPeriodEnd          *time.Time `gorm:"type:timestamp;default:null" json:"current_period_end,omitempty"`
	CreatedAt                 time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt                 time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsValidPlan reports whether plan is one of the sellable plan identifiers.
func IsValidPlan(plan string) bool {
	switch plan {
	case PlanBasic, PlanPro, PlanPremium:
		return true
	default:
		return false
	}
}

// IsValidBilling reports whether billing is a supported billing cycle.
func IsValidBilling(billing string) bool {
	switch billing {
	case BillingMonthly, BillingYearly:
		return true
	default:
		return false
	}
}
