package constants

// Static route constants
const (
	PricingRoute   = "/pricing"
	DashboardRoute = "/dashboard"
	CallbackRoute  = "/api/paystack/callback"
	WebhookRoute   = "/api/paystack/webhook"
)

// Redirect error markers carried back to the pricing surface after a failed
// redirect-callback reconciliation.
const (
	ErrMissingReference = "missing_reference"
	ErrPaymentFailed    = "payment_failed"
	ErrServerError      = "server_error"
)
