package billing

import "time"

// EventIntent is the closed set of reconciliation intents a Paystack event
// type maps to. Unrecognized event names classify as IntentIgnore.
type EventIntent int

const (
	IntentIgnore EventIntent = iota
	IntentActivate
	IntentCancel
	IntentPastDue
)

func (i EventIntent) String() string {
	switch i {
	case IntentActivate:
		return "activate"
	case IntentCancel:
		return "cancel"
	case IntentPastDue:
		return "past_due"
	default:
		return "ignore"
	}
}

// CheckoutMetadata is echoed back by Paystack from transaction initialization.
// Webhook deliveries for renewals carry no metadata at all, and partial
// metadata is possible; zero values mean "absent".
type CheckoutMetadata struct {
	UserID    uint   `json:"user_id"`
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
	Plan      string `json:"plan"`
	Billing   string `json:"billing"`
}

// ActivationInput is the normalized input for the shared upsert-and-activate
// path used by both the redirect callback and the webhook stream.
type ActivationInput struct {
	UserID            uint
	UserName          string
	UserEmail         string
	Plan              string
	Billing           string
	CustomerCode      string
	AuthorizationCode string
	SubscriptionCode  string
}

// WebhookEventInput is the normalized input for ledger persistence.
type WebhookEventInput struct {
	Provider        string
	ProviderEventID string
	EventType       string
	PayloadJSON     string
	SignatureValid  bool
}

// Notifier dispatches transactional notifications. Reconciliation calls it but
// does not own delivery; failures are logged, never retried here.
type Notifier interface {
	SubscriptionConfirmed(email, name, plan, billing string) error
	PaymentFailed(email, name string) error
}

// Clock abstracts time.Now for deterministic tests.
type Clock func() time.Time
