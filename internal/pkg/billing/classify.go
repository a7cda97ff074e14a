package billing

import "strings"

// ClassifyEvent maps a Paystack event name to a reconciliation intent. The
// default arm is deliberate: new event types Paystack starts sending must
// degrade to IntentIgnore, acknowledged but without state changes.
func ClassifyEvent(eventType string) EventIntent {
	switch strings.ToLower(strings.TrimSpace(eventType)) {
	case "subscription.create", "charge.success":
		return IntentActivate
	case "subscription.not_renew", "subscription.disable":
		return IntentCancel
	case "charge.failed", "invoice.payment_failed":
		return IntentPastDue
	default:
		return IntentIgnore
	}
}
