package mail

import (
	"fmt"

	"github.com/subsyncapp/subsync/internal/pkg/env"
	"github.com/subsyncapp/subsync/internal/pkg/plans"
)

// SubscriptionConfirmedSubject returns the subject line for a subscription
// confirmation email.
func SubscriptionConfirmedSubject(planID string) string {
	return fmt.Sprintf("Subscription Confirmed - %s Plan", plans.DisplayName(planID))
}

// SubscriptionConfirmedBody renders the confirmation email body.
func SubscriptionConfirmedBody(name, planID, billing string) string {
	base := env.GetEnv("PUBLIC_DOMAIN", "")
	amount := ""
	if price, err := plans.PriceFor(planID, billing); err == nil {
		amount = price.Display
	}
	billingLabel := "Monthly"
	if billing == "yearly" {
		billingLabel = "Yearly"
	}

	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
			<h1 style="color: #7c3aed;">Subscription Confirmed!</h1>
			<p>Hi %s,</p>
			<p>Your subscription is now active. Here are your details:</p>
			<div style="background: #f3f4f6; padding: 20px; border-radius: 10px; margin: 20px 0;">
				<p><strong>Plan:</strong> %s</p>
				<p><strong>Billing:</strong> %s</p>
				<p><strong>Amount:</strong> %s</p>
			</div>
			<a href="%s/dashboard"
				 style="display: inline-block; background: #7c3aed; color: white;
								padding: 12px 24px; text-decoration: none; border-radius: 8px;">
				Go to Dashboard
			</a>
			<p style="margin-top: 30px; color: #666;">Thank you for your support!</p>
		</div>`,
		name, plans.DisplayName(planID), billingLabel, amount, base)
}

// PaymentFailedSubject returns the subject line for a failed-payment email.
func PaymentFailedSubject() string {
	return "Payment Failed - Action Required"
}

// PaymentFailedBody renders the failed-payment email body.
func PaymentFailedBody(name string) string {
	base := env.GetEnv("PUBLIC_DOMAIN", "")

	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
			<h1 style="color: #dc2626;">Payment Failed</h1>
			<p>Hi %s,</p>
			<p>We couldn't process your payment. Please update your payment method to continue your subscription.</p>
			<a href="%s/pricing"
				 style="display: inline-block; background: #dc2626; color: white;
								padding: 12px 24px; text-decoration: none; border-radius: 8px; margin-top: 20px;">
				Update Payment
			</a>
			<p style="margin-top: 30px; color: #666;">If you need help, please contact our support team.</p>
		</div>`,
		name, base)
}
