package notifications

import (
	"log"

	"github.com/subsyncapp/subsync/internal/pkg/jobqueue"
	"github.com/subsyncapp/subsync/internal/pkg/mail"
)

// Dispatcher hands transactional emails to the Redis-backed job queue so
// reconciliation never blocks on SMTP. With no queue wired it degrades to
// synchronous delivery.
type Dispatcher struct {
	queue *jobqueue.Queue
}

// NewDispatcher creates a dispatcher backed by the given queue. queue may be
// nil for synchronous delivery.
func NewDispatcher(queue *jobqueue.Queue) *Dispatcher {
	return &Dispatcher{queue: queue}
}

// SubscriptionConfirmed sends the confirmation email for a freshly activated
// subscription.
func (d *Dispatcher) SubscriptionConfirmed(email, name, plan, billing string) error {
	return d.send(email,
		mail.SubscriptionConfirmedSubject(plan),
		mail.SubscriptionConfirmedBody(name, plan, billing))
}

// PaymentFailed sends the payment-failure notice for a past-due subscription.
func (d *Dispatcher) PaymentFailed(email, name string) error {
	return d.send(email, mail.PaymentFailedSubject(), mail.PaymentFailedBody(name))
}

func (d *Dispatcher) send(to, subject, body string) error {
	if to == "" {
		log.Printf("notifications: dropping %q email with empty recipient", subject)
		return nil
	}
	if d.queue == nil {
		return mail.SendMail(to, subject, body)
	}

	payload := jobqueue.EmailJobPayload{To: to, Subject: subject, Body: body}
	_, err := d.queue.EnqueueJob(jobqueue.JobTypeEmailNotification, payload.ToMap())
	return err
}
