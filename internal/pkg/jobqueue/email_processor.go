package jobqueue

import (
	"fmt"

	"github.com/subsyncapp/subsync/internal/pkg/mail"
)

// processEmailJob delivers a queued notification email over SMTP. SMTP errors
// bubble up so the queue's retry policy applies.
func (q *Queue) processEmailJob(job *Job) error {
	payload, err := EmailJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("invalid email job payload: %w", err)
	}
	if payload.To == "" {
		return fmt.Errorf("email job %s has no recipient", job.ID)
	}

	return mail.SendMail(payload.To, payload.Subject, payload.Body)
}
