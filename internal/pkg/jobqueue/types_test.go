package jobqueue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   JobStatus
		expected string
	}{
		{"Pending", JobStatusPending, "pending"},
		{"Processing", JobStatusProcessing, "processing"},
		{"Completed", JobStatusCompleted, "completed"},
		{"Failed", JobStatusFailed, "failed"},
		{"Retrying", JobStatusRetrying, "retrying"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.status))
		})
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := &Job{ID: "job-1", Type: JobTypeEmailNotification, Status: JobStatusPending}

	job.MarkAsProcessing()
	assert.Equal(t, JobStatusProcessing, job.Status)
	require.NotNil(t, job.ProcessedAt)

	job.MarkAsCompleted()
	assert.Equal(t, JobStatusCompleted, job.Status)
	require.NotNil(t, job.CompletedAt)
}

func TestJob_MarkAsFailedIncrementsRetryCount(t *testing.T) {
	job := &Job{Status: JobStatusProcessing, MaxRetries: 3}

	job.MarkAsFailed("smtp timeout")
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, "smtp timeout", job.ErrorMsg)
	assert.Equal(t, 1, job.RetryCount)
}

func TestJob_IsRetryable(t *testing.T) {
	tests := []struct {
		name      string
		job       *Job
		retryable bool
	}{
		{
			name:      "retries remaining",
			job:       &Job{Status: JobStatusFailed, RetryCount: 1, MaxRetries: 3},
			retryable: true,
		},
		{
			name:      "at the limit",
			job:       &Job{Status: JobStatusFailed, RetryCount: 3, MaxRetries: 3},
			retryable: true,
		},
		{
			name:      "past the limit",
			job:       &Job{Status: JobStatusFailed, RetryCount: 4, MaxRetries: 3},
			retryable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, tt.job.IsRetryable())
		})
	}
}

func TestEmailJobPayloadRoundTrip(t *testing.T) {
	payload := EmailJobPayload{
		To:      "jo@example.com",
		Subject: "Subscription confirmed",
		Body:    "Welcome aboard",
	}

	m := payload.ToMap()
	assert.Equal(t, "jo@example.com", m["to"])

	restored, err := EmailJobPayloadFromMap(m)
	require.NoError(t, err)
	assert.Equal(t, payload, *restored)
}

func TestEmailJobPayloadFromMapIgnoresUnknownKeys(t *testing.T) {
	restored, err := EmailJobPayloadFromMap(map[string]interface{}{
		"to":      "jo@example.com",
		"subject": "Hi",
		"body":    "Hello",
		"extra":   42,
	})
	require.NoError(t, err)
	assert.Equal(t, "jo@example.com", restored.To)
	assert.Equal(t, "Hi", restored.Subject)
}
