package billing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/subsyncapp/subsync/app/models"
	"gorm.io/gorm"
)

// ErrUserNotFound signals that a webhook's customer email resolved to no
// local account. Permanent: the event is acknowledged and logged, never
// retried, because the processor would otherwise redeliver forever.
var ErrUserNotFound = errors.New("no local user for customer email")

// Service merges processor-reported truth into the per-user subscription
// record. Both the redirect callback and the webhook stream go through the
// same state-transition logic here.
type Service struct {
	repo     Repository
	notifier Notifier
	now      Clock
}

// NewService creates a reconciliation service from an injected repository and
// notifier. A nil notifier disables dispatch (used by the migrate CLI and
// tests that do not assert on notifications).
func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier, now: time.Now}
}

// NewServiceFromDB creates a reconciliation service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, notifier Notifier) *Service {
	return NewService(NewRepository(db), notifier)
}

// WithClock overrides the time source. Tests use it to pin "now".
func (s *Service) WithClock(clock Clock) *Service {
	s.now = clock
	return s
}

// Activate applies the upsert-and-activate transition shared by both event
// sources: compute the period end from now, write the row active in one
// atomic statement, then dispatch exactly one confirmation notification.
// Store failures are returned to the caller, never swallowed. Explicit plan
// values outside the catalog return ErrUnknownPlan without touching the store.
func (s *Service) Activate(ctx context.Context, in ActivationInput) (*models.Subscription, error) {
	if in.UserID == 0 {
		return nil, errors.New("user_id is required")
	}

	plan, err := normalizePlan(in.Plan)
	if err != nil {
		return nil, err
	}
	billing := normalizeBilling(in.Billing)

	now := s.now()
	periodEnd := ComputePeriodEnd(billing, now)

	sub := &models.Subscription{
		UserID:                    in.UserID,
		Plan:                      plan,
		Billing:                   billing,
		Status:                    models.SubscriptionStatusActive,
		PaystackCustomerCode:      strings.TrimSpace(in.CustomerCode),
		PaystackAuthorizationCode: strings.TrimSpace(in.AuthorizationCode),
		PaystackSubscriptionCode:  strings.TrimSpace(in.SubscriptionCode),
		CurrentPeriodStart:        &now,
		CurrentPeriodEnd:          &periodEnd,
		UpdatedAt:                 now,
	}
	if err := s.repo.UpsertActiveSubscription(ctx, sub); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		name := strings.TrimSpace(in.UserName)
		email := strings.TrimSpace(in.UserEmail)
		if name == "" || email == "" {
			// Renewal events arrive without checkout metadata; the account
			// record fills in the recipient.
			if user, lookupErr := s.repo.FindUserByID(ctx, in.UserID); lookupErr == nil {
				if name == "" {
					name = user.Name
				}
				if email == "" {
					email = user.Email
				}
			}
		}
		if name == "" {
			name = "Member"
		}
		if err := s.notifier.SubscriptionConfirmed(email, name, plan, billing); err != nil {
			log.Printf("billing: confirmation notification for user %d failed: %v", in.UserID, err)
		}
	}
	return sub, nil
}

// CancelByEmail resolves the target user by customer email and marks the
// subscription cancelled. Period fields are left untouched so remaining paid
// time stays visible.
func (s *Service) CancelByEmail(ctx context.Context, email string) error {
	user, err := s.resolveUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	_, err = s.repo.TransitionStatus(ctx, user.ID, models.SubscriptionStatusCancelled, s.now())
	return err
}

// MarkPastDueByEmail resolves the target user by customer email, marks the
// subscription past_due and dispatches a payment-failure notification.
func (s *Service) MarkPastDueByEmail(ctx context.Context, email string) error {
	user, err := s.resolveUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	if _, err := s.repo.TransitionStatus(ctx, user.ID, models.SubscriptionStatusPastDue, s.now()); err != nil {
		return err
	}

	if s.notifier != nil {
		if err := s.notifier.PaymentFailed(user.Email, user.Name); err != nil {
			log.Printf("billing: payment-failed notification for user %d failed: %v", user.ID, err)
		}
	}
	return nil
}

// GetSubscription reads the per-user row and resolves staleness lazily: an
// active row whose period end has passed transitions to expired before the
// result is returned. The conditional write means concurrent stale reads
// produce exactly one persisted transition.
func (s *Service) GetSubscription(ctx context.Context, userID uint) (*models.Subscription, error) {
	sub, err := s.repo.GetSubscriptionByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if sub.Status == models.SubscriptionStatusActive && sub.CurrentPeriodEnd != nil && now.After(*sub.CurrentPeriodEnd) {
		if _, err := s.repo.ExpireIfStillActive(ctx, userID, now); err != nil {
			return nil, err
		}
		sub.Status = models.SubscriptionStatusExpired
	}
	return sub, nil
}

// RecordWebhookEvent persists the ledger row idempotently. Events without a
// provider id dedup on a hash of the raw body, so byte-identical redeliveries
// collapse onto one row.
func (s *Service) RecordWebhookEvent(ctx context.Context, in WebhookEventInput) (bool, *models.WebhookEvent, error) {
	provider := strings.ToLower(strings.TrimSpace(in.Provider))
	if provider == "" {
		return false, nil, errors.New("provider is required")
	}
	eventID := strings.TrimSpace(in.ProviderEventID)
	if eventID == "" {
		sum := sha256.Sum256([]byte(in.PayloadJSON))
		eventID = "hash:" + hex.EncodeToString(sum[:])
	}

	event := &models.WebhookEvent{
		Provider:        provider,
		ProviderEventID: eventID,
		EventType:       strings.TrimSpace(in.EventType),
		PayloadJSON:     in.PayloadJSON,
		SignatureValid:  in.SignatureValid,
	}
	return s.repo.CreateWebhookEventIfNotExists(ctx, event)
}

// MarkWebhookProcessed marks a ledger row processed and stores an optional
// error. Rows with an error are the dead-letter channel; redelivery retries
// them. A failed mark must reach the caller: acking a delivery whose ledger
// row still reads unprocessed would re-run the event on redelivery.
func (s *Service) MarkWebhookProcessed(ctx context.Context, webhookEventID uint, processingErr error) error {
	if webhookEventID == 0 {
		return errors.New("webhook_event_id is required")
	}
	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
	}
	return s.repo.MarkWebhookProcessed(ctx, webhookEventID, errMsg)
}

// ResolveUserByEmail maps a processor customer email to the local account.
// Events whose metadata lacks a user id go through this lookup.
func (s *Service) ResolveUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.resolveUserByEmail(ctx, email)
}

func (s *Service) resolveUserByEmail(ctx context.Context, email string) (*models.User, error) {
	addr := strings.ToLower(strings.TrimSpace(email))
	if addr == "" {
		return nil, ErrUserNotFound
	}
	user, err := s.repo.FindUserByEmail(ctx, addr)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
