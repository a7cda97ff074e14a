package billing

import (
	"context"
	"time"

	"github.com/subsyncapp/subsync/app/models"
	"github.com/subsyncapp/subsync/app/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides the DB operations used by the reconciliation service.
// Cross-request coordination happens exclusively through these conditional
// writes; handlers hold no in-process locks. Every method honors the caller's
// context so handler deadlines bound the store calls.
type Repository interface {
	GetSubscriptionByUserID(ctx context.Context, userID uint) (*models.Subscription, error)
	UpsertActiveSubscription(ctx context.Context, sub *models.Subscription) error
	TransitionStatus(ctx context.Context, userID uint, toStatus string, now time.Time) (bool, error)
	ExpireIfStillActive(ctx context.Context, userID uint, now time.Time) (bool, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id uint) (*models.User, error)
	CreateWebhookEventIfNotExists(ctx context.Context, event *models.WebhookEvent) (bool, *models.WebhookEvent, error)
	MarkWebhookProcessed(ctx context.Context, id uint, processingError string) error
}

type gormRepository struct {
	db    *gorm.DB
	users repository.UserRepository
}

// NewRepository creates a billing repository backed by GORM. User reads go
// through the shared user repository; accounts stay owned by the auth side.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db, users: repository.NewUserRepository(db)}
}

func (r *gormRepository) GetSubscriptionByUserID(ctx context.Context, userID uint) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// UpsertActiveSubscription writes the activation in a single statement so two
// racing reconciliations for the same user cannot lose an update.
func (r *gormRepository) UpsertActiveSubscription(ctx context.Context, sub *models.Subscription) error {
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"plan",
			"billing",
			"status",
			"paystack_customer_code",
			"paystack_authorization_code",
			"paystack_subscription_code",
			"current_period_start",
			"current_period_end",
			"updated_at",
		}),
	}).Create(sub).Error; err != nil {
		return err
	}

	// Ensure ID is populated after upsert.
	return r.db.WithContext(ctx).Where("user_id = ?", sub.UserID).First(sub).Error
}

// TransitionStatus applies a guarded status write. The status predicate makes
// replays no-ops instead of redundant writes; RowsAffected reports whether
// this caller performed the transition.
func (r *gormRepository) TransitionStatus(ctx context.Context, userID uint, toStatus string, now time.Time) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("user_id = ? AND status <> ?", userID, toStatus).
		Updates(map[string]interface{}{
			"status":     toStatus,
			"updated_at": now,
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// ExpireIfStillActive performs the lazy-expiry write. The status guard means
// exactly one of any number of concurrent stale reads persists the
// transition; the rest see RowsAffected == 0.
func (r *gormRepository) ExpireIfStillActive(ctx context.Context, userID uint, now time.Time) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("user_id = ? AND status = ?", userID, models.SubscriptionStatusActive).
		Updates(map[string]interface{}{
			"status":     models.SubscriptionStatusExpired,
			"updated_at": now,
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *gormRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.users.GetByEmail(ctx, email)
}

func (r *gormRepository) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	return r.users.GetByID(ctx, id)
}

func (r *gormRepository) CreateWebhookEventIfNotExists(ctx context.Context, event *models.WebhookEvent) (bool, *models.WebhookEvent, error) {
	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "provider"},
			{Name: "provider_event_id"},
		},
		DoNothing: true,
	}).Create(event)
	if tx.Error != nil {
		return false, nil, tx.Error
	}

	created := tx.RowsAffected > 0
	var stored models.WebhookEvent
	if err := r.db.WithContext(ctx).Where("provider = ? AND provider_event_id = ?", event.Provider, event.ProviderEventID).
		First(&stored).Error; err != nil {
		return false, nil, err
	}
	return created, &stored, nil
}

func (r *gormRepository) MarkWebhookProcessed(ctx context.Context, id uint, processingError string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"processed_at":     &now,
		"processing_error": processingError,
	}
	return r.db.WithContext(ctx).Model(&models.WebhookEvent{}).Where("id = ?", id).Updates(updates).Error
}
