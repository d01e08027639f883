package persistent

import (
	"context"
	"errors"
	"time"

	"fanhouse/internal/entity"
	"fanhouse/internal/model"

	"gorm.io/gorm"
)

type SubscriptionRepository interface {
	HasActive(ctx context.Context, fanID, creatorID string) (bool, error)
	// Activate creates or renews the (fan, creator) subscription and appends
	// the ledger entry in the same transaction. renewed reports whether an
	// existing row was reused.
	Activate(ctx context.Context, fanID, creatorID string, expiresAt time.Time, entry *entity.LedgerEntry) (sub *entity.Subscription, renewed bool, err error)
	ListByFan(ctx context.Context, fanID string) ([]*entity.Subscription, error)
	ActiveFanIDs(ctx context.Context, creatorID string) ([]string, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// activeSubscriptions keeps rows that are active and not yet expired.
func activeSubscriptions(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("status = ?", string(entity.SubscriptionActive)).
			Where("expires_at IS NULL OR expires_at > ?", now)
	}
}

func (r *subscriptionRepository) HasActive(ctx context.Context, fanID, creatorID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.SubscriptionModel{}).
		Where("fan_id = ? AND creator_id = ?", fanID, creatorID).
		Scopes(activeSubscriptions(time.Now())).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *subscriptionRepository) Activate(ctx context.Context, fanID, creatorID string, expiresAt time.Time, entry *entity.LedgerEntry) (*entity.Subscription, bool, error) {
	var (
		subModel model.SubscriptionModel
		renewed  bool
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("fan_id = ? AND creator_id = ?", fanID, creatorID).First(&subModel).Error
		switch {
		case err == nil:
			renewed = true
			if err := tx.Model(&subModel).Updates(map[string]interface{}{
				"status":     string(entity.SubscriptionActive),
				"expires_at": expiresAt,
			}).Error; err != nil {
				return err
			}
			subModel.Status = string(entity.SubscriptionActive)
			subModel.ExpiresAt = &expiresAt
		case errors.Is(err, gorm.ErrRecordNotFound):
			subModel = model.SubscriptionModel{
				FanID:     fanID,
				CreatorID: creatorID,
				Status:    string(entity.SubscriptionActive),
				StartedAt: time.Now(),
				ExpiresAt: &expiresAt,
			}
			if err := tx.Create(&subModel).Error; err != nil {
				return err
			}
		default:
			return err
		}

		if entry == nil {
			return nil
		}
		if entry.Metadata == nil {
			entry.Metadata = map[string]interface{}{}
		}
		entry.Metadata["subscriptionId"] = subModel.ID
		ledgerModel := ToLedgerModel(entry)
		if err := tx.Create(ledgerModel).Error; err != nil {
			return err
		}
		*entry = *ToLedgerEntity(ledgerModel)
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return ToSubscriptionEntity(&subModel), renewed, nil
}

func (r *subscriptionRepository) ListByFan(ctx context.Context, fanID string) ([]*entity.Subscription, error) {
	var rows []model.SubscriptionRow
	err := r.db.WithContext(ctx).Table("subscriptions").
		Select("subscriptions.*, creators.display_name, users.username AS creator_username").
		Joins("JOIN creators ON creators.id = subscriptions.creator_id").
		Joins("JOIN users ON users.id = creators.user_id").
		Where("subscriptions.fan_id = ?", fanID).
		Order("subscriptions.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	subs := make([]*entity.Subscription, len(rows))
	for i := range rows {
		subs[i] = subscriptionRowToEntity(&rows[i])
	}
	return subs, nil
}

func (r *subscriptionRepository) ActiveFanIDs(ctx context.Context, creatorID string) ([]string, error) {
	var fanIDs []string
	err := r.db.WithContext(ctx).Model(&model.SubscriptionModel{}).
		Where("creator_id = ?", creatorID).
		Scopes(activeSubscriptions(time.Now())).
		Pluck("fan_id", &fanIDs).Error
	return fanIDs, err
}
