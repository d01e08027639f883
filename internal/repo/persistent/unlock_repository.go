package persistent

import (
	"context"
	"time"

	"fanhouse/internal/entity"
	"fanhouse/internal/model"

	"gorm.io/gorm"
)

type UnlockRepository interface {
	Exists(ctx context.Context, fanID, postID string) (bool, error)
	// Create records the unlock and its ledger entry atomically. A second
	// unlock for the same (fan, post) pair fails with ErrDuplicate.
	Create(ctx context.Context, fanID, postID string, entry *entity.LedgerEntry) (*entity.PPVUnlock, error)
}

type unlockRepository struct {
	db *gorm.DB
}

func NewUnlockRepository(db *gorm.DB) UnlockRepository {
	return &unlockRepository{db: db}
}

func (r *unlockRepository) Exists(ctx context.Context, fanID, postID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PPVUnlockModel{}).
		Where("fan_id = ? AND post_id = ?", fanID, postID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *unlockRepository) Create(ctx context.Context, fanID, postID string, entry *entity.LedgerEntry) (*entity.PPVUnlock, error) {
	unlockModel := model.PPVUnlockModel{
		FanID:      fanID,
		PostID:     postID,
		UnlockedAt: time.Now(),
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&unlockModel).Error; err != nil {
			return err
		}
		if entry == nil {
			return nil
		}
		if entry.Metadata == nil {
			entry.Metadata = map[string]interface{}{}
		}
		entry.Metadata["unlockId"] = unlockModel.ID
		ledgerModel := ToLedgerModel(entry)
		if err := tx.Create(ledgerModel).Error; err != nil {
			return err
		}
		*entry = *ToLedgerEntity(ledgerModel)
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return ToPPVUnlockEntity(&unlockModel), nil
}
