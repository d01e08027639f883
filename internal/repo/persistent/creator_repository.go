package persistent

import (
	"context"
	"time"

	"fanhouse/internal/entity"
	"fanhouse/internal/model"

	"gorm.io/gorm"
)

type CreatorRepository interface {
	// CreateForUser inserts the creator row and promotes its user to the
	// creator role in one transaction.
	CreateForUser(ctx context.Context, creator *entity.Creator) error
	GetByID(ctx context.Context, id string) (*entity.Creator, error)
	GetByUserID(ctx context.Context, userID string) (*entity.Creator, error)
	GetWithUser(ctx context.Context, id string) (*entity.Creator, error)
	ListApproved(ctx context.Context) ([]*entity.Creator, error)
	ListAll(ctx context.Context) ([]*entity.Creator, error)
	UpdateStatus(ctx context.Context, id string, status entity.VerificationStatus) (*entity.Creator, error)
	// Disable deactivates every post of the creator and marks it rejected.
	Disable(ctx context.Context, id string) (*entity.Creator, error)
	Stats(ctx context.Context, id string) (entity.CreatorStats, error)
}

type creatorRepository struct {
	db *gorm.DB
}

func NewCreatorRepository(db *gorm.DB) CreatorRepository {
	return &creatorRepository{db: db}
}

const creatorWithUserColumns = "creators.*, users.email, users.username"

func (r *creatorRepository) CreateForUser(ctx context.Context, creator *entity.Creator) error {
	creatorModel := ToCreatorModel(creator)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(creatorModel).Error; err != nil {
			return err
		}
		return tx.Model(&model.UserModel{}).
			Where("id = ?", creator.UserID).
			Update("role", string(entity.RoleCreator)).Error
	})
	if err != nil {
		return translate(err)
	}
	*creator = *ToCreatorEntity(creatorModel)
	return nil
}

func (r *creatorRepository) GetByID(ctx context.Context, id string) (*entity.Creator, error) {
	var creatorModel model.CreatorModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&creatorModel).Error; err != nil {
		return nil, translate(err)
	}
	return ToCreatorEntity(&creatorModel), nil
}

func (r *creatorRepository) GetByUserID(ctx context.Context, userID string) (*entity.Creator, error) {
	var creatorModel model.CreatorModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&creatorModel).Error; err != nil {
		return nil, translate(err)
	}
	return ToCreatorEntity(&creatorModel), nil
}

func (r *creatorRepository) GetWithUser(ctx context.Context, id string) (*entity.Creator, error) {
	var rows []model.CreatorRow
	err := r.db.WithContext(ctx).Table("creators").
		Select(creatorWithUserColumns).
		Joins("JOIN users ON users.id = creators.user_id").
		Where("creators.id = ?", id).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return creatorRowToEntity(&rows[0]), nil
}

func (r *creatorRepository) ListApproved(ctx context.Context) ([]*entity.Creator, error) {
	return r.list(r.db.WithContext(ctx).Where("creators.verification_status = ?", string(entity.VerificationApproved)))
}

func (r *creatorRepository) ListAll(ctx context.Context) ([]*entity.Creator, error) {
	return r.list(r.db.WithContext(ctx))
}

func (r *creatorRepository) list(q *gorm.DB) ([]*entity.Creator, error) {
	var rows []model.CreatorRow
	err := q.Table("creators").
		Select(creatorWithUserColumns).
		Joins("JOIN users ON users.id = creators.user_id").
		Order("creators.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	creators := make([]*entity.Creator, len(rows))
	for i := range rows {
		creators[i] = creatorRowToEntity(&rows[i])
	}
	return creators, nil
}

func (r *creatorRepository) UpdateStatus(ctx context.Context, id string, status entity.VerificationStatus) (*entity.Creator, error) {
	res := r.db.WithContext(ctx).Model(&model.CreatorModel{}).
		Where("id = ?", id).
		Update("verification_status", string(status))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *creatorRepository) Disable(ctx context.Context, id string) (*entity.Creator, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.CreatorModel{}).
			Where("id = ?", id).
			Update("verification_status", string(entity.VerificationRejected))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Model(&model.PostModel{}).
			Where("creator_id = ?", id).
			Update("is_active", false).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return r.GetByID(ctx, id)
}

func (r *creatorRepository) Stats(ctx context.Context, id string) (entity.CreatorStats, error) {
	var stats entity.CreatorStats
	db := r.db.WithContext(ctx)

	if err := db.Model(&model.SubscriptionModel{}).
		Where("creator_id = ?", id).
		Scopes(activeSubscriptions(time.Now())).
		Count(&stats.SubscriberCount).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&model.PostModel{}).
		Where("creator_id = ? AND is_active = ?", id, true).
		Count(&stats.PostCount).Error; err != nil {
		return stats, err
	}
	return stats, nil
}
