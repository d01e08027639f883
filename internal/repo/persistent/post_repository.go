package persistent

import (
	"context"

	"fanhouse/internal/entity"
	"fanhouse/internal/model"

	"gorm.io/gorm"
)

const DefaultPostLimit = 50

type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	// GetActive returns an active post joined with its creator's user.
	GetActive(ctx context.Context, id string) (*entity.Post, error)
	ListActive(ctx context.Context, filter entity.PostFilter) ([]*entity.Post, error)
	Deactivate(ctx context.Context, id string) (*entity.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *entity.Post) error {
	postModel := ToPostModel(post)
	if err := r.db.WithContext(ctx).Create(postModel).Error; err != nil {
		return err
	}
	*post = *ToPostEntity(postModel)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	var postModel model.PostModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&postModel).Error; err != nil {
		return nil, translate(err)
	}
	return ToPostEntity(&postModel), nil
}

func (r *postRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table("posts").
		Select("posts.*, creators.user_id AS creator_user_id, users.username AS creator_username").
		Joins("JOIN creators ON creators.id = posts.creator_id").
		Joins("JOIN users ON users.id = creators.user_id").
		Where("posts.is_active = ?", true)
}

func (r *postRepository) GetActive(ctx context.Context, id string) (*entity.Post, error) {
	var rows []model.PostRow
	if err := r.joined(ctx).Where("posts.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return postRowToEntity(&rows[0]), nil
}

func (r *postRepository) ListActive(ctx context.Context, filter entity.PostFilter) ([]*entity.Post, error) {
	q := r.joined(ctx)
	if filter.CreatorID != "" {
		q = q.Where("posts.creator_id = ?", filter.CreatorID)
	}
	if filter.AccessType != "" {
		q = q.Where("posts.access_type = ?", string(filter.AccessType))
	}
	limit := filter.Limit
	if limit <= 0 || limit > DefaultPostLimit {
		limit = DefaultPostLimit
	}

	var rows []model.PostRow
	if err := q.Order("posts.created_at DESC").Limit(limit).Scan(&rows).Error; err != nil {
		return nil, err
	}

	posts := make([]*entity.Post, len(rows))
	for i := range rows {
		posts[i] = postRowToEntity(&rows[i])
	}
	return posts, nil
}

func (r *postRepository) Deactivate(ctx context.Context, id string) (*entity.Post, error) {
	res := r.db.WithContext(ctx).Model(&model.PostModel{}).
		Where("id = ?", id).
		Update("is_active", false)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}
