package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"fanhouse/internal/entity"
	"fanhouse/internal/repo/persistent"
	"fanhouse/pkg/logger"
	"fanhouse/pkg/notify"
	"fanhouse/pkg/realtime"
	"fanhouse/pkg/storage"

	"github.com/google/uuid"
)

type ContentUseCase interface {
	CreatePost(ctx context.Context, userID string, in entity.NewPost) (*entity.Post, error)
	// ListPosts returns active posts with locked ones redacted.
	ListPosts(ctx context.Context, requesterID string, filter entity.PostFilter) ([]*entity.Post, error)
	// GetPost returns the redacted post alongside ErrSubscriptionRequired or
	// ErrPPVUnlockRequired when the requester has no access.
	GetPost(ctx context.Context, requesterID, postID string) (*entity.Post, error)
}

type contentUseCase struct {
	creatorRepo      persistent.CreatorRepository
	postRepo         persistent.PostRepository
	subscriptionRepo persistent.SubscriptionRepository
	gate             *AccessGate
	storage          storage.Storage
	notifier         notify.Notifier
	events           *EventBus
	logger           *logger.Logger
}

func NewContentUseCase(
	creatorRepo persistent.CreatorRepository,
	postRepo persistent.PostRepository,
	subscriptionRepo persistent.SubscriptionRepository,
	gate *AccessGate,
	storage storage.Storage,
	notifier notify.Notifier,
	events *EventBus,
	logger *logger.Logger,
) ContentUseCase {
	return &contentUseCase{
		creatorRepo:      creatorRepo,
		postRepo:         postRepo,
		subscriptionRepo: subscriptionRepo,
		gate:             gate,
		storage:          storage,
		notifier:         notifier,
		events:           events,
		logger:           logger,
	}
}

func (uc *contentUseCase) CreatePost(ctx context.Context, userID string, in entity.NewPost) (*entity.Post, error) {
	creator, err := uc.creatorRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return nil, ErrCreatorProfileNotFound
		}
		return nil, fmt.Errorf("failed to get creator: %w", err)
	}
	if !creator.IsApproved() {
		return nil, ErrCreatorNotApproved
	}

	accessType := in.AccessType
	if accessType == "" {
		accessType = entity.AccessPublic
	}
	if !accessType.Valid() {
		return nil, ErrInvalidAccessType
	}
	if accessType == entity.AccessPPV && (in.PPVPrice == nil || !in.PPVPrice.IsPositive()) {
		return nil, ErrPPVPriceRequired
	}

	post := &entity.Post{
		CreatorID:  creator.ID,
		Title:      optionalString(in.Title),
		Content:    optionalString(in.Content),
		AccessType: accessType,
		IsActive:   true,
	}
	if accessType == entity.AccessPPV {
		post.PPVPrice = in.PPVPrice
	}

	var mediaKey string
	if in.Media != nil {
		mediaKey = uuid.New().String() + strings.ToLower(filepath.Ext(in.Media.Filename))
		url, err := uc.storage.Save(ctx, mediaKey, in.Media.Body, in.Media.ContentType)
		if err != nil {
			return nil, fmt.Errorf("failed to store media: %w", err)
		}
		post.MediaURL = &url
		post.MediaType = optionalString(in.Media.ContentType)
	}

	if err := uc.postRepo.Create(ctx, post); err != nil {
		if mediaKey != "" {
			if delErr := uc.storage.Delete(ctx, mediaKey); delErr != nil {
				uc.logger.Error("Failed to remove media %s of unsaved post: %v", mediaKey, delErr)
			}
		}
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	uc.logger.Info("Creator %s published %s post %s", creator.ID, post.AccessType, post.ID)
	uc.events.publish(ctx, realtime.ChannelPosts, realtime.EventNewPost, map[string]interface{}{
		"postId":     post.ID,
		"creatorId":  creator.ID,
		"accessType": string(post.AccessType),
	})

	if post.AccessType != entity.AccessPPV {
		uc.notifySubscribers(ctx, creator, post)
	}
	return post, nil
}

func (uc *contentUseCase) notifySubscribers(ctx context.Context, creator *entity.Creator, post *entity.Post) {
	if uc.notifier == nil {
		return
	}

	fanIDs, err := uc.subscriptionRepo.ActiveFanIDs(ctx, creator.ID)
	if err != nil {
		uc.logger.Error("Failed to load subscribers of creator %s: %v", creator.ID, err)
		return
	}

	data := map[string]interface{}{
		"creatorId": creator.ID,
		"postId":    post.ID,
	}
	if post.Title != nil {
		data["title"] = *post.Title
	}
	if creator.DisplayName != nil {
		data["creatorName"] = *creator.DisplayName
	}
	for _, fanID := range fanIDs {
		if err := uc.notifier.Notify(ctx, fanID, notify.TypeNewPost, data); err != nil {
			uc.logger.Error("Failed to notify fan %s about post %s: %v", fanID, post.ID, err)
		}
	}
}

func (uc *contentUseCase) ListPosts(ctx context.Context, requesterID string, filter entity.PostFilter) ([]*entity.Post, error) {
	posts, err := uc.postRepo.ListActive(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	visible := make([]*entity.Post, 0, len(posts))
	for _, post := range posts {
		gated, err := uc.gate.Apply(ctx, requesterID, post)
		if err != nil && !isLockError(err) {
			return nil, fmt.Errorf("failed to check access to post %s: %w", post.ID, err)
		}
		visible = append(visible, gated)
	}
	return visible, nil
}

func (uc *contentUseCase) GetPost(ctx context.Context, requesterID, postID string) (*entity.Post, error) {
	post, err := uc.postRepo.GetActive(ctx, postID)
	if err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return uc.gate.Apply(ctx, requesterID, post)
}
