package usecase

import (
	"context"
	"errors"
	"fmt"

	"fanhouse/internal/entity"
	"fanhouse/internal/repo/persistent"
	"fanhouse/pkg/logger"
	"fanhouse/pkg/realtime"
)

const adminUserListLimit = 100

type AdminUseCase interface {
	ListUsers(ctx context.Context) ([]*entity.User, error)
	ListCreators(ctx context.Context) ([]*entity.Creator, error)
	ApproveCreator(ctx context.Context, id string) (*entity.Creator, error)
	RejectCreator(ctx context.Context, id string) (*entity.Creator, error)
	// DisableCreator hides every post of the creator and rejects it.
	DisableCreator(ctx context.Context, id string) (*entity.Creator, error)
	DisablePost(ctx context.Context, id string) (*entity.Post, error)
	Transactions(ctx context.Context, filter entity.LedgerFilter) ([]*entity.LedgerEntry, error)
}

type adminUseCase struct {
	userRepo    persistent.UserRepository
	creatorRepo persistent.CreatorRepository
	postRepo    persistent.PostRepository
	ledgerRepo  persistent.LedgerRepository
	events      *EventBus
	logger      *logger.Logger
}

func NewAdminUseCase(
	userRepo persistent.UserRepository,
	creatorRepo persistent.CreatorRepository,
	postRepo persistent.PostRepository,
	ledgerRepo persistent.LedgerRepository,
	events *EventBus,
	logger *logger.Logger,
) AdminUseCase {
	return &adminUseCase{
		userRepo:    userRepo,
		creatorRepo: creatorRepo,
		postRepo:    postRepo,
		ledgerRepo:  ledgerRepo,
		events:      events,
		logger:      logger,
	}
}

func (uc *adminUseCase) ListUsers(ctx context.Context) ([]*entity.User, error) {
	return uc.userRepo.List(ctx, adminUserListLimit)
}

func (uc *adminUseCase) ListCreators(ctx context.Context) ([]*entity.Creator, error) {
	return uc.creatorRepo.ListAll(ctx)
}

func (uc *adminUseCase) ApproveCreator(ctx context.Context, id string) (*entity.Creator, error) {
	return uc.setStatus(ctx, id, entity.VerificationApproved, realtime.EventCreatorApproved)
}

func (uc *adminUseCase) RejectCreator(ctx context.Context, id string) (*entity.Creator, error) {
	return uc.setStatus(ctx, id, entity.VerificationRejected, realtime.EventCreatorRejected)
}

func (uc *adminUseCase) setStatus(ctx context.Context, id string, status entity.VerificationStatus, event string) (*entity.Creator, error) {
	creator, err := uc.creatorRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return nil, ErrCreatorNotFound
		}
		return nil, fmt.Errorf("failed to update creator status: %w", err)
	}

	uc.logger.Info("[ADMIN] Creator %s is now %s", creator.ID, status)
	uc.events.publish(ctx, realtime.ChannelAdmin, event, map[string]interface{}{
		"creatorId": creator.ID,
		"userId":    creator.UserID,
	})
	return creator, nil
}

func (uc *adminUseCase) DisableCreator(ctx context.Context, id string) (*entity.Creator, error) {
	creator, err := uc.creatorRepo.Disable(ctx, id)
	if err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return nil, ErrCreatorNotFound
		}
		return nil, fmt.Errorf("failed to disable creator: %w", err)
	}
	uc.logger.Info("[ADMIN] Creator %s disabled", creator.ID)
	return creator, nil
}

func (uc *adminUseCase) DisablePost(ctx context.Context, id string) (*entity.Post, error) {
	post, err := uc.postRepo.Deactivate(ctx, id)
	if err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to disable post: %w", err)
	}
	uc.logger.Info("[ADMIN] Post %s disabled", post.ID)
	return post, nil
}

func (uc *adminUseCase) Transactions(ctx context.Context, filter entity.LedgerFilter) ([]*entity.LedgerEntry, error) {
	return uc.ledgerRepo.List(ctx, filter)
}
