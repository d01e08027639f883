package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fanhouse/internal/entity"
	"fanhouse/internal/repo/persistent"
	"fanhouse/pkg/logger"
	"fanhouse/pkg/realtime"
	"fanhouse/pkg/verification"
)

type ApplyInput struct {
	Bio         string
	DisplayName string
}

type CreatorUseCase interface {
	Apply(ctx context.Context, userID string, in ApplyInput) (*entity.Creator, error)
	ListApproved(ctx context.Context) ([]*entity.Creator, error)
	Get(ctx context.Context, id string) (*entity.Creator, error)
	MyProfile(ctx context.Context, userID string) (*entity.CreatorProfile, error)
	MyVerification(ctx context.Context, userID string) (*entity.Inquiry, error)
}

type creatorUseCase struct {
	userRepo    persistent.UserRepository
	creatorRepo persistent.CreatorRepository
	verifier    verification.Provider
	events      *EventBus
	logger      *logger.Logger
}

func NewCreatorUseCase(
	userRepo persistent.UserRepository,
	creatorRepo persistent.CreatorRepository,
	verifier verification.Provider,
	events *EventBus,
	logger *logger.Logger,
) CreatorUseCase {
	return &creatorUseCase{
		userRepo:    userRepo,
		creatorRepo: creatorRepo,
		verifier:    verifier,
		events:      events,
		logger:      logger,
	}
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func (uc *creatorUseCase) Apply(ctx context.Context, userID string, in ApplyInput) (*entity.Creator, error) {
	if _, err := uc.creatorRepo.GetByUserID(ctx, userID); err == nil {
		return nil, ErrAlreadyCreator
	} else if !errors.Is(err, persistent.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up creator: %w", err)
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	inquiry, err := uc.verifier.CreateInquiry(ctx, user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to create verification inquiry: %w", err)
	}

	creator := &entity.Creator{
		UserID:             user.ID,
		VerificationStatus: entity.VerificationPending,
		PersonaInquiryID:   &inquiry.ID,
		Bio:                optionalString(in.Bio),
		DisplayName:        optionalString(in.DisplayName),
	}
	if err := uc.creatorRepo.CreateForUser(ctx, creator); err != nil {
		if errors.Is(err, persistent.ErrDuplicate) {
			return nil, ErrAlreadyCreator
		}
		return nil, fmt.Errorf("failed to create creator: %w", err)
	}

	uc.logger.Info("User %s applied as creator %s (inquiry %s)", user.ID, creator.ID, inquiry.ID)
	uc.events.publish(ctx, realtime.ChannelAdmin, realtime.EventCreatorApplication, map[string]interface{}{
		"creatorId": creator.ID,
		"userId":    user.ID,
	})
	return creator, nil
}

func (uc *creatorUseCase) ListApproved(ctx context.Context) ([]*entity.Creator, error) {
	return uc.creatorRepo.ListApproved(ctx)
}

func (uc *creatorUseCase) Get(ctx context.Context, id string) (*entity.Creator, error) {
	creator, err := uc.creatorRepo.GetWithUser(ctx, id)
	if err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return nil, ErrCreatorNotFound
		}
		return nil, err
	}
	return creator, nil
}

func (uc *creatorUseCase) MyProfile(ctx context.Context, userID string) (*entity.CreatorProfile, error) {
	creator, err := uc.creatorRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return nil, ErrCreatorProfileNotFound
		}
		return nil, err
	}

	stats, err := uc.creatorRepo.Stats(ctx, creator.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count creator stats: %w", err)
	}
	return &entity.CreatorProfile{Creator: creator, Stats: stats}, nil
}

func (uc *creatorUseCase) MyVerification(ctx context.Context, userID string) (*entity.Inquiry, error) {
	creator, err := uc.creatorRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return nil, ErrCreatorProfileNotFound
		}
		return nil, err
	}
	if creator.PersonaInquiryID == nil || *creator.PersonaInquiryID == "" {
		return nil, ErrNoVerificationInquiry
	}

	inquiry, err := uc.verifier.GetInquiry(ctx, *creator.PersonaInquiryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get verification inquiry: %w", err)
	}
	return &entity.Inquiry{ID: inquiry.ID, Status: inquiry.Status}, nil
}
