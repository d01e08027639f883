package usecase

import (
	"context"

	"fanhouse/internal/entity"
	"fanhouse/internal/repo/persistent"
)

// AccessGate decides whether a requester may see the paid payload of a post.
type AccessGate struct {
	subscriptionRepo persistent.SubscriptionRepository
	unlockRepo       persistent.UnlockRepository
}

func NewAccessGate(subscriptionRepo persistent.SubscriptionRepository, unlockRepo persistent.UnlockRepository) *AccessGate {
	return &AccessGate{subscriptionRepo: subscriptionRepo, unlockRepo: unlockRepo}
}

// Check returns nil when the post is visible, ErrSubscriptionRequired or
// ErrPPVUnlockRequired when it is locked, or the lookup error.
func (g *AccessGate) Check(ctx context.Context, requesterID string, post *entity.Post) error {
	switch post.AccessType {
	case entity.AccessPublic:
		return nil
	case entity.AccessSubscriber:
		if requesterID == "" {
			return ErrSubscriptionRequired
		}
		ok, err := g.subscriptionRepo.HasActive(ctx, requesterID, post.CreatorID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrSubscriptionRequired
		}
		return nil
	case entity.AccessPPV:
		if requesterID == "" {
			return ErrPPVUnlockRequired
		}
		ok, err := g.unlockRepo.Exists(ctx, requesterID, post.ID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrPPVUnlockRequired
		}
		return nil
	}
	return ErrInvalidAccessType
}

// Apply returns the post itself when visible, otherwise its redacted copy
// together with the lock error.
func (g *AccessGate) Apply(ctx context.Context, requesterID string, post *entity.Post) (*entity.Post, error) {
	err := g.Check(ctx, requesterID, post)
	if err == nil {
		return post, nil
	}
	if isLockError(err) {
		return post.Redacted(), err
	}
	return nil, err
}

func isLockError(err error) bool {
	return err == ErrSubscriptionRequired || err == ErrPPVUnlockRequired || err == ErrInvalidAccessType
}
