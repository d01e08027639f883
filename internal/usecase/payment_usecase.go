package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"fanhouse/internal/entity"
	"fanhouse/internal/repo/persistent"
	"fanhouse/pkg/logger"
	"fanhouse/pkg/metrics"
	"fanhouse/pkg/payment"
	"fanhouse/pkg/realtime"

	"github.com/shopspring/decimal"
)

// SubscriptionPeriod is how long one payment keeps a subscription active.
const SubscriptionPeriod = 1 // months

type SubscribeResult struct {
	Checkout     *entity.CheckoutResult
	Subscription *entity.Subscription
}

type UnlockResult struct {
	Checkout *entity.CheckoutResult
	Unlock   *entity.PPVUnlock
}

type PaymentUseCase interface {
	// Subscribe starts a hosted checkout, or with the mock gateway settles
	// the payment and activates the subscription at once. A nil amount
	// charges DefaultSubscriptionPrice.
	Subscribe(ctx context.Context, fanID, creatorID string, amount *decimal.Decimal) (*SubscribeResult, error)
	UnlockPPV(ctx context.Context, fanID, postID string) (*UnlockResult, error)
	// Confirm records a completed hosted checkout. Calling it again for the
	// same PPV post is a no-op; for a subscription it extends the period.
	Confirm(ctx context.Context, c entity.Confirmation) error
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	ListSubscriptions(ctx context.Context, fanID string) ([]*entity.Subscription, error)
}

type paymentUseCase struct {
	userRepo         persistent.UserRepository
	creatorRepo      persistent.CreatorRepository
	postRepo         persistent.PostRepository
	subscriptionRepo persistent.SubscriptionRepository
	unlockRepo       persistent.UnlockRepository
	ledgerRepo       persistent.LedgerRepository
	gateway          payment.Gateway
	events           *EventBus
	metrics          *metrics.Metrics
	frontendURL      string
	logger           *logger.Logger
	now              func() time.Time
}

func NewPaymentUseCase(
	userRepo persistent.UserRepository,
	creatorRepo persistent.CreatorRepository,
	postRepo persistent.PostRepository,
	subscriptionRepo persistent.SubscriptionRepository,
	unlockRepo persistent.UnlockRepository,
	ledgerRepo persistent.LedgerRepository,
	gateway payment.Gateway,
	events *EventBus,
	m *metrics.Metrics,
	frontendURL string,
	logger *logger.Logger,
) PaymentUseCase {
	return &paymentUseCase{
		userRepo:         userRepo,
		creatorRepo:      creatorRepo,
		postRepo:         postRepo,
		subscriptionRepo: subscriptionRepo,
		unlockRepo:       unlockRepo,
		ledgerRepo:       ledgerRepo,
		gateway:          gateway,
		events:           events,
		metrics:          m,
		frontendURL:      NormalizeBaseURL(frontendURL),
		logger:           logger,
		now:              time.Now,
	}
}

// NormalizeBaseURL adds https:// to a bare host and drops a trailing slash.
func NormalizeBaseURL(base string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return "http://localhost:3000"
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	return base
}

// The session placeholder is substituted by the provider, so it must not be
// query-escaped.
func (uc *paymentUseCase) successURL(kind, param, id string) string {
	return fmt.Sprintf("%s/payment/success?type=%s&%s=%s&session_id={CHECKOUT_SESSION_ID}",
		uc.frontendURL, kind, param, url.QueryEscape(id))
}

func (uc *paymentUseCase) Subscribe(ctx context.Context, fanID, creatorID string, amount *decimal.Decimal) (*SubscribeResult, error) {
	if creatorID == "" {
		return nil, ErrCreatorIDRequired
	}
	price := entity.DefaultSubscriptionPrice
	if amount != nil {
		if !amount.IsPositive() {
			return nil, ErrInvalidAmount
		}
		price = *amount
	}

	creator, err := uc.creatorRepo.GetByID(ctx, creatorID)
	if err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return nil, ErrCreatorNotFound
		}
		return nil, fmt.Errorf("failed to get creator: %w", err)
	}
	if !creator.IsApproved() {
		return nil, ErrCreatorNotApproved
	}

	fan, err := uc.userRepo.GetByID(ctx, fanID)
	if err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get fan: %w", err)
	}

	checkout, err := uc.checkout(ctx, fan, payment.CheckoutRequest{
		Kind:       payment.KindSubscription,
		CreatorID:  creator.ID,
		Amount:     price,
		SuccessURL: uc.successURL("subscription", "creator_id", creator.ID),
		CancelURL:  uc.frontendURL + "/creators",
	})
	if err != nil {
		return nil, err
	}
	if checkout.Hosted() {
		return &SubscribeResult{Checkout: checkout}, nil
	}

	sub, _, err := uc.activateSubscription(ctx, fanID, creator.ID, price, checkout.Payment.TransactionID, false)
	if err != nil {
		return nil, err
	}
	return &SubscribeResult{Checkout: checkout, Subscription: sub}, nil
}

func (uc *paymentUseCase) UnlockPPV(ctx context.Context, fanID, postID string) (*UnlockResult, error) {
	if postID == "" {
		return nil, ErrPostIDRequired
	}

	post, err := uc.postRepo.GetActive(ctx, postID)
	if err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	if post.AccessType != entity.AccessPPV {
		return nil, ErrPostNotPPV
	}
	if post.PPVPrice == nil || !post.PPVPrice.IsPositive() {
		return nil, ErrPPVPriceNotSet
	}

	unlocked, err := uc.unlockRepo.Exists(ctx, fanID, post.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check unlock: %w", err)
	}
	if unlocked {
		return nil, ErrAlreadyUnlocked
	}

	fan, err := uc.userRepo.GetByID(ctx, fanID)
	if err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get fan: %w", err)
	}

	checkout, err := uc.checkout(ctx, fan, payment.CheckoutRequest{
		Kind:       payment.KindPPVUnlock,
		CreatorID:  post.CreatorID,
		PostID:     post.ID,
		Amount:     *post.PPVPrice,
		SuccessURL: uc.successURL("ppv", "post_id", post.ID),
		CancelURL:  uc.frontendURL + "/feed",
	})
	if err != nil {
		return nil, err
	}
	if checkout.Hosted() {
		return &UnlockResult{Checkout: checkout}, nil
	}

	unlock, err := uc.recordUnlock(ctx, fanID, post, checkout.Payment.TransactionID)
	if err != nil {
		if errors.Is(err, persistent.ErrDuplicate) {
			return nil, ErrAlreadyUnlocked
		}
		return nil, err
	}
	return &UnlockResult{Checkout: checkout, Unlock: unlock}, nil
}

func (uc *paymentUseCase) checkout(ctx context.Context, fan *entity.User, req payment.CheckoutRequest) (*entity.CheckoutResult, error) {
	req.FanID = fan.ID
	req.FanEmail = fan.Email
	req.CustomerID = fan.StripeCustomerID

	res, err := uc.gateway.Checkout(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s checkout: %w", req.Kind, err)
	}
	if uc.metrics != nil {
		uc.metrics.CheckoutSessions.WithLabelValues(req.Kind, uc.gateway.Name()).Inc()
	}

	if res.CustomerID != "" && res.CustomerID != fan.StripeCustomerID {
		if err := uc.userRepo.SetStripeCustomerID(ctx, fan.ID, res.CustomerID); err != nil {
			uc.logger.Warn("Failed to save payment customer for user %s: %v", fan.ID, err)
		}
	}

	uc.logger.Info("[PAYMENT] %s checkout for fan %s via %s (hosted=%t)", req.Kind, fan.ID, uc.gateway.Name(), res.Hosted())
	if res.Hosted() {
		return &entity.CheckoutResult{CheckoutURL: res.CheckoutURL, SessionID: res.SessionID}, nil
	}
	return &entity.CheckoutResult{
		SessionID: res.SessionID,
		Payment: &entity.Payment{
			TransactionID: res.TransactionID,
			Status:        res.Status,
			Amount:        req.Amount,
		},
	}, nil
}

func (uc *paymentUseCase) activateSubscription(ctx context.Context, fanID, creatorID string, price decimal.Decimal, externalID string, announceRenewal bool) (*entity.Subscription, bool, error) {
	entry := &entity.LedgerEntry{
		TransactionType:       entity.TransactionSubscription,
		FanID:                 &fanID,
		CreatorID:             &creatorID,
		Amount:                price,
		ExternalTransactionID: externalID,
	}

	expiresAt := uc.now().AddDate(0, SubscriptionPeriod, 0)
	sub, renewed, err := uc.subscriptionRepo.Activate(ctx, fanID, creatorID, expiresAt, entry)
	if err != nil {
		return nil, false, fmt.Errorf("failed to activate subscription: %w", err)
	}
	uc.countLedger(entity.TransactionSubscription)

	event := realtime.EventNewSubscription
	if renewed && announceRenewal {
		event = realtime.EventSubscriptionRenewed
	}
	uc.events.publish(ctx, realtime.ChannelSubscriptions, event, map[string]interface{}{
		"fanId":          fanID,
		"creatorId":      creatorID,
		"subscriptionId": sub.ID,
	})
	return sub, renewed, nil
}

func (uc *paymentUseCase) recordUnlock(ctx context.Context, fanID string, post *entity.Post, externalID string) (*entity.PPVUnlock, error) {
	entry := &entity.LedgerEntry{
		TransactionType:       entity.TransactionPPVUnlock,
		FanID:                 &fanID,
		CreatorID:             &post.CreatorID,
		PostID:                &post.ID,
		Amount:                *post.PPVPrice,
		ExternalTransactionID: externalID,
	}

	unlock, err := uc.unlockRepo.Create(ctx, fanID, post.ID, entry)
	if err != nil {
		if errors.Is(err, persistent.ErrDuplicate) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to record unlock: %w", err)
	}
	uc.countLedger(entity.TransactionPPVUnlock)

	uc.events.publish(ctx, realtime.ChannelUnlocks, realtime.EventPPVUnlocked, map[string]interface{}{
		"fanId":     fanID,
		"postId":    post.ID,
		"creatorId": post.CreatorID,
	})
	return unlock, nil
}

func (uc *paymentUseCase) countLedger(t entity.TransactionType) {
	if uc.metrics != nil {
		uc.metrics.LedgerEntries.WithLabelValues(string(t)).Inc()
	}
}

func (uc *paymentUseCase) externalID(sessionID string) string {
	if sessionID != "" {
		return sessionID
	}
	return fmt.Sprintf("%s_%d", uc.gateway.Name(), uc.now().UnixMilli())
}

func (uc *paymentUseCase) Confirm(ctx context.Context, c entity.Confirmation) error {
	switch c.Type {
	case entity.TransactionPPVUnlock:
		if c.PostID == "" {
			return nil
		}
		unlocked, err := uc.unlockRepo.Exists(ctx, c.FanID, c.PostID)
		if err != nil {
			return fmt.Errorf("failed to check unlock: %w", err)
		}
		if unlocked {
			return nil
		}

		post, err := uc.postRepo.GetByID(ctx, c.PostID)
		if err != nil {
			if errors.Is(err, persistent.ErrNotFound) {
				uc.logger.Warn("[PAYMENT] Confirmed unlock for unknown post %s", c.PostID)
				return nil
			}
			return fmt.Errorf("failed to get post: %w", err)
		}
		if post.PPVPrice == nil {
			zero := decimal.Zero
			post.PPVPrice = &zero
		}

		_, err = uc.recordUnlock(ctx, c.FanID, post, uc.externalID(c.SessionID))
		if errors.Is(err, persistent.ErrDuplicate) {
			return nil
		}
		return err

	case entity.TransactionSubscription:
		if c.CreatorID == "" {
			return nil
		}
		// The redirect and the webhook may both confirm one session, and a
		// renewal invoice can arrive as invoice.paid and
		// invoice.payment_succeeded.
		if c.SessionID != "" {
			seen, err := uc.ledgerRepo.HasExternalID(ctx, c.SessionID)
			if err != nil {
				return fmt.Errorf("failed to check ledger: %w", err)
			}
			if seen {
				return nil
			}
		}
		price := entity.DefaultSubscriptionPrice
		if c.Amount != nil && c.Amount.IsPositive() {
			price = *c.Amount
		}
		_, _, err := uc.activateSubscription(ctx, c.FanID, c.CreatorID, price, uc.externalID(c.SessionID), true)
		return err
	}
	return nil
}

func (uc *paymentUseCase) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	completed, err := uc.gateway.ParseWebhook(payload, signature)
	if err != nil {
		if errors.Is(err, payment.ErrWebhookNotConfigured) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrInvalidWebhook, err)
	}
	if completed == nil || !completed.Paid || completed.FanID == "" {
		return nil
	}

	c := entity.Confirmation{
		SessionID: completed.SessionID,
		FanID:     completed.FanID,
		PostID:    completed.PostID,
		CreatorID: completed.CreatorID,
		Amount:    completed.Amount,
	}
	switch completed.Kind {
	case payment.KindSubscription:
		c.Type = entity.TransactionSubscription
	case payment.KindPPVUnlock:
		c.Type = entity.TransactionPPVUnlock
	default:
		uc.logger.Warn("[PAYMENT] Ignoring completed checkout %s of kind %q", completed.SessionID, completed.Kind)
		return nil
	}

	uc.logger.Info("[PAYMENT] Webhook confirmed %s checkout %s for fan %s", completed.Kind, completed.SessionID, completed.FanID)
	return uc.Confirm(ctx, c)
}

func (uc *paymentUseCase) ListSubscriptions(ctx context.Context, fanID string) ([]*entity.Subscription, error) {
	return uc.subscriptionRepo.ListByFan(ctx, fanID)
}
