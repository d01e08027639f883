package usecase

import (
	"context"
	"testing"
	"time"

	"fanhouse/internal/entity"
	"fanhouse/internal/repo/persistent"
	"fanhouse/pkg/metrics"
	"fanhouse/pkg/payment"
	"fanhouse/pkg/realtime"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type paymentFixture struct {
	uc            *paymentUseCase
	users         *MockUserRepository
	creators      *MockCreatorRepository
	posts         *MockPostRepository
	subscriptions *MockSubscriptionRepository
	unlocks       *MockUnlockRepository
	ledger        *MockLedgerRepository
	gateway       *MockGateway
	publisher     *MockPublisher
	now           time.Time
}

func newPaymentFixture() *paymentFixture {
	f := &paymentFixture{
		users:         new(MockUserRepository),
		creators:      new(MockCreatorRepository),
		posts:         new(MockPostRepository),
		subscriptions: new(MockSubscriptionRepository),
		unlocks:       new(MockUnlockRepository),
		ledger:        new(MockLedgerRepository),
		gateway:       new(MockGateway),
		publisher:     new(MockPublisher),
		now:           time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC),
	}
	log := testLogger()
	m := metrics.New()
	uc := NewPaymentUseCase(f.users, f.creators, f.posts, f.subscriptions, f.unlocks, f.ledger,
		f.gateway, NewEventBus(f.publisher, m, log), m, "shop.example.com/", log).(*paymentUseCase)
	uc.now = func() time.Time { return f.now }
	f.uc = uc
	return f
}

func TestNormalizeBaseURL(t *testing.T) {
	assert.Equal(t, "https://shop.example.com", NormalizeBaseURL("shop.example.com/"))
	assert.Equal(t, "http://localhost:3000", NormalizeBaseURL("http://localhost:3000"))
	assert.Equal(t, "http://localhost:3000", NormalizeBaseURL(""))
}

func TestSubscribe_Validation(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	_, err := f.uc.Subscribe(ctx, "fan", "", nil)
	assert.ErrorIs(t, err, ErrCreatorIDRequired)

	negative := decimal.NewFromInt(-1)
	_, err = f.uc.Subscribe(ctx, "fan", "c1", &negative)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	f.creators.On("GetByID", ctx, "missing").Return(nil, persistent.ErrNotFound)
	_, err = f.uc.Subscribe(ctx, "fan", "missing", nil)
	assert.ErrorIs(t, err, ErrCreatorNotFound)

	f.creators.On("GetByID", ctx, "pending").Return(&entity.Creator{ID: "pending", VerificationStatus: entity.VerificationPending}, nil)
	_, err = f.uc.Subscribe(ctx, "fan", "pending", nil)
	assert.ErrorIs(t, err, ErrCreatorNotApproved)

	f.gateway.AssertNotCalled(t, "Checkout", mock.Anything, mock.Anything)
}

func TestSubscribe_HostedCheckoutDefersActivation(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	f.creators.On("GetByID", ctx, "c1").Return(&entity.Creator{ID: "c1", VerificationStatus: entity.VerificationApproved}, nil)
	f.users.On("GetByID", ctx, "fan").Return(&entity.User{ID: "fan", Email: "fan@example.com"}, nil)
	f.gateway.On("Checkout", ctx, mock.MatchedBy(func(req payment.CheckoutRequest) bool {
		return req.Kind == payment.KindSubscription &&
			req.Amount.Equal(entity.DefaultSubscriptionPrice) &&
			req.FanEmail == "fan@example.com" &&
			req.SuccessURL == "https://shop.example.com/payment/success?type=subscription&creator_id=c1&session_id={CHECKOUT_SESSION_ID}" &&
			req.CancelURL == "https://shop.example.com/creators"
	})).Return(&payment.Result{CheckoutURL: "https://checkout/cs_1", SessionID: "cs_1", CustomerID: "cus_1"}, nil)
	f.users.On("SetStripeCustomerID", ctx, "fan", "cus_1").Return(nil)

	res, err := f.uc.Subscribe(ctx, "fan", "c1", nil)
	require.NoError(t, err)
	assert.True(t, res.Checkout.Hosted())
	assert.Equal(t, "cs_1", res.Checkout.SessionID)
	assert.Nil(t, res.Subscription)

	f.subscriptions.AssertNotCalled(t, "Activate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.users.AssertExpectations(t)
}

func TestSubscribe_MockGatewayActivatesAndRecordsLedger(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()
	amount := decimal.RequireFromString("14.50")

	f.creators.On("GetByID", ctx, "c1").Return(&entity.Creator{ID: "c1", VerificationStatus: entity.VerificationApproved}, nil)
	f.users.On("GetByID", ctx, "fan").Return(&entity.User{ID: "fan"}, nil)
	f.gateway.On("Checkout", ctx, mock.Anything).Return(&payment.Result{TransactionID: "mock_sub_1", Status: "completed"}, nil)

	wantExpiry := f.now.AddDate(0, 1, 0)
	f.subscriptions.On("Activate", ctx, "fan", "c1", wantExpiry, mock.MatchedBy(func(e *entity.LedgerEntry) bool {
		return e.TransactionType == entity.TransactionSubscription &&
			e.Amount.Equal(amount) &&
			e.ExternalTransactionID == "mock_sub_1" &&
			*e.FanID == "fan" && *e.CreatorID == "c1" && e.PostID == nil
	})).Return(&entity.Subscription{ID: "s1", Status: entity.SubscriptionActive}, true, nil)
	f.publisher.On("Publish", ctx, realtime.ChannelSubscriptions, realtime.EventNewSubscription, mock.Anything).Return(nil)

	res, err := f.uc.Subscribe(ctx, "fan", "c1", &amount)
	require.NoError(t, err)
	assert.False(t, res.Checkout.Hosted())
	assert.Equal(t, "mock_sub_1", res.Checkout.Payment.TransactionID)
	assert.True(t, res.Checkout.Payment.Amount.Equal(amount))
	assert.Equal(t, "s1", res.Subscription.ID)

	f.subscriptions.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func ppvPost(price string) *entity.Post {
	p := decimal.RequireFromString(price)
	return &entity.Post{ID: "p1", CreatorID: "c1", AccessType: entity.AccessPPV, PPVPrice: &p, IsActive: true}
}

func TestUnlockPPV_Validation(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	_, err := f.uc.UnlockPPV(ctx, "fan", "")
	assert.ErrorIs(t, err, ErrPostIDRequired)

	f.posts.On("GetActive", ctx, "gone").Return(nil, persistent.ErrNotFound)
	_, err = f.uc.UnlockPPV(ctx, "fan", "gone")
	assert.ErrorIs(t, err, ErrPostNotFound)

	f.posts.On("GetActive", ctx, "public").Return(&entity.Post{ID: "public", AccessType: entity.AccessPublic}, nil)
	_, err = f.uc.UnlockPPV(ctx, "fan", "public")
	assert.ErrorIs(t, err, ErrPostNotPPV)

	f.posts.On("GetActive", ctx, "noprice").Return(&entity.Post{ID: "noprice", AccessType: entity.AccessPPV}, nil)
	_, err = f.uc.UnlockPPV(ctx, "fan", "noprice")
	assert.ErrorIs(t, err, ErrPPVPriceNotSet)

	f.posts.On("GetActive", ctx, "p1").Return(ppvPost("3.00"), nil)
	f.unlocks.On("Exists", ctx, "fan", "p1").Return(true, nil)
	_, err = f.uc.UnlockPPV(ctx, "fan", "p1")
	assert.ErrorIs(t, err, ErrAlreadyUnlocked)
}

func TestUnlockPPV_MockGateway(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	f.posts.On("GetActive", ctx, "p1").Return(ppvPost("3.00"), nil)
	f.unlocks.On("Exists", ctx, "fan", "p1").Return(false, nil)
	f.users.On("GetByID", ctx, "fan").Return(&entity.User{ID: "fan"}, nil)
	f.gateway.On("Checkout", ctx, mock.MatchedBy(func(req payment.CheckoutRequest) bool {
		return req.Kind == payment.KindPPVUnlock && req.PostID == "p1" && req.CancelURL == "https://shop.example.com/feed"
	})).Return(&payment.Result{TransactionID: "mock_ppv_1", Status: "completed"}, nil)
	f.unlocks.On("Create", ctx, "fan", "p1", mock.MatchedBy(func(e *entity.LedgerEntry) bool {
		return e.TransactionType == entity.TransactionPPVUnlock && e.Amount.Equal(decimal.RequireFromString("3")) && *e.PostID == "p1"
	})).Return(&entity.PPVUnlock{ID: "un1", FanID: "fan", PostID: "p1"}, nil)
	f.publisher.On("Publish", ctx, realtime.ChannelUnlocks, realtime.EventPPVUnlocked, mock.Anything).Return(nil)

	res, err := f.uc.UnlockPPV(ctx, "fan", "p1")
	require.NoError(t, err)
	assert.Equal(t, "un1", res.Unlock.ID)
	assert.Equal(t, "mock_ppv_1", res.Checkout.Payment.TransactionID)
}

func TestUnlockPPV_ConcurrentDuplicate(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	f.posts.On("GetActive", ctx, "p1").Return(ppvPost("3.00"), nil)
	f.unlocks.On("Exists", ctx, "fan", "p1").Return(false, nil)
	f.users.On("GetByID", ctx, "fan").Return(&entity.User{ID: "fan"}, nil)
	f.gateway.On("Checkout", ctx, mock.Anything).Return(&payment.Result{TransactionID: "mock_ppv_2"}, nil)
	f.unlocks.On("Create", ctx, "fan", "p1", mock.Anything).Return(nil, persistent.ErrDuplicate)

	_, err := f.uc.UnlockPPV(ctx, "fan", "p1")
	assert.ErrorIs(t, err, ErrAlreadyUnlocked)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirm_PPVIsIdempotent(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	f.unlocks.On("Exists", ctx, "fan", "p1").Return(true, nil)

	err := f.uc.Confirm(ctx, entity.Confirmation{SessionID: "cs_1", Type: entity.TransactionPPVUnlock, FanID: "fan", PostID: "p1"})
	require.NoError(t, err)
	f.unlocks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirm_PPVCreatesUnlock(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	f.unlocks.On("Exists", ctx, "fan", "p1").Return(false, nil)
	f.posts.On("GetByID", ctx, "p1").Return(ppvPost("7.25"), nil)
	f.unlocks.On("Create", ctx, "fan", "p1", mock.MatchedBy(func(e *entity.LedgerEntry) bool {
		return e.ExternalTransactionID == "cs_9" && e.Amount.Equal(decimal.RequireFromString("7.25"))
	})).Return(&entity.PPVUnlock{ID: "un1"}, nil)
	f.publisher.On("Publish", ctx, realtime.ChannelUnlocks, realtime.EventPPVUnlocked, mock.Anything).Return(nil)

	err := f.uc.Confirm(ctx, entity.Confirmation{SessionID: "cs_9", Type: entity.TransactionPPVUnlock, FanID: "fan", PostID: "p1"})
	require.NoError(t, err)
	f.unlocks.AssertExpectations(t)
}

func TestConfirm_SubscriptionRenewal(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	f.ledger.On("HasExternalID", ctx, "cs_2").Return(false, nil)
	f.subscriptions.On("Activate", ctx, "fan", "c1", f.now.AddDate(0, 1, 0), mock.MatchedBy(func(e *entity.LedgerEntry) bool {
		return e.Amount.Equal(entity.DefaultSubscriptionPrice) && e.ExternalTransactionID == "cs_2"
	})).Return(&entity.Subscription{ID: "s1"}, true, nil)
	f.publisher.On("Publish", ctx, realtime.ChannelSubscriptions, realtime.EventSubscriptionRenewed, mock.Anything).Return(nil)

	err := f.uc.Confirm(ctx, entity.Confirmation{SessionID: "cs_2", Type: entity.TransactionSubscription, FanID: "fan", CreatorID: "c1"})
	require.NoError(t, err)
	f.publisher.AssertExpectations(t)
}

func TestConfirm_SubscriptionSessionAlreadyRecorded(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	f.ledger.On("HasExternalID", ctx, "cs_2").Return(true, nil)

	err := f.uc.Confirm(ctx, entity.Confirmation{SessionID: "cs_2", Type: entity.TransactionSubscription, FanID: "fan", CreatorID: "c1"})
	require.NoError(t, err)
	f.subscriptions.AssertNotCalled(t, "Activate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirm_MissingTargetIsNoop(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	assert.NoError(t, f.uc.Confirm(ctx, entity.Confirmation{Type: entity.TransactionPPVUnlock, FanID: "fan"}))
	assert.NoError(t, f.uc.Confirm(ctx, entity.Confirmation{Type: entity.TransactionSubscription, FanID: "fan"}))
	assert.NoError(t, f.uc.Confirm(ctx, entity.Confirmation{Type: "tip", FanID: "fan"}))
}

func TestHandleWebhook(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	f.gateway.On("ParseWebhook", []byte("ignored"), "sig").Return(nil, nil)
	require.NoError(t, f.uc.HandleWebhook(ctx, []byte("ignored"), "sig"))

	f.gateway.On("ParseWebhook", []byte("paid"), "sig").Return(&payment.CompletedCheckout{
		SessionID: "cs_3", Kind: payment.KindPPVUnlock, FanID: "fan", PostID: "p1", Paid: true,
	}, nil)
	f.unlocks.On("Exists", ctx, "fan", "p1").Return(true, nil)
	require.NoError(t, f.uc.HandleWebhook(ctx, []byte("paid"), "sig"))

	f.gateway.On("ParseWebhook", []byte("forged"), "bad").Return(nil, assert.AnError)
	err := f.uc.HandleWebhook(ctx, []byte("forged"), "bad")
	assert.ErrorIs(t, err, ErrInvalidWebhook)
	assert.ErrorIs(t, err, assert.AnError)

	f.gateway.On("ParseWebhook", []byte("unset"), "").Return(nil, payment.ErrWebhookNotConfigured)
	err = f.uc.HandleWebhook(ctx, []byte("unset"), "")
	assert.ErrorIs(t, err, payment.ErrWebhookNotConfigured)
	assert.NotErrorIs(t, err, ErrInvalidWebhook)

	f.unlocks.AssertExpectations(t)
}

func TestHandleWebhook_RenewalInvoice(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	charged := decimal.RequireFromString("14.99")
	f.gateway.On("ParseWebhook", []byte("renewal"), "sig").Return(&payment.CompletedCheckout{
		SessionID: "in_1", Kind: payment.KindSubscription, FanID: "fan", CreatorID: "c1", Amount: &charged, Paid: true,
	}, nil)
	f.ledger.On("HasExternalID", ctx, "in_1").Return(false, nil).Once()
	f.subscriptions.On("Activate", ctx, "fan", "c1", f.now.AddDate(0, 1, 0), mock.MatchedBy(func(e *entity.LedgerEntry) bool {
		return e.Amount.Equal(charged) && e.ExternalTransactionID == "in_1"
	})).Return(&entity.Subscription{ID: "s1"}, true, nil).Once()
	f.publisher.On("Publish", ctx, realtime.ChannelSubscriptions, realtime.EventSubscriptionRenewed, mock.Anything).Return(nil)

	require.NoError(t, f.uc.HandleWebhook(ctx, []byte("renewal"), "sig"))

	// invoice.payment_succeeded for the same invoice is already in the ledger.
	f.ledger.On("HasExternalID", ctx, "in_1").Return(true, nil).Once()
	require.NoError(t, f.uc.HandleWebhook(ctx, []byte("renewal"), "sig"))

	f.subscriptions.AssertNumberOfCalls(t, "Activate", 1)
	f.publisher.AssertExpectations(t)
}

func TestConfirm_UnknownTypeWritesNothing(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	for _, typ := range []entity.TransactionType{"", "refund"} {
		err := f.uc.Confirm(ctx, entity.Confirmation{SessionID: "cs_1", Type: typ, FanID: "fan", CreatorID: "c1", PostID: "p1"})
		require.NoError(t, err)
	}
	f.subscriptions.AssertNotCalled(t, "Activate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.unlocks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.ledger.AssertNotCalled(t, "HasExternalID", mock.Anything, mock.Anything)
}
