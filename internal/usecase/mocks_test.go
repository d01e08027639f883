package usecase

import (
	"context"
	"io"
	"time"

	"fanhouse/internal/entity"
	"fanhouse/internal/repo/persistent"
	"fanhouse/pkg/logger"
	"fanhouse/pkg/payment"
	"fanhouse/pkg/verification"

	"github.com/stretchr/testify/mock"
)

func testLogger() *logger.Logger {
	return logger.NewWithOutput(io.Discard)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil && user.ID == "" {
		user.ID = "generated-user"
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, id string, role entity.UserRole) error {
	return m.Called(ctx, id, role).Error(0)
}

func (m *MockUserRepository) SetStripeCustomerID(ctx context.Context, id, customerID string) error {
	return m.Called(ctx, id, customerID).Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, limit int) ([]*entity.User, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.User), args.Error(1)
}

var _ persistent.UserRepository = (*MockUserRepository)(nil)

type MockCreatorRepository struct {
	mock.Mock
}

func (m *MockCreatorRepository) CreateForUser(ctx context.Context, creator *entity.Creator) error {
	args := m.Called(ctx, creator)
	if args.Error(0) == nil && creator.ID == "" {
		creator.ID = "generated-creator"
	}
	return args.Error(0)
}

func (m *MockCreatorRepository) one(args mock.Arguments) (*entity.Creator, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Creator), args.Error(1)
}

func (m *MockCreatorRepository) many(args mock.Arguments) ([]*entity.Creator, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Creator), args.Error(1)
}

func (m *MockCreatorRepository) GetByID(ctx context.Context, id string) (*entity.Creator, error) {
	return m.one(m.Called(ctx, id))
}

func (m *MockCreatorRepository) GetByUserID(ctx context.Context, userID string) (*entity.Creator, error) {
	return m.one(m.Called(ctx, userID))
}

func (m *MockCreatorRepository) GetWithUser(ctx context.Context, id string) (*entity.Creator, error) {
	return m.one(m.Called(ctx, id))
}

func (m *MockCreatorRepository) ListApproved(ctx context.Context) ([]*entity.Creator, error) {
	return m.many(m.Called(ctx))
}

func (m *MockCreatorRepository) ListAll(ctx context.Context) ([]*entity.Creator, error) {
	return m.many(m.Called(ctx))
}

func (m *MockCreatorRepository) UpdateStatus(ctx context.Context, id string, status entity.VerificationStatus) (*entity.Creator, error) {
	return m.one(m.Called(ctx, id, status))
}

func (m *MockCreatorRepository) Disable(ctx context.Context, id string) (*entity.Creator, error) {
	return m.one(m.Called(ctx, id))
}

func (m *MockCreatorRepository) Stats(ctx context.Context, id string) (entity.CreatorStats, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entity.CreatorStats), args.Error(1)
}

var _ persistent.CreatorRepository = (*MockCreatorRepository)(nil)

type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) one(args mock.Arguments) (*entity.Post, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostRepository) Create(ctx context.Context, post *entity.Post) error {
	args := m.Called(ctx, post)
	if args.Error(0) == nil && post.ID == "" {
		post.ID = "generated-post"
	}
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	return m.one(m.Called(ctx, id))
}

func (m *MockPostRepository) GetActive(ctx context.Context, id string) (*entity.Post, error) {
	return m.one(m.Called(ctx, id))
}

func (m *MockPostRepository) ListActive(ctx context.Context, filter entity.PostFilter) ([]*entity.Post, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Post), args.Error(1)
}

func (m *MockPostRepository) Deactivate(ctx context.Context, id string) (*entity.Post, error) {
	return m.one(m.Called(ctx, id))
}

var _ persistent.PostRepository = (*MockPostRepository)(nil)

type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) HasActive(ctx context.Context, fanID, creatorID string) (bool, error) {
	args := m.Called(ctx, fanID, creatorID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubscriptionRepository) Activate(ctx context.Context, fanID, creatorID string, expiresAt time.Time, entry *entity.LedgerEntry) (*entity.Subscription, bool, error) {
	args := m.Called(ctx, fanID, creatorID, expiresAt, entry)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*entity.Subscription), args.Bool(1), args.Error(2)
}

func (m *MockSubscriptionRepository) ListByFan(ctx context.Context, fanID string) ([]*entity.Subscription, error) {
	args := m.Called(ctx, fanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) ActiveFanIDs(ctx context.Context, creatorID string) ([]string, error) {
	args := m.Called(ctx, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

var _ persistent.SubscriptionRepository = (*MockSubscriptionRepository)(nil)

type MockUnlockRepository struct {
	mock.Mock
}

func (m *MockUnlockRepository) Exists(ctx context.Context, fanID, postID string) (bool, error) {
	args := m.Called(ctx, fanID, postID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUnlockRepository) Create(ctx context.Context, fanID, postID string, entry *entity.LedgerEntry) (*entity.PPVUnlock, error) {
	args := m.Called(ctx, fanID, postID, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PPVUnlock), args.Error(1)
}

var _ persistent.UnlockRepository = (*MockUnlockRepository)(nil)

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) List(ctx context.Context, filter entity.LedgerFilter) ([]*entity.LedgerEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) HasExternalID(ctx context.Context, externalID string) (bool, error) {
	args := m.Called(ctx, externalID)
	return args.Bool(0), args.Error(1)
}

var _ persistent.LedgerRepository = (*MockLedgerRepository)(nil)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, channel, event string, data interface{}) error {
	return m.Called(ctx, channel, event, data).Error(0)
}

func (m *MockPublisher) Close() error {
	return nil
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Checkout(ctx context.Context, req payment.CheckoutRequest) (*payment.Result, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Result), args.Error(1)
}

func (m *MockGateway) ParseWebhook(payload []byte, signature string) (*payment.CompletedCheckout, error) {
	args := m.Called(payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.CompletedCheckout), args.Error(1)
}

func (m *MockGateway) Name() string {
	return "test"
}

var _ payment.Gateway = (*MockGateway)(nil)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Save(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	args := m.Called(ctx, key, body, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, userID, notifType string, data map[string]interface{}) error {
	return m.Called(ctx, userID, notifType, data).Error(0)
}

type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) CreateInquiry(ctx context.Context, userID, email string) (*verification.Inquiry, error) {
	args := m.Called(ctx, userID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*verification.Inquiry), args.Error(1)
}

func (m *MockVerifier) GetInquiry(ctx context.Context, inquiryID string) (*verification.Inquiry, error) {
	args := m.Called(ctx, inquiryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*verification.Inquiry), args.Error(1)
}

var _ verification.Provider = (*MockVerifier)(nil)
