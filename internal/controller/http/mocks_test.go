package http

import (
	"context"
	"io"

	"fanhouse/internal/entity"
	"fanhouse/internal/usecase"
	"fanhouse/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func testLogger() *logger.Logger {
	return logger.NewWithOutput(io.Discard)
}

// asUser runs next with the caller identity set as AuthMiddleware would.
func asUser(userID, role string, next gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("user_role", role)
		next(c)
	}
}

type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) Register(ctx context.Context, in usecase.RegisterInput) (*entity.User, string, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*entity.User), args.String(1), args.Error(2)
}

func (m *MockAuthUseCase) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*entity.User), args.String(1), args.Error(2)
}

func (m *MockAuthUseCase) Me(ctx context.Context, userID string) (*entity.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockAuthUseCase) ResolveRole(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockAuthUseCase) EnsureAdmin(ctx context.Context, email, password string) (*entity.User, bool, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*entity.User), args.Bool(1), args.Error(2)
}

func (m *MockAuthUseCase) ResetPassword(ctx context.Context, email, password string) error {
	return m.Called(ctx, email, password).Error(0)
}

var _ usecase.AuthUseCase = (*MockAuthUseCase)(nil)

type MockCreatorUseCase struct {
	mock.Mock
}

func (m *MockCreatorUseCase) Apply(ctx context.Context, userID string, in usecase.ApplyInput) (*entity.Creator, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Creator), args.Error(1)
}

func (m *MockCreatorUseCase) ListApproved(ctx context.Context) ([]*entity.Creator, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Creator), args.Error(1)
}

func (m *MockCreatorUseCase) Get(ctx context.Context, id string) (*entity.Creator, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Creator), args.Error(1)
}

func (m *MockCreatorUseCase) MyProfile(ctx context.Context, userID string) (*entity.CreatorProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CreatorProfile), args.Error(1)
}

func (m *MockCreatorUseCase) MyVerification(ctx context.Context, userID string) (*entity.Inquiry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Inquiry), args.Error(1)
}

var _ usecase.CreatorUseCase = (*MockCreatorUseCase)(nil)

type MockContentUseCase struct {
	mock.Mock
}

func (m *MockContentUseCase) CreatePost(ctx context.Context, userID string, in entity.NewPost) (*entity.Post, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockContentUseCase) ListPosts(ctx context.Context, requesterID string, filter entity.PostFilter) ([]*entity.Post, error) {
	args := m.Called(ctx, requesterID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Post), args.Error(1)
}

func (m *MockContentUseCase) GetPost(ctx context.Context, requesterID, postID string) (*entity.Post, error) {
	args := m.Called(ctx, requesterID, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

var _ usecase.ContentUseCase = (*MockContentUseCase)(nil)

type MockPaymentUseCase struct {
	mock.Mock
}

func (m *MockPaymentUseCase) Subscribe(ctx context.Context, fanID, creatorID string, amount *decimal.Decimal) (*usecase.SubscribeResult, error) {
	args := m.Called(ctx, fanID, creatorID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.SubscribeResult), args.Error(1)
}

func (m *MockPaymentUseCase) UnlockPPV(ctx context.Context, fanID, postID string) (*usecase.UnlockResult, error) {
	args := m.Called(ctx, fanID, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.UnlockResult), args.Error(1)
}

func (m *MockPaymentUseCase) Confirm(ctx context.Context, c entity.Confirmation) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockPaymentUseCase) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	return m.Called(ctx, payload, signature).Error(0)
}

func (m *MockPaymentUseCase) ListSubscriptions(ctx context.Context, fanID string) ([]*entity.Subscription, error) {
	args := m.Called(ctx, fanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Subscription), args.Error(1)
}

var _ usecase.PaymentUseCase = (*MockPaymentUseCase)(nil)

type MockAdminUseCase struct {
	mock.Mock
}

func (m *MockAdminUseCase) ListUsers(ctx context.Context) ([]*entity.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.User), args.Error(1)
}

func (m *MockAdminUseCase) ListCreators(ctx context.Context) ([]*entity.Creator, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Creator), args.Error(1)
}

func (m *MockAdminUseCase) ApproveCreator(ctx context.Context, id string) (*entity.Creator, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Creator), args.Error(1)
}

func (m *MockAdminUseCase) RejectCreator(ctx context.Context, id string) (*entity.Creator, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Creator), args.Error(1)
}

func (m *MockAdminUseCase) DisableCreator(ctx context.Context, id string) (*entity.Creator, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Creator), args.Error(1)
}

func (m *MockAdminUseCase) DisablePost(ctx context.Context, id string) (*entity.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockAdminUseCase) Transactions(ctx context.Context, filter entity.LedgerFilter) ([]*entity.LedgerEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.LedgerEntry), args.Error(1)
}

var _ usecase.AdminUseCase = (*MockAdminUseCase)(nil)
