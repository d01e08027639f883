package usecase

import (
	"context"
	"errors"
	"testing"

	"fanhouse/internal/entity"
	"fanhouse/internal/repo/persistent"
	"fanhouse/pkg/jwt"
	"fanhouse/pkg/middleware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthUseCase() (AuthUseCase, *MockUserRepository, *MockCreatorRepository, *jwt.Service) {
	users := new(MockUserRepository)
	creators := new(MockCreatorRepository)
	jwtService := jwt.NewService("test-secret")
	return NewAuthUseCase(users, creators, jwtService, testLogger()), users, creators, jwtService
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestRegister_DefaultsToFan(t *testing.T) {
	uc, users, _, jwtService := newAuthUseCase()
	ctx := context.Background()

	users.On("GetByEmail", ctx, "fan@example.com").Return(nil, persistent.ErrNotFound)
	users.On("Create", ctx, mock.MatchedBy(func(u *entity.User) bool {
		return u.Role == entity.RoleFan && u.PasswordHash != "secret" && u.Username != nil && *u.Username == "fanny"
	})).Return(nil)

	user, token, err := uc.Register(ctx, RegisterInput{Email: "fan@example.com", Password: "secret", Username: "fanny"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleFan, user.Role)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "fan", claims.Role)
	users.AssertExpectations(t)
}

func TestRegister_Validation(t *testing.T) {
	uc, users, _, _ := newAuthUseCase()
	ctx := context.Background()

	_, _, err := uc.Register(ctx, RegisterInput{Email: "a@b.c"})
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, _, err = uc.Register(ctx, RegisterInput{Email: "a@b.c", Password: "x", Role: entity.RoleAdmin})
	assert.ErrorIs(t, err, ErrInvalidRole)

	users.On("GetByEmail", ctx, "taken@b.c").Return(&entity.User{ID: "u1"}, nil)
	_, _, err = uc.Register(ctx, RegisterInput{Email: "taken@b.c", Password: "x"})
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestLogin(t *testing.T) {
	uc, users, _, _ := newAuthUseCase()
	ctx := context.Background()

	stored := &entity.User{ID: "u1", Email: "fan@example.com", Role: entity.RoleFan, PasswordHash: hashed(t, "secret")}
	users.On("GetByEmail", ctx, "fan@example.com").Return(stored, nil)
	users.On("GetByEmail", ctx, "nobody@example.com").Return(nil, persistent.ErrNotFound)

	user, token, err := uc.Login(ctx, "fan@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.NotEmpty(t, token)

	_, _, err = uc.Login(ctx, "fan@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = uc.Login(ctx, "nobody@example.com", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestMe_AttachesCreatorProfile(t *testing.T) {
	uc, users, creators, _ := newAuthUseCase()
	ctx := context.Background()

	bio := "hello"
	users.On("GetByID", ctx, "u1").Return(&entity.User{ID: "u1", Role: entity.RoleCreator}, nil)
	creators.On("GetByUserID", ctx, "u1").Return(&entity.Creator{
		ID:                 "c1",
		VerificationStatus: entity.VerificationPending,
		Bio:                &bio,
	}, nil)

	user, err := uc.Me(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, user.Creator)
	assert.Equal(t, "c1", user.Creator.ID)
	assert.Equal(t, entity.VerificationPending, user.Creator.VerificationStatus)
	assert.Equal(t, &bio, user.Creator.Bio)
}

func TestMe_FanHasNoCreatorProfile(t *testing.T) {
	uc, users, creators, _ := newAuthUseCase()
	ctx := context.Background()

	users.On("GetByID", ctx, "u1").Return(&entity.User{ID: "u1", Role: entity.RoleFan}, nil)

	user, err := uc.Me(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, user.Creator)
	creators.AssertNotCalled(t, "GetByUserID", mock.Anything, mock.Anything)
}

func TestResolveRole(t *testing.T) {
	uc, users, _, _ := newAuthUseCase()
	ctx := context.Background()

	users.On("GetByID", ctx, "u1").Return(&entity.User{ID: "u1", Role: entity.RoleAdmin}, nil)
	users.On("GetByID", ctx, "gone").Return(nil, persistent.ErrNotFound)
	users.On("GetByID", ctx, "broken").Return(nil, errors.New("connection reset"))

	role, err := uc.ResolveRole(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "admin", role)

	_, err = uc.ResolveRole(ctx, "gone")
	assert.ErrorIs(t, err, middleware.ErrUserNotFound)

	_, err = uc.ResolveRole(ctx, "broken")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, middleware.ErrUserNotFound)
}

func TestEnsureAdmin(t *testing.T) {
	uc, users, _, _ := newAuthUseCase()
	ctx := context.Background()

	users.On("GetByEmail", ctx, "boss@example.com").Return(&entity.User{ID: "u1", Role: entity.RoleFan}, nil)
	users.On("UpdateRole", ctx, "u1", entity.RoleAdmin).Return(nil)

	user, created, err := uc.EnsureAdmin(ctx, "boss@example.com", "pw")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, entity.RoleAdmin, user.Role)

	users.On("GetByEmail", ctx, "new@example.com").Return(nil, persistent.ErrNotFound)
	users.On("Create", ctx, mock.MatchedBy(func(u *entity.User) bool {
		return u.Role == entity.RoleAdmin
	})).Return(nil)

	_, created, err = uc.EnsureAdmin(ctx, "new@example.com", "pw")
	require.NoError(t, err)
	assert.True(t, created)
	users.AssertExpectations(t)
}

func TestResetPassword(t *testing.T) {
	uc, users, _, _ := newAuthUseCase()
	ctx := context.Background()

	users.On("GetByEmail", ctx, "fan@example.com").Return(&entity.User{ID: "u1"}, nil)
	users.On("UpdatePassword", ctx, "u1", mock.MatchedBy(func(hash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("new-pass")) == nil
	})).Return(nil)
	users.On("GetByEmail", ctx, "nobody@example.com").Return(nil, persistent.ErrNotFound)

	require.NoError(t, uc.ResetPassword(ctx, "fan@example.com", "new-pass"))
	assert.ErrorIs(t, uc.ResetPassword(ctx, "nobody@example.com", "x"), ErrUserNotFound)
	users.AssertExpectations(t)
}
