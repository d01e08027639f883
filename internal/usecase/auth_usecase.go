package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fanhouse/internal/entity"
	"fanhouse/internal/repo/persistent"
	"fanhouse/pkg/jwt"
	"fanhouse/pkg/logger"
	"fanhouse/pkg/middleware"

	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Email    string
	Password string
	Username string
	Role     entity.UserRole
}

type AuthUseCase interface {
	Register(ctx context.Context, in RegisterInput) (*entity.User, string, error)
	Login(ctx context.Context, email, password string) (*entity.User, string, error)
	Me(ctx context.Context, userID string) (*entity.User, error)
	// ResolveRole returns the role currently stored for the user so that
	// authorization never trusts the role baked into a token.
	ResolveRole(ctx context.Context, userID string) (string, error)
	// EnsureAdmin creates an admin account, or promotes the existing
	// account with that email. created reports which one happened.
	EnsureAdmin(ctx context.Context, email, password string) (user *entity.User, created bool, err error)
	ResetPassword(ctx context.Context, email, password string) error
}

type authUseCase struct {
	userRepo    persistent.UserRepository
	creatorRepo persistent.CreatorRepository
	jwtService  *jwt.Service
	logger      *logger.Logger
}

func NewAuthUseCase(
	userRepo persistent.UserRepository,
	creatorRepo persistent.CreatorRepository,
	jwtService *jwt.Service,
	logger *logger.Logger,
) AuthUseCase {
	return &authUseCase{
		userRepo:    userRepo,
		creatorRepo: creatorRepo,
		jwtService:  jwtService,
		logger:      logger,
	}
}

var _ middleware.UserResolver = (*authUseCase)(nil)

func (uc *authUseCase) Register(ctx context.Context, in RegisterInput) (*entity.User, string, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return nil, "", ErrMissingCredentials
	}

	role := in.Role
	if role == "" {
		role = entity.RoleFan
	}
	if role != entity.RoleFan && role != entity.RoleCreator {
		return nil, "", ErrInvalidRole
	}

	if _, err := uc.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, "", ErrUserExists
	} else if !errors.Is(err, persistent.ErrNotFound) {
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if username := strings.TrimSpace(in.Username); username != "" {
		user.Username = &username
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, persistent.ErrDuplicate) {
			return nil, "", ErrUserExists
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := uc.jwtService.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	uc.logger.Info("Registered %s user %s", user.Role, user.ID)
	return user, token, nil
}

func (uc *authUseCase) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	if email == "" || password == "" {
		return nil, "", ErrMissingCredentials
	}

	user, err := uc.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := uc.jwtService.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}

func (uc *authUseCase) Me(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.Role != entity.RoleCreator {
		return user, nil
	}

	creator, err := uc.creatorRepo.GetByUserID(ctx, user.ID)
	switch {
	case err == nil:
		user.Creator = &entity.CreatorInfo{
			ID:                 creator.ID,
			VerificationStatus: creator.VerificationStatus,
			Bio:                creator.Bio,
			DisplayName:        creator.DisplayName,
		}
	case !errors.Is(err, persistent.ErrNotFound):
		return nil, fmt.Errorf("failed to get creator profile: %w", err)
	}
	return user, nil
}

func (uc *authUseCase) ResolveRole(ctx context.Context, userID string) (string, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return "", middleware.ErrUserNotFound
		}
		return "", err
	}
	return string(user.Role), nil
}

func (uc *authUseCase) EnsureAdmin(ctx context.Context, email, password string) (*entity.User, bool, error) {
	if email == "" || password == "" {
		return nil, false, ErrMissingCredentials
	}

	existing, err := uc.userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if err := uc.userRepo.UpdateRole(ctx, existing.ID, entity.RoleAdmin); err != nil {
			return nil, false, fmt.Errorf("failed to promote user: %w", err)
		}
		existing.Role = entity.RoleAdmin
		return existing, false, nil
	case !errors.Is(err, persistent.ErrNotFound):
		return nil, false, fmt.Errorf("failed to look up user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{Email: email, PasswordHash: string(hash), Role: entity.RoleAdmin}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, false, fmt.Errorf("failed to create admin: %w", err)
	}
	return user, true, nil
}

func (uc *authUseCase) ResetPassword(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return ErrMissingCredentials
	}

	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return uc.userRepo.UpdatePassword(ctx, user.ID, string(hash))
}
