package main

import (
	"context"
	"errors"
	"fmt"

	"fanhouse/internal/entity"
	"fanhouse/internal/repo/persistent"
	"fanhouse/internal/usecase"
	"fanhouse/pkg/config"
	"fanhouse/pkg/database"
	"fanhouse/pkg/jwt"
	"fanhouse/pkg/logger"
	"fanhouse/pkg/metrics"
	"fanhouse/pkg/notify"
	"fanhouse/pkg/payment"
	"fanhouse/pkg/realtime"
	"fanhouse/pkg/storage"
	"fanhouse/pkg/verification"

	"github.com/shopspring/decimal"
)

const seedPassword = "password123"

type seeder struct {
	auth    usecase.AuthUseCase
	creator usecase.CreatorUseCase
	content usecase.ContentUseCase
	payment usecase.PaymentUseCase
	admin   usecase.AdminUseCase
	log     *logger.Logger
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg, log)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(context.Background(), sqlDB); err != nil {
		log.Error("Failed to migrate database: %v", err)
		panic(err)
	}

	store, err := storage.New(cfg)
	if err != nil {
		log.Error("Failed to initialize media storage: %v", err)
		panic(err)
	}

	userRepo := persistent.NewUserRepository(db)
	creatorRepo := persistent.NewCreatorRepository(db)
	postRepo := persistent.NewPostRepository(db)
	subscriptionRepo := persistent.NewSubscriptionRepository(db)
	unlockRepo := persistent.NewUnlockRepository(db)
	ledgerRepo := persistent.NewLedgerRepository(db)

	m := metrics.New()
	events := usecase.NewEventBus(realtime.NewLogPublisher(log), m, log)

	// Seed data never goes through a real payment or verification provider.
	s := &seeder{
		auth:    usecase.NewAuthUseCase(userRepo, creatorRepo, jwt.NewService(cfg.JWTSecret), log),
		creator: usecase.NewCreatorUseCase(userRepo, creatorRepo, verification.NewMockProvider(), events, log),
		content: usecase.NewContentUseCase(creatorRepo, postRepo, subscriptionRepo,
			usecase.NewAccessGate(subscriptionRepo, unlockRepo), store, notify.NewLogNotifier(log), events, log),
		payment: usecase.NewPaymentUseCase(userRepo, creatorRepo, postRepo, subscriptionRepo, unlockRepo, ledgerRepo,
			payment.NewMockGateway(), events, m, cfg.FrontendURL, log),
		admin: usecase.NewAdminUseCase(userRepo, creatorRepo, postRepo, ledgerRepo, events, log),
		log:   log,
	}

	if err := s.run(context.Background()); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully!")
}

func (s *seeder) run(ctx context.Context) error {
	creators := []struct {
		email, username, bio string
	}{
		{"alice@test.com", "alice", "Behind the scenes of a travel photographer"},
		{"bob@test.com", "bob", "Home cooking, one recipe a day"},
	}
	fans := []struct {
		email, username string
	}{
		{"charlie@test.com", "charlie"},
		{"diana@test.com", "diana"},
	}

	creatorIDs := make([]string, 0, len(creators))
	var ppvPosts []string
	for _, c := range creators {
		user, err := s.user(ctx, c.email, c.username, entity.RoleCreator)
		if err != nil {
			return err
		}
		creatorID, err := s.approvedCreator(ctx, user.ID, c.username, c.bio)
		if err != nil {
			return err
		}
		creatorIDs = append(creatorIDs, creatorID)

		ppvID, err := s.posts(ctx, user.ID, creatorID, c.username)
		if err != nil {
			return err
		}
		if ppvID != "" {
			ppvPosts = append(ppvPosts, ppvID)
		}
	}

	for i, f := range fans {
		fan, err := s.user(ctx, f.email, f.username, entity.RoleFan)
		if err != nil {
			return err
		}

		creatorID := creatorIDs[i%len(creatorIDs)]
		if _, err := s.payment.Subscribe(ctx, fan.ID, creatorID, nil); err != nil {
			return fmt.Errorf("failed to subscribe %s: %w", f.username, err)
		}
		s.log.Info("Subscribed %s to creator %s", f.username, creatorID)

		if len(ppvPosts) == 0 {
			continue
		}
		postID := ppvPosts[(i+1)%len(ppvPosts)]
		if _, err := s.payment.UnlockPPV(ctx, fan.ID, postID); err != nil && !errors.Is(err, usecase.ErrAlreadyUnlocked) {
			return fmt.Errorf("failed to unlock post for %s: %w", f.username, err)
		}
	}

	return nil
}

func (s *seeder) user(ctx context.Context, email, username string, role entity.UserRole) (*entity.User, error) {
	user, _, err := s.auth.Register(ctx, usecase.RegisterInput{
		Email:    email,
		Password: seedPassword,
		Username: username,
		Role:     role,
	})
	if errors.Is(err, usecase.ErrUserExists) {
		s.log.Info("User %s already exists, skipping", username)
		user, _, err = s.auth.Login(ctx, email, seedPassword)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to seed user %s: %w", username, err)
	}
	return user, nil
}

func (s *seeder) approvedCreator(ctx context.Context, userID, displayName, bio string) (string, error) {
	_, err := s.creator.Apply(ctx, userID, usecase.ApplyInput{Bio: bio, DisplayName: displayName})
	if err != nil && !errors.Is(err, usecase.ErrAlreadyCreator) {
		return "", fmt.Errorf("failed to apply as creator: %w", err)
	}

	profile, err := s.creator.MyProfile(ctx, userID)
	if err != nil {
		return "", err
	}
	if !profile.IsApproved() {
		if _, err := s.admin.ApproveCreator(ctx, profile.ID); err != nil {
			return "", fmt.Errorf("failed to approve creator: %w", err)
		}
		s.log.Info("Approved creator %s", displayName)
	}
	return profile.ID, nil
}

// posts creates one post per access tier unless the creator already has
// posts, and returns the id of a ppv post when one exists.
func (s *seeder) posts(ctx context.Context, userID, creatorID, username string) (string, error) {
	existing, err := s.content.ListPosts(ctx, userID, entity.PostFilter{CreatorID: creatorID})
	if err != nil {
		return "", err
	}
	if len(existing) > 0 {
		for _, p := range existing {
			if p.AccessType == entity.AccessPPV {
				return p.ID, nil
			}
		}
		return "", nil
	}

	price := decimal.RequireFromString("4.99")
	drafts := []entity.NewPost{
		{Title: "Hello from " + username, Content: "Welcome to my page!", AccessType: entity.AccessPublic},
		{Title: "Subscribers only", Content: "Thanks for subscribing.", AccessType: entity.AccessSubscriber},
		{Title: "Exclusive drop", Content: "The full set, unlocked.", AccessType: entity.AccessPPV, PPVPrice: &price},
	}

	var ppvID string
	for _, d := range drafts {
		post, err := s.content.CreatePost(ctx, userID, d)
		if err != nil {
			return "", fmt.Errorf("failed to create post %q: %w", d.Title, err)
		}
		s.log.Info("Created %s post %s for %s", post.AccessType, post.ID, username)
		if post.AccessType == entity.AccessPPV {
			ppvID = post.ID
		}
	}
	return ppvID, nil
}
