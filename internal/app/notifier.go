package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"fanhouse/internal/repo/persistent"
	"fanhouse/pkg/config"
	"fanhouse/pkg/database"
	"fanhouse/pkg/logger"
	"fanhouse/pkg/notify"
	"fanhouse/pkg/queue"
)

// userRecipient resolves notification addresses from the users table.
type userRecipient struct {
	users persistent.UserRepository
}

func (r userRecipient) EmailFor(ctx context.Context, userID string) (string, error) {
	user, err := r.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Email, nil
}

func newSender(cfg *config.Config, log *logger.Logger) notify.Sender {
	if cfg.ResendAPIKey == "" {
		log.Warn("RESEND_API_KEY not set, notification emails will only be logged")
		return notify.NewLogSender(log)
	}
	return notify.NewResendSender(cfg.ResendAPIKey, cfg.NotifyFrom)
}

// RunNotifier consumes the notification queue until SIGINT or SIGTERM.
func RunNotifier(cfg *config.Config) error {
	log := logger.New().With("component", "notifier")

	db, err := database.NewPostgresDB(cfg, log)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return err
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v", err)
		return err
	}
	defer queueClient.Close()

	if backlog, err := queueClient.GetQueueLength(); err == nil {
		log.Info("Notification backlog: %d", backlog)
	}

	dispatcher := notify.NewDispatcher(
		userRecipient{users: persistent.NewUserRepository(db)},
		newSender(cfg, log),
		log,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = queueClient.ConsumeNotificationTasks(ctx, dispatcher.Handle)
	if errors.Is(err, context.Canceled) {
		log.Info("Notifier stopped")
		return nil
	}
	return err
}
