// Command admin manages platform administrator accounts.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"fanhouse/internal/repo/persistent"
	"fanhouse/internal/usecase"
	"fanhouse/pkg/config"
	"fanhouse/pkg/database"
	"fanhouse/pkg/jwt"
	"fanhouse/pkg/logger"

	"github.com/spf13/cobra"
)

const (
	defaultAdminEmail    = "admin@fanhouse.com"
	defaultAdminPassword = "admin123"
	commandTimeout       = 30 * time.Second
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "admin",
		Short:        "Manage fanhouse administrator accounts",
		SilenceUsage: true,
	}
	cmd.AddCommand(createCmd(), resetPasswordCmd())
	return cmd
}

func credentials(args []string) (string, string) {
	email, password := defaultAdminEmail, defaultAdminPassword
	if len(args) > 0 {
		email = args[0]
	}
	if len(args) > 1 {
		password = args[1]
	}
	return email, password
}

func createCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create [email] [password]",
		Short: "Create an admin, or promote an existing user to admin",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			email, password := credentials(args)
			return withAuth(cmd.Context(), func(ctx context.Context, auth usecase.AuthUseCase) error {
				user, created, err := auth.EnsureAdmin(ctx, email, password)
				if err != nil {
					return err
				}
				if created {
					fmt.Printf("Admin user created: %s (%s)\n", user.Email, user.ID)
				} else {
					fmt.Printf("Updated existing user to admin: %s (%s)\n", user.Email, user.ID)
				}
				return nil
			})
		},
	}
}

func resetPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password [email] [password]",
		Short: "Reset an admin password, creating the admin when missing",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			email, password := credentials(args)
			return withAuth(cmd.Context(), func(ctx context.Context, auth usecase.AuthUseCase) error {
				err := auth.ResetPassword(ctx, email, password)
				if err != nil && !errors.Is(err, usecase.ErrUserNotFound) {
					return err
				}

				user, created, err := auth.EnsureAdmin(ctx, email, password)
				if err != nil {
					return err
				}
				if created {
					fmt.Printf("Admin user created: %s (%s)\n", user.Email, user.ID)
				} else {
					fmt.Printf("Admin password reset: %s (%s)\n", user.Email, user.ID)
				}
				return nil
			})
		},
	}
}

func withAuth(parent context.Context, fn func(ctx context.Context, auth usecase.AuthUseCase) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg, log)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, commandTimeout)
	defer cancel()

	auth := usecase.NewAuthUseCase(
		persistent.NewUserRepository(db),
		persistent.NewCreatorRepository(db),
		jwt.NewService(cfg.JWTSecret),
		log,
	)
	return fn(ctx, auth)
}
