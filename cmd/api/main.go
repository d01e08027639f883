package main

import (
	"fanhouse/internal/app"
	"fanhouse/pkg/config"
)

//go:generate swag init -g cmd/api/main.go -d ../../ -o ../../internal/docs

// @title           Fanhouse API
// @version         1.0
// @description     Creator subscriptions, pay-per-view unlocks and the payments ledger

// @host      localhost:3001
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	if cfg.JWTSecret == "your-secret-key-change-in-production" || cfg.JWTSecret == "" {
		panic("JWT_SECRET must be set in environment variables")
	}

	application, err := app.NewApp(cfg)
	if err != nil {
		panic(err)
	}

	if err := application.Run(); err != nil {
		panic(err)
	}

	application.Wait()

	if err := application.Shutdown(); err != nil {
		panic(err)
	}
}
