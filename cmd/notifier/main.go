package main

import (
	"fanhouse/internal/app"
	"fanhouse/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	if err := app.RunNotifier(cfg); err != nil {
		panic(err)
	}
}
