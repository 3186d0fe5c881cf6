package main

import (
	"context"

	"innkeeper/config"
	"innkeeper/di"
	"innkeeper/helper"
	"innkeeper/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title Innkeeper API
// @version 1.0
// @description Hotel booking and administration service.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	sweeper := di.InitializeSweeper()
	sweeper.Start(context.Background())

	http := di.InitializeService()
	http.Serve()
}
