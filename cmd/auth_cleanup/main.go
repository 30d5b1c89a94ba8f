package main

import (
	"context"
	"flag"
	"time"

	"github.com/rs/zerolog/log"

	"trademind/internal/config"
	"trademind/internal/database"
	"trademind/internal/pkg/logger"
	"trademind/internal/repository"
)

func main() {
	retention := flag.Duration("revoked-retention", 30*24*time.Hour, "keep revoked sessions this long")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	logger.Init("trademind-auth-cleanup", cfg.Debug, cfg.LogJSON)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := repository.NewSessionRepository(db).DeleteExpired(ctx, time.Now().Add(-*retention))
	if err != nil {
		log.Fatal().Err(err).Msg("cleanup auth_sessions failed")
	}
	log.Info().Int64("auth_sessions", n).Msg("auth cleanup completed")
}
