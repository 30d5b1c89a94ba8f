package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"trademind/internal/app"
	"trademind/internal/config"
	"trademind/internal/database"
	"trademind/internal/notification"
	"trademind/internal/pkg/logger"
	"trademind/internal/repository"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	logger.Init("trademind-api", cfg.Debug, cfg.LogJSON)
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database connect failed")
	}
	if err := repository.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("database migrate failed")
	}

	deps := app.Deps{Config: cfg, DB: db}
	if cfg.Redis.Enabled {
		rdb, err := repository.OpenRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis connect failed")
		}
		defer rdb.Close()
		deps.Sessions = repository.NewRedisSessionStore(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("Session registry: redis")
	}
	if cfg.RabbitMQ.URL != "" {
		deps.Notifier = notification.NewRabbitPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue)
		log.Info().Str("queue", cfg.RabbitMQ.Queue).Msg("Review notifications: rabbitmq")
	}

	a := app.New(deps)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("env", cfg.AppEnv).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen failed")
		}
	}()

	<-ctx.Done()
	stop()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	a.Hub.Shutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server stopped")
}
