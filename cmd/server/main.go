package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/cargolink/cargo-portal/internal/api"
	"github.com/cargolink/cargo-portal/internal/infrastructure/config"
	mongodb "github.com/cargolink/cargo-portal/internal/infrastructure/db/mongo"
	redisdb "github.com/cargolink/cargo-portal/internal/infrastructure/db/redis"
	"github.com/cargolink/cargo-portal/internal/infrastructure/seed"
	"github.com/cargolink/cargo-portal/pkg/logger"
)

// @title        Cargo Portal Account API
// @version      1.0
// @description  Registration, authentication and role-based dashboard routing.
// @BasePath     /
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect failed")
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index bootstrap failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connect failed")
	}
	defer rdb.Close()

	if cfg.SeedFile != "" {
		repo := mongodb.NewAccountRepository(db)
		if err := seed.Apply(ctx, cfg.SeedFile, repo, cfg.BcryptCost, log); err != nil {
			log.Fatal().Err(err).Str("file", cfg.SeedFile).Msg("seeding failed")
		}
	}

	e := api.NewRouter(db, rdb, cfg)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil {
			log.Info().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("cargo portal listening")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}
