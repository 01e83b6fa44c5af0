package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/boloflier/bolo-system/internal/api"
	"github.com/boloflier/bolo-system/internal/core/service"
	"github.com/boloflier/bolo-system/internal/infrastructure/config"
	mongodb "github.com/boloflier/bolo-system/internal/infrastructure/db/mongo"
	redisdb "github.com/boloflier/bolo-system/internal/infrastructure/db/redis"
	"github.com/boloflier/bolo-system/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// --- MongoDB ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	userRepo := mongodb.NewUserRepository(db)
	boloRepo, err := mongodb.NewBoloRepository(db)
	if err != nil {
		log.Fatal().Err(err).Msg("bolo repository init failed")
	}
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("user index creation failed")
	}
	if err := boloRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("bolo index creation failed")
	}

	// --- Redis (optional read cache) ---
	var rdb *redis.Client
	var boloCache *redisdb.BoloCache
	if cfg.Redis.Addr != "" {
		rdb, err = redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Timeout:  cfg.Redis.Timeout,
		})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, read cache disabled")
		} else {
			defer rdb.Close()
			boloCache = redisdb.NewBoloCache(rdb, cfg.Redis.CacheTTL)
		}
	}

	// --- Services ---
	userService := service.NewUserService(userRepo, log)

	var boloService *service.BoloService
	if boloCache != nil {
		boloService = service.NewBoloService(boloRepo, boloCache, log)
	} else {
		boloService = service.NewBoloService(boloRepo, nil, log)
	}

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		Users:     userService,
		Bolos:     boloService,
		Mongo:     db,
		Redis:     rdb,
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.TokenTTL,
		Log:       log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("bolo system listening")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
