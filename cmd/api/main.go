package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/internalpj/crm-api/internal/api"
	"github.com/internalpj/crm-api/internal/core/credential"
	"github.com/internalpj/crm-api/internal/core/service"
	"github.com/internalpj/crm-api/internal/core/token"
	mongodb "github.com/internalpj/crm-api/internal/infrastructure/db/mongo"
	redisdb "github.com/internalpj/crm-api/internal/infrastructure/db/redis"
	"github.com/internalpj/crm-api/internal/infrastructure/queue"
	"github.com/internalpj/crm-api/internal/pkg/config"
	"github.com/internalpj/crm-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

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

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	userRepo := mongodb.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user index creation failed")
	}
	auditRepo := mongodb.NewAuditRepository(db)

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Core services ---
	dispatcher := queue.NewAuditDispatcher(cfg.Auth.AuditWorkers, auditRepo, log)
	dispatcher.Start(ctx)

	tokens := token.NewService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	codec := credential.NewCodec(cfg.Auth.BcryptCost)
	limiter := redisdb.NewAttemptLimiter(rdb, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginAttemptWindow)
	accounts := service.NewAccountService(userRepo, codec, tokens, limiter, dispatcher, log)

	e := api.NewRouter(api.RouterDeps{
		Accounts:    accounts,
		Users:       userRepo,
		Tokens:      tokens,
		Audit:       auditRepo,
		Mongo:       db,
		Redis:       rdb,
		Log:         log,
		CORSOrigins: cfg.CORSOrigins,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
