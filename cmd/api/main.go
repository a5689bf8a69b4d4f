// Command api serves the Jelajah Asia travel site.
//
// @title        Jelajah Asia Travel Site API
// @version      1.0
// @description  Destination catalog, visitor sessions, profiles and contact form for the Asia travel site.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jelajah-asia/travel-site/internal/api"
	"github.com/jelajah-asia/travel-site/internal/api/handler"
	"github.com/jelajah-asia/travel-site/internal/api/metrics"
	"github.com/jelajah-asia/travel-site/internal/core/ports"
	"github.com/jelajah-asia/travel-site/internal/core/service"
	"github.com/jelajah-asia/travel-site/internal/core/session"
	"github.com/jelajah-asia/travel-site/internal/infrastructure/backend"
	"github.com/jelajah-asia/travel-site/internal/infrastructure/config"
	"github.com/jelajah-asia/travel-site/internal/infrastructure/db/mongo"
	"github.com/jelajah-asia/travel-site/internal/infrastructure/db/redis"
	"github.com/jelajah-asia/travel-site/internal/infrastructure/queue"
	"github.com/jelajah-asia/travel-site/pkg/logger"
)

const (
	sweepInterval = time.Minute
	tokenKey      = "sb-token:"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "travel-site",
	})

	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("connect mongo")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("disconnect mongo")
		}
	}()

	redisClient, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("connect redis")
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Warn().Err(err).Msg("close redis")
		}
	}()

	accounts := mongo.NewAccountRepository(db)
	destinations := mongo.NewDestinationRepository(db)
	feedbackRepo := mongo.NewFeedbackRepository(db)
	if err := mongo.EnsureIndexes(ctx, accounts, destinations, feedbackRepo); err != nil {
		log.Fatal().Err(err).Msg("ensure indexes")
	}

	backing := redis.NewBacking(redisClient, cfg.Session.SnapshotTTL)
	hosted := backend.NewService(backend.Config{
		Accounts:      accounts,
		Tables:        mongo.NewTableStore(db),
		Files:         mongo.NewFileStorage(db),
		Revocations:   redis.NewRevocations(redisClient),
		Tokens:        backend.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		PublicBaseURL: cfg.Auth.PublicBaseURL,
		Logger:        log.With().Str("component", "backend").Logger(),
	})

	registry := session.NewRegistry(session.RegistryConfig{
		NewClient: func(visitorID string) ports.BackendClient {
			return hosted.ClientFor(backing, tokenKey+visitorID)
		},
		Backing: backing,
		Logger:  log.With().Str("component", "session").Logger(),
	})
	metrics.RegisterSessionStores(registry.Len)
	go registry.Run(ctx, sweepInterval, cfg.Session.IdleTTL)

	catalog := service.NewCatalogService(destinations, cfg.Catalog.PageSize, log)
	feedback := service.NewFeedbackService(feedbackRepo, redis.NewDedupChecker(redisClient), log)
	profiles := service.NewProfileService(log)

	dispatcher := queue.NewDispatcher(cfg.Catalog.FeedbackWorkers, feedback, log)
	// Not tied to the signal; Close drains what is already queued.
	dispatcher.Start(context.WithoutCancel(ctx))

	e := api.NewRouter(api.Dependencies{
		Registry:      registry,
		Catalog:       catalog,
		Feedback:      feedback,
		FeedbackQueue: dispatcher,
		Profiles:      profiles,
		Files:         hosted,
		Checks: []handler.DependencyCheck{
			{Name: "mongo", Ping: func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) }},
			{Name: "redis", Ping: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }},
		},
		CookieName:   cfg.Session.CookieName,
		SecureCookie: !cfg.IsDevelopment(),
		Logger:       log,
	})

	srvErrCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		srvErrCh <- e.Start(":" + cfg.Port)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-srvErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("feedback queue did not drain")
	}
	log.Info().Msg("server exited cleanly")
}
