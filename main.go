// @title Vacation Recommender API
// @description Generates validated vacation recommendations from a travel questionnaire.
// @BasePath /
package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/NomadCrew/vacation-recommender/config"
	"github.com/NomadCrew/vacation-recommender/db"
	"github.com/NomadCrew/vacation-recommender/handlers"
	"github.com/NomadCrew/vacation-recommender/internal/recommendation"
	"github.com/NomadCrew/vacation-recommender/internal/store"
	"github.com/NomadCrew/vacation-recommender/internal/store/postgres"
	"github.com/NomadCrew/vacation-recommender/logger"
	"github.com/NomadCrew/vacation-recommender/pkg/mapbox"
	"github.com/NomadCrew/vacation-recommender/pkg/perplexity"
	"github.com/NomadCrew/vacation-recommender/pkg/pexels"
	"github.com/NomadCrew/vacation-recommender/router"
	"github.com/NomadCrew/vacation-recommender/services"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	logger.InitLogger()
	log := logger.GetLogger()
	defer logger.Close()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := recommendation.NewMetrics()
	orchestratorOpts := []recommendation.Option{recommendation.WithMetrics(metrics)}

	// The attempt log is optional; a database failure only disables it.
	var (
		pool         *pgxpool.Pool
		attemptStore store.AttemptStore
		attemptLog   *services.AttemptLogWriter
	)
	if cfg.Database.Enabled() {
		pool, attemptStore, attemptLog = setupAttemptLog(ctx, cfg)
		if attemptLog != nil {
			orchestratorOpts = append(orchestratorOpts, recommendation.WithObserver(attemptLog))
		}
	} else {
		log.Info("DATABASE_URL not set, generation attempts will only be logged")
	}

	redisOptions := &redis.Options{
		Addr:         cfg.Redis.Address,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}
	if cfg.Redis.UseTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOptions)
	pingCtx, cancelPing := context.WithTimeout(ctx, 3*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Warnw("Redis unreachable, generate rate limiting will fail open", "address", cfg.Redis.Address, "error", err)
	}
	cancelPing()

	completionClient := perplexity.NewClient(
		cfg.Completion.APIKey,
		cfg.Completion.BaseURL,
		cfg.Completion.Model,
		cfg.Completion.Timeout(),
	)
	geocoder := mapbox.NewClient(
		cfg.Geocoding.AccessToken,
		cfg.Geocoding.BaseURL,
		cfg.Geocoding.Timeout(),
		cfg.Geocoding.RequestsPerSecond,
	)
	imageClient := pexels.NewClient(cfg.Pexels.APIKey)

	orchestrator, err := recommendation.NewOrchestratorFromConfig(cfg.Pipeline, cfg.Completion, completionClient, orchestratorOpts...)
	if err != nil {
		log.Fatalf("Failed to build generation pipeline: %v", err)
	}
	enricher := recommendation.NewEnricher(geocoder, cfg.Geocoding.Concurrency, metrics)

	recommendationService := services.NewRecommendationService(orchestrator, enricher, geocoder, imageClient, attemptStore)

	healthDeps := services.HealthDependencies{
		Redis:                redisClient,
		CompletionConfigured: cfg.Completion.APIKey != "",
		GeocodingEnabled:     cfg.Geocoding.Enabled(),
	}
	if attemptStore != nil {
		healthDeps.AttemptStore = attemptStore
	}
	healthService := services.NewHealthService(healthDeps, cfg.Server.Version)

	r := router.SetupRouter(router.Dependencies{
		Config:                cfg,
		HealthHandler:         handlers.NewHealthHandler(healthService),
		RecommendationHandler: handlers.NewRecommendationHandler(recommendationService),
		RateLimiter:           services.NewRateLimitService(redisClient),
	})

	policy := orchestrator.Policy()
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		// A generate request may span every attempt plus the backoff between them.
		WriteTimeout: time.Duration(policy.MaxAttempts)*(cfg.Completion.Timeout()+policy.MaxDelay) + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Infow("Starting server",
			"port", cfg.Server.Port,
			"environment", cfg.Server.Environment,
			"geocoding", cfg.Geocoding.Enabled(),
			"attemptLog", attemptLog != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("HTTP server shutdown failed", "error", err)
	}

	if attemptLog != nil {
		drainCtx, cancelDrain := context.WithTimeout(shutdownCtx, time.Duration(cfg.WorkerPool.ShutdownTimeoutSeconds)*time.Second)
		if err := attemptLog.Shutdown(drainCtx); err != nil {
			log.Warnw("Attempt log writer did not drain", "error", err)
		}
		cancelDrain()
	}
	if pool != nil {
		pool.Close()
	}
	if err := redisClient.Close(); err != nil {
		log.Warnw("Failed to close Redis client", "error", err)
	}

	log.Info("Server stopped")
}

// setupAttemptLog migrates and connects the attempt store and starts its
// writer. It returns nils when the database cannot be used.
func setupAttemptLog(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, store.AttemptStore, *services.AttemptLogWriter) {
	log := logger.GetLogger()

	if cfg.Database.RunMigrations {
		if err := db.RunMigrations(cfg.Database.URL); err != nil {
			log.Errorw("Attempt log migrations failed, continuing without attempt log", "error", err)
			return nil, nil, nil
		}
	}

	pool, err := db.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Errorw("Attempt log database unavailable, continuing without attempt log",
			"database_url", logger.MaskConnectionString(cfg.Database.URL),
			"error", err)
		return nil, nil, nil
	}

	attemptStore := postgres.NewAttemptStore(pool)
	writer := services.NewAttemptLogWriter(attemptStore, cfg.WorkerPool)
	writer.Start()
	return pool, attemptStore, writer
}
