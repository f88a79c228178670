package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/khata/internal/adapter/http"
	"github.com/iho/khata/internal/adapter/http/handler"
	"github.com/iho/khata/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/khata/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/khata/internal/adapter/repository/redis"
	"github.com/iho/khata/internal/infrastructure/auth"
	"github.com/iho/khata/internal/infrastructure/config"
	"github.com/iho/khata/internal/infrastructure/logger"
	"github.com/iho/khata/internal/infrastructure/metrics"
	"github.com/iho/khata/internal/infrastructure/postgres"
	"github.com/iho/khata/internal/infrastructure/redis"
	"github.com/iho/khata/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	log.Logger = appLogger

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, postgres.Config{
		URL:      cfg.DatabaseURL,
		MaxConns: cfg.DatabaseMaxConns,
		MinConns: cfg.DatabaseMinConns,
		Timeout:  cfg.DatabaseTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	khataRepo := postgresRepo.NewKhataRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(appLogger)
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	appMetrics := metrics.New()
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	// Initialize use cases
	khataUC := usecase.NewKhataUseCase(txManager, khataRepo, entryRepo, idGen, cache, appMetrics)
	entryUC := usecase.NewEntryUseCase(txManager, khataRepo, entryRepo, idGen, retrier, cache, appMetrics)
	userUC := usecase.NewUserUseCase(userRepo, idGen, appMetrics)

	// Initialize handlers
	khataHandler := handler.NewKhataHandler(khataUC)
	entryHandler := handler.NewEntryHandler(entryUC)
	authHandler := handler.NewAuthHandler(userUC, jwtManager)
	statementHandler := handler.NewStatementHandler(khataUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		KhataHandler:     khataHandler,
		EntryHandler:     entryHandler,
		AuthHandler:      authHandler,
		StatementHandler: statementHandler,
		HealthHandler:    healthHandler,
		JWTManager:       jwtManager,
		IdempotencyStore: idempotencyStore,
		RateLimiter:      rateLimiter,
		Logger:           appLogger,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Periodically reset rate limiter state
	limiterDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rateLimiter.Cleanup()
			case <-limiterDone:
				return
			}
		}
	}()

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	close(limiterDone)

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
