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

	httpAdapter "github.com/iho/subledger/internal/adapter/http"
	"github.com/iho/subledger/internal/adapter/http/handler"
	"github.com/iho/subledger/internal/adapter/provisioner"
	postgresRepo "github.com/iho/subledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/subledger/internal/adapter/repository/redis"
	"github.com/iho/subledger/internal/infrastructure/auth"
	"github.com/iho/subledger/internal/infrastructure/config"
	"github.com/iho/subledger/internal/infrastructure/eventpublisher"
	"github.com/iho/subledger/internal/infrastructure/logger"
	"github.com/iho/subledger/internal/infrastructure/metrics"
	"github.com/iho/subledger/internal/infrastructure/postgres"
	"github.com/iho/subledger/internal/infrastructure/redis"
	"github.com/iho/subledger/internal/infrastructure/scheduler"
	"github.com/iho/subledger/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger

	ctx := context.Background()

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	appLogger.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, "migrations"); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	appLogger.Info().Msg("connected to redis")

	m := metrics.New()

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	orderRepo := postgresRepo.NewOrderRepository(pool)
	chargeRepo := postgresRepo.NewChargeRepository(pool)
	serviceRepo := postgresRepo.NewServiceRepository(pool)
	notificationRepo := postgresRepo.NewNotificationRepository(pool)
	ticketRepo := postgresRepo.NewTicketRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	panel := provisioner.New(provisioner.Config{
		BaseURL:    cfg.PanelURL,
		APIKey:     cfg.PanelAPIKey,
		Timeout:    cfg.PanelTimeout,
		MaxRetries: uint64(cfg.PanelMaxRetries),
	}, appLogger)

	// Use cases
	ledgerUC := usecase.NewLedgerUseCase(txManager, accountRepo, entryRepo, idGen, cache)
	orderUC := usecase.NewOrderUseCase(txManager, accountRepo, entryRepo, orderRepo,
		serviceRepo, outboxRepo, panel, idGen, m, cfg.PaymentWindow)
	chargeUC := usecase.NewChargeUseCase(txManager, accountRepo, entryRepo, chargeRepo,
		outboxRepo, idGen, m, cfg.PaymentWindow)
	notificationUC := usecase.NewNotificationUseCase(notificationRepo, outboxRepo, idGen, m)
	serviceUC := usecase.NewServiceUseCase(txManager, serviceRepo, notificationUC, m, cfg.WarningWindow)
	ticketUC := usecase.NewTicketUseCase(txManager, accountRepo, ticketRepo, idGen)
	sweepUC := usecase.NewSweepUseCase(orderUC, chargeUC, serviceUC, appLogger, m)

	var jwtManager *auth.JWTManager
	if cfg.JWTSecret != "" {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	} else {
		appLogger.Warn().Msg("JWT_SECRET not set; API authentication disabled")
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterDeps{
		Orders:           handler.NewOrderHandler(orderUC),
		Charges:          handler.NewChargeHandler(chargeUC),
		Accounts:         handler.NewAccountHandler(ledgerUC, orderUC, serviceUC, ticketUC),
		Services:         handler.NewServiceHandler(serviceUC),
		Tickets:          handler.NewTicketHandler(ticketUC),
		Sweep:            handler.NewSweepHandler(sweepUC),
		Health:           handler.NewHealthHandler(pool, redisClient),
		JWTManager:       jwtManager,
		IdempotencyStore: idempotencyStore,
		Metrics:          m,
		Logger:           appLogger,
		RateLimit:        cfg.RateLimitPerSecond,
		RateBurst:        cfg.RateLimitBurst,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Background workers
	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  eventpublisher.NewRedisStreamPublisher(redisClient, cfg.EventStream),
		Logger:     appLogger,
		Metrics:    m,
	})
	go func() {
		if err := publisher.Start(workerCtx); err != nil && workerCtx.Err() == nil {
			log.Fatal().Err(err).Msg("event publisher failed")
		}
	}()

	sweeper := scheduler.New("sweep", cfg.SweepInterval, func(ctx context.Context, now time.Time) {
		sweepUC.Run(ctx, now)
	}, appLogger)
	go func() {
		if err := sweeper.Start(workerCtx); err != nil && workerCtx.Err() == nil {
			log.Fatal().Err(err).Msg("sweep scheduler failed")
		}
	}()

	go func() {
		appLogger.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info().Msg("shutting down server...")
	stopWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	appLogger.Info().Msg("server stopped")
}
