package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpAdapter "github.com/tourdesk/ledger/internal/adapter/http"
	"github.com/tourdesk/ledger/internal/adapter/http/handler"
	postgresRepo "github.com/tourdesk/ledger/internal/adapter/repository/postgres"
	redisRepo "github.com/tourdesk/ledger/internal/adapter/repository/redis"
	"github.com/tourdesk/ledger/internal/infrastructure/config"
	"github.com/tourdesk/ledger/internal/infrastructure/eventpublisher"
	"github.com/tourdesk/ledger/internal/infrastructure/logger"
	"github.com/tourdesk/ledger/internal/infrastructure/metrics"
	"github.com/tourdesk/ledger/internal/infrastructure/postgres"
	"github.com/tourdesk/ledger/internal/infrastructure/redis"
	"github.com/tourdesk/ledger/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	ctx := context.Background()

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Metrics
	appMetrics := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	partyRepo := postgresRepo.NewPartyRepository(pool)
	txnRepo := postgresRepo.NewTransactionRepository(pool)
	directRepo := postgresRepo.NewDirectTransactionRepository(pool)
	paymentRepo := postgresRepo.NewVendorPaymentRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	cache := redisRepo.NewCache(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(log)

	// Ledger sources: every movement type that contributes debit/credit
	// entries to a party's statement.
	source := usecase.NewCompositeSource(
		postgresRepo.NewInvoiceSource(pool),
		postgresRepo.NewTransactionSource(pool),
		postgresRepo.NewDirectSource(pool),
		postgresRepo.NewVendorPaymentSource(pool),
	)

	// Initialize use cases
	partyUC := usecase.NewPartyUseCase(partyRepo, auditRepo, idGen)
	txnUC := usecase.NewTransactionUseCase(txManager, partyRepo, txnRepo, outboxRepo, idGen)
	directUC := usecase.NewDirectCashUseCase(txManager, partyRepo, directRepo, outboxRepo, idGen)
	paymentUC := usecase.NewVendorPaymentUseCase(txManager, partyRepo, paymentRepo, outboxRepo, idGen)
	ledgerUC := usecase.NewLedgerUseCase(partyRepo, source)
	reconUC := usecase.NewReconciliationUseCase(
		txManager,
		partyRepo,
		auditRepo,
		outboxRepo,
		source,
		idGen,
		retrier,
		cache,
		appMetrics,
		cfg.ReconcileConcurrency,
	)

	// Initialize handlers
	partyHandler := handler.NewPartyHandler(partyUC, ledgerUC)
	txnHandler := handler.NewTransactionHandler(txnUC)
	directHandler := handler.NewDirectCashHandler(directUC)
	paymentHandler := handler.NewVendorPaymentHandler(paymentUC)
	reconHandler := handler.NewReconciliationHandler(reconUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		PartyHandler:          partyHandler,
		TransactionHandler:    txnHandler,
		DirectCashHandler:     directHandler,
		VendorPaymentHandler:  paymentHandler,
		ReconciliationHandler: reconHandler,
		HealthHandler:         healthHandler,
		IdempotencyStore:      idempotencyStore,
		Metrics:               appMetrics,
		Logger:                log,
		ReconcileRateLimit:    cfg.AdminRateLimit,
		ReconcileRateBurst:    cfg.AdminRateBurst,
	})

	// Start the outbox publisher
	publisherCtx, stopPublisher := context.WithCancel(ctx)
	defer stopPublisher()

	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  eventpublisher.NewLogPublisher(log),
		Logger:     log,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxInterval,
	})
	go func() {
		if err := publisher.Start(publisherCtx); err != nil && publisherCtx.Err() == nil {
			log.Error().Err(err).Msg("outbox publisher stopped")
		}
	}()

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

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
	stopPublisher()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
