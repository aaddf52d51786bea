// Package main is the entry point for the Wisma API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wisma/internal/domain/balance"
	"wisma/internal/domain/booking"
	"wisma/internal/domain/cancellation"
	"wisma/internal/domain/invoice"
	"wisma/internal/domain/pricing"
	v1 "wisma/internal/infrastructure/http/v1"
	"wisma/internal/infrastructure/storage/postgres"
	"wisma/internal/infrastructure/storage/postgres/booking_repo"
	"wisma/internal/infrastructure/storage/postgres/ledger_repo"
	"wisma/pkg/logger"
	"wisma/pkg/numerator"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting wisma server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Repositories ---
	bookingRepo := booking_repo.New(txManager)
	invoiceRepo := ledger_repo.NewTransactionRepo(txManager)
	cashflowRepo := ledger_repo.NewCashflowRepo(txManager)

	// --- Services ---
	numbers := numerator.New(pool)
	tariff := pricing.DefaultTariff()

	resolver := booking.NewResolver(bookingRepo)
	bookingService := booking.NewService(bookingRepo, numbers)
	invoiceService := invoice.NewService(invoiceRepo, numbers, tariff, txManager)
	cascadeService := cancellation.NewService(
		resolver, bookingRepo, invoiceRepo, cashflowRepo,
		nil, getEnvDuration("CASCADE_CALL_TIMEOUT", 0))
	balanceAggregator := balance.NewAggregator(invoiceRepo, cashflowRepo)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:     pool,
		Logger:   log,
		Bookings: bookingService,
		Resolver: resolver,
		Cascades: cascadeService,
		Invoices: invoiceService,
		Balances: balanceAggregator,
		Tariff:   tariff,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
