// Package main is the entry point for the MotorDesk admin API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"motordesk/internal/config"
	v1 "motordesk/internal/infrastructure/http/v1"
	"motordesk/internal/infrastructure/notify"
	"motordesk/internal/infrastructure/storage/postgres"
	"motordesk/pkg/logger"
	"motordesk/pkg/numerator"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting motordesk server")

	// --- Database ---
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(databaseDSN(cfg)))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Numerator Service ---
	// Tx-aware querier: numbers drawn inside a transaction roll back with it.
	numeratorService := numerator.New(postgres.NewTxAwareQuerier(txManager))

	// --- Notification dispatcher (transactional outbox) ---
	publisher := postgres.NewOutboxPublisher(txManager)
	dispatcher := notify.NewOutboxDispatcher(publisher)

	// --- Router ---
	router, err := v1.NewRouter(v1.RouterConfig{
		Pool:       pool,
		TxManager:  txManager,
		Logger:     log,
		Numerator:  numeratorService,
		Dispatcher: dispatcher,
	})
	if err != nil {
		log.Fatalw("failed to build router", "error", err)
	}

	// --- CORS ---
	corsOptions := cors.Options{
		AllowedOrigins: cfg.Server.CorsAllowedOrigins,
		AllowedMethods: cfg.Server.CorsAllowedMethods,
		AllowedHeaders: cfg.Server.CorsAllowedHeaders,
	}
	if len(corsOptions.AllowedMethods) == 0 {
		corsOptions.AllowedMethods = []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete,
		}
	}
	if len(corsOptions.AllowedHeaders) == 0 {
		corsOptions.AllowedHeaders = []string{"Content-Type", "X-Request-ID", "X-Trace-ID"}
	}
	handler := cors.New(corsOptions).Handler(router)

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

// databaseDSN prefers a full DATABASE_URL over the assembled config values.
func databaseDSN(cfg *config.Config) string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	return cfg.DSN()
}
