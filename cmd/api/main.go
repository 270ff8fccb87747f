package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sazo-orders/internal/config"
	"sazo-orders/internal/database"
	"sazo-orders/internal/handler"
	"sazo-orders/internal/notify"
	"sazo-orders/internal/orderid"
	"sazo-orders/internal/repository"
	"sazo-orders/internal/router"
	"sazo-orders/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load a local .env if present, then configuration
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting SAZO orders API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	orderRepo := repository.NewOrderRepository(pool, logger)
	productRepo := repository.NewProductRepository(pool, logger)

	// Initialize the order id allocator against the live order set
	allocator := orderid.New(orderRepo.OrderIDExists, logger)

	// Assemble notification transports; absent credentials mean the
	// dispatcher runs with nothing to deliver
	var transports []notify.Transport
	if cfg.SMTP.Enabled() {
		transports = append(transports, notify.NewEmailTransport(cfg.SMTP))
		logger.Info().Str("host", cfg.SMTP.Host).Msg("admin email notifications enabled")
	} else {
		logger.Info().Msg("SMTP credentials absent, admin email notifications disabled")
	}
	if len(cfg.Events.Brokers) > 0 {
		eventTransport := notify.NewEventTransport(cfg.Events.Brokers, cfg.Events.Topic)
		defer eventTransport.Close()
		transports = append(transports, eventTransport)
		logger.Info().
			Strs("brokers", cfg.Events.Brokers).
			Str("topic", cfg.Events.Topic).
			Msg("order event publishing enabled")
	}

	dispatcher := notify.NewDispatcher(transports, logger)
	defer dispatcher.Close()

	// Initialize services
	orderService := service.NewOrderService(orderRepo, allocator, dispatcher, logger)
	statsService := service.NewStatsService(orderRepo, productRepo, logger)
	productService := service.NewProductService(productRepo, logger)

	// Initialize HTTP handlers and router
	orderHandler := handler.NewOrderHandler(orderService, statsService, logger)
	productHandler := handler.NewProductHandler(productService, logger)
	mux := router.New(orderHandler, productHandler, cfg.Auth.APIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown; the deferred dispatcher Close then
		// drains any notifications still queued
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
