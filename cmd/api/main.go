package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chrono-checkout/internal/archive"
	"chrono-checkout/internal/config"
	"chrono-checkout/internal/database"
	"chrono-checkout/internal/handler"
	"chrono-checkout/internal/mercadopago"
	"chrono-checkout/internal/repository"
	"chrono-checkout/internal/router"
	"chrono-checkout/internal/service"
	"chrono-checkout/internal/shopify"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting chrono-checkout API server")

	if cfg.MercadoPago.AccessToken == "" {
		logger.Warn().Msg("MercadoPago access token is not configured; preference creation will fail")
	}
	if cfg.MercadoPago.WebhookSecret == "" {
		logger.Warn().Msg("webhook secret is not configured; signature verification is disabled")
	}

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the webhook receipt store (optional)
	receipts := repository.NewNoopReceiptRepository()
	if cfg.Database.Enabled {
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer pool.Close()
		receipts = repository.NewReceiptRepository(pool, logger)
	} else {
		logger.Info().Msg("receipt store disabled, webhook deliveries are not deduplicated")
	}

	// Initialize the webhook payload archiver (optional)
	archiver := archive.NewNoopArchiver()
	if cfg.Archive.Enabled {
		s3Archiver, err := archive.NewS3Archiver(ctx, cfg.Archive.Bucket, cfg.Archive.Region, cfg.Archive.Prefix, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 archiver, webhook payloads will not be archived")
		} else {
			archiver = s3Archiver
		}
	}

	// Initialize upstream clients
	catalog := shopify.NewClient(cfg.Shopify, logger)
	gateway := mercadopago.NewClient(cfg.MercadoPago, logger)

	// Initialize services
	preferenceService := service.NewPreferenceService(catalog, gateway, cfg.MercadoPago, cfg.Checkout, logger)
	webhookService := service.NewWebhookService(gateway, receipts, archiver, cfg.MercadoPago, logger)

	// Initialize HTTP handlers
	preferenceHandler := handler.NewPreferenceHandler(preferenceService, logger)
	webhookHandler := handler.NewWebhookHandler(webhookService, logger)

	// Initialize router
	mux := router.New(preferenceHandler, webhookHandler, cfg.Checkout, logger)

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

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
