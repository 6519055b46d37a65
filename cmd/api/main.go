package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tenera-store/internal/cart"
	"tenera-store/internal/config"
	"tenera-store/internal/database"
	"tenera-store/internal/handler"
	"tenera-store/internal/invoice"
	"tenera-store/internal/mailer"
	"tenera-store/internal/payment"
	"tenera-store/internal/repository"
	"tenera-store/internal/router"
	"tenera-store/internal/service"

	"github.com/redis/go-redis/v9"
)

const migrationsDir = "migrations"

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
	logger.Info().Msg("starting tenera-store API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(cfg.Database, migrationsDir, logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Initialize the Redis session store
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	defer redisClient.Close()

	cartStore := cart.NewStore(redisClient, time.Duration(cfg.Redis.CartTTL)*time.Second, logger)
	cartService := cart.NewService(cartStore, logger)

	// The Kafka bridge is optional: without it the reconciler skips the
	// CART_READY loop and external pushes never arrive.
	var broadcaster cart.ReadyBroadcaster
	if cfg.Kafka.Enabled {
		bridge := cart.NewBridge(cfg.Kafka, cfg.Cart.AllowedOrigins, cartService, logger)
		defer bridge.Close()
		broadcaster = bridge

		go func() {
			if err := bridge.Run(ctx); err != nil {
				logger.Error().Err(err).Msg("cart bridge stopped")
			}
		}()
	} else {
		logger.Info().Msg("cart bridge disabled (Kafka off)")
	}

	reconciler := cart.NewReconciler(
		cartStore,
		cartService,
		broadcaster,
		cfg.Cart.ReadyIntervalDuration(),
		cfg.Cart.ReadyWindowDuration(),
		logger,
	)

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	discountRepo := repository.NewDiscountRepository(pool, logger)
	bumpRepo := repository.NewBumpRepository(pool, logger)
	tagRepo := repository.NewTagRepository(pool, logger)
	emailRepo := repository.NewEmailRepository(pool, logger)
	trackingRepo := repository.NewTrackingRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)

	// Initialize the payment gateway client
	paystack := payment.NewClient(cfg.Paystack, logger)

	// Initialize invoice storage when S3 is configured
	var invoices service.InvoiceGenerator
	if cfg.S3.Enabled {
		storage, err := invoice.NewS3Storage(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialise S3 storage, invoices disabled")
		} else {
			invoices = invoice.NewGenerator(storage, cfg.S3.Prefix, logger)
		}
	} else {
		logger.Info().Msg("invoice storage disabled (S3 off)")
	}

	// Initialize messaging clients
	var whatsapp service.WhatsAppSender
	if cfg.WhatsApp.AccessToken != "" {
		whatsapp = mailer.NewWhatsAppClient(cfg.WhatsApp, logger)
	}

	// Initialize services
	productService := service.NewProductService(productRepo, logger)
	discountService := service.NewDiscountService(discountRepo, logger)
	checkoutService := service.NewCheckoutService(cartService, cartStore, bumpRepo, discountService, paystack, logger)
	orderService := service.NewOrderService(orderRepo, discountRepo, emailRepo, cartService, cartStore, paystack, invoices, logger)
	campaignService := service.NewCampaignService(tagRepo, emailRepo, whatsapp, logger)

	// Start the scheduled-email dispatcher
	if cfg.Email.APIKey != "" {
		dispatcher := mailer.NewDispatcher(emailRepo, mailer.NewResendClient(cfg.Email, logger), cfg.Email, logger)
		go func() {
			if err := dispatcher.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error().Err(err).Msg("email dispatcher stopped")
			}
		}()
	} else {
		logger.Info().Msg("email dispatcher disabled (no API key)")
	}

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Cart:     handler.NewCartHandler(cartService, reconciler, logger),
		Checkout: handler.NewCheckoutHandler(checkoutService, discountService, logger),
		Product:  handler.NewProductHandler(productService, logger),
		Webhook:  handler.NewWebhookHandler(orderService, cfg.Paystack, cfg.WhatsApp, logger),
		Tracking: handler.NewTrackingHandler(trackingRepo, cfg.Cart.AllowedOrigins, logger),
		Admin:    handler.NewAdminHandler(productService, orderService, discountService, bumpRepo, logger),
		Campaign: handler.NewCampaignHandler(campaignService, tagRepo, userRepo, logger),
	}

	mux := router.New(cfg, handlers, logger)

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

		// Stop the background loops before draining the server.
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

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
