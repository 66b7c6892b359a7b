package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"refakat-backend/config"
	"refakat-backend/internal/api"
	"refakat-backend/internal/db"
	"refakat-backend/internal/notification"
	"refakat-backend/internal/store"
	"refakat-backend/internal/sweep"

	"github.com/SherClockHolmes/webpush-go"
	"golang.org/x/time/rate"
)

func main() {
	// Setup logger
	logger := log.New(os.Stdout, "refakat-backend ", log.LstdFlags)

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	if cfg.Auth.JWTSecret == "" {
		logger.Fatalf("auth.jwt_secret must be configured")
	}
	if cfg.Push.PublicKey == "" || cfg.Push.PrivateKey == "" {
		logger.Fatalf("VAPID keys must be configured. Please generate them and add them to your config file.")
	}

	webpushOptions := webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	logger.Println("data store initialized")

	// Push delivery worker pool
	pool := notification.NewWorkerPool(cfg.WorkerPool.Size, appStore.DB(), &webpushOptions)
	pool.Start(ctx)

	// Scheduled notification cleanup
	sweepSvc := sweep.NewService(&cfg.Sweep, appStore)
	go sweepSvc.Run(ctx)

	sweepOpts := store.SweepOptions{
		PerUserMax: cfg.Sweep.PerUserMax,
		Retention:  time.Duration(cfg.Sweep.RetentionDays) * 24 * time.Hour,
	}

	// Initialize router
	handler := api.NewHandler(appStore, &webpushOptions, pool, []byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL, sweepOpts)
	router := api.NewRouter(handler,
		rate.Limit(cfg.Server.RateLimitPerSec),
		cfg.Server.RateLimitBurst,
		time.Duration(cfg.Server.CacheTTLSeconds)*time.Second,
	)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
