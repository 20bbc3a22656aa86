package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"greep/internal/amqp"
	"greep/internal/auth"
	"greep/internal/cache"
	"greep/internal/config"
	apphttp "greep/internal/http"
	applog "greep/internal/log"
	"greep/internal/services"
	"greep/internal/storage"
)

func main() {
	// .env is for local development, missing file is fine
	_ = godotenv.Load()

	cfg := config.Load()
	logger := applog.Setup(cfg.LogLevel, cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}

	// Publishing is optional. A broker that is down at startup only costs the
	// audit trail, never the server.
	var events services.Publisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client, continuing without events", "error", err)
		} else {
			events = client
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	} else {
		logger.Info("AMQP disabled, no AMQP_URL provided")
	}

	svc := services.NewTrackerService(repo, events, cfg.TierPolicy(), cfg.CacheTTL)
	defer svc.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := svc.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.Error("Failed to bootstrap admin user", "error", err)
		os.Exit(1)
	}

	cacheManager := cache.NewManager()
	svc.RegisterCaches(cacheManager)
	cacheManager.StartCleanup(cfg.CacheTTL)
	defer cacheManager.Stop()

	jwt := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	srv := apphttp.NewServer(":"+cfg.Port, svc, jwt)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting greep server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped gracefully")
}
