package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/lanternsec/facegate/internal/api"
	"github.com/lanternsec/facegate/internal/config"
	"github.com/lanternsec/facegate/internal/database"
	"github.com/lanternsec/facegate/internal/face"
	"github.com/lanternsec/facegate/internal/faceindex"
	"github.com/lanternsec/facegate/internal/metrics"
	"github.com/lanternsec/facegate/internal/policy"
	"github.com/lanternsec/facegate/internal/repository"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env when present; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	logger.Info("starting Facegate API",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPgxPool(ctx, database.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	pol, err := policy.Load()
	if err != nil {
		return fmt.Errorf("failed to load matching policy: %w", err)
	}

	provider, err := face.NewProvider(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to build embedding provider: %w", err)
	}
	logger.Info("embedding provider ready", slog.String("provider", provider.Name()))

	// Warm the duplicate-biometric index from what is already enrolled
	index := faceindex.New()
	faceRepo := repository.NewFaceRepository(pool)
	enrolled, err := faceRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load enrolled faces: %w", err)
	}
	index.Rebuild(enrolled)
	metrics.UpdateEnrolledFaces(len(enrolled))
	metrics.UpdateIndexEntries(index.Count())
	logger.Info("duplicate index warmed", slog.Int("faces", index.Count()))

	router := api.NewRouter(logger, &api.Dependencies{
		Config:   cfg,
		Policy:   pol,
		Provider: provider,
		Index:    index,
		DB:       pool,
	})
	router.Setup()

	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down server...")
	if err := router.Shutdown(); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}

	<-shutdownCtx.Done()
	logger.Info("server stopped")

	return nil
}
