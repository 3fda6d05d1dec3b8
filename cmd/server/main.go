package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"

	"github.com/pzaman/portfolio-backend-go/internal/api"
	"github.com/pzaman/portfolio-backend-go/internal/config"
	"github.com/pzaman/portfolio-backend-go/internal/database"
	"github.com/pzaman/portfolio-backend-go/internal/middleware"
	"github.com/pzaman/portfolio-backend-go/internal/observability"
	"github.com/pzaman/portfolio-backend-go/internal/scheduler"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := observability.InitLogger(observability.LogConfig{Level: cfg.LogLevel, Format: cfg.LogFormat})
	gin.SetMode(cfg.GinMode)

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		return err
	}
	defer database.Close()
	db := database.GetDB()
	if err := database.Migrate(db); err != nil {
		return err
	}

	metrics := observability.NewMetrics()
	svc, err := api.NewServices(cfg, db, metrics)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Warm the cache; an empty database is fine until the first import.
	if err := svc.Risk.Refresh(ctx); err != nil {
		logger.Warn("risk tables not loaded", "error", err)
	}

	jobs := scheduler.New(logger, 5*time.Minute)
	if cfg.Scoring.Cache {
		if err := jobs.Add("risk-refresh", cfg.Scoring.RefreshCron, svc.Risk.Refresh); err != nil {
			return err
		}
	}
	jobs.Start()
	defer jobs.Stop()

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	defer limiter.Stop()

	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           api.SetupRouter(cfg, svc, metrics, limiter, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
