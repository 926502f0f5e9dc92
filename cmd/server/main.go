package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"docrecon/internal/cache"
	"docrecon/internal/config"
	"docrecon/internal/email/noop"
	"docrecon/internal/email/ses"
	"docrecon/internal/handler"
	"docrecon/internal/logger"
	"docrecon/internal/metrics"
	"docrecon/internal/parser"
	"docrecon/internal/port"
	"docrecon/internal/reconcile"
	"docrecon/internal/repository/postgres"
	"docrecon/internal/router"
	"docrecon/internal/service"
	s3storage "docrecon/internal/storage/s3"
)

// @title docrecon API
// @version 1.0
// @description Reconciles purchase orders against proforma invoices and reports discrepancies.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT access token.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Service:     "docrecon",
		Environment: cfg.Server.Environment,
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
	})
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(ctx, &cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	comparisonRepo := postgres.NewComparisonRepo(db)

	// Optional comparison cache
	var (
		comparisonCache port.ComparisonCache
		cachePinger     handler.Pinger
	)
	if cfg.Redis.Addr != "" {
		var client *redis.Client
		client, err = cache.NewClient(ctx, &cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer client.Close()
		comparisonCache = cache.NewComparisonCache(client, cfg.Comparison.CacheTTL)
		cachePinger = comparisonCache
		log.Info("comparison cache enabled", zap.String("addr", cfg.Redis.Addr), zap.Duration("ttl", cfg.Comparison.CacheTTL))
	}

	// Optional report archive
	var storage port.ObjectStorage
	if cfg.Reports.ArchiveEnabled {
		storage, err = s3storage.NewS3Client(ctx, &cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		log.Info("report archive enabled", zap.String("bucket", cfg.S3.Bucket), zap.String("prefix", cfg.Reports.Prefix))
	}

	// Alert notifications
	var emailSender port.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		emailSender, err = ses.NewSESSender(ctx, &cfg.Email)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	default:
		emailSender = noop.NewNoopSender(log, cfg.Email.DashboardURL)
	}

	m := metrics.New()

	jsonParser, err := parser.NewJSONParser()
	if err != nil {
		return fmt.Errorf("failed to compile document schema: %w", err)
	}

	// Initialize services
	authSvc := service.NewAuthService(cfg.JWT)
	comparisonSvc, err := service.NewComparisonService(
		service.ComparisonDeps{
			Repo:    comparisonRepo,
			Cache:   comparisonCache,
			Storage: storage,
			Email:   emailSender,
			Metrics: m,
			Logger:  log,
		},
		service.ComparisonSettings{
			Tolerances:       cfg.Comparison.Tolerances(),
			KeyStrategy:      reconcile.KeyStrategy(cfg.Comparison.KeyStrategy),
			BatchConcurrency: cfg.Comparison.BatchConcurrency,
			MaxBatchSize:     cfg.Comparison.MaxBatchSize,
			ArchiveEnabled:   cfg.Reports.ArchiveEnabled,
			ArchivePrefix:    cfg.Reports.Prefix,
			PresignExpiry:    time.Duration(cfg.S3.PresignExpiry) * time.Second,
			AlertRecipients:  cfg.Email.AlertRecipients,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to initialize comparison service: %w", err)
	}

	// Initialize handlers
	comparisonH := handler.NewComparisonHandler(comparisonSvc, jsonParser)
	healthH := handler.NewHealthHandler(comparisonRepo, cachePinger)

	// Setup router
	r := router.Setup(router.Options{
		Logger:         log,
		Metrics:        m,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		MaxBodyBytes:   cfg.Server.MaxBodyMB << 20,
	}, authSvc, comparisonH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
