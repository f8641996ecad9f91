package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"donorapi/internal/config"
	"donorapi/internal/database"
	"donorapi/internal/database/migration"
	handlers "donorapi/internal/http/handler"
	"donorapi/internal/http/middleware"
	"donorapi/internal/logging"
	"donorapi/internal/metrics"
	tracing "donorapi/internal/otel"
	"donorapi/internal/repository/postgres"
	"donorapi/internal/service"
	"donorapi/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// @title Donor Distribution API
// @version 1.0
// @BasePath /
func main() {
	// .env is auto-loaded if present; real environment variables take precedence.
	cfg, err := config.Load()
	if err != nil {
		logging.New(os.Stderr, "info", time.UTC).Error("config_invalid", "error_message", err.Error())
		os.Exit(1)
	}

	log := logging.New(os.Stdout, cfg.LogLevel, cfg.Location())
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server_failed", "error_message", err.Error())
		os.Exit(1)
	}
}

func run(cfg *config.AppConfig, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Error("tracing_shutdown_failed", "error_message", err.Error())
		}
	}()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	// Object storage is optional; without it raw uploads are not archived.
	var store storage.Storage
	if cfg.MinIO.Enabled() && cfg.Ingest.ArchiveUploads {
		store, err = storage.NewMinIO(cfg.MinIO)
		if err != nil {
			return fmt.Errorf("init object storage: %w", err)
		}
	} else {
		log.Warn("upload_archive_disabled", "minio_configured", cfg.MinIO.Enabled())
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	ingestMetrics, err := metrics.NewIngestMetrics(reg)
	if err != nil {
		return fmt.Errorf("register ingest metrics: %w", err)
	}
	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return fmt.Errorf("register http metrics: %w", err)
	}

	repos := postgres.NewRepositories(db)
	distSvc := service.NewDistributionService(store, postgres.NewTxManager(db), repos,
		service.WithLogger(log),
		service.WithMetrics(ingestMetrics),
		service.WithTimeout(cfg.Ingest.Timeout),
	)
	callSvc := service.NewCallDetailService(repos.CallDetails)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		// Room for the multipart envelope around the largest accepted file.
		BodyLimit: int(cfg.Ingest.MaxUploadBytes) + 1<<20,
	})

	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(httpMetrics.Handler())

	handlers.RegisterRoutes(app, db, distSvc, callSvc, handlers.RouteConfig{
		MaxUploadBytes: cfg.Ingest.MaxUploadBytes,
		Gatherer:       reg,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(":" + cfg.Port)
	}()
	log.Info("server_started", "port", cfg.Port, "app_host", cfg.AppHost)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("server_stopping")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
