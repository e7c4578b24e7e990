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

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "stockpulse/docs"
	"stockpulse/internal/analytics"
	"stockpulse/internal/caching"
	"stockpulse/internal/config"
	"stockpulse/internal/events"
	"stockpulse/internal/handlers"
	"stockpulse/internal/jobs"
	"stockpulse/internal/jobs/background"
	"stockpulse/internal/metrics"
	"stockpulse/internal/middleware"
	"stockpulse/internal/repositories"
	"stockpulse/internal/services"
	"stockpulse/pkg/database"
	"stockpulse/pkg/logger"
)

const serviceName = "stockpulse"

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Init(serviceName, cfg.Env, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	// Repositories
	productRepo := repositories.NewProductRepo(pool)
	orderRepo := repositories.NewOrderRepo(pool)
	tenantRepo := repositories.NewTenantRepo(pool)

	// Cache
	cacheSvc := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer cacheSvc.Close()

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	analyticsMetrics := metrics.NewAnalyticsMetrics(registry)

	analyticsSvc := analytics.NewAnalyticsService(productRepo, orderRepo, cacheSvc, analyticsMetrics, cfg.CacheTTL())
	opts := cfg.AnalyticsOptions()

	// Events
	var publisher events.InsightPublisher = events.NoopPublisher{}
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		kafkaPublisher, err := events.NewPublisher(brokers, cfg.KafkaTopic)
		if err != nil {
			log.Warn().Err(err).Msg("kafka unavailable, stock alerts will not be published")
		} else {
			publisher = kafkaPublisher
		}
	}
	defer publisher.Close()

	// Report storage
	var storage services.ReportStorage
	if minioSvc, err := services.NewMinioService(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL, cfg.ReportBucket); err != nil {
		log.Warn().Err(err).Msg("report storage disabled")
	} else {
		if err := minioSvc.EnsureBucketExists(ctx); err != nil {
			log.Warn().Err(err).Str("bucket", cfg.ReportBucket).Msg("failed to ensure report bucket")
		}
		storage = minioSvc
	}
	reportSvc := services.NewReportService(storage, cfg.ReportURLExpiry())

	// Background jobs
	refreshSvc := jobs.NewAnalyticsRefreshService(analyticsSvc, tenantRepo, opts, cfg.RefreshConcurrency)
	alertSvc := jobs.NewStockAlertService(analyticsSvc, tenantRepo, publisher, opts)
	scheduler, err := background.NewJobScheduler(refreshSvc, alertSvc, background.Intervals{
		Refresh: time.Duration(cfg.RefreshIntervalMinutes) * time.Minute,
		Alerts:  time.Duration(cfg.AlertIntervalMinutes) * time.Minute,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create job scheduler")
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Error().Err(err).Msg("job scheduler shutdown failed")
		}
	}()

	// HTTP
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Debug = cfg.IsDevelopment()
	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.RequestID())
	e.Use(requestLogger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())

	versionMiddleware := middleware.NewVersionMiddleware()
	e.Use(versionMiddleware.APIVersionResolver())

	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc, storage, version)
	healthHandlers.RegisterRoutes(e)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := versionMiddleware.VersionRoute(e, "v1")
	tenantScoped := middleware.TenantMiddleware()

	analyticsHandlers := handlers.NewAnalyticsHandlers(analyticsSvc, reportSvc, opts)
	analyticsHandlers.RegisterRoutes(v1.Group("/analytics", tenantScoped))

	jobHandlers := handlers.NewJobHandlers(refreshSvc, alertSvc, analyticsSvc, scheduler, opts)
	jobHandlers.RegisterRoutes(v1.Group("/jobs", tenantScoped))

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		log.Info().Str("addr", addr).Str("version", version).Msg("http server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
	}
}

func requestLogger() echo.MiddlewareFunc {
	return echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Error != nil {
				event = log.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("tenant_id", c.Request().Header.Get(middleware.TenantHeader)).
				Msg("request")
			return nil
		},
	})
}
