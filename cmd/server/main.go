package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	eventapp "github.com/eventi/backend/internal/application/event"
	identityapp "github.com/eventi/backend/internal/application/identity"
	reportapp "github.com/eventi/backend/internal/application/report"
	"github.com/eventi/backend/internal/infrastructure/auth"
	"github.com/eventi/backend/internal/infrastructure/cache"
	"github.com/eventi/backend/internal/infrastructure/config"
	"github.com/eventi/backend/internal/infrastructure/export"
	"github.com/eventi/backend/internal/infrastructure/logger"
	"github.com/eventi/backend/internal/infrastructure/persistence"
	"github.com/eventi/backend/internal/infrastructure/storage"
	"github.com/eventi/backend/internal/infrastructure/telemetry"
	"github.com/eventi/backend/internal/interfaces/http/handler"
	"github.com/eventi/backend/internal/interfaces/http/middleware"
	"github.com/eventi/backend/internal/interfaces/http/router"
	"github.com/eventi/backend/internal/interfaces/http/web"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	loginAttempts    = 10
	loginWindow      = time.Minute
	apiRequests      = 120
	apiWindow        = time.Minute
	poolStatsEvery   = 15 * time.Second
	shutdownDeadline = 30 * time.Second
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: logger.DefaultTimeFormat,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { logger.Sync(log) }()

	ctx := context.Background()

	// OpenTelemetry providers; each one is a no-op when disabled
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	log = loggerProvider.Bridge(log, logger.ParseLevel(cfg.Log.Level))

	log.Info("Starting eventi",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	location, err := time.LoadLocation(cfg.App.TimeZone)
	if err != nil {
		log.Fatal("Invalid time zone", zap.String("time_zone", cfg.App.TimeZone), zap.Error(err))
	}

	// Database with the zap backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Database.SlowThreshold))
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithGormLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Database.SlowThreshold,
	}, log).Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	var dbMetrics *telemetry.DBMetrics
	if meterProvider.IsEnabled() {
		dbMetrics, err = telemetry.NewDBMetrics(meterProvider.Meter("eventi/db"), telemetry.DBMetricsConfig{
			SlowQueryThreshold: cfg.Database.SlowThreshold,
			PoolStatsInterval:  poolStatsEvery,
		}, log)
		if err != nil {
			log.Fatal("Failed to create database metrics", zap.Error(err))
		}
		if err := db.DB.Use(dbMetrics); err != nil {
			log.Fatal("Failed to register database metrics", zap.Error(err))
		}
		dbMetrics.StartPoolStatsCollection(ctx)
	}

	businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:  meterProvider.Meter("eventi/business"),
		Logger: log,
	})
	if err != nil {
		log.Fatal("Failed to create business metrics", zap.Error(err))
	}

	// Cache store: Redis when enabled, in-memory otherwise
	store, err := cache.NewStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.IsProduction()),
	).CreateStore()
	if err != nil {
		log.Fatal("Failed to create cache store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Error closing cache store", zap.Error(err))
		}
	}()

	// Object storage
	objectStorage, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to create object storage", zap.Error(err))
	}
	bucketCtx, cancelBucket := context.WithTimeout(ctx, 10*time.Second)
	if err := objectStorage.EnsureBucket(bucketCtx); err != nil {
		log.Warn("Object storage bucket check failed", zap.Error(err))
	}
	cancelBucket()

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	settoreRepo := persistence.NewGormSettoreRepository(db.DB)
	eventRepo := persistence.NewGormEventRepository(db.DB)
	fileRepo := persistence.NewGormEventFileRepository(db.DB)

	choices := cache.NewChoiceCache(store, settoreRepo, cfg.Cache.ChoicesTTL, log)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, auth.NewStoreTokenBlacklist(store), log)
	authService.SetBusinessMetrics(businessMetrics)

	fileService := eventapp.NewFileService(eventRepo, fileRepo, objectStorage, cfg.Storage.EventFilesPrefix, log)
	fileService.SetBusinessMetrics(businessMetrics)

	eventService := eventapp.NewEventService(eventRepo, settoreRepo, fileService, choices, objectStorage, log)
	eventService.SetBusinessMetrics(businessMetrics)

	reportService := reportapp.NewReportService(
		eventRepo,
		export.NewDocxRenderer(cfg.Report.DocxTemplate),
		export.NewXLSXRenderer(location),
		objectStorage,
		log,
		reportapp.WithTempDir(cfg.Report.TempDir),
		reportapp.WithReportsPrefix(cfg.Storage.ReportsPrefix),
	)
	reportService.SetBusinessMetrics(businessMetrics)

	archiveService := reportapp.NewArchiveService(objectStorage, cfg.Storage.ReportsPrefix, log)
	archiveService.SetBusinessMetrics(businessMetrics)

	// HTTP layer
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		log.Fatal("Failed to parse page templates", zap.Error(err))
	}

	engine := gin.New()
	engine.HTMLRender = renderer
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	session := middleware.SessionConfigFrom(cfg.Cookie)
	telemetryOn := cfg.Telemetry.Enabled

	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     telemetryOn,
		}),
		logger.GinMiddleware(log),
		middleware.Session(authService, session),
		middleware.TracingAttributeInjector(),
		middleware.SpanErrorMarker(),
		middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: meterProvider,
			Enabled:       meterProvider.IsEnabled(),
		}),
		middleware.SecureWithConfig(middleware.DefaultSecurityConfig()),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		middleware.Flash(session),
	)

	loginLimiter := middleware.NewRateLimiter(loginAttempts, loginWindow)
	defer loginLimiter.Stop()
	apiLimiter := middleware.NewRateLimiter(apiRequests, apiWindow)
	defer apiLimiter.Stop()

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	router.NewRouter(engine).
		Register(router.Routes(router.Handlers{
			Events:  handler.NewEventHandler(eventService),
			Files:   handler.NewFileHandler(eventService, fileService),
			Reports: handler.NewReportHandler(reportService),
			Archive: handler.NewArchiveHandler(archiveService),
			Auth:    handler.NewAuthHandler(authService, session),
			System:  handler.NewSystemHandler(db, telemetry.ServiceVersion),
		}, router.RouteConfig{
			CORS:         cors,
			APILimiter:   apiLimiter,
			LoginLimiter: loginLimiter,
		})...).
		Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownDeadline)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if dbMetrics != nil {
		dbMetrics.Stop()
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Meter provider shutdown failed", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Tracer provider shutdown failed", zap.Error(err))
	}
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Logger provider shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
