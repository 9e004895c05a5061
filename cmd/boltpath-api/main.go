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

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/boltpath-api/api/swagger"
	"github.com/noah-isme/boltpath-api/internal/handler"
	internalmiddleware "github.com/noah-isme/boltpath-api/internal/middleware"
	"github.com/noah-isme/boltpath-api/internal/repository"
	"github.com/noah-isme/boltpath-api/internal/service"
	"github.com/noah-isme/boltpath-api/internal/store"
	"github.com/noah-isme/boltpath-api/pkg/cache"
	"github.com/noah-isme/boltpath-api/pkg/config"
	"github.com/noah-isme/boltpath-api/pkg/jobs"
	"github.com/noah-isme/boltpath-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/boltpath-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/boltpath-api/pkg/middleware/requestid"
)

// @title BoltPath API
// @version 1.0.0
// @description Teacher-facing roster of students, PBL assignments and progress.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	roster := store.New()
	if cfg.Roster.SeedDemoData {
		roster.Load(store.DemoSeed())
		logr.Info("demo roster loaded", zap.String("teacher_id", store.DemoTeacherID))
	}

	directory, err := repository.NewTeacherRepository(repository.DefaultTeachers, 0)
	if err != nil {
		logr.Fatal("failed to build teacher directory", zap.Error(err))
	}

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
		metrics.TrackRoster(roster)
	}

	checks := map[string]handler.ReadinessCheck{}
	var cacheSvc *service.CacheService
	if cfg.Dashboard.CacheEnabled {
		client, err := cache.NewRedis(context.Background(), cfg.Redis)
		if err != nil {
			logr.Warn("dashboard cache disabled: redis unavailable", zap.Error(err))
		}
		cacheRepo := repository.NewCacheRepository(client, logr)
		defer cacheRepo.Close() //nolint:errcheck
		cacheSvc = service.NewCacheService(cacheRepo, metrics, service.CacheConfig{
			Enabled:    client != nil,
			DefaultTTL: cfg.Dashboard.CacheTTL,
		}, logr)
		checks["redis"] = cacheRepo.Ping
	}

	dashboardSvc := service.NewDashboardService(roster, cacheSvc, service.DashboardServiceConfig{
		CacheTTL: cfg.Dashboard.CacheTTL,
	}, logr)

	validate := service.NewValidator(nil)
	events := service.NewRosterEvents(cacheSvc, metrics, logr)
	if cacheSvc.Enabled() {
		warmQueue := jobs.NewQueue("dashboard-warm", func(ctx context.Context, job jobs.Job) error {
			return dashboardSvc.Warm(ctx, job.Key)
		}, jobs.QueueConfig{
			Workers:    cfg.Dashboard.WarmWorkers,
			MaxRetries: 2,
			RetryDelay: 2 * time.Second,
			Logger:     logr,
		})
		warmQueue.Start(context.Background())
		defer warmQueue.Stop()
		events.WithWarmQueue(warmQueue)
	}
	authSvc := service.NewAuthService(directory, validate, metrics, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS))
	r.Use(internalmiddleware.Metrics(metrics))

	ops := handler.NewMetricsHandler(metrics, checks)
	r.GET("/health", ops.Health)
	r.GET("/ready", ops.Ready)
	if metrics != nil {
		r.GET("/metrics", ops.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handler.Handlers{
		Auth:        handler.NewAuthHandler(authSvc),
		Students:    handler.NewStudentHandler(service.NewStudentService(roster, validate, events, logr)),
		Assignments: handler.NewAssignmentHandler(service.NewAssignmentService(roster, validate, events, logr)),
		Progress:    handler.NewProgressHandler(service.NewProgressService(roster, validate, events, logr)),
		Dashboard:   handler.NewDashboardHandler(dashboardSvc),
		Exports:     handler.NewExportHandler(service.NewExportService(roster, nil, nil, logr)),
	}, authSvc)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	case sig := <-shutdown:
		logr.Info("shutdown started", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logr.Error("graceful shutdown failed", zap.Error(err))
			_ = srv.Close()
		}
	}
}
