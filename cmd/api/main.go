package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/cdams-api/api/swagger"
	"github.com/noah-isme/cdams-api/internal/handler"
	"github.com/noah-isme/cdams-api/internal/middleware"
	"github.com/noah-isme/cdams-api/internal/repository"
	"github.com/noah-isme/cdams-api/internal/service"
	"github.com/noah-isme/cdams-api/pkg/cache"
	"github.com/noah-isme/cdams-api/pkg/config"
	"github.com/noah-isme/cdams-api/pkg/database"
	"github.com/noah-isme/cdams-api/pkg/jobs"
	"github.com/noah-isme/cdams-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/cdams-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/cdams-api/pkg/middleware/requestid"
)

// @title CDAMS API
// @version 1.0.0
// @description College Digital Application Management System backend
// @BasePath /
// @schemes http

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	validate := validator.New()
	metrics := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, timeline cache disabled", "error", err)
		} else {
			defer redisClient.Close() //nolint:errcheck
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, true)
		}
	}

	appRepo := repository.NewApplicationRepository(db)
	updateRepo := repository.NewStatusUpdateRepository(db)
	deptRepo := repository.NewDepartmentRepository(db)
	userRepo := repository.NewUserRepository(db)
	noteRepo := repository.NewNotificationRepository(db)

	noteSvc := service.NewNotificationService(noteRepo, validate, logr)
	noteSvc.StartWorker(ctx, jobs.QueueConfig{
		Workers:    cfg.Notifications.WorkerConcurrency,
		BufferSize: cfg.Notifications.QueueSize,
		MaxRetries: cfg.Notifications.WorkerRetries,
		Logger:     logr,
	})
	defer noteSvc.StopWorker()

	appSvc := service.NewApplicationService(appRepo, noteSvc, cacheSvc, validate, logr)
	timelineSvc := service.NewTimelineService(updateRepo, cacheSvc, logr)
	deptSvc := service.NewDepartmentService(deptRepo, validate, logr)
	userSvc := service.NewUserService(userRepo, validate, logr)
	healthSvc := service.NewHealthService(db, cfg.Database.Name)

	var exportSvc *service.ExportService
	if cfg.Exports.Enabled {
		exportSvc = service.NewExportService(appRepo, updateRepo, logr)
	}

	appHandler := handler.NewApplicationHandler(appSvc, timelineSvc, exportSvc)
	deptHandler := handler.NewDepartmentHandler(deptSvc)
	userHandler := handler.NewUserHandler(userSvc)
	noteHandler := handler.NewNotificationHandler(noteSvc)
	healthHandler := handler.NewHealthHandler(healthSvc, metrics)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", healthHandler.Live)
	r.GET("/health/db", healthHandler.Store)
	r.GET("/metrics", healthHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/departments", deptHandler.Create)
	api.GET("/departments", deptHandler.List)
	api.POST("/users", userHandler.Create)
	api.GET("/users", userHandler.List)
	api.POST("/applications", appHandler.Submit)
	api.GET("/applications", appHandler.List)
	api.POST("/applications/:id/action", appHandler.Action)
	api.GET("/applications/:id/timeline", appHandler.Timeline)
	api.GET("/applications/:id/export", appHandler.Export)
	api.POST("/notifications", noteHandler.Create)
	api.GET("/notifications", noteHandler.List)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown failed", "error", err)
	}
}
