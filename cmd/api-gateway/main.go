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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/home-wellness/spa-booking-api/api/swagger"
	"github.com/home-wellness/spa-booking-api/internal/handler"
	"github.com/home-wellness/spa-booking-api/internal/middleware"
	"github.com/home-wellness/spa-booking-api/internal/mindbody"
	"github.com/home-wellness/spa-booking-api/internal/repository"
	"github.com/home-wellness/spa-booking-api/internal/service"
	"github.com/home-wellness/spa-booking-api/pkg/cache"
	"github.com/home-wellness/spa-booking-api/pkg/config"
	"github.com/home-wellness/spa-booking-api/pkg/database"
	"github.com/home-wellness/spa-booking-api/pkg/export"
	"github.com/home-wellness/spa-booking-api/pkg/jobs"
	"github.com/home-wellness/spa-booking-api/pkg/logger"
	corsmiddleware "github.com/home-wellness/spa-booking-api/pkg/middleware/cors"
	reqidmiddleware "github.com/home-wellness/spa-booking-api/pkg/middleware/requestid"
)

// @title Spa Booking API
// @version 1.0.0
// @description Aggregated spa availability, treatment menu and booking bridge over the Mindbody scheduling API
// @BasePath /api/v1
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

	metricsService := service.NewMetricsService()

	// Redis is a soft dependency: without it every request goes straight to
	// upstream, which is slower but correct.
	var cacheRepo *repository.CacheRepository
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, running without cache", zap.Error(err))
	} else {
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
		defer cacheRepo.Close() //nolint:errcheck
	}

	cacheService := service.NewCacheService(cacheRepo, metricsService, cfg.Mindbody.CacheTTL, logr, cacheRepo != nil && cfg.Mindbody.CacheEnabled)

	clientParams := mindbody.Params{
		Config:  cfg.Mindbody,
		Logger:  logr,
		Metrics: metricsService,
	}
	if cacheRepo != nil {
		clientParams.Cache = cacheRepo
	}
	mbClient := mindbody.NewClient(clientParams)
	if !mbClient.IsConfigured() {
		logr.Warn("mindbody credentials missing, availability endpoints will refuse requests")
	}

	classifier := service.NewClassifier()
	resolver := service.NewTherapistResolver()

	availabilityService := service.NewAvailabilityService(service.AvailabilityServiceParams{
		Client:     mbClient,
		Cache:      cacheService,
		Metrics:    metricsService,
		Classifier: classifier,
		Resolver:   resolver,
		Logger:     logr,
		Config:     service.AvailabilityServiceConfig{CacheTTL: cfg.Mindbody.CacheTTL},
	})

	treatmentService := service.NewTreatmentService(service.TreatmentServiceParams{
		Client:     mbClient,
		Cache:      cacheService,
		Classifier: classifier,
		Resolver:   resolver,
		CSV:        export.NewCSVExporter(),
		PDF:        export.NewPDFExporter(),
		Logger:     logr,
		Config:     service.TreatmentServiceConfig{MenuName: cfg.Export.MenuName},
	})

	workingDaysService := service.NewWorkingDaysService(service.WorkingDaysServiceParams{
		Client:   mbClient,
		Cache:    cacheService,
		Resolver: resolver,
		Logger:   logr,
	})

	catalogService := service.NewCatalogService(service.CatalogServiceParams{
		Client:     mbClient,
		Cache:      cacheService,
		Classifier: classifier,
		Resolver:   resolver,
		Logger:     logr,
	})

	authService := service.NewAuthService(service.AuthConfig{
		Username:      cfg.Admin.Username,
		PasswordHash:  cfg.Admin.PasswordHash,
		JWTSecret:     cfg.Admin.JWTSecret,
		JWTExpiration: cfg.Admin.JWTExpiration,
	}, logr)

	diagnosticsService := service.NewDiagnosticsService(mbClient, metricsService, logr)

	// The booking bridge needs Postgres for the shop tables. It is optional;
	// the public catalog and availability surface work without it.
	var bookingService *service.BookingService
	var metadataQueue *jobs.Queue
	if cfg.Booking.Enabled {
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			logr.Fatal("booking enabled but postgres unavailable", zap.Error(err))
		}
		defer db.Close() //nolint:errcheck

		productRepo := repository.NewProductRepository(db)
		metadataQueue = jobs.NewQueue("order-metadata", func(ctx context.Context, job jobs.Job) error {
			return bookingService.HandleOrderMetadataJob(ctx, job)
		}, jobs.QueueConfig{
			Workers:    cfg.Booking.WorkerConcurrency,
			MaxRetries: cfg.Booking.WorkerRetries,
			Logger:     logr,
		})
		bookingService = service.NewBookingService(service.BookingServiceParams{
			Store:  productRepo,
			Queue:  metadataQueue,
			Logger: logr,
			Config: service.BookingServiceConfig{
				Enabled:   true,
				SKUPrefix: cfg.Booking.SKUPrefix,
			},
		})
	} else {
		bookingService = service.NewBookingService(service.BookingServiceParams{Logger: logr})
	}

	availabilityHandler := handler.NewAvailabilityHandler(availabilityService)
	catalogHandler := handler.NewCatalogHandler(catalogService, treatmentService)
	staffHandler := handler.NewStaffHandler(catalogService, workingDaysService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	authHandler := handler.NewAuthHandler(authService)
	diagnosticsHandler := handler.NewDiagnosticsHandler(diagnosticsService, cacheService)
	metricsHandler := handler.NewMetricsHandler(metricsService, map[string]bool{
		"upstream_configured": mbClient.IsConfigured(),
		"cache":               cacheService.Enabled(),
		"booking":             cfg.Booking.Enabled,
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.WithResponseMeta())
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/availability", availabilityHandler.Get)

		api.GET("/services", catalogHandler.Services)
		api.GET("/services/:id", catalogHandler.Service)
		api.GET("/session-types", catalogHandler.SessionTypes)
		api.GET("/locations", catalogHandler.Locations)
		api.GET("/treatments", catalogHandler.Treatments)
		api.GET("/treatments/export", catalogHandler.ExportTreatments)

		api.GET("/staff", staffHandler.List)
		api.GET("/staff/details", staffHandler.Details)
		api.GET("/staff/working-days", staffHandler.WorkingDays)

		api.POST("/bookings/confirm", bookingHandler.Confirm)
		api.GET("/bookings/cart/:key", bookingHandler.Cart)

		api.POST("/auth/login", authHandler.Login)

		admin := api.Group("/")
		admin.Use(middleware.JWT(authService))
		{
			admin.GET("/auth/me", authHandler.Me)
			admin.GET("/admin/diagnostics/connection", diagnosticsHandler.TestConnection)
			admin.GET("/admin/diagnostics/services", diagnosticsHandler.ServiceDiagnostics)
			admin.POST("/admin/cache/invalidate", diagnosticsHandler.FlushCache)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if metadataQueue != nil {
		metadataQueue.Start(ctx)
		defer metadataQueue.Stop()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
