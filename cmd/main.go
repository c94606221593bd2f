package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nostressia/database"
	"nostressia/internal/artifact"
	"nostressia/internal/cache"
	"nostressia/internal/config"
	"nostressia/internal/controllers"
	"nostressia/internal/logger"
	"nostressia/internal/middleware"
	"nostressia/internal/observability"
	"nostressia/internal/repository"
	"nostressia/internal/services"
	"nostressia/routes"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// @title Nostressia API
// @version 1.0
// @description Daily stress logging, streak tracking and next-day stress forecasts.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	configPath := flag.String("config", "", "path to config.yaml (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// logger is not up yet
		panic(err)
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Tracing, cfg.Log.Mode, log)
	if err != nil {
		log.Warn("tracing disabled", "error", err)
	}

	// Database
	db, err := database.Connect(cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", "error", err)
	}
	if err := database.MigrateDatabase(db); err != nil {
		log.Fatal("Failed to run database migrations", "error", err)
	}
	database.MonitorConnections(ctx, db, log, time.Minute)
	store := repository.NewStore(db)

	// Artifact stores, with Redis in front when configured
	gcs := artifact.NewGCSStore(cfg.Forecast.GCSCredentialsFile)
	defer gcs.Close()
	var fetcher artifact.Store = artifact.MultiStore{
		File: artifact.FileStore{},
		HTTP: artifact.HTTPStore{Client: &http.Client{
			Timeout:   cfg.Forecast.ArtifactTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}},
		GCS: gcs,
	}

	var (
		locker    services.Locker
		reporters = map[string]controllers.StatusReporter{}
	)
	if cfg.Redis.URL != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Warn("Redis unavailable, continuing without shared cache", "error", err)
		} else {
			defer redisClient.Close()
			fetcher = artifact.CachedStore{Next: fetcher, Cache: redisClient, TTL: cfg.Forecast.RedisCacheTTL, Log: log}
			locker = redisClient
			reporters["redis"] = controllers.StatusFunc(func() map[string]interface{} {
				statusCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				status, err := redisClient.GetStatus(statusCtx)
				if err != nil {
					return map[string]interface{}{"connected": false, "error": err.Error()}
				}
				return status
			})
			log.Info("Redis connected; artifact byte cache and scheduler lock enabled")
		}
	}

	artifactCache := artifact.NewCache(fetcher, cfg.Forecast.ArtifactTimeout, log)
	resolver := artifact.NewResolver(artifactCache, store.Models, cfg.Forecast.DefaultArtifact, log)

	// Services
	trainingService := services.NewTrainingService(store, services.TrainingSettings{
		MilestoneInterval:  cfg.Training.MilestoneInterval,
		GlobalIntervalDays: cfg.Training.GlobalIntervalDays,
	}, log)
	stressService := services.NewStressService(store, resolver, trainingService, services.StressSettings{
		RequiredStreak: cfg.Streak.RequiredStreak,
		RestoreLimit:   cfg.Streak.RestoreLimit,
	}, log)
	modelService := services.NewModelService(store, log)

	scheduler := services.NewTrainingScheduler(trainingService, locker, services.SchedulerSettings{
		TickInterval: cfg.Training.TickInterval,
		Retention:    cfg.Training.FinishedJobRetention,
	}, log)
	scheduler.Start()
	defer scheduler.Stop()
	reporters["training_scheduler"] = scheduler

	// Controllers
	stressController := controllers.NewStressController(stressService)
	forecastController := controllers.NewForecastController(stressService)
	modelController := controllers.NewModelController(modelService, trainingService)
	healthController := controllers.NewHealthController(func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}, reporters)

	if cfg.Auth.JWTSecret == "" {
		log.Warn("auth.jwt_secret is empty; every bearer token will be rejected")
	}
	if cfg.Auth.AdminKey == "" {
		log.Warn("auth.admin_key is empty; model endpoints are disabled")
	}

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(log))
	if origins := cfg.Server.AllowedOrigins(); len(origins) > 0 {
		router.Use(middleware.CORS(origins))
	}

	auth := middleware.AuthMiddleware(cfg.Auth.JWTSecret, store.Users)
	routes.RegisterHealthRoutes(router, healthController)
	routes.RegisterStressRoutes(router, stressController, auth)
	routes.RegisterForecastRoutes(router, forecastController, auth)
	routes.RegisterModelRoutes(router, modelController, middleware.AdminKeyMiddleware(cfg.Auth.AdminKey))
	routes.RegisterSwaggerRoutes(router, "localhost:"+cfg.Server.Port)

	server := &http.Server{
		Addr:           ":" + cfg.Server.Port,
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Info("Nostressia API server starting",
			"port", cfg.Server.Port,
			"docs", "http://localhost:"+cfg.Server.Port+"/swagger/index.html",
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Failed to start server", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("Tracing shutdown failed", "error", err)
	}
}
