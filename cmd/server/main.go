package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/airquality"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/jobs"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/push"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/receipt"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/store/postgres"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout) until the database is up
	logging.Setup(cfg.IsDevelopment())

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Database
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	dbLogHandler := logging.NewDBHandler(db, 5*time.Second)
	logging.Setup(cfg.IsDevelopment(), dbLogHandler)

	st := postgres.New(db)

	// External clients
	verifier := receipt.NewBreakerVerifier(receipt.NewAppleClient(receipt.AppleConfig{
		SharedSecret: cfg.AppleSharedSecret,
		BundleID:     cfg.AppleBundleID,
	}))

	var dispatcher push.Dispatcher = push.Noop{}
	if cfg.PushEnabled() {
		fcm, err := push.NewFCMDispatcher(context.Background(), push.FCMConfig{
			ProjectID:       cfg.FCMProjectID,
			CredentialsFile: cfg.FCMCredentialsFile,
		})
		if err != nil {
			slog.Error("fcm init failed", "error", err)
			os.Exit(1)
		}
		dispatcher = fcm
	} else {
		slog.Warn("push credentials not configured, notifications will only be logged")
	}

	waqi := airquality.NewClient(airquality.Config{
		BaseURL: cfg.WAQIBaseURL,
		Token:   cfg.WAQIToken,
	})

	// Services
	authService := services.NewAuthService(st, st, cfg, services.NewAppleJWKSClient(services.AppleJWKSURL))
	subscriptionService := services.NewSubscriptionService(st, st, st, verifier, cfg)
	profileService := services.NewProfileService(st, st)
	recommendationService := services.NewRecommendationService(st, st, nil)
	advertisementService := services.NewAdvertisementService(st, nil)
	notificationService := services.NewNotificationService(st, dispatcher, cfg.PushTimeout)
	airQualityService := services.NewAirQualityService(st, st, st, waqi, cfg.AQStations, cfg.AirQualityTimeout)
	cronjobService := services.NewCronjobService(st)
	configService := services.NewRemoteConfigService(st)

	// Seed default remote config values
	slog.Info("seeding remote config defaults")
	if err := configService.SeedDefaults(context.Background(), cfg.AppName); err != nil {
		slog.Error("remote config seed failed", "error", err)
	}

	// Scheduled jobs
	scheduler, err := jobs.NewScheduler(cfg.CronTimezone)
	if err != nil {
		slog.Error("scheduler init failed", "error", err)
		os.Exit(1)
	}
	for _, job := range jobs.Standard(cfg, db, airQualityService, subscriptionService, cronjobService) {
		if err := scheduler.Register(job); err != nil {
			slog.Error("job registration failed", "job", job.Name, "spec", job.Spec, "error", err)
			os.Exit(1)
		}
	}
	scheduler.Start()

	// Fiber app
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler(cfg.IsDevelopment()),
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	// Routes
	healthHandler := handlers.NewHealthHandler(
		func(ctx context.Context) error { return database.Ping(ctx, db) },
		func() string { return verifier.State().String() },
	)
	routes.Setup(app, cfg, st, subscriptionService, routes.Handlers{
		Auth:           handlers.NewAuthHandler(authService),
		Health:         healthHandler,
		Profile:        handlers.NewProfileHandler(profileService),
		Recommendation: handlers.NewRecommendationHandler(recommendationService),
		Advertisement:  handlers.NewAdvertisementHandler(advertisementService),
		Subscription:   handlers.NewSubscriptionHandler(subscriptionService),
		Notification:   handlers.NewNotificationHandler(notificationService),
		AirQuality:     handlers.NewAirQualityHandler(airQualityService),
		Cronjob:        handlers.NewCronjobHandler(cronjobService),
		Config:         handlers.NewRemoteConfigHandler(configService),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	scheduler.Stop(30 * time.Second)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := database.Close(db); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}
