package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	httpapi "github.com/i474232898/weather-favourites/internal/api/http"
	"github.com/i474232898/weather-favourites/internal/config"
	"github.com/i474232898/weather-favourites/internal/render"
	"github.com/i474232898/weather-favourites/internal/scheduler"
	"github.com/i474232898/weather-favourites/internal/store"
	"github.com/i474232898/weather-favourites/internal/weather"
	"github.com/i474232898/weather-favourites/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("failed to load time zone: %v", err)
	}

	// Persistent key-value store for settings, favourites and the active location.
	var kv interface {
		weather.Store
		Close() error
	}
	if cfg.StorePath != "" {
		sqliteStore, err := store.NewSQLite(cfg.StorePath)
		if err != nil {
			log.Fatalf("failed to open store: %v", err)
		}
		kv = sqliteStore
		logger.Info("using sqlite store", "path", cfg.StorePath)
	} else {
		kv = store.NewMemoryStore()
		logger.Warn("STORE_PATH not set; session state will not survive a restart")
	}
	defer kv.Close()

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Met Office provider with resilience (rate limit + backoff + circuit breaker).
	metOffice := providers.NewMetOfficeProvider(httpClient, providers.MetOfficeConfig{
		APIKey:    cfg.DataPointAPIKey,
		BaseURL:   cfg.DataPointBaseURL,
		Location:  loc,
		RateLimit: cfg.RateLimitRPS,
		Burst:     cfg.RateLimitBurst,
	})

	var geocoder weather.Geocoder
	if cfg.GeocoderAPIKey != "" {
		geocoder = providers.NewGoogleGeocoder(cfg.GeocoderAPIKey)
	} else {
		logger.Info("GEOCODER_API_KEY not set; locate is disabled")
	}

	// Core service owning the user session.
	service := weather.NewService(weather.Dependencies{
		Store:         kv,
		Forecasts:     metOffice,
		Sites:         metOffice,
		Probe:         providers.NewHTTPProbe(httpClient, cfg.ProbeURL),
		Geocoder:      geocoder,
		Logger:        logger,
		Now:           func() time.Time { return time.Now().In(loc) },
		DefaultSiteID: cfg.DefaultSiteID,
	})

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	if err := service.Start(startCtx); err != nil {
		cancelStart()
		log.Fatalf("failed to start service: %v", err)
	}
	if err := service.LoadSites(startCtx); err != nil {
		logger.Warn("site directory unavailable; it will be fetched on first search", "error", err)
	}
	cancelStart()

	if view, err := render.FromSession(service.Snapshot(), service.Now()); err == nil {
		logger.Debug("current forecast\n" + view.Text())
	}

	// Scheduler that rolls the selected day over at midnight.
	if cfg.RolloverEnabled {
		sched := scheduler.New(service, loc, logger)
		if err := sched.Start(); err != nil {
			log.Fatalf("failed to start scheduler: %v", err)
		}
		defer sched.Stop()
	}

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weather-favourites",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          cfg.HTTPTimeout + 10*time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${method} ${path} ${latency}\n",
	}))
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-favourites",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service)

	go func() {
		if err := app.Listen(cfg.Addr()); err != nil {
			logger.Error("fiber server stopped", "error", err)
		}
	}()
	logger.Info("server listening", "addr", cfg.Addr())

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("error during shutdown", "error", err)
	}
}
