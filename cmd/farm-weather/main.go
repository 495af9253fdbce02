package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/i474232898/farm-weather/internal/api/http"
	"github.com/i474232898/farm-weather/internal/config"
	"github.com/i474232898/farm-weather/internal/scheduler"
	"github.com/i474232898/farm-weather/internal/store"
	"github.com/i474232898/farm-weather/internal/telemetry"
	"github.com/i474232898/farm-weather/internal/weather"
	"github.com/i474232898/farm-weather/internal/weather/providers"
)

var BuildVersion = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logg)

	shutdownTracer, err := telemetry.InitTracer("farm-weather", BuildVersion, cfg.ZipkinURL)
	if err != nil {
		log.Fatalf("failed to init tracer: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logg.Error("tracer shutdown failed", "err", err)
		}
	}()

	// Cache backend; owned by this process and torn down on exit.
	var backend weather.Store
	switch cfg.CacheBackend {
	case config.CacheBackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		backend = store.NewRedisStore(rdb)
	default:
		backend = store.NewMemoryStore(nil)
	}
	cache := weather.NewResultCache(backend, logg)

	httpCfg := providers.HTTPClientConfig{
		Client:  &http.Client{Timeout: providers.RequestTimeout},
		Timeout: providers.RequestTimeout,
		Logger:  logg,
	}
	primary := providers.NewOpenWeatherProvider(httpCfg, cfg.OpenWeatherBaseURL, cfg.OpenWeatherAPIKey)
	secondary := providers.NewOpenMeteoProvider(httpCfg, cfg.OpenMeteoBaseURL)
	if !primary.Configured() {
		logg.Info("OPENWEATHER_API_KEY not set; serving from Open-Meteo only")
	}

	service := weather.NewService(primary, secondary, cache, logg)

	sched := scheduler.New(cfg.WarmLocations, cfg.WarmInterval, cfg.SweepInterval, service, logg)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "farm-weather",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "farm-weather",
		})
	})

	httpapi.RegisterRoutes(app, service)

	go func() {
		logg.Info("listening", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			logg.Error("fiber server stopped", "err", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logg.Error("error during shutdown", "err", err)
	}
}
