// Command check-system is a startup smoke test: it exits non-zero on the first
// failed check so it can gate a deploy or a container start.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/i474232898/farm-weather/internal/config"
	"github.com/i474232898/farm-weather/internal/store"
)

func main() {
	log.SetFlags(0)
	log.Println("starting backend smoke test")

	if err := run(); err != nil {
		log.Printf("FAIL %v", err)
		os.Exit(1)
	}
	log.Println("Backend Healthy")
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration failed to load: %w", err)
	}
	log.Println("OK   configuration loaded")

	if cfg.CacheBackend == config.CacheBackendRedis {
		if err := pingRedis(cfg); err != nil {
			return err
		}
		log.Printf("OK   redis cache reachable at %s", cfg.RedisAddr)
	} else {
		log.Println("OK   in-memory cache")
	}

	if cfg.OpenWeatherAPIKey == "" {
		return errors.New("OPENWEATHER_API_KEY is missing")
	}
	log.Println("OK   OPENWEATHER_API_KEY is loaded")
	return nil
}

func pingRedis(cfg *config.AppConfig) error {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := store.NewRedisStore(rdb).Ping(ctx); err != nil {
		return fmt.Errorf("redis at %s unreachable: %w", cfg.RedisAddr, err)
	}
	return nil
}
