package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/i474232898/farm-weather/internal/weather"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"OPENWEATHER_API_KEY", "PORT", "LOG_LEVEL", "CACHE_BACKEND",
		"CACHE_SWEEP_INTERVAL", "WARM_INTERVAL", "WARM_LOCATIONS", "ZIPKIN_URL",
	} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OpenWeatherAPIKey != "" {
		t.Fatalf("expected empty api key")
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Fatalf("expected info level, got %v", cfg.LogLevel)
	}
	if cfg.CacheBackend != CacheBackendMemory {
		t.Fatalf("expected memory backend, got %q", cfg.CacheBackend)
	}
	if cfg.SweepInterval != 5*time.Minute || cfg.WarmInterval != 10*time.Minute {
		t.Fatalf("unexpected intervals: sweep=%v warm=%v", cfg.SweepInterval, cfg.WarmInterval)
	}
	if len(cfg.WarmLocations) != 0 {
		t.Fatalf("expected no warm locations, got %v", cfg.WarmLocations)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "abc")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CACHE_BACKEND", "Redis")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("WARM_LOCATIONS", "40.7128,-74.0060; 28.6139,77.2090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OpenWeatherAPIKey != "abc" {
		t.Fatalf("expected api key abc, got %q", cfg.OpenWeatherAPIKey)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Fatalf("expected debug level, got %v", cfg.LogLevel)
	}
	if cfg.CacheBackend != CacheBackendRedis || cfg.RedisDB != 2 {
		t.Fatalf("unexpected redis settings: backend=%q db=%d", cfg.CacheBackend, cfg.RedisDB)
	}

	want := []weather.Coordinate{{Lat: 40.7128, Lon: -74.006}, {Lat: 28.6139, Lon: 77.209}}
	if len(cfg.WarmLocations) != len(want) {
		t.Fatalf("expected %d locations, got %v", len(want), cfg.WarmLocations)
	}
	for i := range want {
		if cfg.WarmLocations[i] != want[i] {
			t.Fatalf("location %d: expected %v, got %v", i, want[i], cfg.WarmLocations[i])
		}
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"backend":   {"CACHE_BACKEND", "memcached"},
		"duration":  {"WARM_INTERVAL", "often"},
		"locations": {"WARM_LOCATIONS", "40.7,abc"},
		"pair":      {"WARM_LOCATIONS", "40.7"},
		"log level": {"LOG_LEVEL", "loud"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", kv[0], kv[1])
			}
		})
	}
}
