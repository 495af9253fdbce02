package weather

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Service answers current-weather queries: Primary first, Secondary on failure,
// results memoized in a ResultCache.
type Service struct {
	primary   Provider
	secondary Provider
	cache     *ResultCache
	logger    *slog.Logger
	tracer    trace.Tracer
}

// NewService creates a new Service. primary may be nil, in which case every
// fetch goes straight to secondary.
func NewService(primary, secondary Provider, cache *ResultCache, logger *slog.Logger) *Service {
	return &Service{
		primary:   primary,
		secondary: secondary,
		cache:     cache,
		logger:    logger,
		tracer:    otel.Tracer("farm-weather/weather"),
	}
}

// GetWeather returns the current reading for the given coordinates. The only
// error it returns matches ErrServiceUnavailable.
func (s *Service) GetWeather(ctx context.Context, lat, lon float64) (Reading, error) {
	c := Coordinate{Lat: lat, Lon: lon}

	ctx, span := s.tracer.Start(ctx, "get-weather")
	defer span.End()
	span.SetAttributes(attribute.Float64("lat", lat), attribute.Float64("lon", lon))

	r, hit, err := s.cache.GetOrCompute(ctx, c.Key(), func(ctx context.Context) (Reading, error) {
		return s.fetch(ctx, c)
	})
	span.SetAttributes(attribute.Bool("cache_hit", hit))
	if err != nil {
		span.RecordError(err)
		return Reading{}, err
	}
	span.SetAttributes(attribute.String("source", string(r.Source)))
	return r, nil
}

// Sweep drops expired cache entries.
func (s *Service) Sweep(ctx context.Context) int {
	return s.cache.Sweep(ctx)
}

// fetch tries the providers in fixed priority order. Primary wins whenever it
// succeeds; there is no comparison between providers.
func (s *Service) fetch(ctx context.Context, c Coordinate) (Reading, error) {
	if s.primaryConfigured() {
		r, err := s.primary.Fetch(ctx, c)
		if err == nil {
			s.logger.Info("served via primary", "provider", s.primary.Name(), "coord", c.String())
			return r, nil
		}
		s.logger.Warn("primary failed; falling back", "provider", s.primary.Name(), "coord", c.String(), "err", err)
	} else {
		s.logger.Info("primary not configured; skipping", "coord", c.String())
	}

	r, err := s.secondary.Fetch(ctx, c)
	if err != nil {
		s.logger.Error("secondary failed", "provider", s.secondary.Name(), "coord", c.String(), "err", err)
		return Reading{}, &UnavailableError{Cause: err.Error()}
	}
	s.logger.Info("served via secondary", "provider", s.secondary.Name(), "coord", c.String())
	return r, nil
}

func (s *Service) primaryConfigured() bool {
	if s.primary == nil {
		return false
	}
	if cfg, ok := s.primary.(Configurer); ok {
		return cfg.Configured()
	}
	return true
}
