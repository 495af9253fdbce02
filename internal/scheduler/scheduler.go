package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/farm-weather/internal/weather"
)

// WeatherService is the part of weather.Service the jobs need.
type WeatherService interface {
	GetWeather(ctx context.Context, lat, lon float64) (weather.Reading, error)
	Sweep(ctx context.Context) int
}

// Scheduler periodically sweeps expired cache entries and keeps configured
// field locations warm.
type Scheduler struct {
	scheduler     *gocron.Scheduler
	service       WeatherService
	logger        *slog.Logger
	locations     []weather.Coordinate
	warmInterval  time.Duration
	sweepInterval time.Duration
}

// New creates a new Scheduler.
func New(
	locations []weather.Coordinate,
	warmInterval, sweepInterval time.Duration,
	service WeatherService,
	logger *slog.Logger,
) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler:     s,
		service:       service,
		logger:        logger,
		locations:     locations,
		warmInterval:  warmInterval,
		sweepInterval: sweepInterval,
	}
}

// Start schedules the jobs and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.sweepInterval > 0 {
		if _, err := s.scheduler.Every(s.sweepInterval).Do(s.Sweep); err != nil {
			return err
		}
	}

	if len(s.locations) == 0 {
		s.logger.Info("scheduler: no warm locations configured")
	} else if s.warmInterval > 0 {
		if _, err := s.scheduler.Every(s.warmInterval).Do(s.Warm); err != nil {
			return err
		}
	}

	s.scheduler.StartAsync()
	return nil
}

// Sweep drops expired cache entries.
func (s *Scheduler) Sweep() {
	n := s.service.Sweep(context.Background())
	s.logger.Debug("scheduler: cache sweep", "removed", n)
}

// Warm fetches weather for every configured location concurrently.
func (s *Scheduler) Warm() {
	s.logger.Info("scheduler: warming cache", "locations", len(s.locations))

	var wg sync.WaitGroup
	for _, loc := range s.locations {
		loc := loc
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if _, err := s.service.GetWeather(ctx, loc.Lat, loc.Lon); err != nil {
				s.logger.Warn("scheduler: warm failed", "coord", loc.String(), "err", err)
			}
		}()
	}
	wg.Wait()
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
