package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/i474232898/farm-weather/internal/weather"
)

type recordingService struct {
	mu     sync.Mutex
	coords []weather.Coordinate
	sweeps int
	err    error
}

func (s *recordingService) GetWeather(_ context.Context, lat, lon float64) (weather.Reading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coords = append(s.coords, weather.Coordinate{Lat: lat, Lon: lon})
	return weather.Reading{}, s.err
}

func (s *recordingService) Sweep(context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweeps++
	return 0
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWarmFetchesEveryLocation(t *testing.T) {
	locs := []weather.Coordinate{{Lat: 1, Lon: 2}, {Lat: 3, Lon: 4}, {Lat: 5, Lon: 6}}
	svc := &recordingService{err: errors.New("unavailable")}
	s := New(locs, time.Minute, time.Minute, svc, discardLogger())

	s.Warm()

	if len(svc.coords) != len(locs) {
		t.Fatalf("expected %d fetches, got %d", len(locs), len(svc.coords))
	}
}

func TestStartRunsSweepImmediately(t *testing.T) {
	svc := &recordingService{}
	s := New(nil, time.Minute, time.Hour, svc, discardLogger())
	if err := s.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Stop()

	// gocron runs a newly scheduled job once at start.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		svc.mu.Lock()
		n := svc.sweeps
		svc.mu.Unlock()
		if n > 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("sweep job never ran")
}
