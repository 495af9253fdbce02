package weather

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Provider abstracts a single upstream weather source (e.g. OpenWeatherMap, Open-Meteo).
type Provider interface {
	Name() string
	Fetch(ctx context.Context, c Coordinate) (Reading, error)
}

// Configurer is implemented by providers that need configuration (a credential)
// before they can be called. A provider reporting false is skipped, not failed.
type Configurer interface {
	Configured() bool
}

// Store is the contract the cache backends must satisfy.
type Store interface {
	Get(ctx context.Context, key string) (Reading, bool, error)
	Set(ctx context.Context, key string, r Reading, ttl time.Duration) error
	// Sweep drops expired entries and reports how many were removed.
	Sweep(ctx context.Context) int
}

// ProviderError is the uniform failure of one provider call: transport error,
// non-success status, missing field or a value of the wrong type.
type ProviderError struct {
	Provider   string
	Coordinate Coordinate
	Err        error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s failed for %s: %v", e.Provider, e.Coordinate, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ErrServiceUnavailable matches any error returned when every provider failed.
var ErrServiceUnavailable = errors.New("weather services unavailable")

// UnavailableError is the only failure GetWeather surfaces. Cause holds the
// message of the last (Secondary) provider failure.
type UnavailableError struct {
	Cause string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("weather services unavailable. last error: %s", e.Cause)
}

func (e *UnavailableError) Is(target error) bool {
	return target == ErrServiceUnavailable
}
