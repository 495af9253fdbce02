package providers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// RequestTimeout bounds every outbound provider call.
const RequestTimeout = 3 * time.Second

// HTTPClientConfig bundles the HTTP client and per-call settings shared by providers.
type HTTPClientConfig struct {
	Client  *http.Client
	Timeout time.Duration
	Logger  *slog.Logger
}

var (
	errServerError  = errors.New("server error")
	errUnexpected   = errors.New("unexpected status code")
	errNoHTTPClient = errors.New("http client not configured")
	errMissingField = errors.New("missing field")
)

var tracer trace.Tracer = otel.Tracer("farm-weather/providers")

func (cfg HTTPClientConfig) timeout() time.Duration {
	if cfg.Timeout <= 0 {
		return RequestTimeout
	}
	return cfg.Timeout
}

func (cfg HTTPClientConfig) logger() *slog.Logger {
	if cfg.Logger == nil {
		return slog.Default()
	}
	return cfg.Logger
}

// doRequest executes a single attempt of the request.
// The caller owns the returned body and must keep ctx alive until it is read.
func doRequest(
	ctx context.Context,
	cfg HTTPClientConfig,
	buildRequest func() (*http.Request, error),
) (*http.Response, error) {
	if cfg.Client == nil {
		return nil, errNoHTTPClient
	}

	req, err := buildRequest()
	if err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)

	resp, err := cfg.Client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 500 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %d", errServerError, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode)
	}

	return resp, nil
}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func missing(field string) error {
	return fmt.Errorf("%w: %s", errMissingField, field)
}
