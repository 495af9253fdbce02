package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/i474232898/farm-weather/internal/weather"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultOpenWeatherURL = "https://api.openweathermap.org/data/2.5/weather"

	// Used when the response carries no place name.
	openWeatherDefaultLocation = "Farm Location"

	// OpenWeatherMap reports wind in m/s even with units=metric.
	msToKmh = 3.6
)

// OpenWeatherProvider implements the weather.Provider interface for OpenWeatherMap.
// It is the Primary source and needs an API key.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
}

func NewOpenWeatherProvider(cfg HTTPClientConfig, baseURL, apiKey string) *OpenWeatherProvider {
	if baseURL == "" {
		baseURL = DefaultOpenWeatherURL
	}
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: baseURL,
		httpCfg: cfg,
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// Configured reports whether an API key is set.
func (p *OpenWeatherProvider) Configured() bool {
	return p.apiKey != ""
}

func (p *OpenWeatherProvider) Fetch(ctx context.Context, c weather.Coordinate) (weather.Reading, error) {
	ctx, span := tracer.Start(ctx, "openweathermap.fetch")
	defer span.End()
	span.SetAttributes(
		attribute.String("provider", p.name),
		attribute.Float64("lat", c.Lat),
		attribute.Float64("lon", c.Lon),
	)

	r, err := p.fetch(ctx, c)
	if err != nil {
		span.RecordError(err)
		p.httpCfg.logger().Warn("provider fetch failed", "provider", p.name, "coord", c.String(), "err", err)
		return weather.Reading{}, &weather.ProviderError{Provider: p.name, Coordinate: c, Err: err}
	}
	p.httpCfg.logger().Info("provider fetch succeeded", "provider", p.name, "coord", c.String())
	return r, nil
}

func (p *OpenWeatherProvider) fetch(ctx context.Context, c weather.Coordinate) (weather.Reading, error) {
	if p.apiKey == "" {
		return weather.Reading{}, fmt.Errorf("openweather api key is not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, p.httpCfg.timeout())
	defer cancel()

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", strconv.FormatFloat(c.Lat, 'f', -1, 64))
		values.Set("lon", strconv.FormatFloat(c.Lon, 'f', -1, 64))
		values.Set("appid", p.apiKey)
		values.Set("units", "metric")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.httpCfg, buildRequest)
	if err != nil {
		return weather.Reading{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Name *string `json:"name"`
		Main *struct {
			Temp     *float64 `json:"temp"`
			Humidity *float64 `json:"humidity"`
		} `json:"main"`
		Wind *struct {
			Speed *float64 `json:"speed"`
		} `json:"wind"`
		Weather []struct {
			Description *string `json:"description"`
		} `json:"weather"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Reading{}, fmt.Errorf("decode response: %w", err)
	}

	switch {
	case payload.Main == nil || payload.Main.Temp == nil:
		return weather.Reading{}, missing("main.temp")
	case payload.Main.Humidity == nil:
		return weather.Reading{}, missing("main.humidity")
	case len(payload.Weather) == 0 || payload.Weather[0].Description == nil:
		return weather.Reading{}, missing("weather[0].description")
	case payload.Wind == nil || payload.Wind.Speed == nil:
		return weather.Reading{}, missing("wind.speed")
	}

	name := openWeatherDefaultLocation
	if payload.Name != nil {
		name = *payload.Name
	}

	return weather.Reading{
		Temperature:  *payload.Main.Temp,
		Humidity:     int(*payload.Main.Humidity),
		Description:  *payload.Weather[0].Description,
		WindSpeed:    roundTo(*payload.Wind.Speed*msToKmh, 1),
		LocationName: name,
		Source:       weather.SourcePrimary,
	}, nil
}
