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
	DefaultOpenMeteoURL = "https://api.open-meteo.com/v1/forecast"

	openMeteoLocation = "Custom GPS Location"
)

// OpenMeteoProvider implements the weather.Provider interface for Open-Meteo.
// It is the Secondary source; no key is needed.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
}

func NewOpenMeteoProvider(cfg HTTPClientConfig, baseURL string) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = DefaultOpenMeteoURL
	}
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: baseURL,
		httpCfg: cfg,
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) Fetch(ctx context.Context, c weather.Coordinate) (weather.Reading, error) {
	ctx, span := tracer.Start(ctx, "openmeteo.fetch")
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

func (p *OpenMeteoProvider) fetch(ctx context.Context, c weather.Coordinate) (weather.Reading, error) {
	ctx, cancel := context.WithTimeout(ctx, p.httpCfg.timeout())
	defer cancel()

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", strconv.FormatFloat(c.Lat, 'f', -1, 64))
		values.Set("longitude", strconv.FormatFloat(c.Lon, 'f', -1, 64))
		values.Set("current_weather", "true")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.httpCfg, buildRequest)
	if err != nil {
		return weather.Reading{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		CurrentWeather *struct {
			Temperature *float64 `json:"temperature"`
			WindSpeed   *float64 `json:"windspeed"`
			WeatherCode *float64 `json:"weathercode"`
		} `json:"current_weather"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Reading{}, fmt.Errorf("decode response: %w", err)
	}

	cw := payload.CurrentWeather
	switch {
	case cw == nil:
		return weather.Reading{}, missing("current_weather")
	case cw.Temperature == nil:
		return weather.Reading{}, missing("current_weather.temperature")
	case cw.WeatherCode == nil:
		return weather.Reading{}, missing("current_weather.weathercode")
	case cw.WindSpeed == nil:
		return weather.Reading{}, missing("current_weather.windspeed")
	}

	return weather.Reading{
		Temperature: *cw.Temperature,
		// current_weather carries no humidity.
		Humidity:     0,
		Description:  describeOpenMeteoCode(*cw.WeatherCode),
		WindSpeed:    *cw.WindSpeed,
		LocationName: openMeteoLocation,
		Source:       weather.SourceSecondary,
	}, nil
}

// describeOpenMeteoCode is deliberately coarse: only code 0 is told apart.
func describeOpenMeteoCode(code float64) string {
	if code == 0 {
		return "Clear sky"
	}
	return "Cloudy/Rainy"
}
