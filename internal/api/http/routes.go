package httpapi

import (
	"context"
	"errors"
	"math"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/farm-weather/internal/weather"
)

var validate = validator.New()

const (
	msgCoordsRequired = "Latitude and longitude are required."
	msgCoordsInvalid  = "Latitude and longitude must be valid numbers."
	msgUnavailable    = "Weather services are currently unavailable."
)

// WeatherService is the core entry point the handlers call into.
type WeatherService interface {
	GetWeather(ctx context.Context, lat, lon float64) (weather.Reading, error)
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service WeatherService) {
	api := app.Group("/api")

	api.Get("/weather/current", func(c *fiber.Ctx) error {
		q, err := parseCoordinateQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		reading, err := service.GetWeather(c.UserContext(), q.lat, q.lon)
		if err != nil {
			if errors.Is(err, weather.ErrServiceUnavailable) {
				return fiber.NewError(fiber.StatusServiceUnavailable, msgUnavailable)
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather data")
		}

		return c.JSON(reading)
	})
}

// ErrorHandler renders every error as {"error": message}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// coordinateQuery holds the raw query parameters for a point location.
type coordinateQuery struct {
	Lat string `validate:"required"`
	Lon string `validate:"required"`

	lat, lon float64
}

func parseCoordinateQuery(c *fiber.Ctx) (coordinateQuery, error) {
	q := coordinateQuery{
		Lat: c.Query("lat"),
		Lon: c.Query("lon"),
	}

	if err := validate.Struct(q); err != nil {
		return q, errors.New(msgCoordsRequired)
	}

	var ok bool
	if q.lat, ok = parseDegrees(q.Lat); !ok {
		return q, errors.New(msgCoordsInvalid)
	}
	if q.lon, ok = parseDegrees(q.Lon); !ok {
		return q, errors.New(msgCoordsInvalid)
	}
	return q, nil
}

// parseDegrees accepts any finite real number; ranges are not checked.
func parseDegrees(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
