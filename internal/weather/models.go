package weather

import (
	"strconv"
)

// Source identifies which provider produced a reading.
type Source string

const (
	SourcePrimary   Source = "Primary"
	SourceSecondary Source = "Secondary"
)

// Coordinate is a point location in decimal degrees.
// Range validation is the caller's job.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Key returns the cache key for this coordinate. The raw values are used
// without rounding, so two nearly-identical coordinates get distinct keys.
func (c Coordinate) Key() string {
	return "weather_" + formatDegrees(c.Lat) + "_" + formatDegrees(c.Lon)
}

func (c Coordinate) String() string {
	return formatDegrees(c.Lat) + "," + formatDegrees(c.Lon)
}

func formatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Reading is the normalized, provider-agnostic current weather record.
// Wind speed is always km/h.
type Reading struct {
	Temperature  float64 `json:"temp"`
	Humidity     int     `json:"humidity"`
	Description  string  `json:"description"`
	WindSpeed    float64 `json:"wind_speed"`
	LocationName string  `json:"location_name"`
	Source       Source  `json:"source"`
}
