// Package weather serves current conditions and a daily forecast from the
// Open-Meteo API.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/fkoidl/heimdeck/internal/logger"
	"github.com/fkoidl/heimdeck/pkg/httpclient"
)

const (
	forecastAPIBase  = "https://api.open-meteo.com/v1/forecast"
	geocodingAPIBase = "https://geocoding-api.open-meteo.com/v1/search"

	defaultLocationName = "Obertrum am See, Austria"
	defaultLatitude     = 47.8333
	defaultLongitude    = 13.1667
)

// Current is the present conditions snapshot.
type Current struct {
	Temperature float64 `json:"temperature"`
	WindSpeed   float64 `json:"wind_speed"`
	Humidity    int     `json:"humidity"`
	Code        int     `json:"code"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	Location    string  `json:"location"`
	FetchedAt   string  `json:"fetched_at"`
}

// Day is one forecast day.
type Day struct {
	Date        string  `json:"date"`
	MinTemp     float64 `json:"min_temp"`
	MaxTemp     float64 `json:"max_temp"`
	Code        int     `json:"code"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
}

// Report bundles current conditions with the coming days.
type Report struct {
	Current Current `json:"current"`
	Daily   []Day   `json:"daily"`
}

// Service fetches weather for a fixed coordinate pair.
type Service struct {
	client    httpclient.Client
	log       logger.Logger
	latitude  float64
	longitude float64
	now       func() time.Time

	mu           sync.Mutex
	locationName string
}

// NewService creates a weather service. Zero coordinates fall back to the
// default location.
func NewService(client httpclient.Client, log logger.Logger, lat, lon float64) *Service {
	if log == nil {
		log = logger.NopLogger{}
	}
	if lat == 0 && lon == 0 {
		lat = defaultLatitude
		lon = defaultLongitude
	}
	return &Service{client: client, log: log, latitude: lat, longitude: lon, now: time.Now}
}

// resolveLocationName reverse geocodes the configured coordinates to a display
// name. Successful lookups are cached; failures fall back to the default
// name without caching so a later fetch retries.
func (s *Service) resolveLocationName(ctx context.Context) string {
	s.mu.Lock()
	cached := s.locationName
	s.mu.Unlock()
	if cached != "" {
		return cached
	}

	query := url.Values{}
	query.Set("latitude", fmt.Sprintf("%.4f", s.latitude))
	query.Set("longitude", fmt.Sprintf("%.4f", s.longitude))
	query.Set("count", "1")

	resp, err := s.client.Get(ctx, geocodingAPIBase+"?"+query.Encode(), nil)
	if err != nil || resp.StatusCode() != http.StatusOK {
		s.log.WarnObj("reverse geocoding failed, using default name", "weather", map[string]any{
			"latitude":  s.latitude,
			"longitude": s.longitude,
		})
		return defaultLocationName
	}

	var payload struct {
		Results []struct {
			Name    string `json:"name"`
			Country string `json:"country"`
		} `json:"results"`
	}
	if err := json.Unmarshal(resp.Body(), &payload); err != nil || len(payload.Results) == 0 {
		s.log.WarnObj("reverse geocoding returned no results", "weather", map[string]any{
			"latitude":  s.latitude,
			"longitude": s.longitude,
		})
		return defaultLocationName
	}

	name := fmt.Sprintf("%s, %s", payload.Results[0].Name, payload.Results[0].Country)
	s.mu.Lock()
	s.locationName = name
	s.mu.Unlock()
	return name
}

// Fetch retrieves current conditions and the seven day forecast.
func (s *Service) Fetch(ctx context.Context) (Report, error) {
	location := s.resolveLocationName(ctx)

	query := url.Values{}
	query.Set("latitude", fmt.Sprintf("%.4f", s.latitude))
	query.Set("longitude", fmt.Sprintf("%.4f", s.longitude))
	query.Set("current", "temperature_2m,relative_humidity_2m,weather_code,wind_speed_10m")
	query.Set("daily", "weather_code,temperature_2m_max,temperature_2m_min")
	query.Set("timezone", "auto")
	query.Set("forecast_days", "7")

	resp, err := s.client.Get(ctx, forecastAPIBase+"?"+query.Encode(), nil)
	if err != nil {
		return Report{}, fmt.Errorf("fetching forecast: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return Report{}, fmt.Errorf("forecast API returned status %d", resp.StatusCode())
	}

	var payload struct {
		Current struct {
			Temperature float64 `json:"temperature_2m"`
			Humidity    int     `json:"relative_humidity_2m"`
			Code        int     `json:"weather_code"`
			WindSpeed   float64 `json:"wind_speed_10m"`
		} `json:"current"`
		Daily struct {
			Time    []string  `json:"time"`
			Code    []int     `json:"weather_code"`
			MaxTemp []float64 `json:"temperature_2m_max"`
			MinTemp []float64 `json:"temperature_2m_min"`
		} `json:"daily"`
	}
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return Report{}, fmt.Errorf("decoding forecast payload: %w", err)
	}

	report := Report{
		Current: Current{
			Temperature: payload.Current.Temperature,
			WindSpeed:   payload.Current.WindSpeed,
			Humidity:    payload.Current.Humidity,
			Code:        payload.Current.Code,
			Description: Describe(payload.Current.Code),
			Icon:        Icon(payload.Current.Code),
			Location:    location,
			FetchedAt:   s.now().Format(time.RFC3339),
		},
	}
	for i, day := range payload.Daily.Time {
		if i >= len(payload.Daily.Code) || i >= len(payload.Daily.MaxTemp) || i >= len(payload.Daily.MinTemp) {
			break
		}
		report.Daily = append(report.Daily, Day{
			Date:        day,
			MinTemp:     payload.Daily.MinTemp[i],
			MaxTemp:     payload.Daily.MaxTemp[i],
			Code:        payload.Daily.Code[i],
			Description: Describe(payload.Daily.Code[i]),
			Icon:        Icon(payload.Daily.Code[i]),
		})
	}
	return report, nil
}

var codeDescriptions = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Foggy",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	66: "Light freezing rain",
	67: "Heavy freezing rain",
	71: "Slight snow",
	73: "Moderate snow",
	75: "Heavy snow",
	77: "Snow grains",
	80: "Slight rain showers",
	81: "Moderate rain showers",
	82: "Violent rain showers",
	85: "Slight snow showers",
	86: "Heavy snow showers",
	95: "Thunderstorm",
	96: "Thunderstorm with slight hail",
	99: "Thunderstorm with heavy hail",
}

// Describe maps a WMO weather code to a readable description.
func Describe(code int) string {
	if d, ok := codeDescriptions[code]; ok {
		return d
	}
	return "Unknown"
}

// Icon maps a WMO weather code to an emoji glyph.
func Icon(code int) string {
	switch {
	case code == 0:
		return "☀️"
	case code <= 2:
		return "🌤️"
	case code == 3:
		return "☁️"
	case code <= 48:
		return "🌫️"
	case code <= 55:
		return "🌦️"
	case code <= 65:
		return "🌧️"
	case code <= 67:
		return "🌨️"
	case code <= 77:
		return "❄️"
	case code <= 82:
		return "🌧️"
	case code <= 86:
		return "🌨️"
	case code >= 95:
		return "⛈️"
	default:
		return "🌡️"
	}
}
