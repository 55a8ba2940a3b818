package usecase

import (
	"context"
	"log/slog"
	"strings"

	"portfolio-server/internal/domain"
	"portfolio-server/internal/integrations/openweather"
)

// ConditionsFetcher is the provider interface the weather proxy depends
// on.
type ConditionsFetcher interface {
	Configured() bool
	Current(ctx context.Context) (openweather.Conditions, error)
}

// weatherIcons maps the provider's condition category to a display
// glyph. Unmapped categories fall back to defaultIcon.
var weatherIcons = map[string]string{
	"Clear":        "☀️",
	"Clouds":       "☁️",
	"Rain":         "🌧️",
	"Drizzle":      "🌦️",
	"Thunderstorm": "⛈️",
	"Snow":         "❄️",
	"Mist":         "🌫️",
	"Fog":          "🌫️",
	"Haze":         "🌫️",
}

const defaultIcon = "🌤️"

// WeatherService normalizes provider conditions into a WeatherReport,
// substituting a canned payload on any failure. Missing credentials and
// runtime provider errors both degrade to the fallback; callers treat
// fallback data identically to live data.
type WeatherService struct {
	provider ConditionsFetcher
	city     string
}

func NewWeatherService(provider ConditionsFetcher, city string) *WeatherService {
	return &WeatherService{provider: provider, city: city}
}

// Current returns current conditions or the fallback report. It never
// returns an error: there is always a usable payload.
func (s *WeatherService) Current(ctx context.Context) domain.WeatherReport {
	if s.provider == nil || !s.provider.Configured() {
		return s.fallback("☀️")
	}

	cond, err := s.provider.Current(ctx)
	if err != nil {
		slog.Error("weather provider call failed", "err", err)
		return s.fallback(defaultIcon)
	}

	icon, ok := weatherIcons[cond.Main]
	if !ok {
		icon = defaultIcon
	}

	return domain.WeatherReport{
		Weather:     strings.ToLower(cond.Main),
		Description: cond.Description,
		TempC:       roundTemp(cond.TempC),
		Icon:        icon,
		City:        s.city,
		Fallback:    false,
	}
}

// fallback is the fixed substitute payload. The icon differs between
// the not-configured and runtime-failure paths.
func (s *WeatherService) fallback(icon string) domain.WeatherReport {
	return domain.WeatherReport{
		Weather:     "nice",
		Description: "good vibes",
		TempC:       28,
		Icon:        icon,
		City:        s.city,
		Fallback:    true,
	}
}

func roundTemp(t float64) int {
	if t >= 0 {
		return int(t + 0.5)
	}
	return int(t - 0.5)
}
