package domain

import "fmt"

// WeatherReport is the normalized current-conditions payload returned by
// the weather proxy. Fallback marks the canned substitute used when the
// provider is unreachable or not configured; callers must treat fallback
// data identically to live data.
type WeatherReport struct {
	Weather     string `json:"weather"`
	Description string `json:"description"`
	TempC       int    `json:"temp"`
	Icon        string `json:"icon"`
	City        string `json:"city,omitempty"`
	Fallback    bool   `json:"fallback"`
}

// Line renders the report the way the chat prompt embeds it,
// e.g. "🌧️ light rain, 27°C".
func (w WeatherReport) Line() string {
	return fmt.Sprintf("%s %s, %d°C", w.Icon, w.Description, w.TempC)
}
