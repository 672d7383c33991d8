package models

import "time"

// CurrentConditions is what the provider reports for right now.
type CurrentConditions struct {
	ConditionText string
	Temperature   float64 // °F
	IconID        string
}

// ForecastEntry is one forecast period.
type ForecastEntry struct {
	Time          time.Time `json:"time"`
	ConditionText string    `json:"condition"`
	IconID        string    `json:"icon"`
}

// Forecast is the provider's multi-day forecast in the order received.
type Forecast struct {
	Entries []ForecastEntry
}

// WeatherSnapshot is the last consistent current+forecast pair.
type WeatherSnapshot struct {
	ConditionText string          `json:"condition"`
	Temperature   float64         `json:"temperature"`
	IconID        string          `json:"icon"`
	Forecast      []ForecastEntry `json:"forecast"`
	FetchedAt     time.Time       `json:"fetched_at"`
}

// IsZero reports whether no fetch has succeeded yet.
func (s WeatherSnapshot) IsZero() bool { return s.FetchedAt.IsZero() }

// RefreshSchedule holds the pending deadlines of the scheduler.
type RefreshSchedule struct {
	NextWeatherRefresh time.Time `json:"next_weather_refresh"`
	NextForcedRedraw   time.Time `json:"next_forced_redraw"`
}
