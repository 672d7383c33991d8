package models

import "time"

// DisplayStatus is the published snapshot behind the status API.
type DisplayStatus struct {
	ID          int             `json:"id"`
	Alarm       AlarmState      `json:"alarm"`
	Panel       PanelSelection  `json:"panel"`
	NightMode   bool            `json:"night_mode"`
	Decision    DisplayDecision `json:"decision"`
	Weather     WeatherSnapshot `json:"weather"`
	Schedule    RefreshSchedule `json:"schedule"`
	Redraws     int             `json:"redraws"`
	WeatherRuns int             `json:"weather_calls"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
