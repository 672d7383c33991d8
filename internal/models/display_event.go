package models

import "time"

// Event types recorded in the display log.
const (
	EventStartup        = "STARTUP"
	EventShutdown       = "SHUTDOWN"
	EventAlarmTriggered = "ALARM_TRIGGERED"
	EventAlarmDismissed = "ALARM_DISMISSED"
	EventWeatherOK      = "WEATHER_OK"
	EventWeatherFailed  = "WEATHER_FAILED"
	EventBacklight      = "BACKLIGHT"
	EventPanel          = "PANEL"
)

// EventTypes lists every type the loop records, in lifecycle order.
var EventTypes = []string{
	EventStartup,
	EventShutdown,
	EventAlarmTriggered,
	EventAlarmDismissed,
	EventWeatherOK,
	EventWeatherFailed,
	EventBacklight,
	EventPanel,
}

// DisplayEvent is a single log entry.
type DisplayEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Metadata    any       `json:"metadata,omitempty"`
}
