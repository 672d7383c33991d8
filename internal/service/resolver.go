package service

import (
	"fmt"
	"time"

	"wall_display/internal/models"
)

const LoadingWeatherText = "Loading weather..."

// DisplayModeResolver turns the current state into a DisplayDecision.
// It holds only configuration and has no side effects.
type DisplayModeResolver struct {
	Night        models.NightWindow
	DefaultLevel int
	NightLevel   int
}

// IsNight reports whether now falls in the night window.
func (r DisplayModeResolver) IsNight(now time.Time) bool {
	return r.Night.Contains(models.TimeOfDayOf(now))
}

// Backlight is the level for now. A triggered alarm always gets the default level.
func (r DisplayModeResolver) Backlight(now time.Time, alarm models.AlarmState) int {
	if alarm.Triggered() || !r.IsNight(now) {
		return r.DefaultLevel
	}
	return r.NightLevel
}

func (r DisplayModeResolver) Resolve(now time.Time, alarm models.AlarmState, panel models.PanelSelection, snap models.WeatherSnapshot) models.DisplayDecision {
	d := models.DisplayDecision{
		Background:  models.BackgroundNormal,
		Backlight:   r.Backlight(now, alarm),
		View:        models.ViewPrimary,
		Clock:       ClockText(now),
		Date:        DateText(now),
		WeatherLine: WeatherLine(snap),
		IconID:      snap.IconID,
	}
	if alarm.Triggered() {
		d.Background = models.BackgroundAlarmAccent
	}
	if panel == models.PanelWeatherDetail {
		d.View = models.ViewForecastStrip
		d.Forecast = forecastSlots(snap.Forecast)
	}
	return d
}

// ClockText is H:MM in 24-hour time with no leading zero on the hour.
func ClockText(t time.Time) string {
	return fmt.Sprintf("%d:%02d", t.Hour(), t.Minute())
}

// DateText is "D Month YYYY".
func DateText(t time.Time) string {
	return t.Format("2 January 2006")
}

func WeatherLine(s models.WeatherSnapshot) string {
	if s.IsZero() {
		return LoadingWeatherText
	}
	return fmt.Sprintf("%s - %.1f°", s.ConditionText, s.Temperature)
}

func forecastSlots(entries []models.ForecastEntry) []models.ForecastSlot {
	if len(entries) == 0 {
		return nil
	}
	out := make([]models.ForecastSlot, 0, len(entries))
	for _, e := range entries {
		out = append(out, models.ForecastSlot{
			Day:    e.Time.Format("Mon"),
			Date:   e.Time,
			IconID: e.IconID,
			Text:   e.ConditionText,
		})
	}
	return out
}
