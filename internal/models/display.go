package models

import (
	"encoding/json"
	"time"
)

// PanelSelection is the alternate content view chosen by touch.
type PanelSelection int

const (
	PanelNone PanelSelection = iota
	PanelWeatherDetail
)

func (p PanelSelection) String() string {
	if p == PanelWeatherDetail {
		return "WEATHER_DETAIL"
	}
	return "NONE"
}

func (p PanelSelection) MarshalJSON() ([]byte, error) { return json.Marshal(p.String()) }

func (p *PanelSelection) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*p = PanelNone
	if s == "WEATHER_DETAIL" {
		*p = PanelWeatherDetail
	}
	return nil
}

// Toggle flips between the primary view and the weather panel.
func (p PanelSelection) Toggle() PanelSelection {
	if p == PanelWeatherDetail {
		return PanelNone
	}
	return PanelWeatherDetail
}

type BackgroundStyle string

const (
	BackgroundNormal      BackgroundStyle = "NORMAL"
	BackgroundAlarmAccent BackgroundStyle = "ALARM"
)

type ContentView string

const (
	ViewPrimary       ContentView = "PRIMARY"
	ViewForecastStrip ContentView = "FORECAST"
)

// ForecastSlot is one day of the forecast strip.
type ForecastSlot struct {
	Day    string    `json:"day"`
	Date   time.Time `json:"date"`
	IconID string    `json:"icon"`
	Text   string    `json:"text"`
}

// DisplayDecision is everything a frame needs. It is rebuilt for every draw.
type DisplayDecision struct {
	Background BackgroundStyle `json:"background"`
	Backlight  int             `json:"backlight"`
	View       ContentView     `json:"view"`

	Clock       string         `json:"clock"`
	Date        string         `json:"date"`
	WeatherLine string         `json:"weather_line"`
	IconID      string         `json:"icon,omitempty"`
	Forecast    []ForecastSlot `json:"forecast,omitempty"`
}
