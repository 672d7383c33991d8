package service

import (
	"reflect"
	"testing"
	"time"

	"wall_display/internal/models"
)

func testResolver(t *testing.T) DisplayModeResolver {
	t.Helper()
	w, err := models.NewNightWindow("21:00:00", "05:00:00")
	if err != nil {
		t.Fatal(err)
	}
	return DisplayModeResolver{Night: w, DefaultLevel: 255, NightLevel: 64}
}

func TestResolver_Backlight(t *testing.T) {
	r := testResolver(t)
	armed := models.AlarmState{Phase: models.AlarmArmed}
	triggered := models.AlarmState{Phase: models.AlarmTriggered}

	tests := []struct {
		name  string
		now   time.Time
		alarm models.AlarmState
		want  int
	}{
		{"day", at(9, 12, 0, 0), armed, 255},
		{"night start inclusive", at(9, 21, 0, 0), armed, 64},
		{"after midnight", at(9, 2, 30, 0), armed, 64},
		{"night end inclusive", at(9, 5, 0, 0), armed, 64},
		{"just after night", at(9, 5, 0, 1), armed, 255},
		{"alarm overrides night", at(9, 4, 0, 0), triggered, 255},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := r.Resolve(tc.now, tc.alarm, models.PanelNone, models.WeatherSnapshot{})
			if d.Backlight != tc.want {
				t.Fatalf("Backlight = %d, want %d", d.Backlight, tc.want)
			}
		})
	}
}

func TestResolver_PrimaryContent(t *testing.T) {
	r := testResolver(t)
	now := time.Date(2024, time.March, 9, 7, 5, 0, 0, time.UTC)

	d := r.Resolve(now, models.AlarmState{}, models.PanelNone, models.WeatherSnapshot{})
	if d.Clock != "7:05" || d.Date != "9 March 2024" {
		t.Fatalf("clock/date = %q %q", d.Clock, d.Date)
	}
	if d.WeatherLine != LoadingWeatherText {
		t.Fatalf("WeatherLine = %q before first fetch", d.WeatherLine)
	}
	if d.View != models.ViewPrimary || d.Background != models.BackgroundNormal || d.Forecast != nil {
		t.Fatalf("decision = %+v", d)
	}

	snap := models.WeatherSnapshot{ConditionText: "Clouds", Temperature: 44.56, IconID: "04d", FetchedAt: now}
	d = r.Resolve(now, models.AlarmState{}, models.PanelNone, snap)
	if d.WeatherLine != "Clouds - 44.6°" || d.IconID != "04d" {
		t.Fatalf("WeatherLine = %q icon %q", d.WeatherLine, d.IconID)
	}
}

func TestResolver_ViewAndBackground(t *testing.T) {
	r := testResolver(t)
	now := at(9, 15, 0, 0)
	snap := models.WeatherSnapshot{
		FetchedAt: now,
		Forecast: []models.ForecastEntry{
			{Time: time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC), ConditionText: "Rain", IconID: "10d"},
		},
	}

	d := r.Resolve(now, models.AlarmState{}, models.PanelWeatherDetail, snap)
	if d.View != models.ViewForecastStrip || len(d.Forecast) != 1 || d.Forecast[0].Day != "Sun" {
		t.Fatalf("forecast view = %+v", d)
	}

	d = r.Resolve(now, models.AlarmState{Phase: models.AlarmTriggered}, models.PanelNone, snap)
	if d.Background != models.BackgroundAlarmAccent {
		t.Fatalf("Background = %s", d.Background)
	}
}

func TestResolver_IsDeterministic(t *testing.T) {
	r := testResolver(t)
	now := at(9, 22, 10, 0)
	alarm := models.AlarmState{Phase: models.AlarmArmed, AlarmTime: models.MustTimeOfDay(6, 0, 0)}
	snap := models.WeatherSnapshot{
		ConditionText: "Rain",
		Temperature:   51.3,
		IconID:        "10n",
		FetchedAt:     at(9, 22, 0, 0),
		Forecast: []models.ForecastEntry{
			{Time: at(10, 15, 0, 0), ConditionText: "Rain", IconID: "10d"},
			{Time: at(11, 15, 0, 0), ConditionText: "Clear", IconID: "01d"},
		},
	}

	for _, panel := range []models.PanelSelection{models.PanelNone, models.PanelWeatherDetail} {
		a := r.Resolve(now, alarm, panel, snap)
		b := r.Resolve(now, alarm, panel, snap)
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("Resolve not deterministic for %s:\n%+v\n%+v", panel, a, b)
		}
	}
}

func TestResolver_LateEveningScenario(t *testing.T) {
	r := testResolver(t)
	now := at(9, 23, 30, 0)
	snap := models.WeatherSnapshot{ConditionText: "Clear", Temperature: 38, IconID: "01n", FetchedAt: at(9, 23, 0, 0)}

	d := r.Resolve(now, models.AlarmState{Phase: models.AlarmArmed}, models.PanelNone, snap)
	if d.Backlight != 64 {
		t.Errorf("Backlight = %d, want 64", d.Backlight)
	}
	if d.Background != models.BackgroundNormal {
		t.Errorf("Background = %s, want %s", d.Background, models.BackgroundNormal)
	}
	if d.View != models.ViewPrimary || d.Forecast != nil {
		t.Errorf("View = %s forecast %v, want primary view", d.View, d.Forecast)
	}
	if d.Clock != "23:30" {
		t.Errorf("Clock = %q", d.Clock)
	}
}
