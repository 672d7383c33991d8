package models

import "fmt"

// NightWindow is the time-of-day range during which the backlight is dimmed.
type NightWindow struct {
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

// NewNightWindow parses both bounds ("HH:MM:SS") and rejects malformed values.
func NewNightWindow(start, end string) (NightWindow, error) {
	s, err := ParseTimeOfDay(start)
	if err != nil {
		return NightWindow{}, fmt.Errorf("night window start: %w", err)
	}
	e, err := ParseTimeOfDay(end)
	if err != nil {
		return NightWindow{}, fmt.Errorf("night window end: %w", err)
	}
	return NightWindow{Start: s, End: e}, nil
}

// Contains reports whether t falls inside the window, bounds inclusive.
//
// A window whose start is before its end is a same-day range (01:00-09:00).
// Otherwise it wraps midnight (21:00-05:00). Equal bounds cover the whole day.
func (w NightWindow) Contains(t TimeOfDay) bool {
	if w.Start.Before(w.End) {
		return !t.Before(w.Start) && !t.After(w.End)
	}
	return !t.Before(w.Start) || !t.After(w.End)
}

func (w NightWindow) String() string {
	return w.Start.String() + "-" + w.End.String()
}
