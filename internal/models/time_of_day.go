package models

import (
	"errors"
	"fmt"
	"time"
)

const secondsPerDay = 24 * 60 * 60

// TimeOfDayLayout is the configuration format for times of day.
const TimeOfDayLayout = "15:04:05"

var ErrInvalidTimeOfDay = errors.New("invalid time of day")

// TimeOfDay is a wall-clock time with second precision and no date.
// The zero value is midnight.
type TimeOfDay struct {
	sec int
}

// NewTimeOfDay builds a TimeOfDay from its components.
func NewTimeOfDay(hour, minute, second int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: %02d:%02d:%02d", ErrInvalidTimeOfDay, hour, minute, second)
	}
	return TimeOfDay{sec: hour*3600 + minute*60 + second}, nil
}

// MustTimeOfDay is NewTimeOfDay for constants; it panics on bad input.
func MustTimeOfDay(hour, minute, second int) TimeOfDay {
	t, err := NewTimeOfDay(hour, minute, second)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseTimeOfDay parses "HH:MM:SS".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse(TimeOfDayLayout, s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	return NewTimeOfDay(t.Hour(), t.Minute(), t.Second())
}

// TimeOfDayOf drops the date (and sub-second part) of t in its own location.
func TimeOfDayOf(t time.Time) TimeOfDay {
	h, m, s := t.Clock()
	return TimeOfDay{sec: h*3600 + m*60 + s}
}

func (t TimeOfDay) Hour() int   { return t.sec / 3600 }
func (t TimeOfDay) Minute() int { return t.sec % 3600 / 60 }
func (t TimeOfDay) Second() int { return t.sec % 60 }

// Seconds returns seconds since midnight.
func (t TimeOfDay) Seconds() int { return t.sec }

func (t TimeOfDay) Before(u TimeOfDay) bool { return t.sec < u.sec }
func (t TimeOfDay) After(u TimeOfDay) bool  { return t.sec > u.sec }

// On returns the instant at this time of day on the calendar date of day.
func (t TimeOfDay) On(day time.Time) time.Time {
	y, mo, d := day.Date()
	return time.Date(y, mo, d, t.Hour(), t.Minute(), t.Second(), 0, day.Location())
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	v, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
