package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	got, err := ParseTimeOfDay("05:04:03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Hour() != 5 || got.Minute() != 4 || got.Second() != 3 {
		t.Fatalf("got %v", got)
	}
	if got.String() != "05:04:03" {
		t.Fatalf("String()=%q", got.String())
	}

	if _, err := ParseTimeOfDay("24:00:00"); !errors.Is(err, ErrInvalidTimeOfDay) {
		t.Fatalf("expected ErrInvalidTimeOfDay, got %v", err)
	}
}

func TestTimeOfDayOf_DropsDate(t *testing.T) {
	a := TimeOfDayOf(time.Date(2024, 3, 1, 21, 30, 15, 999, time.UTC))
	b := TimeOfDayOf(time.Date(1999, 12, 31, 21, 30, 15, 0, time.UTC))
	if a != b {
		t.Fatalf("expected equal times of day, got %v and %v", a, b)
	}
}

func TestTimeOfDay_On(t *testing.T) {
	day := time.Date(2024, 6, 10, 23, 59, 0, 0, time.UTC)
	got := MustTimeOfDay(5, 0, 0).On(day)
	want := time.Date(2024, 6, 10, 5, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestAlarmState_JSON(t *testing.T) {
	s := AlarmState{Phase: AlarmTriggered, AlarmTime: MustTimeOfDay(6, 30, 0)}
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back AlarmState
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v (%s)", err, b)
	}
	if back.Phase != AlarmTriggered || back.AlarmTime != s.AlarmTime {
		t.Fatalf("got %+v from %s", back, b)
	}
}
