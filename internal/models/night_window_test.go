package models

import "testing"

func tod(t *testing.T, s string) TimeOfDay {
	t.Helper()
	v, err := ParseTimeOfDay(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return v
}

func TestNightWindow_Contains(t *testing.T) {
	cases := []struct {
		name  string
		start string
		end   string
		at    string
		want  bool
	}{
		{"same_day_inside", "09:00:00", "17:00:00", "12:00:00", true},
		{"same_day_start_inclusive", "09:00:00", "17:00:00", "09:00:00", true},
		{"same_day_end_inclusive", "09:00:00", "17:00:00", "17:00:00", true},
		{"same_day_before", "09:00:00", "17:00:00", "08:59:59", false},
		{"same_day_after", "09:00:00", "17:00:00", "17:00:01", false},
		{"overnight_late_evening", "21:00:00", "05:00:00", "23:00:00", true},
		{"overnight_early_morning", "21:00:00", "05:00:00", "03:00:00", true},
		{"overnight_midday", "21:00:00", "05:00:00", "12:00:00", false},
		{"overnight_midnight", "21:00:00", "05:00:00", "00:00:00", true},
		{"overnight_end_inclusive", "21:00:00", "05:00:00", "05:00:00", true},
		{"overnight_just_after_end", "21:00:00", "05:00:00", "05:00:01", false},
		{"equal_bounds_always_night_at_bound", "12:00:00", "12:00:00", "12:00:00", true},
		{"equal_bounds_always_night_elsewhere", "12:00:00", "12:00:00", "03:17:00", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, err := NewNightWindow(tc.start, tc.end)
			if err != nil {
				t.Fatalf("NewNightWindow: %v", err)
			}
			if got := w.Contains(tod(t, tc.at)); got != tc.want {
				t.Fatalf("Contains(%s) in %s = %v, want %v", tc.at, w, got, tc.want)
			}
		})
	}
}

func TestNightWindow_SameDayMatchesInclusiveRange(t *testing.T) {
	w, _ := NewNightWindow("09:00:00", "17:00:00")
	for s := 0; s < secondsPerDay; s += 37 {
		at := TimeOfDay{sec: s}
		want := s >= 9*3600 && s <= 17*3600
		if got := w.Contains(at); got != want {
			t.Fatalf("Contains(%s)=%v, want %v", at, got, want)
		}
	}
}

func TestNewNightWindow_RejectsMalformedBounds(t *testing.T) {
	for _, tc := range []struct{ start, end string }{
		{"25:00:00", "05:00:00"},
		{"21:00:00", "5am"},
		{"", "05:00:00"},
	} {
		if _, err := NewNightWindow(tc.start, tc.end); err == nil {
			t.Fatalf("expected error for %q-%q", tc.start, tc.end)
		}
	}
}
