package service

import (
	"testing"
	"time"

	"wall_display/internal/models"
)

func at(day, h, m, s int) time.Time {
	return time.Date(2024, time.March, day, h, m, s, 0, time.UTC)
}

func TestAlarmController_TriggersOnCrossing(t *testing.T) {
	a := NewAlarmController(models.MustTimeOfDay(7, 0, 0), time.Minute, true)

	if tr := a.Tick(at(9, 6, 59, 58), at(9, 6, 59, 59)); tr.Changed() {
		t.Fatalf("triggered early: %+v", tr)
	}
	tr := a.Tick(at(9, 6, 59, 59), at(9, 7, 0, 0))
	if tr.To != models.AlarmTriggered || !tr.Visible() {
		t.Fatalf("Tick across alarm = %+v, want visible trigger", tr)
	}
	deadline, ok := a.DismissDeadline()
	if !ok || !deadline.Equal(at(9, 7, 1, 0)) {
		t.Fatalf("DismissDeadline = %v, %v", deadline, ok)
	}
	st := a.State()
	if st.DismissAt == nil || !st.Triggered() {
		t.Fatalf("State() = %+v", st)
	}
}

func TestAlarmController_TriggersOnceAtFiveAM(t *testing.T) {
	a := NewAlarmController(models.MustTimeOfDay(5, 0, 0), time.Minute, true)

	tr := a.Tick(at(9, 4, 59, 59), at(9, 5, 0, 0))
	if tr.From != models.AlarmArmed || tr.To != models.AlarmTriggered {
		t.Fatalf("04:59:59 -> 05:00:00 = %+v, want Armed -> Triggered", tr)
	}
	// the next tick starts exactly on the alarm time
	if tr := a.Tick(at(9, 5, 0, 0), at(9, 5, 0, 1)); tr.Changed() {
		t.Fatalf("05:00:00 -> 05:00:01 re-triggered: %+v", tr)
	}
	if !a.State().Triggered() {
		t.Fatalf("state = %s, want TRIGGERED", a.State().Phase)
	}
}

func TestAlarmController_SkippedTickStillTriggers(t *testing.T) {
	a := NewAlarmController(models.MustTimeOfDay(7, 0, 0), time.Minute, true)
	// the loop stalled for several seconds across the alarm time
	if tr := a.Tick(at(9, 6, 59, 50), at(9, 7, 0, 5)); tr.To != models.AlarmTriggered {
		t.Fatalf("got %+v, want trigger", tr)
	}
}

func TestAlarmController_AutoDismissAndRearm(t *testing.T) {
	a := NewAlarmController(models.MustTimeOfDay(7, 0, 0), time.Minute, true)
	a.Tick(at(9, 6, 59, 59), at(9, 7, 0, 0))

	if tr := a.Tick(at(9, 7, 0, 58), at(9, 7, 0, 59)); tr.Changed() {
		t.Fatalf("dismissed before deadline: %+v", tr)
	}
	tr := a.Tick(at(9, 7, 0, 59), at(9, 7, 1, 0))
	if tr.From != models.AlarmTriggered || tr.To != models.AlarmDismissed || !tr.Visible() {
		t.Fatalf("auto-dismiss = %+v", tr)
	}
	if _, ok := a.DismissDeadline(); ok {
		t.Fatal("deadline kept after dismiss")
	}

	// same day: stays dismissed, no second trigger
	if tr := a.Tick(at(9, 23, 59, 59), at(9, 23, 59, 59)); tr.Changed() {
		t.Fatalf("changed on same day: %+v", tr)
	}

	// next day re-arms silently
	tr = a.Tick(at(9, 23, 59, 59), at(10, 0, 0, 1))
	if tr.To != models.AlarmArmed || tr.Visible() {
		t.Fatalf("re-arm = %+v, want invisible Armed", tr)
	}

	// and fires again at the next crossing
	if tr := a.Tick(at(10, 6, 59, 59), at(10, 7, 0, 0)); tr.To != models.AlarmTriggered {
		t.Fatalf("second day = %+v", tr)
	}
}

func TestAlarmController_ManualDismiss(t *testing.T) {
	a := NewAlarmController(models.MustTimeOfDay(7, 0, 0), time.Minute, true)

	if tr := a.Dismiss(at(9, 6, 0, 0)); tr.Changed() {
		t.Fatalf("Dismiss while armed changed state: %+v", tr)
	}
	a.Tick(at(9, 6, 59, 59), at(9, 7, 0, 0))
	tr := a.Dismiss(at(9, 7, 0, 10))
	if tr.To != models.AlarmDismissed || !tr.Visible() {
		t.Fatalf("Dismiss = %+v", tr)
	}
	if a.State().DismissAt != nil {
		t.Fatal("DismissAt kept after manual dismiss")
	}
}

func TestAlarmController_MidnightAlarmFiresOneTickLate(t *testing.T) {
	a := NewAlarmController(models.MustTimeOfDay(0, 0, 0), time.Minute, true)

	// the tick that wraps midnight is skipped
	if tr := a.Tick(at(9, 23, 59, 59), at(10, 0, 0, 0)); tr.Changed() {
		t.Fatalf("wrap tick changed state: %+v", tr)
	}
	if tr := a.Tick(at(10, 0, 0, 0), at(10, 0, 0, 0).Add(100*time.Millisecond)); tr.To != models.AlarmTriggered {
		t.Fatalf("next tick = %+v, want trigger", tr)
	}
}

func TestAlarmController_Disabled(t *testing.T) {
	a := NewAlarmController(models.MustTimeOfDay(7, 0, 0), time.Minute, false)
	if tr := a.Tick(at(9, 6, 59, 59), at(9, 7, 0, 0)); tr.Changed() {
		t.Fatalf("disabled alarm changed: %+v", tr)
	}
}

func TestAlarmController_DefaultAutoDismiss(t *testing.T) {
	a := NewAlarmController(models.MustTimeOfDay(7, 0, 0), 0, true)
	a.Tick(at(9, 6, 59, 59), at(9, 7, 0, 0))
	d, _ := a.DismissDeadline()
	if got := d.Sub(at(9, 7, 0, 0)); got != DefaultAutoDismiss {
		t.Fatalf("auto dismiss = %v, want %v", got, DefaultAutoDismiss)
	}
}
