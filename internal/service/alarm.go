package service

import (
	"time"

	"wall_display/internal/models"
)

// DefaultAutoDismiss is how long a triggered alarm stays up without a touch.
const DefaultAutoDismiss = 60 * time.Second

// AlarmTransition reports what a Tick or Dismiss call changed.
type AlarmTransition struct {
	From models.AlarmPhase
	To   models.AlarmPhase
}

// Changed reports whether the phase moved.
func (t AlarmTransition) Changed() bool { return t.From != t.To }

// Visible reports whether the change affects the frame. Re-arming does not.
func (t AlarmTransition) Visible() bool {
	return t.Changed() && (t.To == models.AlarmTriggered || t.From == models.AlarmTriggered)
}

// AlarmController owns the single daily alarm.
//
// Armed -> Triggered when the alarm time is crossed between two ticks,
// Triggered -> Dismissed on touch or after the auto-dismiss delay,
// Dismissed -> Armed once the calendar date moves past the trigger date.
type AlarmController struct {
	enabled     bool
	at          models.TimeOfDay
	autoDismiss time.Duration

	phase         models.AlarmPhase
	dismissAt     time.Time
	lastTriggered time.Time
}

// NewAlarmController returns an armed controller. A disabled controller never triggers.
func NewAlarmController(at models.TimeOfDay, autoDismiss time.Duration, enabled bool) *AlarmController {
	if autoDismiss <= 0 {
		autoDismiss = DefaultAutoDismiss
	}
	return &AlarmController{
		enabled:     enabled,
		at:          at,
		autoDismiss: autoDismiss,
		phase:       models.AlarmArmed,
	}
}

// Tick advances the alarm from prev to now. At most one visible transition
// is reported; a re-arm in the same tick as a trigger is folded into it.
func (a *AlarmController) Tick(prev, now time.Time) AlarmTransition {
	from := a.phase

	if a.phase == models.AlarmDismissed && !sameDate(a.lastTriggered, now) {
		a.phase = models.AlarmArmed
	}

	if a.phase == models.AlarmArmed && a.enabled && a.crossed(prev, now) && !sameDate(a.lastTriggered, now) {
		a.phase = models.AlarmTriggered
		a.lastTriggered = now
		a.dismissAt = now.Add(a.autoDismiss)
		return AlarmTransition{From: from, To: a.phase}
	}

	if a.phase == models.AlarmTriggered && !now.Before(a.dismissAt) {
		a.phase = models.AlarmDismissed
		a.dismissAt = time.Time{}
	}
	return AlarmTransition{From: from, To: a.phase}
}

// Dismiss is the manual path. It is a no-op unless the alarm is triggered.
func (a *AlarmController) Dismiss(now time.Time) AlarmTransition {
	from := a.phase
	if a.phase == models.AlarmTriggered {
		a.phase = models.AlarmDismissed
		a.dismissAt = time.Time{}
	}
	return AlarmTransition{From: from, To: a.phase}
}

// DismissDeadline returns the pending auto-dismiss instant, if any.
func (a *AlarmController) DismissDeadline() (time.Time, bool) {
	if a.phase != models.AlarmTriggered {
		return time.Time{}, false
	}
	return a.dismissAt, true
}

func (a *AlarmController) State() models.AlarmState {
	st := models.AlarmState{
		Phase:         a.phase,
		AlarmTime:     a.at,
		LastTriggered: a.lastTriggered,
	}
	if a.phase == models.AlarmTriggered {
		d := a.dismissAt
		st.DismissAt = &d
	}
	return st
}

// crossed is prevTOD <= at <= nowTOD. A tick that wraps past midnight is
// skipped, so an alarm at exactly 00:00:00 is seen one tick late.
func (a *AlarmController) crossed(prev, now time.Time) bool {
	p, n := models.TimeOfDayOf(prev), models.TimeOfDayOf(now)
	if n.Before(p) {
		return false
	}
	return !p.After(a.at) && !n.Before(a.at)
}

func sameDate(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	a = a.In(b.Location())
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
