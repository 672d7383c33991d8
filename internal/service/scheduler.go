package service

import (
	"time"

	"wall_display/internal/models"
)

const (
	DefaultPollInterval = 100 * time.Millisecond
	// RedrawFallback is the longest the frame may go without a redraw.
	RedrawFallback = time.Hour
)

// Plan is what one tick should do.
type Plan struct {
	Redraw         bool
	RefreshWeather bool
	MinuteEdge     bool
	HourEdge       bool
}

// Scheduler tracks the redraw and weather deadlines and the last minute and
// hour it observed. Edges are detected by comparing against those, not by
// matching exact seconds, so a slow tick still sees the minute change.
type Scheduler struct {
	poll time.Duration

	nextRedraw  time.Time
	nextWeather time.Time
	forced      bool

	observed   bool
	lastMinute time.Time
	lastHour   time.Time
}

// NewScheduler starts with a forced redraw and weather due immediately.
func NewScheduler(poll time.Duration) *Scheduler {
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	return &Scheduler{poll: poll, forced: true}
}

// Plan records now as observed and reports what is due. Both weather triggers
// in the same tick collapse into one refresh.
func (s *Scheduler) Plan(now time.Time) Plan {
	minute, hour := minuteOf(now), hourOf(now)
	var p Plan
	if s.observed {
		p.MinuteEdge = !minute.Equal(s.lastMinute)
		p.HourEdge = !hour.Equal(s.lastHour)
	}
	s.observe(now)

	p.Redraw = s.forced || p.MinuteEdge || !now.Before(s.nextRedraw)
	p.RefreshWeather = p.HourEdge || !now.Before(s.nextWeather)
	return p
}

// ForceRedraw makes the next Plan redraw regardless of deadlines.
func (s *Scheduler) ForceRedraw() { s.forced = true }

func (s *Scheduler) Forced() bool { return s.forced }

// RedrawDone clears the forced flag, pushes the fallback deadline out and
// records now as observed, so a frame drawn outside Plan still anchors the
// next minute edge.
func (s *Scheduler) RedrawDone(now time.Time) {
	s.forced = false
	s.nextRedraw = now.Add(RedrawFallback)
	s.observe(now)
}

// observe never moves the last seen minute backwards.
func (s *Scheduler) observe(now time.Time) {
	minute := minuteOf(now)
	if s.observed && minute.Before(s.lastMinute) {
		return
	}
	s.observed = true
	s.lastMinute, s.lastHour = minute, hourOf(now)
}

func (s *Scheduler) SetWeatherDeadline(t time.Time) { s.nextWeather = t }

func (s *Scheduler) Schedule() models.RefreshSchedule {
	return models.RefreshSchedule{NextWeatherRefresh: s.nextWeather, NextForcedRedraw: s.nextRedraw}
}

// NextWake is how long to sleep before the next tick: the time to the earliest
// of the next minute boundary, both deadlines and any extra deadline, clamped
// to [0, poll]. Zero extra deadlines are ignored.
func (s *Scheduler) NextWake(now time.Time, extra ...time.Time) time.Duration {
	if s.forced {
		return 0
	}
	earliest := minuteOf(now).Add(time.Minute)
	consider := func(t time.Time) {
		if !t.IsZero() && t.Before(earliest) {
			earliest = t
		}
	}
	consider(s.nextRedraw)
	consider(s.nextWeather)
	for _, t := range extra {
		consider(t)
	}

	d := earliest.Sub(now)
	switch {
	case d < 0:
		return 0
	case d > s.poll:
		return s.poll
	}
	return d
}

func minuteOf(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, t.Hour(), t.Minute(), 0, 0, t.Location())
}

func hourOf(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, t.Hour(), 0, 0, 0, t.Location())
}
