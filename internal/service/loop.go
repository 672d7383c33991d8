package service

import (
	"context"
	"fmt"
	"time"

	"wall_display/internal/input"
	"wall_display/internal/logger"
	"wall_display/internal/models"
	"wall_display/internal/repository"

	"github.com/google/uuid"
)

// DefaultTouchDebounce is the minimum gap between two accepted touches.
const DefaultTouchDebounce = 700 * time.Millisecond

// Clock is the loop's time source.
type Clock interface {
	Now() time.Time
	// Sleep returns early with ctx.Err() when ctx is done.
	Sleep(ctx context.Context, d time.Duration) error
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

type Renderer interface {
	DrawFrame(d models.DisplayDecision) error
}

// BacklightSession is an acquired backlight. Release restores the default level.
type BacklightSession interface {
	Set(level int) error
	Release() error
}

// MetricsRecorder receives loop counters. A nil recorder is allowed.
type MetricsRecorder interface {
	Redraw()
	WeatherRefresh(ok bool)
	AlarmTransition(to models.AlarmPhase)
	Touch()
	Backlight(level int)
}

// StatusListener is told about every published status.
type StatusListener interface {
	Publish(s models.DisplayStatus)
}

// LoopDeps are the collaborators of an EventLoop. Status, Events, Metrics
// and Listener are optional.
type LoopDeps struct {
	Clock     Clock
	Input     input.Source
	Renderer  Renderer
	Backlight BacklightSession
	Weather   *WeatherCache
	Alarm     *AlarmController
	Resolver  DisplayModeResolver
	Scheduler *Scheduler

	Status   repository.StatusRepo
	Events   repository.EventRepo
	Metrics  MetricsRecorder
	Listener StatusListener

	TouchDebounce time.Duration
	Log           *logger.Logger
}

// EventLoop is the single goroutine that owns all display state.
type EventLoop struct {
	LoopDeps

	panel     models.PanelSelection
	prev      time.Time
	lastTouch time.Time

	level    int
	hasLevel bool

	redraws int
}

func NewEventLoop(d LoopDeps) *EventLoop {
	if d.Clock == nil {
		d.Clock = SystemClock
	}
	if d.Input == nil {
		d.Input = input.Sources{}
	}
	if d.Scheduler == nil {
		d.Scheduler = NewScheduler(DefaultPollInterval)
	}
	if d.TouchDebounce <= 0 {
		d.TouchDebounce = DefaultTouchDebounce
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	return &EventLoop{LoopDeps: d}
}

// Redraws is the number of frames drawn so far.
func (l *EventLoop) Redraws() int { return l.redraws }

func (l *EventLoop) Panel() models.PanelSelection { return l.panel }

// Run draws, refreshes weather, draws again and then ticks until a quit
// event or ctx is done. A quit returns nil. The backlight is released on
// every exit, including a panic.
func (l *EventLoop) Run(ctx context.Context) (err error) {
	defer func() {
		r := recover()
		l.finish(err, r)
		if r != nil {
			panic(r)
		}
	}()

	now := l.Clock.Now()
	l.prev = now
	l.record(ctx, now, models.EventStartup, "display loop started", map[string]any{
		"alarm": l.Alarm.State().AlarmTime.String(),
	})

	// first frame before the network so the screen is not left black
	l.draw(ctx, now)
	l.refreshWeather(ctx, now)
	l.draw(ctx, l.Clock.Now())

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		now := l.Clock.Now()
		if l.drainInput(ctx, now) {
			return nil
		}
		l.tick(ctx, now)
		l.prev = now

		var extra []time.Time
		if at, ok := l.Alarm.DismissDeadline(); ok {
			extra = append(extra, at)
		}
		if err := l.Clock.Sleep(ctx, l.Scheduler.NextWake(now, extra...)); err != nil {
			return err
		}
	}
}

// drainInput handles every pending event and reports whether to quit.
func (l *EventLoop) drainInput(ctx context.Context, now time.Time) bool {
	for _, ev := range l.Input.Poll() {
		if ev.Ends() {
			l.Log.Infow("quit requested", "source", ev.Kind.String())
			return true
		}
		if ev.Kind == input.Touch {
			l.handleTouch(ctx, now, ev)
		}
	}
	return false
}

func (l *EventLoop) handleTouch(ctx context.Context, now time.Time, ev input.Event) {
	if !l.lastTouch.IsZero() && now.Sub(l.lastTouch) < l.TouchDebounce {
		return
	}
	l.lastTouch = now
	if l.Metrics != nil {
		l.Metrics.Touch()
	}

	if l.Alarm.State().Triggered() {
		tr := l.Alarm.Dismiss(now)
		l.onAlarmTransition(ctx, now, tr, "dismissed by touch")
		return
	}

	l.panel = l.panel.Toggle()
	l.Scheduler.ForceRedraw()
	l.record(ctx, now, models.EventPanel, "panel "+l.panel.String(), map[string]any{
		"panel": l.panel.String(),
		"x":     ev.Pos.X,
		"y":     ev.Pos.Y,
	})
}

func (l *EventLoop) tick(ctx context.Context, now time.Time) {
	tr := l.Alarm.Tick(l.prev, now)
	if tr.Changed() {
		reason := "auto-dismissed"
		if tr.To == models.AlarmTriggered {
			reason = "alarm time reached"
		}
		l.onAlarmTransition(ctx, now, tr, reason)
	}

	plan := l.Scheduler.Plan(now)
	if plan.RefreshWeather {
		l.refreshWeather(ctx, now)
	}
	if plan.Redraw || l.Scheduler.Forced() {
		l.draw(ctx, now)
	}
}

func (l *EventLoop) onAlarmTransition(ctx context.Context, now time.Time, tr AlarmTransition, reason string) {
	if l.Metrics != nil {
		l.Metrics.AlarmTransition(tr.To)
	}
	if !tr.Visible() {
		l.Log.Debugw("alarm re-armed", "at", now)
		return
	}

	// any alarm change returns to the primary view
	l.panel = models.PanelNone
	l.Scheduler.ForceRedraw()

	typ := models.EventAlarmDismissed
	if tr.To == models.AlarmTriggered {
		typ = models.EventAlarmTriggered
	}
	l.Log.Infow("alarm "+tr.To.String(), "reason", reason, "at", now)
	l.record(ctx, now, typ, reason, map[string]any{
		"from": tr.From.String(),
		"to":   tr.To.String(),
	})
}

func (l *EventLoop) refreshWeather(ctx context.Context, now time.Time) {
	out := l.Weather.Refresh(ctx, now)
	l.Scheduler.SetWeatherDeadline(out.Next)
	if l.Metrics != nil {
		l.Metrics.WeatherRefresh(out.Err == nil)
	}
	if out.Err != nil {
		l.record(ctx, now, models.EventWeatherFailed, out.Err.Error(), map[string]any{"retry_at": out.Next})
		return
	}
	l.Scheduler.ForceRedraw()
	l.record(ctx, now, models.EventWeatherOK, WeatherLine(l.Weather.Snapshot()), map[string]any{"next": out.Next})
}

func (l *EventLoop) draw(ctx context.Context, now time.Time) {
	alarm := l.Alarm.State()
	d := l.Resolver.Resolve(now, alarm, l.panel, l.Weather.Snapshot())

	l.redraws++
	if l.Metrics != nil {
		l.Metrics.Redraw()
	}
	if l.Renderer != nil {
		if err := l.Renderer.DrawFrame(d); err != nil {
			l.Log.Errorw("draw frame failed", "error", err)
		}
	}
	l.Scheduler.RedrawDone(now)
	l.applyBacklight(ctx, now, d.Backlight)
	l.publish(ctx, now, alarm, d)
}

// applyBacklight writes only when the level changes. A failed write is
// retried on the next draw.
func (l *EventLoop) applyBacklight(ctx context.Context, now time.Time, level int) {
	if l.Backlight == nil || (l.hasLevel && l.level == level) {
		return
	}
	if err := l.Backlight.Set(level); err != nil {
		l.hasLevel = false
		l.Log.Errorw("set backlight failed", "level", level, "error", err)
		return
	}
	from := l.level
	l.level, l.hasLevel = level, true
	if l.Metrics != nil {
		l.Metrics.Backlight(level)
	}
	l.record(ctx, now, models.EventBacklight, fmt.Sprintf("backlight %d", level), map[string]any{
		"from": from,
		"to":   level,
	})
}

func (l *EventLoop) publish(ctx context.Context, now time.Time, alarm models.AlarmState, d models.DisplayDecision) {
	st := models.DisplayStatus{
		ID:          1,
		Alarm:       alarm,
		Panel:       l.panel,
		NightMode:   l.Resolver.IsNight(now),
		Decision:    d,
		Weather:     l.Weather.Snapshot(),
		Schedule:    l.Scheduler.Schedule(),
		Redraws:     l.redraws,
		WeatherRuns: l.Weather.Calls(),
		UpdatedAt:   now,
	}
	if l.Status != nil {
		if err := l.Status.Save(ctx, st); err != nil {
			l.Log.Errorw("publish status failed", "error", err)
		}
	}
	if l.Listener != nil {
		l.Listener.Publish(st)
	}
}

func (l *EventLoop) record(ctx context.Context, now time.Time, typ, desc string, meta map[string]any) {
	if l.Events == nil {
		return
	}
	err := l.Events.Append(ctx, models.DisplayEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  now,
		Type:        typ,
		Description: desc,
		Metadata:    meta,
	})
	if err != nil {
		l.Log.Errorw("append event failed", "type", typ, "error", err)
	}
}

// finish runs on every exit path. ctx may already be done, so the shutdown
// event uses a short detached context.
func (l *EventLoop) finish(err error, panicked any) {
	if l.Backlight != nil {
		if rerr := l.Backlight.Release(); rerr != nil {
			l.Log.Errorw("restore backlight failed", "error", rerr)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	l.record(ctx, l.Clock.Now(), models.EventShutdown, "display loop stopped", map[string]any{
		"redraws":       l.redraws,
		"weather_calls": l.Weather.Calls(),
	})

	if panicked != nil {
		l.Log.Errorw("display loop panicked", "panic", panicked)
	}
	l.Log.Infow(fmt.Sprintf("Quitting: %d redraws, %d weather api calls", l.redraws, l.Weather.Calls()),
		"redraws", l.redraws,
		"weather_calls", l.Weather.Calls(),
		"error", err)
}
