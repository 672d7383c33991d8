package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"wall_display/internal/logger"
	"wall_display/internal/models"
)

const (
	WeatherRefreshInterval = time.Hour
	WeatherFailureBackoff  = time.Minute
	// ForecastHour is the local reference hour for the one forecast slot kept per day.
	ForecastHour = 15
)

var ErrIncompleteWeather = errors.New("weather refresh incomplete")

// WeatherProvider fetches current conditions and the multi-day forecast.
type WeatherProvider interface {
	FetchCurrentConditions(ctx context.Context) (models.CurrentConditions, error)
	FetchForecast(ctx context.Context) (models.Forecast, error)
}

// RefreshOutcome is the result of one WeatherCache.Refresh.
type RefreshOutcome struct {
	Updated bool
	Next    time.Time
	Err     error
}

// WeatherCache keeps the last consistent snapshot and the next refresh time.
type WeatherCache struct {
	provider WeatherProvider
	loc      *time.Location
	log      *logger.Logger

	snapshot models.WeatherSnapshot
	next     time.Time
	calls    int
}

// NewWeatherCache returns a cache that is due immediately.
func NewWeatherCache(p WeatherProvider, loc *time.Location, log *logger.Logger) *WeatherCache {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = logger.Nop()
	}
	return &WeatherCache{provider: p, loc: loc, log: log}
}

// Due reports whether the refresh deadline has passed.
func (c *WeatherCache) Due(now time.Time) bool { return !now.Before(c.next) }

func (c *WeatherCache) NextRefresh() time.Time { return c.next }

func (c *WeatherCache) Snapshot() models.WeatherSnapshot { return c.snapshot }

// Calls is the number of refresh attempts so far.
func (c *WeatherCache) Calls() int { return c.calls }

// Refresh fetches both halves. The snapshot is replaced only when both succeed;
// on failure the old one stays and the next attempt is a minute out.
func (c *WeatherCache) Refresh(ctx context.Context, now time.Time) RefreshOutcome {
	c.calls++

	cur, err := c.provider.FetchCurrentConditions(ctx)
	if err != nil {
		return c.fail(now, fmt.Errorf("%w: current conditions: %w", ErrIncompleteWeather, err))
	}
	fc, err := c.provider.FetchForecast(ctx)
	if err != nil {
		return c.fail(now, fmt.Errorf("%w: forecast: %w", ErrIncompleteWeather, err))
	}

	c.snapshot = models.WeatherSnapshot{
		ConditionText: cur.ConditionText,
		Temperature:   cur.Temperature,
		IconID:        cur.IconID,
		Forecast:      FilterForecast(fc.Entries, c.loc),
		FetchedAt:     now,
	}
	c.next = now.Add(WeatherRefreshInterval)
	c.log.Debugw("weather refreshed",
		"condition", cur.ConditionText,
		"temperature", cur.Temperature,
		"forecast_days", len(c.snapshot.Forecast),
		"next", c.next)
	return RefreshOutcome{Updated: true, Next: c.next}
}

func (c *WeatherCache) fail(now time.Time, err error) RefreshOutcome {
	c.next = now.Add(WeatherFailureBackoff)
	c.log.Errorw("could not load weather", "error", err, "retry_at", c.next)
	return RefreshOutcome{Next: c.next, Err: err}
}

// ForecastSlack is how far from ForecastHour a slot may sit and still
// represent its day. It is half the provider's 3-hour grid, so every full day
// in any zone keeps exactly one slot.
const ForecastSlack = 90 * time.Minute

// FilterForecast keeps one entry per calendar day in loc: the one closest to
// 15:00 local time, within ForecastSlack, earlier slot on a tie. The result
// is in chronological order.
func FilterForecast(entries []models.ForecastEntry, loc *time.Location) []models.ForecastEntry {
	type pick struct {
		entry models.ForecastEntry
		dist  time.Duration
	}
	best := make(map[string]pick)
	for _, e := range entries {
		t := e.Time.In(loc)
		ref := time.Date(t.Year(), t.Month(), t.Day(), ForecastHour, 0, 0, 0, loc)
		dist := t.Sub(ref).Abs()
		if dist > ForecastSlack {
			continue
		}
		day := t.Format(time.DateOnly)
		if cur, ok := best[day]; ok {
			if dist > cur.dist || (dist == cur.dist && !t.Before(cur.entry.Time)) {
				continue
			}
		}
		e.Time = t
		best[day] = pick{entry: e, dist: dist}
	}
	out := make([]models.ForecastEntry, 0, len(best))
	for _, p := range best {
		out = append(out, p.entry)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out
}
