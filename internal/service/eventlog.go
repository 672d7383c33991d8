package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"wall_display/internal/models"
	"wall_display/internal/repository"
)

// MaxLogEvents caps one List call.
const MaxLogEvents = 1000

var (
	ErrInvalidTimeRange = errors.New("invalid time range: from must be <= to")
	ErrUnknownEventType = errors.New("unknown event type")
	ErrInvalidLimit     = errors.New("invalid limit")
)

// EventLogService reads the display's event log for the HTTP API.
type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

// List returns matching events oldest first. When more than the limit match,
// the newest ones are kept, since a dashboard asks "what happened lately".
func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.DisplayEvent, error) {
	f, err := cleanFilter(f)
	if err != nil {
		return nil, err
	}
	events, err := s.eventRepo.List(ctx, f.From, f.To, f.Type)
	if err != nil {
		return nil, fmt.Errorf("list display events: %w", err)
	}
	if len(events) > f.Limit {
		events = events[len(events)-f.Limit:]
	}
	return events, nil
}

// cleanFilter moves bounds to UTC, canonicalises the type and applies the
// default limit.
func cleanFilter(f LogFilter) (LogFilter, error) {
	if !f.From.IsZero() {
		f.From = f.From.UTC()
	}
	if !f.To.IsZero() {
		f.To = f.To.UTC()
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return LogFilter{}, ErrInvalidTimeRange
	}

	f.Type = strings.ToUpper(strings.TrimSpace(f.Type))
	if f.Type != "" && !slices.Contains(models.EventTypes, f.Type) {
		return LogFilter{}, fmt.Errorf("%w %q", ErrUnknownEventType, f.Type)
	}

	switch {
	case f.Limit < 0 || f.Limit > MaxLogEvents:
		return LogFilter{}, fmt.Errorf("%w %d: must be 0..%d", ErrInvalidLimit, f.Limit, MaxLogEvents)
	case f.Limit == 0:
		f.Limit = MaxLogEvents
	}
	return f, nil
}

// IsFilterError reports whether err came from a bad filter rather than storage.
func IsFilterError(err error) bool {
	return errors.Is(err, ErrInvalidTimeRange) || errors.Is(err, ErrUnknownEventType) || errors.Is(err, ErrInvalidLimit)
}
