package service

import (
	"context"
	"sync"
	"time"

	"wall_display/internal/models"
	"wall_display/internal/repository"
)

// MonitoringService serves the status API. It keeps the last status the
// loop published in memory and falls back to the repository after a restart.
type MonitoringService struct {
	statusRepo repository.StatusRepo
	now        func() time.Time

	mu   sync.RWMutex
	live *models.DisplayStatus
	subs map[chan models.DisplayStatus]struct{}
}

func NewMonitoringService(statusRepo repository.StatusRepo) *MonitoringService {
	return &MonitoringService{statusRepo: statusRepo, now: time.Now}
}

// GetStatus returns the latest published status, or a baseline before the
// loop has drawn its first frame.
func (s *MonitoringService) GetStatus(ctx context.Context) (models.DisplayStatus, error) {
	s.mu.RLock()
	live := s.live
	s.mu.RUnlock()
	if live != nil {
		return *live, nil
	}

	st, err := s.statusRepo.Load(ctx)
	if err != nil {
		return models.DisplayStatus{}, err
	}
	if st.ID == 0 {
		return s.baselineStatus(), nil
	}
	st.UpdatedAt = toUTC(st.UpdatedAt)
	return st, nil
}

// Publish records st as the live status and hands it to every subscriber.
// It is called from the display loop and never blocks on a subscriber.
func (s *MonitoringService) Publish(st models.DisplayStatus) {
	st.UpdatedAt = toUTC(st.UpdatedAt)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.live = &st
	for ch := range s.subs {
		// replace an unread status with the newer one
		select {
		case <-ch:
		default:
		}
		ch <- st
	}
}

func (s *MonitoringService) Subscribe() (<-chan models.DisplayStatus, func()) {
	ch := make(chan models.DisplayStatus, 1)
	s.mu.Lock()
	if s.subs == nil {
		s.subs = make(map[chan models.DisplayStatus]struct{})
	}
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, ch)
			s.mu.Unlock()
		})
	}
}

// subscribers is the number of open subscriptions.
func (s *MonitoringService) subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

func (s *MonitoringService) baselineStatus() models.DisplayStatus {
	return models.DisplayStatus{
		ID:    1,
		Alarm: models.AlarmState{Phase: models.AlarmArmed},
		Panel: models.PanelNone,
		Decision: models.DisplayDecision{
			Background:  models.BackgroundNormal,
			View:        models.ViewPrimary,
			WeatherLine: LoadingWeatherText,
		},
		UpdatedAt: s.now().UTC(),
	}
}

// toUTC normalizes non-zero time to UTC, preserving zero values.
func toUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
