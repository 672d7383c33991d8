package service

import (
	"context"
	"time"

	"wall_display/internal/models"
	"wall_display/internal/repository"
)

type Authorization interface {
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (string, error)
}

// Monitoring exposes the last status published by the display loop.
type Monitoring interface {
	GetStatus(ctx context.Context) (models.DisplayStatus, error)
	// Subscribe delivers each status the loop publishes from now on. Slow
	// readers only see the newest one. cancel must be called when done.
	Subscribe() (updates <-chan models.DisplayStatus, cancel func())
}

// EventLog exposes the append-only display log with filtering.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.DisplayEvent, error)
}

// LogFilter narrows the event log by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "" or one of models.EventTypes, case-insensitive
	// Limit keeps only the newest Limit events; zero means MaxLogEvents.
	Limit int
}

// Service is what the HTTP layer sees. The display loop itself is built
// separately because it owns the hardware.
type Service struct {
	Monitoring
	EventLog
	Authorization
}

// Listener returns the Monitoring implementation as a loop StatusListener, or nil.
func (s *Service) Listener() StatusListener {
	if l, ok := s.Monitoring.(StatusListener); ok {
		return l
	}
	return nil
}

func NewService(repos *repository.Repository, creds Credentials) *Service {
	return &Service{
		Monitoring:    NewMonitoringService(repos.StatusRepo),
		EventLog:      NewEventLogService(repos.EventRepo),
		Authorization: NewAuthService(creds),
	}
}
