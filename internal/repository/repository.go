package repository

import (
	"context"
	"database/sql"
	"time"

	"wall_display/internal/models"
)

// StatusRepo holds the single published status row. The display loop is
// the only writer.
type StatusRepo interface {
	Save(ctx context.Context, s models.DisplayStatus) error
	Load(ctx context.Context) (models.DisplayStatus, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.DisplayEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.DisplayEvent, error)
}

type Repository struct {
	StatusRepo StatusRepo
	EventRepo  EventRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		StatusRepo: NewStatusSQLite(db),
		EventRepo:  NewEventSQLite(db),
	}
}
