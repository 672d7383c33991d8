package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wall_display/internal/models"
)

type StatusSQLite struct {
	db *sql.DB
}

func NewStatusSQLite(db *sql.DB) *StatusSQLite {
	return &StatusSQLite{db: db}
}

const (
	displayStatusRowID = 1

	upsertStatusSQL = `
		INSERT INTO display_status (id, alarm_phase, panel, night_mode, backlight, redraws, weather_calls, payload, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			alarm_phase=excluded.alarm_phase,
			panel=excluded.panel,
			night_mode=excluded.night_mode,
			backlight=excluded.backlight,
			redraws=excluded.redraws,
			weather_calls=excluded.weather_calls,
			payload=excluded.payload,
			updated_at=excluded.updated_at
	`

	selectStatusSQL = `SELECT payload, updated_at FROM display_status WHERE id=?`
)

// Save upserts row 1. The scalar columns are for ad-hoc SQL; the payload
// column is the full JSON the API serves.
func (r *StatusSQLite) Save(ctx context.Context, s models.DisplayStatus) error {
	s.ID = displayStatusRowID
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = time.Now()
	}
	s.UpdatedAt = s.UpdatedAt.UTC()

	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal display status: %w", err)
	}

	_, err = r.db.ExecContext(ctx, upsertStatusSQL,
		displayStatusRowID,
		s.Alarm.Phase.String(),
		s.Panel.String(),
		s.NightMode,
		s.Decision.Backlight,
		s.Redraws,
		s.WeatherRuns,
		string(payload),
		s.UpdatedAt,
	)
	return err
}

// Load returns the zero status (ID 0) when nothing was published yet.
func (r *StatusSQLite) Load(ctx context.Context) (models.DisplayStatus, error) {
	var (
		payload   string
		updatedAt time.Time
	)
	err := r.db.QueryRowContext(ctx, selectStatusSQL, displayStatusRowID).Scan(&payload, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DisplayStatus{}, nil
	}
	if err != nil {
		return models.DisplayStatus{}, err
	}

	var s models.DisplayStatus
	if err := json.Unmarshal([]byte(payload), &s); err != nil {
		return models.DisplayStatus{}, fmt.Errorf("decode display status: %w", err)
	}
	s.ID = displayStatusRowID
	s.UpdatedAt = updatedAt.UTC()
	return s, nil
}
