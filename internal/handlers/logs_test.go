package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wall_display/internal/models"
	"wall_display/internal/service"
)

// stubEventRepo backs a real EventLogService so filter checks run end to end.
type stubEventRepo struct {
	events []models.DisplayEvent
	calls  int
}

func (r *stubEventRepo) Append(ctx context.Context, e models.DisplayEvent) error { return nil }

func (r *stubEventRepo) List(ctx context.Context, from, to time.Time, typ string) ([]models.DisplayEvent, error) {
	r.calls++
	return r.events, nil
}

func TestLogsHandler_ReturnsEvents(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	events := []models.DisplayEvent{
		{EventID: "e1", OccurredAt: now, Type: models.EventStartup, Description: "startup"},
		{EventID: "e2", OccurredAt: now.Add(time.Second), Type: models.EventAlarmTriggered, Description: "alarm"},
	}
	logs := &mockEventLog{resp: events}
	r := newTestRouter(&service.Service{
		Authorization: &mockAuth{parseUser: "operator"},
		EventLog:      logs,
	})

	w := httptest.NewRecorder()
	q := "/api/v1/logs/?from=" + now.Format(time.RFC3339) + "&to=" + now.Add(2*time.Second).Format(time.RFC3339) + "&type=alarm_triggered&limit=20"
	r.ServeHTTP(w, withHeaders(httptest.NewRequest(http.MethodGet, q, nil), authHeader("valid")))
	if w.Code != http.StatusOK {
		t.Fatalf("logs status=%d, body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Count  int                   `json:"count"`
		Events []models.DisplayEvent `json:"events"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Count != 2 || len(out.Events) != 2 {
		t.Fatalf("unexpected response: %+v", out)
	}
	if logs.last.Type != "alarm_triggered" || logs.last.Limit != 20 {
		t.Fatalf("filter reaching service = %+v", logs.last)
	}
	if !logs.last.From.Equal(now) || !logs.last.To.Equal(now.Add(2*time.Second)) {
		t.Fatalf("range = %v..%v", logs.last.From, logs.last.To)
	}
}

func TestLogsHandler_DateOnlyToIsEndOfDay(t *testing.T) {
	logs := &mockEventLog{}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{parseUser: "operator"}, EventLog: logs})

	w := httptest.NewRecorder()
	req := withHeaders(httptest.NewRequest(http.MethodGet, "/api/v1/logs/?from=2026-10-14&to=2026-10-14", nil), authHeader("valid"))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	wantFrom := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	wantTo := wantFrom.Add(24*time.Hour - time.Nanosecond)
	if !logs.last.From.Equal(wantFrom) || !logs.last.To.Equal(wantTo) {
		t.Fatalf("range = %v..%v, want %v..%v", logs.last.From, logs.last.To, wantFrom, wantTo)
	}
}

func TestLogsHandler_BadFiltersAre400(t *testing.T) {
	cases := []struct {
		name  string
		query string
	}{
		{name: "unparseable from", query: "from=notatime"},
		{name: "unparseable to", query: "to=14/10/2026"},
		{name: "inverted range", query: "from=2026-10-14&to=2026-10-13"},
		{name: "unknown type", query: "type=MODE_CHANGE"},
		{name: "zero limit", query: "limit=0"},
		{name: "non-numeric limit", query: "limit=ten"},
		{name: "limit over cap", query: "limit=5000"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &stubEventRepo{}
			r := newTestRouter(&service.Service{
				Authorization: &mockAuth{parseUser: "operator"},
				EventLog:      service.NewEventLogService(repo),
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, withHeaders(httptest.NewRequest(http.MethodGet, "/api/v1/logs/?"+tc.query, nil), authHeader("valid")))
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status=%d, want 400 (body=%s)", w.Code, w.Body.String())
			}
			var out struct {
				Error string `json:"error"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil || out.Error == "" {
				t.Fatalf("expected an error message, body=%s", w.Body.String())
			}
			if repo.calls != 0 {
				t.Fatalf("storage queried for a bad filter")
			}
		})
	}
}

func TestLogsHandler_LimitKeepsNewest(t *testing.T) {
	base := time.Date(2026, 10, 14, 5, 0, 0, 0, time.UTC)
	repo := &stubEventRepo{events: []models.DisplayEvent{
		{EventID: "e1", OccurredAt: base, Type: models.EventAlarmTriggered},
		{EventID: "e2", OccurredAt: base.Add(time.Minute), Type: models.EventAlarmDismissed},
		{EventID: "e3", OccurredAt: base.Add(2 * time.Minute), Type: models.EventWeatherOK},
	}}
	r := newTestRouter(&service.Service{
		Authorization: &mockAuth{parseUser: "operator"},
		EventLog:      service.NewEventLogService(repo),
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, withHeaders(httptest.NewRequest(http.MethodGet, "/api/v1/logs/?limit=1", nil), authHeader("valid")))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Count  int                   `json:"count"`
		Events []models.DisplayEvent `json:"events"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Count != 1 || out.Events[0].EventID != "e3" {
		t.Fatalf("unexpected response: %+v", out)
	}
}

func TestLogsHandler_ServiceError(t *testing.T) {
	r := newTestRouter(&service.Service{
		Authorization: &mockAuth{parseUser: "operator"},
		EventLog:      &mockEventLog{err: errors.New("db down")},
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, withHeaders(httptest.NewRequest(http.MethodGet, "/api/v1/logs/", nil), authHeader("valid")))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	var out struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Error != errListLogs {
		t.Fatalf("error = %q, want %q", out.Error, errListLogs)
	}
}

func TestParseQueryTime(t *testing.T) {
	for _, s := range []string{"2026-10-14T06:00:00Z", "2026-10-14 06:00:00", "2026-10-14"} {
		if _, err := parseQueryTime(s); err != nil {
			t.Fatalf("parseQueryTime(%q): %v", s, err)
		}
	}
	if _, err := parseQueryTime("14/10/2026"); !errors.Is(err, errTimeLayout) {
		t.Fatalf("err = %v, want errTimeLayout", err)
	}
}
