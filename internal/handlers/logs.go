package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"wall_display/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errListLogs = "failed to load logs"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// queryError is a malformed query parameter, reported back as-is.
type queryError struct {
	param string
	hint  string
}

func (e *queryError) Error() string {
	return fmt.Sprintf("invalid '%s'; %s", e.param, e.hint)
}

// @Summary      List display events
// @Description  Returns display events oldest first. 'from' and 'to' accept RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD'; a date-only 'to' covers that whole day. 'limit' keeps the newest N (default and max 1000).
// @Tags         logs
// @Produce      json
// @Param        from   query   string  false  "Start of range"  example(2026-10-01)
// @Param        to     query   string  false  "End of range, inclusive"  example(2026-10-31)
// @Param        type   query   string  false  "Event type"  Enums(STARTUP,SHUTDOWN,ALARM_TRIGGERED,ALARM_DISMISSED,WEATHER_OK,WEATHER_FAILED,BACKLIGHT,PANEL)
// @Param        limit  query   int     false  "Newest N events"  minimum(1)  maximum(1000)
// @Success      200   {object}  map[string]interface{}  "count, events"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/logs [get]
// @Security     BearerAuth
func (h *Handler) getLogs(c *gin.Context) {
	f, err := parseLogFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	events, err := h.services.EventLog.List(c.Request.Context(), f)
	switch {
	case service.IsFilterError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		if h.log != nil {
			h.log.Errorw("logs_list_failed", "err", err, "from", f.From, "to", f.To, "type", f.Type)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": errListLogs})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}

// parseLogFilter reads the query string. Range order, type and limit bounds
// are checked by the event log service.
func parseLogFilter(c *gin.Context) (service.LogFilter, error) {
	var (
		f   service.LogFilter
		err error
	)
	if qs := c.Query("from"); qs != "" {
		if f.From, err = parseQueryTime(qs); err != nil {
			return service.LogFilter{}, &queryError{param: "from", hint: "use RFC3339 or YYYY-MM-DD"}
		}
	}
	if qs := c.Query("to"); qs != "" {
		if f.To, err = parseQueryTime(qs); err != nil {
			return service.LogFilter{}, &queryError{param: "to", hint: "use RFC3339 or YYYY-MM-DD"}
		}
		if isDateOnly(qs) {
			f.To = f.To.Add(24*time.Hour - time.Nanosecond)
		}
	}
	if qs := c.Query("limit"); qs != "" {
		if f.Limit, err = strconv.Atoi(qs); err != nil || f.Limit == 0 {
			return service.LogFilter{}, &queryError{param: "limit", hint: "use a positive integer"}
		}
	}
	f.Type = c.Query("type")
	return f, nil
}

// isDateOnly reports whether s has no time of day.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

var errTimeLayout = errors.New("expected RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD'")

func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("time %q: %w", s, errTimeLayout)
}
