package handlers

import (
	"context"
	"net/http"
	"sync"

	"wall_display/internal/models"
	"wall_display/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	genTokenToken string
	genTokenErr   error
	parseUser     string
	parseErr      error

	lastGenUsername string
	lastGenPassword string
	lastParseToken  string
}

func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (string, error) {
	m.lastParseToken = token
	return m.parseUser, m.parseErr
}

// mockMonitoring serves a fixed status. Tests publish to subscribers
// through updates; cancelled reports whether the subscriber let go.
type mockMonitoring struct {
	status models.DisplayStatus
	err    error

	mu        sync.Mutex
	calls     int
	updates   chan models.DisplayStatus
	subscribe chan struct{}
	cancelled chan struct{}
}

func newMockMonitoring(st models.DisplayStatus) *mockMonitoring {
	return &mockMonitoring{
		status:    st,
		updates:   make(chan models.DisplayStatus, 1),
		subscribe: make(chan struct{}, 1),
		cancelled: make(chan struct{}),
	}
}

func (m *mockMonitoring) GetStatus(ctx context.Context) (models.DisplayStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.status, m.err
}

func (m *mockMonitoring) Subscribe() (<-chan models.DisplayStatus, func()) {
	if m.updates == nil {
		return nil, func() {}
	}
	m.subscribe <- struct{}{}
	var once sync.Once
	return m.updates, func() { once.Do(func() { close(m.cancelled) }) }
}

func (m *mockMonitoring) getCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockEventLog struct {
	resp []models.DisplayEvent
	err  error
	last service.LogFilter
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.DisplayEvent, error) {
	m.last = f
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func withHeaders(req *http.Request, hdr http.Header) *http.Request {
	for k, vv := range hdr {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	return req
}
