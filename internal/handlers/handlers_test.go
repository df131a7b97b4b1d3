package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barbersaas/internal/audit"
	"github.com/BruksfildServices01/barbersaas/internal/automation"
	"github.com/BruksfildServices01/barbersaas/internal/config"
	"github.com/BruksfildServices01/barbersaas/internal/httperr"
	"github.com/BruksfildServices01/barbersaas/internal/infra/repository"
	"github.com/BruksfildServices01/barbersaas/internal/models"
	"github.com/BruksfildServices01/barbersaas/internal/notify"
	"github.com/BruksfildServices01/barbersaas/internal/routes"
	"github.com/BruksfildServices01/barbersaas/internal/snapshot"
)

type recordingQueue struct {
	mu    sync.Mutex
	tasks []automation.Task
}

func (q *recordingQueue) Enqueue(t automation.Task) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, t)
	return true
}

func (q *recordingQueue) has(trigger string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, t := range q.tasks {
		if t.Trigger == trigger {
			return true
		}
	}
	return false
}

type recordingSink struct {
	mu     sync.Mutex
	events []audit.Event
}

func (s *recordingSink) Log(ev audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func (s *recordingSink) find(action string) (audit.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ev := range s.events {
		if ev.Action == action {
			return ev, true
		}
	}
	return audit.Event{}, false
}

type testServer struct {
	router *gin.Engine
	store  *repository.SnapshotStore
	queue  *recordingQueue
	audit  *audit.Dispatcher
	sink   *recordingSink
}

func newServer(t *testing.T, adminToken string) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repository.NewSnapshotStore(snapshot.NewFileBackend(filepath.Join(t.TempDir(), "db.json")))
	t.Cleanup(func() { store.Close() })

	snap := models.NewSnapshot()
	snap.Services = []models.Service{{ID: "svc-corte", Name: "Corte", Duration: 30, Price: 45}}
	snap.Barbers = []models.Barber{{ID: "b-1", Name: "Rafa"}}
	require.NoError(t, store.ReplaceAll(context.Background(), snap))

	cfg := &config.Config{JWTSecret: "test-secret", AdminToken: adminToken}
	queue := &recordingQueue{}
	sink := &recordingSink{}
	dispatcher := audit.NewDispatcher(sink)
	t.Cleanup(dispatcher.Close)
	scheduler := automation.NewScheduler(store, notify.NewLogSender(), automation.Options{Location: time.UTC})

	r := gin.New()
	routes.RegisterRoutes(r, routes.Dependencies{
		Config:    cfg,
		Store:     store,
		Scheduler: scheduler,
		Outbox:    queue,
		Audit:     dispatcher,
		Location:  time.UTC,
	})

	return &testServer{router: r, store: store, queue: queue, audit: dispatcher, sink: sink}
}

func (s *testServer) do(t *testing.T, method, path string, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func futureDate() string {
	return time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02")
}

func booking(date, hm string) map[string]string {
	return map[string]string{
		"client_name":  "Ana",
		"client_phone": "(11) 98888-7777",
		"service_id":   "svc-corte",
		"barber_id":    "b-1",
		"date":         date,
		"time":         hm,
	}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) httperr.HTTPError {
	t.Helper()
	var out httperr.HTTPError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestCreateAppointmentAndConflict(t *testing.T) {
	s := newServer(t, "")
	date := futureDate()

	w := s.do(t, http.MethodPost, "/api/public/appointments", booking(date, "10:00"), nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var ap models.Appointment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ap))
	require.NotEmpty(t, ap.ID)
	require.Equal(t, "pending", ap.Status)
	require.True(t, s.queue.has("appointment_created"))

	w = s.do(t, http.MethodPost, "/api/public/appointments", booking(date, "10:00"), nil)
	require.Equal(t, http.StatusConflict, w.Code)
	e := decodeError(t, w)
	require.Equal(t, "slot_unavailable", e.Code)
	require.Equal(t, "Horário não está mais disponível, escolha outro.", e.Message)
}

func TestCreateAppointmentRejections(t *testing.T) {
	s := newServer(t, "")
	date := futureDate()

	tests := []struct {
		name   string
		mutate func(b map[string]string)
		status int
		code   string
	}{
		{"invalid phone", func(b map[string]string) { b["client_phone"] = "123" }, http.StatusBadRequest, "invalid_client_phone"},
		{"past date", func(b map[string]string) { b["date"] = "2020-01-01" }, http.StatusConflict, "slot_unavailable"},
		{"unknown service", func(b map[string]string) { b["service_id"] = "svc-x" }, http.StatusNotFound, "service_not_found"},
		{"outside hours", func(b map[string]string) { b["time"] = "12:30" }, http.StatusConflict, "slot_unavailable"},
		{"missing field", func(b map[string]string) { delete(b, "barber_id") }, http.StatusBadRequest, "invalid_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := booking(date, "10:00")
			tt.mutate(body)

			w := s.do(t, http.MethodPost, "/api/public/appointments", body, nil)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			require.Equal(t, tt.code, decodeError(t, w).Code)
		})
	}
}

func TestAvailabilityUnknownBarber(t *testing.T) {
	s := newServer(t, "")

	w := s.do(t, http.MethodGet, "/api/public/availability?barber_id=b-9&date="+futureDate(), nil, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/public/availability?date="+futureDate(), nil, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBarberLoginAndLifecycle(t *testing.T) {
	s := newServer(t, "")
	date := futureDate()

	w := s.do(t, http.MethodPut, "/barbers", []map[string]any{
		{"id": "b-1", "name": "Rafa", "pin": "4321"},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotContains(t, w.Body.String(), "pin_hash")

	w = s.do(t, http.MethodPost, "/api/auth/barber", map[string]string{"barber_id": "b-1", "pin": "0000"}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/auth/barber", map[string]string{"barber_id": "b-1", "pin": "4321"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)
	auth := http.Header{"Authorization": []string{"Bearer " + login.Token}}

	// sem token
	w = s.do(t, http.MethodGet, "/api/me", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/public/appointments", booking(date, "15:00"), nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var ap models.Appointment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ap))

	w = s.do(t, http.MethodGet, "/api/me/appointments?date="+date, nil, auth)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), ap.ID)

	// concluir antes de confirmar não é permitido
	w = s.do(t, http.MethodPatch, "/api/me/appointments/"+ap.ID+"/complete", nil, auth)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "invalid_transition", decodeError(t, w).Code)

	w = s.do(t, http.MethodPatch, "/api/me/appointments/"+ap.ID+"/confirm", nil, auth)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodPatch, "/api/me/appointments/"+ap.ID+"/complete", nil, auth)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	got, err := s.store.FindByID(context.Background(), ap.ID)
	require.NoError(t, err)
	require.Equal(t, "completed", got.Status)
	require.NotNil(t, got.Receipt)
}

func TestToggleBlockFromBarberArea(t *testing.T) {
	s := newServer(t, "")
	date := futureDate()

	w := s.do(t, http.MethodPut, "/barbers", []map[string]any{
		{"id": "b-1", "name": "Rafa", "pin": "4321"},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/auth/barber", map[string]string{"barber_id": "b-1", "pin": "4321"}, nil)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	auth := http.Header{"Authorization": []string{"Bearer " + login.Token}}

	w = s.do(t, http.MethodPut, "/api/me/blocks", map[string]string{"date": date, "time": "10:00"}, auth)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/public/appointments", booking(date, "10:00"), nil)
	require.Equal(t, http.StatusConflict, w.Code)

	// sem arquivo no multipart
	w = s.do(t, http.MethodPost, "/api/me/photo", nil, auth)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminRoutes(t *testing.T) {
	s := newServer(t, "")

	w := s.do(t, http.MethodPost, "/sync/bulk", map[string]any{
		"data": map[string]any{
			"services": []map[string]any{{"id": "svc-barba", "name": "Barba", "duration": 20, "price": 30}},
		},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.True(t, s.queue.has("sync_bulk"))

	w = s.do(t, http.MethodPost, "/sync/bulk", map[string]any{}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/bootstrap", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var snap models.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	require.Len(t, snap.Services, 1)
	require.Equal(t, "svc-barba", snap.Services[0].ID)
	require.Len(t, snap.Barbers, 1)

	w = s.do(t, http.MethodPut, "/services", []map[string]any{{"id": "svc-x", "name": "X", "duration": 0}}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPut, "/settings/monthly-goal", map[string]any{"monthly_goal": 0}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPut, "/settings/monthly-goal", map[string]any{"monthly_goal": 30000}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPatch, "/barbers/b-1", map[string]any{"off_days": []string{futureDate()}}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"provider":"log"`)

	w = s.do(t, http.MethodGet, "/automation/status", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/automation/logs?limit=5", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestPatchBarberAuditsTheChange(t *testing.T) {
	s := newServer(t, "")
	day := futureDate()

	w := s.do(t, http.MethodPatch, "/barbers/b-1", map[string]any{"off_days": []string{day}}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	s.audit.Close()
	ev, ok := s.sink.find("barber_patched")
	require.True(t, ok)
	require.Equal(t, "b-1", ev.EntityID)

	raw, err := json.Marshal(ev.Metadata)
	require.NoError(t, err)
	require.JSONEq(t, `{"name":null,"specialty":null,"photo":null,"commission_rate":null,"off_days":["`+day+`"],"manual_blocks":null}`, string(raw))
}

func TestAdminTokenRequired(t *testing.T) {
	s := newServer(t, "s3cret")

	w := s.do(t, http.MethodGet, "/bootstrap", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/bootstrap", nil, http.Header{"X-Admin-Token": []string{"s3cret"}})
	require.Equal(t, http.StatusOK, w.Code)

	// rotas públicas continuam abertas
	w = s.do(t, http.MethodGet, "/api/public/services", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
}
