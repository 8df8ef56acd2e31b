package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"attendance.service/internal/api"
	"attendance.service/internal/core"
	"attendance.service/internal/core/model"
	"attendance.service/internal/ports/directory"
	"attendance.service/internal/ports/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	clock, err := core.NewOrgClockWithNow(func() time.Time {
		// 20:00Z = 14:00 in Mexico City, squarely inside March 10.
		return time.Date(2024, time.March, 10, 20, 0, 0, 0, time.UTC)
	})
	require.NoError(t, err)

	repo := repository.NewMemory()
	roster := directory.NewStatic(
		model.Employee{ID: "emp-1", FullName: "Laura Mendoza", Email: "laura@example.com", Active: true, Admin: true},
		model.Employee{ID: "emp-2", FullName: "Carlos Rivera", Email: "carlos@example.com", Active: true},
	)

	ledger := core.NewLedgerService(repo, nil, clock)
	reports := core.NewReportService(repo, roster, clock)

	srv := httptest.NewServer(api.NewRouter(ledger, reports))
	t.Cleanup(srv.Close)
	return srv
}

func doRequest(t *testing.T, srv *httptest.Server, method, path, employeeID string, admin bool, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if employeeID != "" {
		req.Header.Set("X-Employee-ID", employeeID)
	}
	if admin {
		req.Header.Set("X-Employee-Admin", "true")
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

const validSubmission = `{"kind": "entrada", "latitude": 19.43, "longitude": -99.13, "reportedAt": "2024-03-10T08:30:00-06:00"}`

func TestSubmit_Created(t *testing.T) {
	srv := newTestServer(t)

	resp := doRequest(t, srv, http.MethodPost, "/api/v1/attendance", "emp-2", false, validSubmission)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var event model.AttendanceEvent
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&event))
	assert.Equal(t, "emp-2", event.EmployeeID)
	assert.Equal(t, model.KindCheckIn, event.Kind)
	assert.Equal(t, "2024-03-10", event.OccurredOn.String())
}

func TestSubmit_DuplicateConflict(t *testing.T) {
	srv := newTestServer(t)

	resp := doRequest(t, srv, http.MethodPost, "/api/v1/attendance", "emp-2", false, validSubmission)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doRequest(t, srv, http.MethodPost, "/api/v1/attendance", "emp-2", false, validSubmission)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body.Message, "entrada")
}

func TestSubmit_Validation(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{not json`},
		{"missing kind", `{"latitude": 19.43, "longitude": -99.13}`},
		{"unknown kind", `{"kind": "pausa", "latitude": 19.43, "longitude": -99.13}`},
		{"missing coordinates", `{"kind": "entrada"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, srv, http.MethodPost, "/api/v1/attendance", "emp-2", false, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestSubmit_MissingIdentity(t *testing.T) {
	srv := newTestServer(t)

	resp := doRequest(t, srv, http.MethodPost, "/api/v1/attendance", "", false, validSubmission)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestDayStatus(t *testing.T) {
	srv := newTestServer(t)

	resp := doRequest(t, srv, http.MethodGet, "/api/v1/attendance/status", "emp-2", false, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var status model.DayStatus
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.False(t, status.CheckedIn)

	doRequest(t, srv, http.MethodPost, "/api/v1/attendance", "emp-2", false, validSubmission)

	resp = doRequest(t, srv, http.MethodGet, "/api/v1/attendance/status", "emp-2", false, "")
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.True(t, status.CheckedIn)
	assert.False(t, status.CheckedOut)
}

func TestDailyView_AdminGetsRoster(t *testing.T) {
	srv := newTestServer(t)

	doRequest(t, srv, http.MethodPost, "/api/v1/attendance", "emp-2", false, validSubmission)

	resp := doRequest(t, srv, http.MethodGet, "/api/v1/attendance/daily?date=2024-03-10", "emp-1", true, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view model.DailyView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	assert.Len(t, view.CheckIns, 1)
	require.Len(t, view.MissingCheckIn, 1)
	assert.Equal(t, "emp-1", view.MissingCheckIn[0].ID)
	assert.Equal(t, 2, view.TotalActive)
}

func TestDailyView_EmployeeScoped(t *testing.T) {
	srv := newTestServer(t)

	doRequest(t, srv, http.MethodPost, "/api/v1/attendance", "emp-2", false, validSubmission)

	resp := doRequest(t, srv, http.MethodGet, "/api/v1/attendance/daily", "emp-1", false, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view model.DailyView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	assert.Empty(t, view.CheckIns, "emp-1 has no events of their own")
	assert.Empty(t, view.MissingCheckIn)
}

func TestDailyView_BadDate(t *testing.T) {
	srv := newTestServer(t)

	resp := doRequest(t, srv, http.MethodGet, "/api/v1/attendance/daily?date=10-03-2024", "emp-1", true, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPurge_AdminOnly(t *testing.T) {
	srv := newTestServer(t)

	doRequest(t, srv, http.MethodPost, "/api/v1/attendance", "emp-2", false, validSubmission)

	resp := doRequest(t, srv, http.MethodDelete, "/api/v1/attendance", "emp-2", false, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, srv, http.MethodDelete, "/api/v1/attendance", "emp-1", true, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Ledger is reset: the same submission goes through again.
	resp = doRequest(t, srv, http.MethodPost, "/api/v1/attendance", "emp-2", false, validSubmission)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}
