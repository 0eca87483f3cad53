package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct {
	err error
}

func (p stubPinger) PingContext(ctx context.Context) error { return p.err }

func readyStatus(t *testing.T, h *HealthHandler) (int, StartupStatus) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	var status StartupStatus
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	return rec.Code, status
}

func TestStartupProgress(t *testing.T) {
	setReady(t, false)
	h := NewHealthHandler(stubPinger{})

	code, status := readyStatus(t, h)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, 0, status.Progress)
	assert.Len(t, status.Steps, 4)

	SetCurrentStep(StepMigrations)
	CompleteStep(StepDatabase)
	CompleteStep(StepMigrations)
	code, status = readyStatus(t, h)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, 50, status.Progress)
	assert.Equal(t, StepMigrations, status.Current)
	assert.False(t, IsReady())

	MarkReady()
	code, status = readyStatus(t, h)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, status.Ready)
	assert.Equal(t, 100, status.Progress)
}

func TestReadyChecksDatabase(t *testing.T) {
	setReady(t, true)

	code, status := readyStatus(t, NewHealthHandler(stubPinger{err: errors.New("database is locked")}))
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.False(t, status.Ready)
}

func TestRequireReadyAndLive(t *testing.T) {
	setReady(t, false)
	h := NewHealthHandler(nil)

	api := RequireReady(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/words/english", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "5", rec.Header().Get("Retry-After"))

	rec = httptest.NewRecorder()
	h.Live(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	MarkReady()
	rec = httptest.NewRecorder()
	api.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/words/english", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
