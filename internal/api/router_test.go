package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flatcolina/sincbook/internal/storage/models"
)

type fakeScheduler struct {
	run       *models.SyncRun
	err       error
	triggered int
}

func (f *fakeScheduler) LastRun() (*models.SyncRun, error) { return f.run, f.err }
func (f *fakeScheduler) TriggerSync()                      { f.triggered++ }

func TestHealthEndpoint(t *testing.T) {
	router := NewRouter(&fakeScheduler{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestStatusEndpoint(t *testing.T) {
	now := time.Now().UTC()
	sched := &fakeScheduler{
		run: &models.SyncRun{
			RunID:      "run-1",
			StartedAt:  now,
			FinishedAt: now,
			Results: []models.SyncResult{
				{PropertyID: "P1", Created: 2, Updated: 1},
			},
		},
	}
	router := NewRouter(sched)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		LastRun      *models.SyncRun `json:"last_run"`
		TotalCreated int             `json:"total_created"`
		TotalUpdated int             `json:"total_updated"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.LastRun)
	assert.Equal(t, "run-1", body.LastRun.RunID)
	assert.Equal(t, 2, body.TotalCreated)
	assert.Equal(t, 1, body.TotalUpdated)
}

func TestStatusEndpoint_LastRunFailed(t *testing.T) {
	router := NewRouter(&fakeScheduler{err: errors.New("config store unreachable")})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "config store unreachable", body["last_run_error"])
}

func TestSyncEndpoint(t *testing.T) {
	sched := &fakeScheduler{}
	router := NewRouter(sched)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sync", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, sched.triggered)
}

func TestSyncEndpoint_MethodNotAllowed(t *testing.T) {
	router := NewRouter(&fakeScheduler{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sync", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
