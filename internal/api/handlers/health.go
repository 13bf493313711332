// Package handlers provides HTTP request handlers for the operational API.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/flatcolina/sincbook/internal/storage/models"
)

// SyncStatus exposes the scheduler state the operational endpoints report
// and act on.
type SyncStatus interface {
	LastRun() (*models.SyncRun, error)
	TriggerSync()
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status"`
}

// HealthCheck returns a handler that reports process liveness.
func HealthCheck() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(HealthResponse{Status: "healthy"})
	}
}

// StatusResponse represents the sync status response.
type StatusResponse struct {
	LastRun      *models.SyncRun `json:"last_run,omitempty"`
	LastRunError string          `json:"last_run_error,omitempty"`
	TotalCreated int             `json:"total_created"`
	TotalUpdated int             `json:"total_updated"`
}

// Status returns a handler that reports the most recent sync run.
func Status(sched SyncStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		run, err := sched.LastRun()

		response := StatusResponse{LastRun: run}
		if err != nil {
			response.LastRunError = err.Error()
		}
		if run != nil {
			response.TotalCreated = run.TotalCreated()
			response.TotalUpdated = run.TotalUpdated()
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}
}

// TriggerSync returns a handler that starts a sync pass in the background.
func TriggerSync(sched SyncStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sched.TriggerSync()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]string{"status": "sync_started"})
	}
}
