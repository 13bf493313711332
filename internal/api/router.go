// Package api provides HTTP routing for the operational endpoints exposed
// in scheduled mode.
package api

import (
	"github.com/gorilla/mux"

	"github.com/flatcolina/sincbook/internal/api/handlers"
	"github.com/flatcolina/sincbook/internal/api/middleware"
)

// NewRouter creates and configures the HTTP router. The surface is
// intentionally small: liveness, the last run's summary, and a manual sync
// trigger. Feed configuration is administered elsewhere.
func NewRouter(sched handlers.SyncStatus) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.Logging)
	r.Use(middleware.ErrorRecovery)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", handlers.HealthCheck()).Methods("GET")
	api.HandleFunc("/status", handlers.Status(sched)).Methods("GET")
	api.HandleFunc("/sync", handlers.TriggerSync(sched)).Methods("POST")

	return r
}
