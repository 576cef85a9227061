// Package api is the HTTP surface of the employee portal.
package api

import (
	"encoding/json"
	"log"
	"net/http"

	"blackpoint-portal/internal/config"
	"blackpoint-portal/pkg/checklist"
	"blackpoint-portal/pkg/crm"
	"blackpoint-portal/pkg/timeclock"
)

// Server is the HTTP API server.
type Server struct {
	cfg     *config.Config
	entries timeclock.Store
	tasks   checklist.Store
	crm     crm.Store
	mux     *http.ServeMux
}

// New creates a new Server.
func New(cfg *config.Config, entries timeclock.Store, tasks checklist.Store, crmStore crm.Store) *Server {
	s := &Server{
		cfg:     cfg,
		entries: entries,
		tasks:   tasks,
		crm:     crmStore,
		mux:     http.NewServeMux(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler. The SPA is served from a different
// origin, so every response carries CORS headers and preflights short-
// circuit here.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	s.mux.ServeHTTP(w, r)
}

func (s *Server) routes() {
	// System
	s.mux.HandleFunc("GET /{$}", s.handleHealth)
	s.mux.HandleFunc("GET /api/status", s.handleStatus)
	s.mux.HandleFunc("POST /api/login", s.handleLogin)

	// Time clock
	s.mux.HandleFunc("POST /api/clock-in", s.handleClockIn)
	s.mux.HandleFunc("POST /api/clock-out", s.handleClockOut)
	s.mux.HandleFunc("POST /api/manual-time-entry", s.handleManualEntry)
	s.mux.HandleFunc("GET /api/status/{employeeName}", s.handleClockStatus)
	s.mux.HandleFunc("GET /api/time-entries", s.handleEntryList)
	s.mux.HandleFunc("GET /api/payroll-report", s.handlePayrollReport)

	// Daily tasks
	s.mux.HandleFunc("GET /api/tasks", s.handleTaskList)
	s.mux.HandleFunc("POST /api/tasks", s.handleTaskCreate)
	s.mux.HandleFunc("PUT /api/tasks/reorder", s.handleTaskReorder)
	s.mux.HandleFunc("PATCH /api/tasks/{id}", s.handleTaskToggle)
	s.mux.HandleFunc("DELETE /api/tasks/{id}", s.handleTaskDelete)

	// Default task templates
	s.mux.HandleFunc("GET /api/default-tasks", s.handleDefaultTaskList)
	s.mux.HandleFunc("POST /api/default-tasks", s.handleDefaultTaskCreate)
	s.mux.HandleFunc("DELETE /api/default-tasks/{id}", s.handleDefaultTaskDelete)

	// Clients and projects
	s.mux.HandleFunc("GET /api/clients", s.handleClientList)
	s.mux.HandleFunc("POST /api/clients", s.handleClientCreate)
	s.mux.HandleFunc("DELETE /api/clients/{id}", s.handleClientDelete)
	s.mux.HandleFunc("GET /api/projects", s.handleProjectList)
	s.mux.HandleFunc("GET /api/projects/due", s.handleProjectsDue)
	s.mux.HandleFunc("POST /api/projects", s.handleProjectCreate)
	s.mux.HandleFunc("PATCH /api/projects/{id}", s.handleProjectUpdate)
	s.mux.HandleFunc("DELETE /api/projects/{id}", s.handleProjectDelete)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write json: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
