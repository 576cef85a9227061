package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"blackpoint-portal/pkg/timeclock"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, 200, map[string]string{
		"status":    "ok",
		"message":   "Blackpoint Employee Portal API",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entryCount, _ := s.entries.Count(ctx)
	tasksToday, _ := s.tasks.CountForDate(ctx, timeclock.Day(time.Now()))
	clients, projects, _ := s.crm.Counts(ctx)

	writeJSON(w, 200, map[string]any{
		"time_entries": entryCount,
		"tasks_today":  tasksToday,
		"clients":      clients,
		"projects":     projects,
	})
}

// handleLogin is the server-side sign-in gate. The allow-list used to be
// checked only in the SPA, which gated nothing.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeName string `json:"employeeName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, "invalid JSON: "+err.Error())
		return
	}
	name := strings.TrimSpace(req.EmployeeName)
	if name == "" {
		writeError(w, 400, "employeeName is required")
		return
	}
	if !s.cfg.Authorized(name) {
		writeError(w, 403, "Access denied. Only authorized employees can sign in.")
		return
	}
	writeJSON(w, 200, map[string]string{"employeeName": name})
}
