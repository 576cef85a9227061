package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"blackpoint-portal/pkg/payroll"
	"blackpoint-portal/pkg/timeclock"
)

// employeeFromBody decodes {employeeName} and runs the allow-list check.
// Returns "" after writing the error response when the request is bad.
func (s *Server) employeeFromBody(w http.ResponseWriter, r *http.Request) string {
	var req struct {
		EmployeeName string `json:"employeeName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, "invalid JSON: "+err.Error())
		return ""
	}
	name := strings.TrimSpace(req.EmployeeName)
	if name == "" {
		writeError(w, 400, "employeeName is required")
		return ""
	}
	if !s.cfg.Authorized(name) {
		writeError(w, 403, "Access denied. Only authorized employees can sign in.")
		return ""
	}
	return name
}

func (s *Server) handleClockIn(w http.ResponseWriter, r *http.Request) {
	name := s.employeeFromBody(w, r)
	if name == "" {
		return
	}
	e, err := s.entries.ClockIn(r.Context(), name, time.Now())
	if errors.Is(err, timeclock.ErrAlreadyClockedIn) {
		writeError(w, 400, "Already clocked in")
		return
	}
	if err != nil {
		writeError(w, 500, err.Error())
		return
	}
	writeJSON(w, 200, map[string]any{
		"id":           e.ID,
		"employeeName": e.EmployeeName,
		"clockIn":      e.ClockIn,
		"date":         e.Date,
	})
}

func (s *Server) handleClockOut(w http.ResponseWriter, r *http.Request) {
	name := s.employeeFromBody(w, r)
	if name == "" {
		return
	}
	e, err := s.entries.ClockOut(r.Context(), name, time.Now())
	if errors.Is(err, timeclock.ErrNotClockedIn) {
		writeError(w, 400, "Not currently clocked in")
		return
	}
	if err != nil {
		writeError(w, 500, err.Error())
		return
	}
	writeJSON(w, 200, map[string]any{
		"id":           e.ID,
		"employeeName": e.EmployeeName,
		"clockIn":      e.ClockIn,
		"clockOut":     e.ClockOut,
		"duration":     e.DurationMinutes,
	})
}

func (s *Server) handleManualEntry(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeName string `json:"employeeName"`
		ClockIn      string `json:"clockIn"`
		ClockOut     string `json:"clockOut"`
		Date         string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, "invalid JSON: "+err.Error())
		return
	}
	name := strings.TrimSpace(req.EmployeeName)
	if name == "" || req.ClockIn == "" || req.ClockOut == "" || req.Date == "" {
		writeError(w, 400, "All fields are required")
		return
	}
	if !s.cfg.Authorized(name) {
		writeError(w, 403, "Access denied. Only authorized employees can sign in.")
		return
	}
	clockIn, err := time.Parse(time.RFC3339, req.ClockIn)
	if err != nil {
		writeError(w, 400, "invalid clockIn: "+err.Error())
		return
	}
	clockOut, err := time.Parse(time.RFC3339, req.ClockOut)
	if err != nil {
		writeError(w, 400, "invalid clockOut: "+err.Error())
		return
	}
	if s.cfg.StrictManualEntries && !clockOut.After(clockIn) {
		writeError(w, 400, timeclock.ErrInvalidInterval.Error())
		return
	}
	e, err := s.entries.ManualEntry(r.Context(), name, clockIn, clockOut, req.Date)
	if err != nil {
		writeError(w, 500, err.Error())
		return
	}
	writeJSON(w, 200, map[string]any{
		"id":           e.ID,
		"employeeName": e.EmployeeName,
		"clockIn":      e.ClockIn,
		"clockOut":     e.ClockOut,
		"duration":     e.DurationMinutes,
		"date":         e.Date,
	})
}

func (s *Server) handleClockStatus(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("employeeName")
	entry, err := s.entries.Open(r.Context(), name, timeclock.Day(time.Now()))
	if err != nil {
		writeError(w, 500, err.Error())
		return
	}
	writeJSON(w, 200, map[string]any{
		"isClockedIn":  entry != nil,
		"currentEntry": entry,
	})
}

func (s *Server) handleEntryList(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	employee := r.URL.Query().Get("employeeName")
	entries, err := s.entries.List(r.Context(), date, employee)
	if err != nil {
		writeError(w, 500, err.Error())
		return
	}
	if entries == nil {
		entries = []timeclock.TimeEntry{}
	}
	writeJSON(w, 200, entries)
}

func (s *Server) handlePayrollReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	startDate := q.Get("startDate")
	endDate := q.Get("endDate")
	employee := q.Get("employeeName")

	entries, err := s.entries.ListClosed(r.Context(), startDate, endDate, employee)
	if err != nil {
		writeError(w, 500, err.Error())
		return
	}
	writeJSON(w, 200, payroll.BuildReport(entries, startDate, endDate))
}
