package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"blackpoint-portal/pkg/checklist"
	"blackpoint-portal/pkg/timeclock"
)

func (s *Server) handleTaskList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	date := r.URL.Query().Get("date")
	if date == "" {
		date = timeclock.Day(time.Now())
	}
	if err := s.tasks.EnsureDailyTasks(ctx, date); err != nil {
		writeError(w, 500, err.Error())
		return
	}
	tasks, err := s.tasks.ListTasks(ctx, date)
	if err != nil {
		writeError(w, 500, err.Error())
		return
	}
	if tasks == nil {
		tasks = []checklist.Task{}
	}
	writeJSON(w, 200, tasks)
}

func (s *Server) handleTaskCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TaskName    string `json:"taskName"`
		Description string `json:"description"`
		Date        string `json:"date"`
		CreatedBy   string `json:"createdBy"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, "invalid JSON: "+err.Error())
		return
	}
	if strings.TrimSpace(req.TaskName) == "" {
		writeError(w, 400, "taskName is required")
		return
	}
	if req.Date == "" {
		req.Date = timeclock.Day(time.Now())
	}
	t, err := s.tasks.CreateTask(r.Context(), req.TaskName, req.Description, req.Date, req.CreatedBy)
	if err != nil {
		writeError(w, 500, err.Error())
		return
	}
	writeJSON(w, 200, t)
}

func (s *Server) handleTaskToggle(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req struct {
		Completed bool `json:"completed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, "invalid JSON: "+err.Error())
		return
	}
	t, err := s.tasks.ToggleComplete(r.Context(), id, req.Completed, time.Now())
	if errors.Is(err, checklist.ErrNotFound) {
		writeError(w, 404, err.Error())
		return
	}
	if err != nil {
		writeError(w, 500, err.Error())
		return
	}
	writeJSON(w, 200, t)
}

// handleTaskReorder accepts the full ordered task list as the SPA drags
// it. The client applies the order speculatively and re-fetches if this
// returns an error.
func (s *Server) handleTaskReorder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tasks []struct {
			ID string `json:"id"`
		} `json:"tasks"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, "invalid JSON: "+err.Error())
		return
	}
	if req.Tasks == nil {
		writeError(w, 400, "Invalid tasks array")
		return
	}
	ids := make([]string, 0, len(req.Tasks))
	for _, t := range req.Tasks {
		ids = append(ids, t.ID)
	}
	if err := s.tasks.Reorder(r.Context(), ids); err != nil {
		writeError(w, 500, err.Error())
		return
	}
	writeJSON(w, 200, map[string]string{"message": "Tasks reordered successfully"})
}

func (s *Server) handleTaskDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.tasks.DeleteTask(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, 500, err.Error())
		return
	}
	writeJSON(w, 200, map[string]string{"message": "Task deleted successfully"})
}

func (s *Server) handleDefaultTaskList(w http.ResponseWriter, r *http.Request) {
	defaults, err := s.tasks.ListDefaults(r.Context())
	if err != nil {
		writeError(w, 500, err.Error())
		return
	}
	if defaults == nil {
		defaults = []checklist.DefaultTask{}
	}
	writeJSON(w, 200, defaults)
}

func (s *Server) handleDefaultTaskCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TaskName    string `json:"taskName"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, "invalid JSON: "+err.Error())
		return
	}
	if strings.TrimSpace(req.TaskName) == "" {
		writeError(w, 400, "taskName is required")
		return
	}
	d, err := s.tasks.CreateDefault(r.Context(), req.TaskName, req.Description)
	if err != nil {
		writeError(w, 500, err.Error())
		return
	}
	writeJSON(w, 200, d)
}

func (s *Server) handleDefaultTaskDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.tasks.DeleteDefault(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, 500, err.Error())
		return
	}
	writeJSON(w, 200, map[string]string{"message": "Default task deleted successfully"})
}
