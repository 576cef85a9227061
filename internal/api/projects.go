package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"blackpoint-portal/pkg/crm"
	"blackpoint-portal/pkg/timeclock"
)

func (s *Server) handleClientList(w http.ResponseWriter, r *http.Request) {
	clients, err := s.crm.ListClients(r.Context())
	if err != nil {
		writeError(w, 500, err.Error())
		return
	}
	if clients == nil {
		clients = []crm.Client{}
	}
	writeJSON(w, 200, clients)
}

func (s *Server) handleClientCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ClientName string `json:"clientName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, "invalid JSON: "+err.Error())
		return
	}
	if strings.TrimSpace(req.ClientName) == "" {
		writeError(w, 400, "clientName is required")
		return
	}
	c, err := s.crm.CreateClient(r.Context(), req.ClientName)
	if err != nil {
		writeError(w, 500, err.Error())
		return
	}
	writeJSON(w, 200, c)
}

// handleClientDelete cascades: the client's projects go first, then the
// client, in one transaction.
func (s *Server) handleClientDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.crm.DeleteClient(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, 500, err.Error())
		return
	}
	writeJSON(w, 200, map[string]string{"message": "Client deleted successfully"})
}

func (s *Server) handleProjectList(w http.ResponseWriter, r *http.Request) {
	projects, err := s.crm.ListProjects(r.Context(), r.URL.Query().Get("clientId"))
	if err != nil {
		writeError(w, 500, err.Error())
		return
	}
	if projects == nil {
		projects = []crm.Project{}
	}
	writeJSON(w, 200, projects)
}

func (s *Server) handleProjectCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ClientID    string `json:"clientId"`
		ProjectName string `json:"projectName"`
		Description string `json:"description"`
		DueDate     string `json:"dueDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, "invalid JSON: "+err.Error())
		return
	}
	if req.ClientID == "" || strings.TrimSpace(req.ProjectName) == "" || req.DueDate == "" {
		writeError(w, 400, "clientId, projectName and dueDate are required")
		return
	}
	p, err := s.crm.CreateProject(r.Context(), &crm.Project{
		ClientID:    req.ClientID,
		ProjectName: req.ProjectName,
		Description: req.Description,
		DueDate:     req.DueDate,
	})
	if err != nil {
		writeError(w, 500, err.Error())
		return
	}
	writeJSON(w, 200, p)
}

func (s *Server) handleProjectUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var updates map[string]any
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		writeError(w, 400, "invalid JSON: "+err.Error())
		return
	}
	p, err := s.crm.UpdateProject(r.Context(), id, updates)
	if errors.Is(err, crm.ErrNotFound) {
		writeError(w, 404, err.Error())
		return
	}
	if err != nil {
		writeError(w, 500, err.Error())
		return
	}
	writeJSON(w, 200, p)
}

func (s *Server) handleProjectDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.crm.DeleteProject(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, 500, err.Error())
		return
	}
	writeJSON(w, 200, map[string]string{"message": "Project deleted successfully"})
}

func (s *Server) handleProjectsDue(w http.ResponseWriter, r *http.Request) {
	projects, err := s.crm.DueOrOverdue(r.Context(), timeclock.Day(time.Now()))
	if err != nil {
		writeError(w, 500, err.Error())
		return
	}
	if projects == nil {
		projects = []crm.Project{}
	}
	writeJSON(w, 200, projects)
}
