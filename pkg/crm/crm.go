// Package crm tracks clients and their projects.
package crm

import (
	"context"
	"errors"
	"time"
)

// Client is a billing client.
type Client struct {
	ID         string    `json:"id"`
	ClientName string    `json:"client_name"`
	CreatedAt  time.Time `json:"created_at"`
}

// Project belongs to a client. Due-state is derived from DueDate and
// Completed, never stored.
type Project struct {
	ID          string     `json:"id"`
	ClientID    string     `json:"client_id"`
	ProjectName string     `json:"project_name"`
	Description string     `json:"description"`
	DueDate     string     `json:"due_date"` // YYYY-MM-DD
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Overdue reports whether the project's due date has passed without
// completion. Dates are ISO strings, so < compares calendar order.
func (p *Project) Overdue(today string) bool {
	return !p.Completed && p.DueDate < today
}

// DueToday reports whether the project is due today and not completed.
func (p *Project) DueToday(today string) bool {
	return !p.Completed && p.DueDate == today
}

// ErrNotFound is returned when an update targets a missing project.
var ErrNotFound = errors.New("project not found")

// Store is the contract for client/project persistence.
type Store interface {
	ListClients(ctx context.Context) ([]Client, error)
	CreateClient(ctx context.Context, name string) (*Client, error)
	DeleteClient(ctx context.Context, id string) error
	ListProjects(ctx context.Context, clientID string) ([]Project, error)
	CreateProject(ctx context.Context, p *Project) (*Project, error)
	UpdateProject(ctx context.Context, id string, updates map[string]any) (*Project, error)
	DeleteProject(ctx context.Context, id string) error
	DueOrOverdue(ctx context.Context, today string) ([]Project, error)
	Counts(ctx context.Context) (clients, projects int, err error)
	EnsureTables(ctx context.Context) error
}
