package crm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore is a PostgreSQL-backed client/project store.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore creates a PgStore.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

// EnsureTables creates the clients and projects tables if they don't
// exist. The client reference is application-enforced; deletes cascade in
// DeleteClient, not in the schema.
func (s *PgStore) EnsureTables(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS clients (
			id          TEXT PRIMARY KEY,
			client_name TEXT NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS projects (
			id           TEXT PRIMARY KEY,
			client_id    TEXT NOT NULL,
			project_name TEXT NOT NULL,
			description  TEXT NOT NULL DEFAULT '',
			due_date     TEXT NOT NULL,
			completed    BOOLEAN NOT NULL DEFAULT FALSE,
			completed_at TIMESTAMPTZ,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_projects_client ON projects(client_id)`)
	return err
}

// ListClients returns all clients, newest first.
func (s *PgStore) ListClients(ctx context.Context) ([]Client, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, client_name, created_at FROM clients ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var clients []Client
	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.ClientName, &c.CreatedAt); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}
	return clients, nil
}

// CreateClient inserts a new client.
func (s *PgStore) CreateClient(ctx context.Context, name string) (*Client, error) {
	c := &Client{
		ID:         uuid.Must(uuid.NewV7()).String(),
		ClientName: name,
		CreatedAt:  time.Now().Truncate(time.Microsecond),
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO clients (id, client_name, created_at) VALUES ($1, $2, $3)`,
		c.ID, c.ClientName, c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return c, nil
}

// DeleteClient removes a client and its projects in one transaction,
// dependents first. Deleting a missing id is a no-op.
func (s *PgStore) DeleteClient(ctx context.Context, id string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM projects WHERE client_id = $1`, id); err != nil {
		return fmt.Errorf("delete client projects: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete client %s: %w", id, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit client delete: %w", err)
	}
	return nil
}

// ListProjects returns projects, optionally restricted to one client,
// soonest due date first.
func (s *PgStore) ListProjects(ctx context.Context, clientID string) ([]Project, error) {
	query := `SELECT id, client_id, project_name, description, due_date, completed, completed_at, created_at
		FROM projects`
	var args []any
	if clientID != "" {
		query += ` WHERE client_id = $1`
		args = append(args, clientID)
	}
	query += ` ORDER BY due_date ASC, created_at ASC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()
	return scanProjectRows(rows)
}

// CreateProject inserts a new project for p.ClientID.
func (s *PgStore) CreateProject(ctx context.Context, p *Project) (*Project, error) {
	p.ID = uuid.Must(uuid.NewV7()).String()
	p.CreatedAt = time.Now().Truncate(time.Microsecond)
	_, err := s.pool.Exec(ctx, `
		INSERT INTO projects (id, client_id, project_name, description, due_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.ClientID, p.ProjectName, p.Description, p.DueDate, p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return p, nil
}

// UpdateProject modifies project fields. Supported keys: project_name,
// description, due_date, completed. Setting completed also sets or clears
// completed_at.
func (s *PgStore) UpdateProject(ctx context.Context, id string, updates map[string]any) (*Project, error) {
	setClauses := ""
	var args []any
	addSet := func(col string, v any) {
		args = append(args, v)
		if setClauses != "" {
			setClauses += ", "
		}
		setClauses += fmt.Sprintf("%s = $%d", col, len(args))
	}

	for k, v := range updates {
		switch k {
		case "project_name", "description", "due_date":
			addSet(k, v)
		case "completed":
			done, _ := v.(bool)
			addSet("completed", done)
			if done {
				addSet("completed_at", time.Now().Truncate(time.Microsecond))
			} else {
				addSet("completed_at", nil)
			}
		}
	}
	if setClauses == "" {
		return nil, errors.New("no supported fields in update")
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE projects SET %s WHERE id = $%d
		RETURNING id, client_id, project_name, description, due_date, completed, completed_at, created_at`,
		setClauses, len(args))

	var p Project
	err := s.pool.QueryRow(ctx, query, args...).
		Scan(&p.ID, &p.ClientID, &p.ProjectName, &p.Description, &p.DueDate, &p.Completed, &p.CompletedAt, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update project %s: %w", id, err)
	}
	return &p, nil
}

// DeleteProject removes a project. Deleting a missing id is a no-op.
func (s *PgStore) DeleteProject(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	return nil
}

// DueOrOverdue returns incomplete projects due on or before today,
// soonest first.
func (s *PgStore) DueOrOverdue(ctx context.Context, today string) ([]Project, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, client_id, project_name, description, due_date, completed, completed_at, created_at
		FROM projects WHERE completed = FALSE AND due_date <= $1
		ORDER BY due_date ASC`, today)
	if err != nil {
		return nil, fmt.Errorf("due projects: %w", err)
	}
	defer rows.Close()
	return scanProjectRows(rows)
}

// Counts returns client and project totals.
func (s *PgStore) Counts(ctx context.Context) (int, int, error) {
	var clients, projects int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM clients`).Scan(&clients); err != nil {
		return 0, 0, err
	}
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM projects`).Scan(&projects); err != nil {
		return 0, 0, err
	}
	return clients, projects, nil
}

func scanProjectRows(rows pgx.Rows) ([]Project, error) {
	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.ClientID, &p.ProjectName, &p.Description, &p.DueDate, &p.Completed, &p.CompletedAt, &p.CreatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}
	return projects, nil
}
