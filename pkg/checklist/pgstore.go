package checklist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore is a PostgreSQL-backed checklist store.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore creates a PgStore.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

// EnsureTables creates the tasks, default_tasks and task_seeds tables if
// they don't exist. task_seeds is the per-date seeding marker: its primary
// key is what makes EnsureDailyTasks race-free.
func (s *PgStore) EnsureTables(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS tasks (
			id           TEXT PRIMARY KEY,
			task_name    TEXT NOT NULL,
			description  TEXT NOT NULL DEFAULT '',
			completed    BOOLEAN NOT NULL DEFAULT FALSE,
			date         TEXT NOT NULL,
			completed_at TIMESTAMPTZ,
			is_default   BOOLEAN NOT NULL DEFAULT FALSE,
			created_by   TEXT NOT NULL DEFAULT '',
			sort_order   INTEGER NOT NULL DEFAULT 0
		)`)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_tasks_date ON tasks(date)`)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS default_tasks (
			id          TEXT PRIMARY KEY,
			task_name   TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			sort_order  INTEGER NOT NULL DEFAULT 0
		)`)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS task_seeds (
			date      TEXT PRIMARY KEY,
			seeded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	return err
}

// BootstrapDefaults installs the stock template list when default_tasks is
// empty. Safe to call on every startup.
func (s *PgStore) BootstrapDefaults(ctx context.Context) error {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM default_tasks`).Scan(&n); err != nil {
		return fmt.Errorf("count default tasks: %w", err)
	}
	if n > 0 {
		return nil
	}
	for _, d := range stockTemplates {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO default_tasks (id, task_name, description, sort_order)
			VALUES ($1, $2, $3, $4)`,
			uuid.Must(uuid.NewV7()).String(), d.TaskName, d.Description, d.SortOrder)
		if err != nil {
			return fmt.Errorf("bootstrap default tasks: %w", err)
		}
	}
	return nil
}

// EnsureDailyTasks lazily copies the template list into the given date.
// The seed marker row is claimed with an insert-or-nothing; only the
// transaction that wins the claim performs the copy, so concurrent calls
// for the same date cannot double-seed.
func (s *PgStore) EnsureDailyTasks(ctx context.Context, date string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var claimed string
	err = tx.QueryRow(ctx, `
		INSERT INTO task_seeds (date) VALUES ($1)
		ON CONFLICT (date) DO NOTHING
		RETURNING date`, date).Scan(&claimed)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("claim seed for %s: %w", date, err)
	}

	rows, err := tx.Query(ctx, `
		SELECT id, task_name, description, sort_order
		FROM default_tasks ORDER BY sort_order, id`)
	if err != nil {
		return fmt.Errorf("load default tasks: %w", err)
	}
	defaults, err := scanDefaultRows(rows)
	if err != nil {
		return err
	}

	for _, t := range seedTasks(defaults, date, func() string { return uuid.Must(uuid.NewV7()).String() }) {
		_, err := tx.Exec(ctx, `
			INSERT INTO tasks (id, task_name, description, date, is_default, sort_order)
			VALUES ($1, $2, $3, $4, TRUE, $5)`,
			t.ID, t.TaskName, t.Description, t.Date, t.SortOrder)
		if err != nil {
			return fmt.Errorf("seed task for %s: %w", date, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}

// ListTasks returns the date's tasks, incomplete first, then by sort_order
// and id.
func (s *PgStore) ListTasks(ctx context.Context, date string) ([]Task, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, task_name, description, completed, date, completed_at, is_default, created_by, sort_order
		FROM tasks WHERE date = $1
		ORDER BY completed ASC, sort_order ASC, id ASC`, date)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()
	return scanTaskRows(rows)
}

// CreateTask appends a user task at the end of the date's order.
func (s *PgStore) CreateTask(ctx context.Context, name, description, date, createdBy string) (*Task, error) {
	t := &Task{
		ID:          uuid.Must(uuid.NewV7()).String(),
		TaskName:    name,
		Description: description,
		Date:        date,
		CreatedBy:   createdBy,
	}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO tasks (id, task_name, description, date, created_by, sort_order)
		VALUES ($1, $2, $3, $4, $5,
			(SELECT COALESCE(MAX(sort_order), 0) + 1 FROM tasks WHERE date = $4))
		RETURNING sort_order`,
		t.ID, t.TaskName, t.Description, t.Date, t.CreatedBy).Scan(&t.SortOrder)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return t, nil
}

// ToggleComplete sets or clears completion; completed_at follows completed.
func (s *PgStore) ToggleComplete(ctx context.Context, id string, completed bool, now time.Time) (*Task, error) {
	var completedAt *time.Time
	if completed {
		ts := now.Truncate(time.Microsecond)
		completedAt = &ts
	}
	var t Task
	err := s.pool.QueryRow(ctx, `
		UPDATE tasks SET completed = $1, completed_at = $2
		WHERE id = $3
		RETURNING id, task_name, description, completed, date, completed_at, is_default, created_by, sort_order`,
		completed, completedAt, id).
		Scan(&t.ID, &t.TaskName, &t.Description, &t.Completed, &t.Date, &t.CompletedAt, &t.IsDefault, &t.CreatedBy, &t.SortOrder)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("toggle task %s: %w", id, err)
	}
	return &t, nil
}

// Reorder assigns positional sort_order values for the given id sequence.
// All updates run in one transaction so a failed reorder leaves the stored
// order untouched and the caller can simply re-fetch.
func (s *PgStore) Reorder(ctx context.Context, ids []string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for i, id := range ids {
		if _, err := tx.Exec(ctx, `UPDATE tasks SET sort_order = $1 WHERE id = $2`, i, id); err != nil {
			return fmt.Errorf("reorder task %s: %w", id, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit reorder: %w", err)
	}
	return nil
}

// DeleteTask removes a task. Deleting a missing id is a no-op.
func (s *PgStore) DeleteTask(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return nil
}

// CountForDate returns the task count for one date.
func (s *PgStore) CountForDate(ctx context.Context, date string) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tasks WHERE date = $1`, date).Scan(&n)
	return n, err
}

// ListDefaults returns the template list in order.
func (s *PgStore) ListDefaults(ctx context.Context) ([]DefaultTask, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, task_name, description, sort_order
		FROM default_tasks ORDER BY sort_order, id`)
	if err != nil {
		return nil, fmt.Errorf("list default tasks: %w", err)
	}
	return scanDefaultRows(rows)
}

// CreateDefault appends a template at the end of the list.
func (s *PgStore) CreateDefault(ctx context.Context, name, description string) (*DefaultTask, error) {
	d := &DefaultTask{
		ID:          uuid.Must(uuid.NewV7()).String(),
		TaskName:    name,
		Description: description,
	}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO default_tasks (id, task_name, description, sort_order)
		VALUES ($1, $2, $3, (SELECT COALESCE(MAX(sort_order), 0) + 1 FROM default_tasks))
		RETURNING sort_order`,
		d.ID, d.TaskName, d.Description).Scan(&d.SortOrder)
	if err != nil {
		return nil, fmt.Errorf("create default task: %w", err)
	}
	return d, nil
}

// DeleteDefault removes a template. Deleting a missing id is a no-op.
// Already-seeded dates keep their copies.
func (s *PgStore) DeleteDefault(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM default_tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete default task %s: %w", id, err)
	}
	return nil
}

func scanTaskRows(rows pgx.Rows) ([]Task, error) {
	var tasks []Task
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.TaskName, &t.Description, &t.Completed, &t.Date, &t.CompletedAt, &t.IsDefault, &t.CreatedBy, &t.SortOrder); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}
	return tasks, nil
}

func scanDefaultRows(rows pgx.Rows) ([]DefaultTask, error) {
	defer rows.Close()
	var defaults []DefaultTask
	for rows.Next() {
		var d DefaultTask
		if err := rows.Scan(&d.ID, &d.TaskName, &d.Description, &d.SortOrder); err != nil {
			return nil, err
		}
		defaults = append(defaults, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}
	return defaults, nil
}
