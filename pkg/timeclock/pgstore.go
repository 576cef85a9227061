package timeclock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore is a PostgreSQL-backed time entry store.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore creates a PgStore.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

// EnsureTable creates the time_entries table if it doesn't exist. The
// partial unique index makes "at most one open entry per employee per day"
// a constraint rather than a check-then-insert race.
func (s *PgStore) EnsureTable(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS time_entries (
			id               TEXT PRIMARY KEY,
			employee_name    TEXT NOT NULL,
			clock_in         TIMESTAMPTZ NOT NULL,
			clock_out        TIMESTAMPTZ,
			duration_minutes INTEGER,
			date             TEXT NOT NULL
		)`)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		CREATE UNIQUE INDEX IF NOT EXISTS idx_time_entries_open
		ON time_entries(employee_name, date) WHERE clock_out IS NULL`)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_time_entries_date ON time_entries(date)`)
	return err
}

// ClockIn opens a new entry for today. The insert and the open-entry check
// are one statement: losing to the partial unique index means the employee
// is already clocked in.
func (s *PgStore) ClockIn(ctx context.Context, employee string, now time.Time) (*TimeEntry, error) {
	e := &TimeEntry{
		ID:           uuid.Must(uuid.NewV7()).String(),
		EmployeeName: employee,
		ClockIn:      now.Truncate(time.Microsecond),
		Date:         Day(now),
	}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO time_entries (id, employee_name, clock_in, date)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (employee_name, date) WHERE clock_out IS NULL DO NOTHING
		RETURNING id`,
		e.ID, e.EmployeeName, e.ClockIn, e.Date).Scan(&e.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAlreadyClockedIn
	}
	if err != nil {
		return nil, fmt.Errorf("clock in: %w", err)
	}
	return e, nil
}

// ClockOut closes today's open entry, computing the duration in the same
// statement. ROUND on numeric rounds half away from zero, matching
// DurationMinutes.
func (s *PgStore) ClockOut(ctx context.Context, employee string, now time.Time) (*TimeEntry, error) {
	now = now.Truncate(time.Microsecond)
	var e TimeEntry
	err := s.pool.QueryRow(ctx, `
		UPDATE time_entries
		SET clock_out = $3,
		    duration_minutes = ROUND(EXTRACT(EPOCH FROM ($3::timestamptz - clock_in))::numeric / 60)::int
		WHERE employee_name = $1 AND date = $2 AND clock_out IS NULL
		RETURNING id, employee_name, clock_in, clock_out, duration_minutes, date`,
		employee, Day(now), now).
		Scan(&e.ID, &e.EmployeeName, &e.ClockIn, &e.ClockOut, &e.DurationMinutes, &e.Date)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotClockedIn
	}
	if err != nil {
		return nil, fmt.Errorf("clock out: %w", err)
	}
	return &e, nil
}

// ManualEntry inserts an already-closed entry. Overlap with existing
// entries is not validated; interval validation is the caller's policy.
func (s *PgStore) ManualEntry(ctx context.Context, employee string, clockIn, clockOut time.Time, date string) (*TimeEntry, error) {
	minutes := DurationMinutes(clockIn, clockOut)
	clockIn = clockIn.Truncate(time.Microsecond)
	clockOut = clockOut.Truncate(time.Microsecond)
	e := &TimeEntry{
		ID:              uuid.Must(uuid.NewV7()).String(),
		EmployeeName:    employee,
		ClockIn:         clockIn,
		ClockOut:        &clockOut,
		DurationMinutes: &minutes,
		Date:            date,
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO time_entries (id, employee_name, clock_in, clock_out, duration_minutes, date)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.EmployeeName, e.ClockIn, e.ClockOut, e.DurationMinutes, e.Date)
	if err != nil {
		return nil, fmt.Errorf("manual entry: %w", err)
	}
	return e, nil
}

// Open returns the open entry for (employee, date), or nil if there is none.
func (s *PgStore) Open(ctx context.Context, employee, date string) (*TimeEntry, error) {
	var e TimeEntry
	err := s.pool.QueryRow(ctx, `
		SELECT id, employee_name, clock_in, clock_out, duration_minutes, date
		FROM time_entries
		WHERE employee_name = $1 AND date = $2 AND clock_out IS NULL`,
		employee, date).
		Scan(&e.ID, &e.EmployeeName, &e.ClockIn, &e.ClockOut, &e.DurationMinutes, &e.Date)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open entry: %w", err)
	}
	return &e, nil
}

// List returns entries matching the optional filters, newest clock-in first.
func (s *PgStore) List(ctx context.Context, date, employee string) ([]TimeEntry, error) {
	query := `SELECT id, employee_name, clock_in, clock_out, duration_minutes, date
		FROM time_entries WHERE TRUE`
	var args []any
	if date != "" {
		args = append(args, date)
		query += fmt.Sprintf(" AND date = $%d", len(args))
	}
	if employee != "" {
		args = append(args, employee)
		query += fmt.Sprintf(" AND employee_name = $%d", len(args))
	}
	query += " ORDER BY clock_in DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()
	return scanEntryRows(rows)
}

// ListClosed returns closed entries for payroll, optionally restricted to
// [startDate, endDate] inclusive and to one employee. Dates are ISO strings
// so BETWEEN compares lexically.
func (s *PgStore) ListClosed(ctx context.Context, startDate, endDate, employee string) ([]TimeEntry, error) {
	query := `SELECT id, employee_name, clock_in, clock_out, duration_minutes, date
		FROM time_entries WHERE clock_out IS NOT NULL`
	var args []any
	if startDate != "" && endDate != "" {
		args = append(args, startDate, endDate)
		query += fmt.Sprintf(" AND date BETWEEN $%d AND $%d", len(args)-1, len(args))
	}
	if employee != "" {
		args = append(args, employee)
		query += fmt.Sprintf(" AND employee_name = $%d", len(args))
	}
	query += " ORDER BY employee_name, date, clock_in"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list closed entries: %w", err)
	}
	defer rows.Close()
	return scanEntryRows(rows)
}

// Count returns total entry count.
func (s *PgStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM time_entries`).Scan(&n)
	return n, err
}

func scanEntryRows(rows pgx.Rows) ([]TimeEntry, error) {
	var entries []TimeEntry
	for rows.Next() {
		var e TimeEntry
		if err := rows.Scan(&e.ID, &e.EmployeeName, &e.ClockIn, &e.ClockOut, &e.DurationMinutes, &e.Date); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}
	return entries, nil
}
