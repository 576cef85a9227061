package timeclock

import (
	"context"
	"errors"
	"math"
	"time"
)

// TimeEntry is one shift row. An entry with ClockOut unset is "open": the
// employee is currently clocked in.
type TimeEntry struct {
	ID              string     `json:"id"`
	EmployeeName    string     `json:"employee_name"`
	ClockIn         time.Time  `json:"clock_in"`
	ClockOut        *time.Time `json:"clock_out,omitempty"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"`
	Date            string     `json:"date"` // YYYY-MM-DD
}

var (
	// ErrAlreadyClockedIn means an open entry already exists for the
	// employee today.
	ErrAlreadyClockedIn = errors.New("already clocked in")
	// ErrNotClockedIn means there is no open entry to close.
	ErrNotClockedIn = errors.New("not currently clocked in")
	// ErrInvalidInterval means clock out is not after clock in.
	ErrInvalidInterval = errors.New("clock out must be after clock in")
)

// Store is the contract for time entry persistence.
type Store interface {
	ClockIn(ctx context.Context, employee string, now time.Time) (*TimeEntry, error)
	ClockOut(ctx context.Context, employee string, now time.Time) (*TimeEntry, error)
	ManualEntry(ctx context.Context, employee string, clockIn, clockOut time.Time, date string) (*TimeEntry, error)
	Open(ctx context.Context, employee, date string) (*TimeEntry, error)
	List(ctx context.Context, date, employee string) ([]TimeEntry, error)
	ListClosed(ctx context.Context, startDate, endDate, employee string) ([]TimeEntry, error)
	Count(ctx context.Context) (int, error)
	EnsureTable(ctx context.Context) error
}

// Day formats t as the calendar-day string stored in the date column.
func Day(t time.Time) string {
	return t.Format("2006-01-02")
}

// DurationMinutes rounds the interval to whole minutes, half away from zero.
func DurationMinutes(clockIn, clockOut time.Time) int {
	return int(math.Round(clockOut.Sub(clockIn).Minutes()))
}
