package checklist

import (
	"context"
	"errors"
	"time"
)

// Task is one daily checklist item. Completed and CompletedAt move
// together: a task is completed exactly when CompletedAt is set.
type Task struct {
	ID          string     `json:"id"`
	TaskName    string     `json:"task_name"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	Date        string     `json:"date"` // YYYY-MM-DD
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	IsDefault   bool       `json:"is_default"`
	CreatedBy   string     `json:"created_by,omitempty"`
	SortOrder   int        `json:"sort_order"`
}

// DefaultTask is a template row copied into each day's checklist on first
// access to that date.
type DefaultTask struct {
	ID          string `json:"id"`
	TaskName    string `json:"task_name"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
}

// ErrNotFound is returned when an update targets a missing task.
var ErrNotFound = errors.New("task not found")

// Store is the contract for checklist persistence.
type Store interface {
	EnsureDailyTasks(ctx context.Context, date string) error
	ListTasks(ctx context.Context, date string) ([]Task, error)
	CreateTask(ctx context.Context, name, description, date, createdBy string) (*Task, error)
	ToggleComplete(ctx context.Context, id string, completed bool, now time.Time) (*Task, error)
	Reorder(ctx context.Context, ids []string) error
	DeleteTask(ctx context.Context, id string) error
	CountForDate(ctx context.Context, date string) (int, error)
	ListDefaults(ctx context.Context) ([]DefaultTask, error)
	CreateDefault(ctx context.Context, name, description string) (*DefaultTask, error)
	DeleteDefault(ctx context.Context, id string) error
	BootstrapDefaults(ctx context.Context) error
	EnsureTables(ctx context.Context) error
}

// seedTasks builds the per-date copies of the template list, preserving
// relative order with positional sort_order values.
func seedTasks(defaults []DefaultTask, date string, newID func() string) []Task {
	tasks := make([]Task, 0, len(defaults))
	for i, d := range defaults {
		tasks = append(tasks, Task{
			ID:          newID(),
			TaskName:    d.TaskName,
			Description: d.Description,
			Date:        date,
			IsDefault:   true,
			SortOrder:   i,
		})
	}
	return tasks
}

// stockTemplates is the template list installed when default_tasks is
// empty, matching the portal's original bookkeeping checklist.
var stockTemplates = []DefaultTask{
	{TaskName: "Check and respond to emails", Description: "Review inbox and reply to priority messages", SortOrder: 1},
	{TaskName: "Review pending invoices", Description: "Check for any outstanding client invoices and load into melio", SortOrder: 2},
	{TaskName: "Follow up on Collection Invoices", Description: "Ensure all client customers are emailed and collected on", SortOrder: 3},
	{TaskName: "Daily reconciliation check", Description: "Review daily transactions and balances in QBO", SortOrder: 4},
	{TaskName: "Post incoming payments for FCCLA and Utah TSA", Description: "Ensure all incoming payments have been properly posted and bank transactions cleared", SortOrder: 5},
}
