package api

import (
	"context"
	"fmt"
	"sort"
	"time"

	"blackpoint-portal/pkg/checklist"
	"blackpoint-portal/pkg/crm"
	"blackpoint-portal/pkg/timeclock"
)

// In-memory stores implementing the domain contracts, so handler tests run
// without a database.

type fakeTimeclock struct {
	entries []timeclock.TimeEntry
	nextID  int
}

func (f *fakeTimeclock) id() string {
	f.nextID++
	return fmt.Sprintf("entry-%d", f.nextID)
}

func (f *fakeTimeclock) openIndex(employee, date string) int {
	for i, e := range f.entries {
		if e.EmployeeName == employee && e.Date == date && e.ClockOut == nil {
			return i
		}
	}
	return -1
}

func (f *fakeTimeclock) ClockIn(_ context.Context, employee string, now time.Time) (*timeclock.TimeEntry, error) {
	if f.openIndex(employee, timeclock.Day(now)) >= 0 {
		return nil, timeclock.ErrAlreadyClockedIn
	}
	e := timeclock.TimeEntry{
		ID:           f.id(),
		EmployeeName: employee,
		ClockIn:      now,
		Date:         timeclock.Day(now),
	}
	f.entries = append(f.entries, e)
	return &e, nil
}

func (f *fakeTimeclock) ClockOut(_ context.Context, employee string, now time.Time) (*timeclock.TimeEntry, error) {
	i := f.openIndex(employee, timeclock.Day(now))
	if i < 0 {
		return nil, timeclock.ErrNotClockedIn
	}
	minutes := timeclock.DurationMinutes(f.entries[i].ClockIn, now)
	f.entries[i].ClockOut = &now
	f.entries[i].DurationMinutes = &minutes
	e := f.entries[i]
	return &e, nil
}

func (f *fakeTimeclock) ManualEntry(_ context.Context, employee string, clockIn, clockOut time.Time, date string) (*timeclock.TimeEntry, error) {
	minutes := timeclock.DurationMinutes(clockIn, clockOut)
	e := timeclock.TimeEntry{
		ID:              f.id(),
		EmployeeName:    employee,
		ClockIn:         clockIn,
		ClockOut:        &clockOut,
		DurationMinutes: &minutes,
		Date:            date,
	}
	f.entries = append(f.entries, e)
	return &e, nil
}

func (f *fakeTimeclock) Open(_ context.Context, employee, date string) (*timeclock.TimeEntry, error) {
	if i := f.openIndex(employee, date); i >= 0 {
		e := f.entries[i]
		return &e, nil
	}
	return nil, nil
}

func (f *fakeTimeclock) List(_ context.Context, date, employee string) ([]timeclock.TimeEntry, error) {
	var out []timeclock.TimeEntry
	for _, e := range f.entries {
		if date != "" && e.Date != date {
			continue
		}
		if employee != "" && e.EmployeeName != employee {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClockIn.After(out[j].ClockIn) })
	return out, nil
}

func (f *fakeTimeclock) ListClosed(_ context.Context, startDate, endDate, employee string) ([]timeclock.TimeEntry, error) {
	var out []timeclock.TimeEntry
	for _, e := range f.entries {
		if e.ClockOut == nil {
			continue
		}
		if startDate != "" && endDate != "" && (e.Date < startDate || e.Date > endDate) {
			continue
		}
		if employee != "" && e.EmployeeName != employee {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EmployeeName != out[j].EmployeeName {
			return out[i].EmployeeName < out[j].EmployeeName
		}
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].ClockIn.Before(out[j].ClockIn)
	})
	return out, nil
}

func (f *fakeTimeclock) Count(context.Context) (int, error) { return len(f.entries), nil }
func (f *fakeTimeclock) EnsureTable(context.Context) error  { return nil }

type fakeChecklist struct {
	tasks    []checklist.Task
	defaults []checklist.DefaultTask
	seeded   map[string]bool
	nextID   int
}

func newFakeChecklist(defaults ...checklist.DefaultTask) *fakeChecklist {
	return &fakeChecklist{defaults: defaults, seeded: map[string]bool{}}
}

func (f *fakeChecklist) id() string {
	f.nextID++
	return fmt.Sprintf("task-%d", f.nextID)
}

func (f *fakeChecklist) EnsureDailyTasks(_ context.Context, date string) error {
	if f.seeded[date] {
		return nil
	}
	f.seeded[date] = true
	for i, d := range f.defaults {
		f.tasks = append(f.tasks, checklist.Task{
			ID:          f.id(),
			TaskName:    d.TaskName,
			Description: d.Description,
			Date:        date,
			IsDefault:   true,
			SortOrder:   i,
		})
	}
	return nil
}

func (f *fakeChecklist) ListTasks(_ context.Context, date string) ([]checklist.Task, error) {
	var out []checklist.Task
	for _, t := range f.tasks {
		if t.Date == date {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Completed != out[j].Completed {
			return !out[i].Completed
		}
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeChecklist) CreateTask(_ context.Context, name, description, date, createdBy string) (*checklist.Task, error) {
	max := 0
	for _, t := range f.tasks {
		if t.Date == date && t.SortOrder > max {
			max = t.SortOrder
		}
	}
	t := checklist.Task{
		ID:          f.id(),
		TaskName:    name,
		Description: description,
		Date:        date,
		CreatedBy:   createdBy,
		SortOrder:   max + 1,
	}
	f.tasks = append(f.tasks, t)
	return &t, nil
}

func (f *fakeChecklist) ToggleComplete(_ context.Context, id string, completed bool, now time.Time) (*checklist.Task, error) {
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks[i].Completed = completed
			if completed {
				f.tasks[i].CompletedAt = &now
			} else {
				f.tasks[i].CompletedAt = nil
			}
			t := f.tasks[i]
			return &t, nil
		}
	}
	return nil, checklist.ErrNotFound
}

func (f *fakeChecklist) Reorder(_ context.Context, ids []string) error {
	pos := map[string]int{}
	for i, id := range ids {
		pos[id] = i
	}
	for i := range f.tasks {
		if p, ok := pos[f.tasks[i].ID]; ok {
			f.tasks[i].SortOrder = p
		}
	}
	return nil
}

func (f *fakeChecklist) DeleteTask(_ context.Context, id string) error {
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeChecklist) CountForDate(_ context.Context, date string) (int, error) {
	n := 0
	for _, t := range f.tasks {
		if t.Date == date {
			n++
		}
	}
	return n, nil
}

func (f *fakeChecklist) ListDefaults(context.Context) ([]checklist.DefaultTask, error) {
	return append([]checklist.DefaultTask(nil), f.defaults...), nil
}

func (f *fakeChecklist) CreateDefault(_ context.Context, name, description string) (*checklist.DefaultTask, error) {
	max := 0
	for _, d := range f.defaults {
		if d.SortOrder > max {
			max = d.SortOrder
		}
	}
	d := checklist.DefaultTask{
		ID:          f.id(),
		TaskName:    name,
		Description: description,
		SortOrder:   max + 1,
	}
	f.defaults = append(f.defaults, d)
	return &d, nil
}

func (f *fakeChecklist) DeleteDefault(_ context.Context, id string) error {
	for i := range f.defaults {
		if f.defaults[i].ID == id {
			f.defaults = append(f.defaults[:i], f.defaults[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeChecklist) BootstrapDefaults(context.Context) error { return nil }
func (f *fakeChecklist) EnsureTables(context.Context) error      { return nil }

type fakeCRM struct {
	clients  []crm.Client
	projects []crm.Project
	nextID   int
}

func (f *fakeCRM) id() string {
	f.nextID++
	return fmt.Sprintf("crm-%d", f.nextID)
}

func (f *fakeCRM) ListClients(context.Context) ([]crm.Client, error) {
	return append([]crm.Client(nil), f.clients...), nil
}

func (f *fakeCRM) CreateClient(_ context.Context, name string) (*crm.Client, error) {
	c := crm.Client{ID: f.id(), ClientName: name, CreatedAt: time.Now()}
	f.clients = append(f.clients, c)
	return &c, nil
}

func (f *fakeCRM) DeleteClient(_ context.Context, id string) error {
	var kept []crm.Project
	for _, p := range f.projects {
		if p.ClientID != id {
			kept = append(kept, p)
		}
	}
	f.projects = kept
	for i := range f.clients {
		if f.clients[i].ID == id {
			f.clients = append(f.clients[:i], f.clients[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeCRM) ListProjects(_ context.Context, clientID string) ([]crm.Project, error) {
	var out []crm.Project
	for _, p := range f.projects {
		if clientID == "" || p.ClientID == clientID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate < out[j].DueDate })
	return out, nil
}

func (f *fakeCRM) CreateProject(_ context.Context, p *crm.Project) (*crm.Project, error) {
	p.ID = f.id()
	p.CreatedAt = time.Now()
	f.projects = append(f.projects, *p)
	return p, nil
}

func (f *fakeCRM) UpdateProject(_ context.Context, id string, updates map[string]any) (*crm.Project, error) {
	for i := range f.projects {
		if f.projects[i].ID != id {
			continue
		}
		p := &f.projects[i]
		for k, v := range updates {
			switch k {
			case "project_name":
				p.ProjectName, _ = v.(string)
			case "description":
				p.Description, _ = v.(string)
			case "due_date":
				p.DueDate, _ = v.(string)
			case "completed":
				done, _ := v.(bool)
				p.Completed = done
				if done {
					now := time.Now()
					p.CompletedAt = &now
				} else {
					p.CompletedAt = nil
				}
			}
		}
		out := *p
		return &out, nil
	}
	return nil, crm.ErrNotFound
}

func (f *fakeCRM) DeleteProject(_ context.Context, id string) error {
	for i := range f.projects {
		if f.projects[i].ID == id {
			f.projects = append(f.projects[:i], f.projects[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeCRM) DueOrOverdue(_ context.Context, today string) ([]crm.Project, error) {
	var out []crm.Project
	for _, p := range f.projects {
		if p.Overdue(today) || p.DueToday(today) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate < out[j].DueDate })
	return out, nil
}

func (f *fakeCRM) Counts(context.Context) (int, int, error) {
	return len(f.clients), len(f.projects), nil
}

func (f *fakeCRM) EnsureTables(context.Context) error { return nil }
