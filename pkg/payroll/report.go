// Package payroll reduces closed time entries into per-employee shift
// lists and totals. It is a pure in-memory pass: the store hands it the
// date-ranged closed entries and it never touches the database.
package payroll

import (
	"math"
	"time"

	"blackpoint-portal/pkg/timeclock"
)

// Shift is one closed entry as it appears under an employee summary.
type Shift struct {
	Date     string    `json:"date"`
	ClockIn  time.Time `json:"clock_in"`
	ClockOut time.Time `json:"clock_out"`
	Hours    float64   `json:"hours"`
}

// EmployeeSummary is the per-employee reduction.
type EmployeeSummary struct {
	EmployeeName string  `json:"employee_name"`
	TotalMinutes int     `json:"total_minutes"`
	TotalHours   float64 `json:"total_hours"`
	Shifts       []Shift `json:"shifts"`
}

// Entry is one row of the flat entry list included alongside the
// summaries.
type Entry struct {
	EmployeeName    string    `json:"employee_name"`
	Date            string    `json:"date"`
	ClockIn         time.Time `json:"clock_in"`
	ClockOut        time.Time `json:"clock_out"`
	DurationMinutes int       `json:"duration_minutes"`
	Hours           float64   `json:"hours"`
}

// Report is the payroll report response.
type Report struct {
	StartDate string            `json:"startDate"`
	EndDate   string            `json:"endDate"`
	Employees []EmployeeSummary `json:"employees"`
	Entries   []Entry           `json:"entries"`
}

// BuildReport groups closed entries by employee and accumulates totals.
// Entries must already be filtered to closed rows; open entries are
// skipped defensively. Employee order follows first appearance, which is
// alphabetical when the entries come in store order.
func BuildReport(entries []timeclock.TimeEntry, startDate, endDate string) *Report {
	if startDate == "" {
		startDate = "All"
	}
	if endDate == "" {
		endDate = "All"
	}

	report := &Report{
		StartDate: startDate,
		EndDate:   endDate,
		Employees: []EmployeeSummary{},
		Entries:   []Entry{},
	}

	index := map[string]int{}
	for _, e := range entries {
		if e.ClockOut == nil || e.DurationMinutes == nil {
			continue
		}
		minutes := *e.DurationMinutes
		hours := roundHours(minutes)

		report.Entries = append(report.Entries, Entry{
			EmployeeName:    e.EmployeeName,
			Date:            e.Date,
			ClockIn:         e.ClockIn,
			ClockOut:        *e.ClockOut,
			DurationMinutes: minutes,
			Hours:           hours,
		})

		i, ok := index[e.EmployeeName]
		if !ok {
			i = len(report.Employees)
			index[e.EmployeeName] = i
			report.Employees = append(report.Employees, EmployeeSummary{EmployeeName: e.EmployeeName})
		}
		emp := &report.Employees[i]
		emp.TotalMinutes += minutes
		emp.Shifts = append(emp.Shifts, Shift{
			Date:     e.Date,
			ClockIn:  e.ClockIn,
			ClockOut: *e.ClockOut,
			Hours:    hours,
		})
	}

	for i := range report.Employees {
		report.Employees[i].TotalHours = roundHours(report.Employees[i].TotalMinutes)
	}
	return report
}

// roundHours converts minutes to hours rounded to two decimals, half away
// from zero.
func roundHours(minutes int) float64 {
	return math.Round(float64(minutes)/60*100) / 100
}
