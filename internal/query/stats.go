// Package query holds pure derivations over task snapshots.
package query

import (
	"time"

	"taskflow/internal/models"
)

// Stats aggregates a task snapshot for the dashboard.
type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
	Overdue   int `json:"overdue"`
	Today     int `json:"today"`
}

// ComputeStats counts tasks by completion and due date relative to now.
// Tasks due today are counted whether or not they are completed.
func ComputeStats(tasks []models.Task, now time.Time) Stats {
	s := Stats{Total: len(tasks)}
	for i := range tasks {
		if tasks[i].Completed {
			s.Completed++
		} else {
			s.Pending++
		}
		if IsOverdue(tasks[i], now) {
			s.Overdue++
		}
		if IsDueToday(tasks[i], now) {
			s.Today++
		}
	}
	return s
}

// IsOverdue reports whether an open task was due strictly before now.
func IsOverdue(t models.Task, now time.Time) bool {
	return t.DueDate != nil && !t.Completed && t.DueDate.Before(now)
}

// IsDueToday reports whether the task is due on now's calendar day, in
// now's location.
func IsDueToday(t models.Task, now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	y1, m1, d1 := t.DueDate.In(now.Location()).Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// CountByList returns the number of tasks that reference each list id.
func CountByList(tasks []models.Task) map[int64]int {
	counts := make(map[int64]int)
	for i := range tasks {
		counts[tasks[i].ListID]++
	}
	return counts
}
