package query

import (
	"sort"
	"time"

	"taskflow/internal/models"
)

// UpcomingTask is an open task with a due date inside the window.
type UpcomingTask struct {
	models.Task
	Overdue bool `json:"overdue"`
}

// Upcoming returns open tasks due before now plus days, overdue ones first,
// then by due date, then by priority.
func Upcoming(tasks []models.Task, now time.Time, days int) []UpcomingTask {
	end := now.AddDate(0, 0, days)

	out := make([]UpcomingTask, 0)
	for _, t := range tasks {
		if t.Completed || t.DueDate == nil || t.DueDate.After(end) {
			continue
		}
		out = append(out, UpcomingTask{Task: t, Overdue: IsOverdue(t, now)})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Overdue != out[j].Overdue {
			return out[i].Overdue
		}
		if !out[i].DueDate.Equal(*out[j].DueDate) {
			return out[i].DueDate.Before(*out[j].DueDate)
		}
		return out[i].PriorityOrder() < out[j].PriorityOrder()
	})

	return out
}
