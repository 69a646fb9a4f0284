package query

import (
	"strings"

	"golang.org/x/text/cases"

	"taskflow/internal/models"
)

// fold is stateless and safe for concurrent use.
var fold = cases.Fold()

// MatchesSearch reports whether term occurs in the task title, ignoring case.
// An empty term matches every task.
func MatchesSearch(t models.Task, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(fold.String(t.Title), fold.String(term))
}

// Filter narrows a task snapshot the way the task views do.
type Filter struct {
	Search        string
	ShowCompleted bool
	// ListID restricts the view to one list when non-zero.
	ListID int64
}

// Apply returns the tasks that pass the filter, in their original order.
func (f Filter) Apply(tasks []models.Task) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if !f.ShowCompleted && t.Completed {
			continue
		}
		if f.ListID != 0 && t.ListID != f.ListID {
			continue
		}
		if !MatchesSearch(t, f.Search) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Partition groups tasks by completion.
type Partition struct {
	Pending   []models.Task `json:"pending"`
	Completed []models.Task `json:"completed"`
}

// Split partitions tasks, keeping the relative order within each group.
func Split(tasks []models.Task) Partition {
	p := Partition{
		Pending:   []models.Task{},
		Completed: []models.Task{},
	}
	for _, t := range tasks {
		if t.Completed {
			p.Completed = append(p.Completed, t)
		} else {
			p.Pending = append(p.Pending, t)
		}
	}
	return p
}
