package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"taskflow/internal/models"
	"taskflow/internal/query"
	"taskflow/internal/store"
)

// DefaultUpcomingDays is the upcoming window used when none is given.
const DefaultUpcomingDays = 7

// TaskService wraps task operations and the task views.
type TaskService struct {
	store store.TaskStore
	now   func() time.Time
}

// List returns every task, most recent first.
func (s *TaskService) List(ctx context.Context) (tasks []models.Task, err error) {
	ctx, span := startSpan(ctx, "TaskService.List")
	defer func() { endSpan(span, err) }()

	return s.store.ListTasks(ctx)
}

func (s *TaskService) Get(ctx context.Context, id int64) (task *models.Task, err error) {
	ctx, span := startSpan(ctx, "TaskService.Get", attribute.Int64("task.id", id))
	defer func() { endSpan(span, err) }()

	return s.store.GetTask(ctx, id)
}

func (s *TaskService) Create(ctx context.Context, in models.TaskInput) (task *models.Task, err error) {
	ctx, span := startSpan(ctx, "TaskService.Create")
	defer func() { endSpan(span, err) }()

	if err := in.Validate(); err != nil {
		return nil, invalid(err)
	}
	in.Title = strings.TrimSpace(in.Title)
	return s.store.CreateTask(ctx, in)
}

func (s *TaskService) Update(ctx context.Context, id int64, patch models.TaskPatch) (task *models.Task, err error) {
	ctx, span := startSpan(ctx, "TaskService.Update", attribute.Int64("task.id", id))
	defer func() { endSpan(span, err) }()

	if err := patch.Validate(); err != nil {
		return nil, invalid(err)
	}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		patch.Title = &title
	}
	return s.store.UpdateTask(ctx, id, patch)
}

func (s *TaskService) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := startSpan(ctx, "TaskService.Delete", attribute.Int64("task.id", id))
	defer func() { endSpan(span, err) }()

	return s.store.DeleteTask(ctx, id)
}

// Toggle flips the completion flag of a task. The read and the write are
// separate store operations.
func (s *TaskService) Toggle(ctx context.Context, id int64) (task *models.Task, err error) {
	ctx, span := startSpan(ctx, "TaskService.Toggle", attribute.Int64("task.id", id))
	defer func() { endSpan(span, err) }()

	current, err := s.store.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	completed := !current.Completed
	return s.store.UpdateTask(ctx, id, models.TaskPatch{Completed: &completed})
}

// View filters the task snapshot and splits it into pending and completed.
func (s *TaskService) View(ctx context.Context, f query.Filter) (p query.Partition, err error) {
	ctx, span := startSpan(ctx, "TaskService.View",
		attribute.String("filter.search", f.Search),
		attribute.Bool("filter.show_completed", f.ShowCompleted),
		attribute.Int64("filter.list_id", f.ListID),
	)
	defer func() { endSpan(span, err) }()

	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		return query.Partition{}, err
	}
	return query.Split(f.Apply(tasks)), nil
}

func (s *TaskService) Stats(ctx context.Context) (stats query.Stats, err error) {
	ctx, span := startSpan(ctx, "TaskService.Stats")
	defer func() { endSpan(span, err) }()

	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		return query.Stats{}, err
	}
	return query.ComputeStats(tasks, s.now()), nil
}

// Upcoming returns open tasks due within days. Zero selects
// DefaultUpcomingDays; any other value must be 7, 14 or 30.
func (s *TaskService) Upcoming(ctx context.Context, days int) (tasks []query.UpcomingTask, err error) {
	ctx, span := startSpan(ctx, "TaskService.Upcoming", attribute.Int("upcoming.days", days))
	defer func() { endSpan(span, err) }()

	if days == 0 {
		days = DefaultUpcomingDays
	}
	if days != 7 && days != 14 && days != 30 {
		return nil, invalid(fmt.Errorf("days must be 7, 14, or 30"))
	}

	all, err := s.store.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	return query.Upcoming(all, s.now(), days), nil
}

// Digest renders a plain-text summary of the day: the counters followed by
// overdue tasks and tasks due today.
func (s *TaskService) Digest(ctx context.Context) (digest string, err error) {
	ctx, span := startSpan(ctx, "TaskService.Digest")
	defer func() { endSpan(span, err) }()

	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		return "", err
	}

	now := s.now()
	stats := query.ComputeStats(tasks, now)

	var b strings.Builder
	fmt.Fprintf(&b, "Digest for %s: %d pending, %d completed, %d overdue, %d due today\n",
		now.Format("2006-01-02"), stats.Pending, stats.Completed, stats.Overdue, stats.Today)

	for _, t := range tasks {
		switch {
		case query.IsOverdue(t, now):
			fmt.Fprintf(&b, "  overdue: %s (due %s)\n", t.Title, t.DueDate.In(now.Location()).Format("2006-01-02 15:04"))
		case !t.Completed && query.IsDueToday(t, now):
			fmt.Fprintf(&b, "  today: %s (due %s)\n", t.Title, t.DueDate.In(now.Location()).Format("15:04"))
		}
	}

	return b.String(), nil
}
