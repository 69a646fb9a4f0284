package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"taskflow/internal/models"
	"taskflow/internal/query"
	"taskflow/internal/store"
)

// ListService wraps list operations. Task counts are derived from the task
// snapshot on every read and never written back.
type ListService struct {
	store store.ListStore
	tasks store.TaskStore
}

func (s *ListService) counts(ctx context.Context) (map[int64]int, error) {
	tasks, err := s.tasks.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	return query.CountByList(tasks), nil
}

func (s *ListService) withCount(ctx context.Context, list *models.List) (*models.List, error) {
	counts, err := s.counts(ctx)
	if err != nil {
		return nil, err
	}
	list.TaskCount = counts[list.ID]
	return list, nil
}

// All returns every list in insertion order.
func (s *ListService) All(ctx context.Context) (lists []models.List, err error) {
	ctx, span := startSpan(ctx, "ListService.All")
	defer func() { endSpan(span, err) }()

	lists, err = s.store.ListLists(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.counts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range lists {
		lists[i].TaskCount = counts[lists[i].ID]
	}
	return lists, nil
}

func (s *ListService) Get(ctx context.Context, id int64) (list *models.List, err error) {
	ctx, span := startSpan(ctx, "ListService.Get", attribute.Int64("list.id", id))
	defer func() { endSpan(span, err) }()

	list, err = s.store.GetList(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withCount(ctx, list)
}

func (s *ListService) Create(ctx context.Context, in models.ListInput) (list *models.List, err error) {
	ctx, span := startSpan(ctx, "ListService.Create")
	defer func() { endSpan(span, err) }()

	if err := in.Validate(); err != nil {
		return nil, invalid(err)
	}
	list, err = s.store.CreateList(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.withCount(ctx, list)
}

func (s *ListService) Update(ctx context.Context, id int64, patch models.ListPatch) (list *models.List, err error) {
	ctx, span := startSpan(ctx, "ListService.Update", attribute.Int64("list.id", id))
	defer func() { endSpan(span, err) }()

	if err := patch.Validate(); err != nil {
		return nil, invalid(err)
	}
	list, err = s.store.UpdateList(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	return s.withCount(ctx, list)
}

// Delete removes a list. Its tasks keep their list id.
func (s *ListService) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := startSpan(ctx, "ListService.Delete", attribute.Int64("list.id", id))
	defer func() { endSpan(span, err) }()

	return s.store.DeleteList(ctx, id)
}

// Tasks returns the partitioned view of one list. The list must exist.
func (s *ListService) Tasks(ctx context.Context, id int64, f query.Filter) (p query.Partition, err error) {
	ctx, span := startSpan(ctx, "ListService.Tasks", attribute.Int64("list.id", id))
	defer func() { endSpan(span, err) }()

	if _, err := s.store.GetList(ctx, id); err != nil {
		return query.Partition{}, err
	}

	tasks, err := s.tasks.ListTasks(ctx)
	if err != nil {
		return query.Partition{}, err
	}
	f.ListID = id
	return query.Split(f.Apply(tasks)), nil
}
