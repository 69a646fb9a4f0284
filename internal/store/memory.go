package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"taskflow/internal/models"
)

const (
	entityTask     = "task"
	entityList     = "list"
	entityCategory = "category"
)

// collection is the authoritative in-memory copy of one entity type. Every
// read and write holds mu, so a lookup and the mutation that follows it are
// never interleaved with another operation on the same collection.
type collection[T any] struct {
	entity string
	idOf   func(T) int64
	clone  func(T) T

	mu     sync.RWMutex
	items  map[int64]T
	order  []int64
	nextID int64
}

func newCollection[T any](entity string, idOf func(T) int64, clone func(T) T) *collection[T] {
	return &collection[T]{
		entity: entity,
		idOf:   idOf,
		clone:  clone,
		items:  make(map[int64]T),
		nextID: 1,
	}
}

// seed appends items in the given order and moves the id counter past the
// largest seeded id.
func (c *collection[T]) seed(items []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, item := range items {
		id := c.idOf(item)
		if id <= 0 {
			return fmt.Errorf("invalid %s id in seed: %d", c.entity, id)
		}
		if _, exists := c.items[id]; exists {
			return fmt.Errorf("duplicate %s id in seed: %d", c.entity, id)
		}
		c.items[id] = c.clone(item)
		c.order = append(c.order, id)
		if id >= c.nextID {
			c.nextID = id + 1
		}
	}
	return nil
}

func (c *collection[T]) all() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.clone(c.items[id]))
	}
	return out
}

func (c *collection[T]) get(id int64) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.items[id]
	if !ok {
		var zero T
		return zero, notFound(c.entity, id)
	}
	return c.clone(item), nil
}

// insert assigns the next id, builds the record with build and stores it at
// the front or the back of the collection. build receives the current size.
func (c *collection[T]) insert(front bool, build func(id int64, size int) T) T {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++

	item := build(id, len(c.order))
	c.items[id] = item
	if front {
		c.order = append([]int64{id}, c.order...)
	} else {
		c.order = append(c.order, id)
	}
	return c.clone(item)
}

func (c *collection[T]) update(id int64, mutate func(*T)) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[id]
	if !ok {
		var zero T
		return zero, notFound(c.entity, id)
	}
	mutate(&item)
	c.items[id] = item
	return c.clone(item), nil
}

func (c *collection[T]) remove(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[id]; !ok {
		return notFound(c.entity, id)
	}
	delete(c.items, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func (c *collection[T]) empty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order) == 0
}

// MemoryStore implements the Store interface on process memory.
type MemoryStore struct {
	tasks      *collection[models.Task]
	lists      *collection[models.List]
	categories *collection[models.Category]

	latency Latency
	now     func() time.Time
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithLatency sets the latency policy. The default is NoLatency.
func WithLatency(l Latency) MemoryOption {
	return func(s *MemoryStore) { s.latency = l }
}

// WithClock sets the clock used for created_at and completed_at.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) { s.now = now }
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		tasks: newCollection(entityTask,
			func(t models.Task) int64 { return t.ID },
			models.Task.Clone),
		lists: newCollection(entityList,
			func(l models.List) int64 { return l.ID },
			models.List.Clone),
		categories: newCollection(entityCategory,
			func(c models.Category) int64 { return c.ID },
			models.Category.Clone),
		latency: NoLatency{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed loads fixtures. It fails if any collection already holds data.
func (s *MemoryStore) Seed(ctx context.Context, f Fixtures) error {
	if !s.tasks.empty() || !s.lists.empty() || !s.categories.empty() {
		return ErrNotEmpty
	}
	if err := s.lists.seed(f.Lists); err != nil {
		return fmt.Errorf("failed to seed lists: %w", err)
	}
	if err := s.categories.seed(f.Categories); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}
	tasks := make([]models.Task, len(f.Tasks))
	for i, t := range f.Tasks {
		t.Normalize()
		tasks[i] = t
	}
	if err := s.tasks.seed(tasks); err != nil {
		return fmt.Errorf("failed to seed tasks: %w", err)
	}
	return nil
}

// Close implements Store. The memory store holds no resources.
func (s *MemoryStore) Close() error {
	return nil
}

// ListTasks returns all tasks, most recently created first.
func (s *MemoryStore) ListTasks(ctx context.Context) ([]models.Task, error) {
	wait(s.latency, entityTask, OpList)
	return s.tasks.all(), nil
}

// GetTask retrieves a task by ID.
func (s *MemoryStore) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	wait(s.latency, entityTask, OpGet)
	task, err := s.tasks.get(id)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// CreateTask stores a new task at the front of the collection.
func (s *MemoryStore) CreateTask(ctx context.Context, in models.TaskInput) (*models.Task, error) {
	wait(s.latency, entityTask, OpCreate)
	task := s.tasks.insert(true, func(id int64, _ int) models.Task {
		return models.NewTask(id, in, s.now())
	})
	return &task, nil
}

// UpdateTask merges patch over the stored task.
func (s *MemoryStore) UpdateTask(ctx context.Context, id int64, patch models.TaskPatch) (*models.Task, error) {
	wait(s.latency, entityTask, OpUpdate)
	task, err := s.tasks.update(id, func(t *models.Task) {
		t.Apply(patch, s.now())
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask deletes a task by ID.
func (s *MemoryStore) DeleteTask(ctx context.Context, id int64) error {
	wait(s.latency, entityTask, OpDelete)
	return s.tasks.remove(id)
}

// ListLists returns all lists in insertion order.
func (s *MemoryStore) ListLists(ctx context.Context) ([]models.List, error) {
	wait(s.latency, entityList, OpList)
	return s.lists.all(), nil
}

// GetList retrieves a list by ID.
func (s *MemoryStore) GetList(ctx context.Context, id int64) (*models.List, error) {
	wait(s.latency, entityList, OpGet)
	list, err := s.lists.get(id)
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// CreateList appends a new list.
func (s *MemoryStore) CreateList(ctx context.Context, in models.ListInput) (*models.List, error) {
	wait(s.latency, entityList, OpCreate)
	list := s.lists.insert(false, func(id int64, size int) models.List {
		return models.NewList(id, in, size)
	})
	return &list, nil
}

// UpdateList merges patch over the stored list.
func (s *MemoryStore) UpdateList(ctx context.Context, id int64, patch models.ListPatch) (*models.List, error) {
	wait(s.latency, entityList, OpUpdate)
	list, err := s.lists.update(id, func(l *models.List) {
		l.Apply(patch)
	})
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// DeleteList deletes a list by ID. Tasks that reference it are left alone.
func (s *MemoryStore) DeleteList(ctx context.Context, id int64) error {
	wait(s.latency, entityList, OpDelete)
	return s.lists.remove(id)
}

// ListCategories returns all categories in insertion order.
func (s *MemoryStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	wait(s.latency, entityCategory, OpList)
	return s.categories.all(), nil
}

// GetCategory retrieves a category by ID.
func (s *MemoryStore) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	wait(s.latency, entityCategory, OpGet)
	cat, err := s.categories.get(id)
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// CreateCategory appends a new category.
func (s *MemoryStore) CreateCategory(ctx context.Context, in models.CategoryInput) (*models.Category, error) {
	wait(s.latency, entityCategory, OpCreate)
	cat := s.categories.insert(false, func(id int64, _ int) models.Category {
		return models.NewCategory(id, in)
	})
	return &cat, nil
}

// UpdateCategory merges patch over the stored category.
func (s *MemoryStore) UpdateCategory(ctx context.Context, id int64, patch models.CategoryPatch) (*models.Category, error) {
	wait(s.latency, entityCategory, OpUpdate)
	cat, err := s.categories.update(id, func(c *models.Category) {
		c.Apply(patch)
	})
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// DeleteCategory deletes a category by ID.
func (s *MemoryStore) DeleteCategory(ctx context.Context, id int64) error {
	wait(s.latency, entityCategory, OpDelete)
	return s.categories.remove(id)
}
