package store

import (
	"context"
	"errors"
	"fmt"

	"taskflow/internal/models"
)

// ErrNotFound is returned when no entity has the requested id.
var ErrNotFound = errors.New("not found")

// ErrNotEmpty is returned by Seed when the store already holds data.
var ErrNotEmpty = errors.New("store is not empty")

func notFound(entity string, id int64) error {
	return fmt.Errorf("%s %w: %d", entity, ErrNotFound, id)
}

// TaskStore owns the task collection. Returned values are copies.
type TaskStore interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	GetTask(ctx context.Context, id int64) (*models.Task, error)
	CreateTask(ctx context.Context, in models.TaskInput) (*models.Task, error)
	UpdateTask(ctx context.Context, id int64, patch models.TaskPatch) (*models.Task, error)
	DeleteTask(ctx context.Context, id int64) error
}

// ListStore owns the list collection. Returned values are copies.
type ListStore interface {
	ListLists(ctx context.Context) ([]models.List, error)
	GetList(ctx context.Context, id int64) (*models.List, error)
	CreateList(ctx context.Context, in models.ListInput) (*models.List, error)
	UpdateList(ctx context.Context, id int64, patch models.ListPatch) (*models.List, error)
	DeleteList(ctx context.Context, id int64) error
}

// CategoryStore owns the category collection. Returned values are copies.
type CategoryStore interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id int64) (*models.Category, error)
	CreateCategory(ctx context.Context, in models.CategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, id int64, patch models.CategoryPatch) (*models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

// Store defines the interface for data persistence operations.
type Store interface {
	TaskStore
	ListStore
	CategoryStore

	// Seed loads fixtures into an empty store.
	Seed(ctx context.Context, f Fixtures) error

	// Lifecycle
	Close() error
}
