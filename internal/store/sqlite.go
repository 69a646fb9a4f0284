package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"taskflow/internal/models"
)

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore creates a new SQLite store with the given database path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db, now: time.Now}
	if err := runMigrations(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// SetClock replaces the clock used for created_at and completed_at.
func (s *SQLiteStore) SetClock(now func() time.Time) {
	s.now = now
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Seed inserts fixtures with their ids. It returns ErrNotEmpty when any
// table already has rows.
func (s *SQLiteStore) Seed(ctx context.Context, f Fixtures) error {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM tasks) + (SELECT COUNT(*) FROM lists) + (SELECT COUNT(*) FROM categories)
	`).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to count rows: %w", err)
	}
	if count > 0 {
		return ErrNotEmpty
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, l := range f.Lists {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO lists (id, name, color, task_count, sort_order) VALUES (?, ?, ?, ?, ?)
		`, l.ID, l.Name, l.Color, l.TaskCount, l.Order); err != nil {
			return fmt.Errorf("failed to seed list %d: %w", l.ID, err)
		}
	}

	for _, c := range f.Categories {
		attrs, err := encodeAttributes(c.Attributes)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO categories (id, name, color, attributes) VALUES (?, ?, ?, ?)
		`, c.ID, c.Name, c.Color, attrs); err != nil {
			return fmt.Errorf("failed to seed category %d: %w", c.ID, err)
		}
	}

	for i, t := range f.Tasks {
		t.Normalize()
		if err := insertTask(ctx, tx, t, i); err != nil {
			return fmt.Errorf("failed to seed task %d: %w", t.ID, err)
		}
	}

	return tx.Commit()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

const taskColumns = `id, title, priority, status, completed, due_date, start_date, notes, list_id, category_id, created_at, completed_at`

func scanTask(row rowScanner) (models.Task, error) {
	var (
		task        models.Task
		dueDate     sql.NullTime
		startDate   sql.NullTime
		notes       sql.NullString
		categoryID  sql.NullInt64
		completedAt sql.NullTime
	)

	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Priority,
		&task.Status,
		&task.Completed,
		&dueDate,
		&startDate,
		&notes,
		&task.ListID,
		&categoryID,
		&task.CreatedAt,
		&completedAt,
	)
	if err != nil {
		return models.Task{}, err
	}

	task.DueDate = nullTime(dueDate)
	task.StartDate = nullTime(startDate)
	task.CompletedAt = nullTime(completedAt)
	if notes.Valid {
		task.Notes = &notes.String
	}
	if categoryID.Valid {
		task.CategoryID = &categoryID.Int64
	}

	return task, nil
}

func insertTask(ctx context.Context, tx *sql.Tx, t models.Task, position int) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO tasks (id, title, priority, status, completed, due_date, start_date, notes, list_id, category_id, position, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.Title, t.Priority, t.Status, t.Completed, t.DueDate, t.StartDate, t.Notes,
		t.ListID, t.CategoryID, position, t.CreatedAt, t.CompletedAt)
	return err
}

// ListTasks returns all tasks, most recently created first.
func (s *SQLiteStore) ListTasks(ctx context.Context) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY position ASC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

// GetTask retrieves a task by ID.
func (s *SQLiteStore) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	task, err := scanTask(s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound(entityTask, id)
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return &task, nil
}

// CreateTask inserts a task ahead of every existing one.
func (s *SQLiteStore) CreateTask(ctx context.Context, in models.TaskInput) (*models.Task, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var position int
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MIN(position), 0) - 1 FROM tasks`).Scan(&position); err != nil {
		return nil, fmt.Errorf("failed to compute task position: %w", err)
	}

	task := models.NewTask(0, in, s.now())
	result, err := tx.ExecContext(ctx, `
		INSERT INTO tasks (title, priority, status, completed, due_date, start_date, notes, list_id, category_id, position, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, task.Title, task.Priority, task.Status, task.Completed, task.DueDate, task.StartDate, task.Notes,
		task.ListID, task.CategoryID, position, task.CreatedAt, task.CompletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}
	task.ID = id

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit task: %w", err)
	}
	return &task, nil
}

// UpdateTask merges patch over the stored task inside one transaction.
func (s *SQLiteStore) UpdateTask(ctx context.Context, id int64, patch models.TaskPatch) (*models.Task, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	task, err := scanTask(tx.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound(entityTask, id)
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	task.Apply(patch, s.now())

	_, err = tx.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, priority = ?, status = ?, completed = ?, due_date = ?, start_date = ?, notes = ?,
			list_id = ?, category_id = ?, completed_at = ?
		WHERE id = ?
	`, task.Title, task.Priority, task.Status, task.Completed, task.DueDate, task.StartDate, task.Notes,
		task.ListID, task.CategoryID, task.CompletedAt, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit task: %w", err)
	}
	return &task, nil
}

// DeleteTask deletes a task by ID.
func (s *SQLiteStore) DeleteTask(ctx context.Context, id int64) error {
	return s.deleteRow(ctx, "tasks", entityTask, id)
}

const listColumns = `id, name, color, task_count, sort_order`

func scanList(row rowScanner) (models.List, error) {
	var list models.List
	err := row.Scan(&list.ID, &list.Name, &list.Color, &list.TaskCount, &list.Order)
	return list, err
}

// ListLists returns all lists in creation order.
func (s *SQLiteStore) ListLists(ctx context.Context) ([]models.List, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+listColumns+` FROM lists ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list lists: %w", err)
	}
	defer rows.Close()

	lists := []models.List{}
	for rows.Next() {
		list, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		lists = append(lists, list)
	}

	return lists, rows.Err()
}

// GetList retrieves a list by ID.
func (s *SQLiteStore) GetList(ctx context.Context, id int64) (*models.List, error) {
	list, err := scanList(s.db.QueryRowContext(ctx, `SELECT `+listColumns+` FROM lists WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound(entityList, id)
		}
		return nil, fmt.Errorf("failed to get list: %w", err)
	}
	return &list, nil
}

// CreateList appends a list whose order is the number of lists before it.
func (s *SQLiteStore) CreateList(ctx context.Context, in models.ListInput) (*models.List, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var size int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM lists`).Scan(&size); err != nil {
		return nil, fmt.Errorf("failed to count lists: %w", err)
	}

	list := models.NewList(0, in, size)
	result, err := tx.ExecContext(ctx, `
		INSERT INTO lists (name, color, task_count, sort_order) VALUES (?, ?, ?, ?)
	`, list.Name, list.Color, list.TaskCount, list.Order)
	if err != nil {
		return nil, fmt.Errorf("failed to create list: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}
	list.ID = id

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit list: %w", err)
	}
	return &list, nil
}

// UpdateList merges patch over the stored list.
func (s *SQLiteStore) UpdateList(ctx context.Context, id int64, patch models.ListPatch) (*models.List, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	list, err := scanList(tx.QueryRowContext(ctx, `SELECT `+listColumns+` FROM lists WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound(entityList, id)
		}
		return nil, fmt.Errorf("failed to get list: %w", err)
	}

	list.Apply(patch)

	if _, err := tx.ExecContext(ctx, `
		UPDATE lists SET name = ?, color = ?, sort_order = ? WHERE id = ?
	`, list.Name, list.Color, list.Order, id); err != nil {
		return nil, fmt.Errorf("failed to update list: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit list: %w", err)
	}
	return &list, nil
}

// DeleteList deletes a list by ID. Tasks that reference it are left alone.
func (s *SQLiteStore) DeleteList(ctx context.Context, id int64) error {
	return s.deleteRow(ctx, "lists", entityList, id)
}

const categoryColumns = `id, name, color, attributes`

func scanCategory(row rowScanner) (models.Category, error) {
	var (
		cat   models.Category
		attrs string
	)
	if err := row.Scan(&cat.ID, &cat.Name, &cat.Color, &attrs); err != nil {
		return models.Category{}, err
	}
	if err := json.Unmarshal([]byte(attrs), &cat.Attributes); err != nil {
		return models.Category{}, fmt.Errorf("failed to decode attributes of category %d: %w", cat.ID, err)
	}
	if len(cat.Attributes) == 0 {
		cat.Attributes = nil
	}
	return cat, nil
}

func encodeAttributes(attrs map[string]string) (string, error) {
	if attrs == nil {
		return "{}", nil
	}
	b, err := json.Marshal(attrs)
	if err != nil {
		return "", fmt.Errorf("failed to encode attributes: %w", err)
	}
	return string(b), nil
}

// ListCategories returns all categories in creation order.
func (s *SQLiteStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}

	return categories, rows.Err()
}

// GetCategory retrieves a category by ID.
func (s *SQLiteStore) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	cat, err := scanCategory(s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound(entityCategory, id)
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &cat, nil
}

// CreateCategory appends a new category.
func (s *SQLiteStore) CreateCategory(ctx context.Context, in models.CategoryInput) (*models.Category, error) {
	cat := models.NewCategory(0, in)
	attrs, err := encodeAttributes(cat.Attributes)
	if err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (name, color, attributes) VALUES (?, ?, ?)
	`, cat.Name, cat.Color, attrs)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}
	cat.ID = id

	return &cat, nil
}

// UpdateCategory merges patch over the stored category.
func (s *SQLiteStore) UpdateCategory(ctx context.Context, id int64, patch models.CategoryPatch) (*models.Category, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	cat, err := scanCategory(tx.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound(entityCategory, id)
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	cat.Apply(patch)
	attrs, err := encodeAttributes(cat.Attributes)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE categories SET name = ?, color = ?, attributes = ? WHERE id = ?
	`, cat.Name, cat.Color, attrs, id); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit category: %w", err)
	}
	return &cat, nil
}

// DeleteCategory deletes a category by ID.
func (s *SQLiteStore) DeleteCategory(ctx context.Context, id int64) error {
	return s.deleteRow(ctx, "categories", entityCategory, id)
}

// deleteRow removes one row from table. The table name is never user input.
func (s *SQLiteStore) deleteRow(ctx context.Context, table, entity string, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", entity, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to count deleted rows: %w", err)
	}
	if n == 0 {
		return notFound(entity, id)
	}
	return nil
}

func nullTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
