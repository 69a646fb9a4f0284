package models

import (
	"errors"
	"strings"
	"time"
)

// Priority ranks a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Status is the workflow state of a task. Completed is authoritative; see Normalize.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// DefaultListID is the list a task lands in when the caller does not name one.
const DefaultListID int64 = 1

// Task represents a single to-do item within a list.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Priority    Priority   `json:"priority"`
	Status      Status     `json:"status"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"due_date"`
	StartDate   *time.Time `json:"start_date"`
	Notes       *string    `json:"notes"`
	ListID      int64      `json:"list_id"`
	CategoryID  *int64     `json:"category_id"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// TaskInput holds the caller-supplied fields for a new task.
type TaskInput struct {
	Title      string     `json:"title"`
	Priority   Priority   `json:"priority"`
	Status     Status     `json:"status"`
	Completed  bool       `json:"completed"`
	DueDate    *time.Time `json:"due_date"`
	StartDate  *time.Time `json:"start_date"`
	Notes      *string    `json:"notes"`
	ListID     int64      `json:"list_id"`
	CategoryID *int64     `json:"category_id"`
}

// TaskPatch is a partial update. Nil fields are left unchanged.
type TaskPatch struct {
	Title      *string             `json:"title"`
	Priority   *Priority           `json:"priority"`
	Status     *Status             `json:"status"`
	Completed  *bool               `json:"completed"`
	DueDate    Nullable[time.Time] `json:"due_date"`
	StartDate  Nullable[time.Time] `json:"start_date"`
	Notes      Nullable[string]    `json:"notes"`
	ListID     *int64              `json:"list_id"`
	CategoryID Nullable[int64]     `json:"category_id"`
}

// Validate checks that the input has valid field values.
func (in *TaskInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return errors.New("title is required")
	}

	if in.Priority != "" && !in.Priority.Valid() {
		return errors.New("priority must be 'high', 'medium', or 'low'")
	}

	if in.Status != "" && !in.Status.Valid() {
		return errors.New("status must be 'pending', 'in-progress', or 'completed'")
	}

	if in.ListID < 0 {
		return errors.New("list_id must be positive")
	}

	return nil
}

// Validate checks the fields the patch sets.
func (p *TaskPatch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return errors.New("title is required")
	}

	if p.Priority != nil && !p.Priority.Valid() {
		return errors.New("priority must be 'high', 'medium', or 'low'")
	}

	if p.Status != nil && !p.Status.Valid() {
		return errors.New("status must be 'pending', 'in-progress', or 'completed'")
	}

	if p.ListID != nil && *p.ListID <= 0 {
		return errors.New("list_id must be positive")
	}

	return nil
}

// NewTask builds the stored form of in. CompletedAt starts empty even for a
// task created as completed.
func NewTask(id int64, in TaskInput, now time.Time) Task {
	t := Task{
		ID:         id,
		Title:      in.Title,
		Priority:   in.Priority,
		Status:     in.Status,
		Completed:  in.Completed,
		DueDate:    clonePtr(in.DueDate),
		StartDate:  clonePtr(in.StartDate),
		Notes:      clonePtr(in.Notes),
		ListID:     in.ListID,
		CategoryID: clonePtr(in.CategoryID),
		CreatedAt:  now,
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.ListID == 0 {
		t.ListID = DefaultListID
	}
	t.Normalize()
	return t
}

// Apply merges p over t. A change of Completed stamps or clears CompletedAt.
func (t *Task) Apply(p TaskPatch, now time.Time) {
	applyTo(p.Title, &t.Title)
	applyTo(p.Priority, &t.Priority)
	applyTo(p.Status, &t.Status)
	applyTo(p.ListID, &t.ListID)
	p.DueDate.applyTo(&t.DueDate)
	p.StartDate.applyTo(&t.StartDate)
	p.Notes.applyTo(&t.Notes)
	p.CategoryID.applyTo(&t.CategoryID)

	if p.Completed != nil && *p.Completed != t.Completed {
		t.Completed = *p.Completed
		if t.Completed {
			stamp := now
			t.CompletedAt = &stamp
		} else {
			t.CompletedAt = nil
		}
	}

	t.Normalize()
}

// Normalize derives Status from Completed. An open task never reports
// "completed" and a completed task always does.
func (t *Task) Normalize() {
	switch {
	case t.Completed:
		t.Status = StatusCompleted
	case t.Status == StatusCompleted, t.Status == "":
		t.Status = StatusPending
	}
}

// Clone returns a copy of t that shares no memory with it.
func (t Task) Clone() Task {
	c := t
	c.DueDate = clonePtr(t.DueDate)
	c.StartDate = clonePtr(t.StartDate)
	c.Notes = clonePtr(t.Notes)
	c.CategoryID = clonePtr(t.CategoryID)
	c.CompletedAt = clonePtr(t.CompletedAt)
	return c
}

// PriorityOrder returns a numeric value for sorting by priority.
// Lower numbers indicate higher priority.
func (t *Task) PriorityOrder() int {
	switch t.Priority {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 99
	}
}
