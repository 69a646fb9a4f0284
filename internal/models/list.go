package models

import (
	"errors"
	"strings"
)

// List groups tasks in the sidebar.
type List struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	// TaskCount is stored as written at creation and never maintained by the
	// store. Readers that need the real figure derive it from the task store.
	TaskCount int `json:"task_count"`
	Order     int `json:"order"`
}

// ListInput holds the caller-supplied fields for a new list.
type ListInput struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// ListPatch is a partial update. Nil fields are left unchanged.
type ListPatch struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
	Order *int    `json:"order"`
}

// Validate checks that the input has valid field values.
func (in *ListInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}

// Validate checks the fields the patch sets.
func (p *ListPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return errors.New("name is required")
	}
	if p.Order != nil && *p.Order < 0 {
		return errors.New("order cannot be negative")
	}
	return nil
}

// NewList builds the stored form of in. order is the collection size at
// creation time.
func NewList(id int64, in ListInput, order int) List {
	return List{
		ID:        id,
		Name:      in.Name,
		Color:     in.Color,
		TaskCount: 0,
		Order:     order,
	}
}

// Apply merges p over l.
func (l *List) Apply(p ListPatch) {
	applyTo(p.Name, &l.Name)
	applyTo(p.Color, &l.Color)
	applyTo(p.Order, &l.Order)
}

// Clone returns a copy of l.
func (l List) Clone() List {
	return l
}
