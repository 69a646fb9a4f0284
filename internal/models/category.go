package models

import (
	"errors"
	"strings"
)

// Category is a free-form tag a task may reference.
type Category struct {
	ID         int64             `json:"id"`
	Name       string            `json:"name"`
	Color      string            `json:"color,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// CategoryInput holds the caller-supplied fields for a new category.
type CategoryInput struct {
	Name       string            `json:"name"`
	Color      string            `json:"color"`
	Attributes map[string]string `json:"attributes"`
}

// CategoryPatch is a partial update. Attributes are merged key by key.
type CategoryPatch struct {
	Name       *string           `json:"name"`
	Color      *string           `json:"color"`
	Attributes map[string]string `json:"attributes"`
}

// Validate checks that the input has valid field values.
func (in *CategoryInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}

// Validate checks the fields the patch sets.
func (p *CategoryPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}

// NewCategory builds the stored form of in.
func NewCategory(id int64, in CategoryInput) Category {
	return Category{
		ID:         id,
		Name:       in.Name,
		Color:      in.Color,
		Attributes: cloneAttributes(in.Attributes),
	}
}

// Apply merges p over c.
func (c *Category) Apply(p CategoryPatch) {
	applyTo(p.Name, &c.Name)
	applyTo(p.Color, &c.Color)
	if len(p.Attributes) == 0 {
		return
	}
	if c.Attributes == nil {
		c.Attributes = make(map[string]string, len(p.Attributes))
	}
	for k, v := range p.Attributes {
		c.Attributes[k] = v
	}
}

// Clone returns a copy of c that shares no memory with it.
func (c Category) Clone() Category {
	out := c
	out.Attributes = cloneAttributes(c.Attributes)
	return out
}

func cloneAttributes(src map[string]string) map[string]string {
	if src == nil {
		return nil
	}
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
