package models

import (
	"bytes"
	"encoding/json"
)

// Nullable is a patch field for nullable attributes. The zero value leaves the
// target untouched; a set Nullable with a nil Value clears it.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// Some returns a Nullable that sets the target to v.
func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

// Null returns a Nullable that clears the target.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

// UnmarshalJSON marks the field as set. JSON null clears the target.
func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// MarshalJSON encodes an unset or cleared field as null.
func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}

func (n Nullable[T]) applyTo(dst **T) {
	if !n.Set {
		return
	}
	*dst = clonePtr(n.Value)
}

func applyTo[T any](src *T, dst *T) {
	if src != nil {
		*dst = *src
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
