package models

import (
	"bytes"
	"encoding/json"
)

// Nullable is a patch value for a nullable column: zero value leaves the
// column unchanged, Null clears it, otherwise Value is written.
type Nullable[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: v}
}

func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true, Null: true}
}

func (n Nullable[T]) Ptr() *T {
	if !n.Set || n.Null {
		return nil
	}
	v := n.Value
	return &v
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Null = true
		return nil
	}
	return json.Unmarshal(data, &n.Value)
}

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if !n.Set || n.Null {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}
