package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Optional holds a value that may be absent. The zero value is absent.
type Optional[T any] struct {
	value T
	valid bool
}

func Some[T any](v T) Optional[T] { return Optional[T]{value: v, valid: true} }
func None[T any]() Optional[T]    { return Optional[T]{} }

// Text trims s and returns None when nothing is left.
func Text(s string) Optional[string] {
	s = strings.TrimSpace(s)
	if s == "" {
		return None[string]()
	}
	return Some(s)
}

func (o Optional[T]) Get() (T, bool) { return o.value, o.valid }

func (o Optional[T]) OrElse(def T) T {
	if !o.valid {
		return def
	}
	return o.value
}

// IsZero reports absence; encoding/json uses it for `omitzero`.
func (o Optional[T]) IsZero() bool { return !o.valid }

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*o = None[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
