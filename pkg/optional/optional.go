// Package optional provides a present/absent value type for fields that
// upstream data may omit.
package optional

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Value holds either a T or nothing. The zero Value is absent.
type Value[T any] struct {
	v  T
	ok bool
}

// Of returns a present Value holding v.
func Of[T any](v T) Value[T] {
	return Value[T]{v: v, ok: true}
}

// None returns an absent Value.
func None[T any]() Value[T] {
	return Value[T]{}
}

// Get returns the held value and whether it is present.
func (o Value[T]) Get() (T, bool) {
	return o.v, o.ok
}

// Present reports whether a value is held.
func (o Value[T]) Present() bool {
	return o.ok
}

// Or returns the held value, or def when absent.
func (o Value[T]) Or(def T) T {
	if !o.ok {
		return def
	}
	return o.v
}

// IsZero lets encoding/json's omitzero drop absent values.
func (o Value[T]) IsZero() bool {
	return !o.ok
}

func (o Value[T]) String() string {
	if !o.ok {
		return "<absent>"
	}
	return fmt.Sprint(o.v)
}

func (o Value[T]) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return []byte("null"), nil
	}
	return json.Marshal(o.v)
}

// UnmarshalJSON treats JSON null as absent. A missing key never calls this
// method, so it stays absent as well.
func (o *Value[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Value[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Of(v)
	return nil
}
