// Package optional provides a type-safe Optional type for representing values that may or may not be present.
// The state machine uses it as the result of a transition function: Some(next) when the
// function applies to a (state, action) pair, None when it does not.
package optional

import "fmt"

// Value represents a value that may or may not be present.
// Use Some(value) to create a Value with a value, or None() for an empty Value.
// The zero Value is empty.
type Value[T any] struct {
	value T
	isSet bool
}

// Some creates a Value containing the given value.
func Some[T any](value T) Value[T] {
	return Value[T]{value: value, isSet: true}
}

// None creates an empty Value with no value.
func None[T any]() Value[T] {
	return Value[T]{isSet: false}
}

// Of builds a Value from the comma-ok idiom, so `optional.Of(m[k])` style
// lookups can be lifted directly.
func Of[T any](value T, ok bool) Value[T] {
	if !ok {
		return None[T]()
	}

	return Some(value)
}

// NonEmpty returns true if the Value contains a value.
func (o Value[T]) NonEmpty() bool {
	return o.isSet
}

// Empty returns true if the Value does not contain a value.
func (o Value[T]) Empty() bool {
	return !o.isSet
}

// Get returns the value and a boolean indicating whether the value is present.
func (o Value[T]) Get() (T, bool) {
	return o.value, o.isSet
}

// GetOrElse returns the value if present, or the provided default value if empty.
func (o Value[T]) GetOrElse(defaultValue T) T {
	if o.isSet {
		return o.value
	}

	return defaultValue
}

// OrElseFunc returns this Value if it contains a value, or calls the provided function
// to get an alternative Value if empty.
func (o Value[T]) OrElseFunc(alternativeFunc func() Value[T]) Value[T] {
	if o.isSet {
		return o
	}

	return alternativeFunc()
}

// String returns "Some(value)" if present, or "None" if empty.
func (o Value[T]) String() string {
	if o.isSet {
		return fmt.Sprintf("Some(%v)", o.value)
	}

	return "None"
}

// Map transforms the value inside the Value using the provided function.
// Returns Some(f(value)) if the Value contains a value, or None if empty.
func Map[T any, U any](o Value[T], f func(T) U) Value[U] {
	if o.isSet {
		return Some(f(o.value))
	}

	return None[U]()
}
