// Package optional models a value that may be absent without resorting to
// pointers. The lock-surface biometric signal is the main user: its tri-state
// (unset, confirmed, reset) maps to None / Some(true) / None.
package optional

// Value holds zero or one T.
type Value[T any] struct {
	value T
	isSet bool
}

// Some wraps a present value.
func Some[T any](value T) Value[T] {
	return Value[T]{value: value, isSet: true}
}

// None is the absent value.
func None[T any]() Value[T] {
	return Value[T]{}
}

// Get returns the value and whether it is present.
func (v Value[T]) Get() (T, bool) {
	return v.value, v.isSet
}

// GetOrElse returns the value, or fallback when absent.
func (v Value[T]) GetOrElse(fallback T) T { //nolint:ireturn
	if v.isSet {
		return v.value
	}

	return fallback
}

// NonEmpty returns true when a value is present.
func (v Value[T]) NonEmpty() bool {
	return v.isSet
}

// Empty returns true when no value is present.
func (v Value[T]) Empty() bool {
	return !v.isSet
}

// Map transforms a present value and leaves an absent one alone.
func Map[A, B any](v Value[A], f func(A) B) Value[B] {
	if !v.isSet {
		return None[B]()
	}

	return Some(f(v.value))
}
