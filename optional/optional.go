// Package optional provides a value which may or may not be set.
package optional

// Optional holds a value of type T together with the knowledge whether it
// has been set at all. The zero value is an unset Optional.
type Optional[T any] struct {
	value T
	set   bool
}

// Of returns an Optional which has v set.
func Of[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// Set stores v and marks the optional as having a value.
func (o *Optional[T]) Set(v T) {
	o.value = v
	o.set = true
}

// Get returns the stored value. It returns the zero value of T when nothing
// has been set. Use HasValue to tell the two apart.
func (o Optional[T]) Get() T {
	return o.value
}

// HasValue returns true if a value has been set.
func (o Optional[T]) HasValue() bool {
	return o.set
}

// Reset removes the stored value.
func (o *Optional[T]) Reset() {
	var zero T
	o.value = zero
	o.set = false
}
