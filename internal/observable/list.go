package observable

import "slices"

// List is an observable collection. The held slice is copied on the way in
// and on the way out of Current, so callers can never mutate published state.
type List[T any] struct {
	value Value[[]T]
}

// NewList creates an empty, never-set list
func NewList[T any]() *List[T] {
	return &List[T]{}
}

// Set replaces the whole collection and notifies observers
func (l *List[T]) Set(items []T) {
	l.value.Set(slices.Clone(items))
}

// Current returns a copy of the held collection; nil if never set.
func (l *List[T]) Current() []T {
	items, _ := l.value.Current()
	return slices.Clone(items)
}

// Populated reports whether Set has been called at least once
func (l *List[T]) Populated() bool {
	_, ok := l.value.Current()
	return ok
}

// Len returns the number of held items
func (l *List[T]) Len() int {
	items, _ := l.value.Current()
	return len(items)
}

// Observe registers fn for every replacement. fn receives its own copy.
func (l *List[T]) Observe(fn func([]T)) (cancel func()) {
	return l.value.Observe(func(items []T) {
		fn(slices.Clone(items))
	})
}
