// Package observable holds the change-notification primitives the controller
// publishes through: a latest-value holder, a list holder built on it, and a
// one-shot event channel whose payload can be consumed at most once.
//
// Observers are plain callbacks. They run synchronously on the writer's
// goroutine, outside the holder's lock, so an observer may read Current or
// register further observers without deadlocking.
package observable

import "sync"

// Value holds the latest value of V and notifies observers on replacement.
// It is safe for concurrent readers; writes are expected from a single owner.
type Value[V any] struct {
	mu        sync.RWMutex
	value     V
	set       bool
	nextID    uint64
	observers map[uint64]func(V)
	order     []uint64
}

// Set replaces the held value and notifies every registered observer.
func (v *Value[V]) Set(value V) {
	v.mu.Lock()
	v.value = value
	v.set = true
	fns := v.snapshotLocked()
	v.mu.Unlock()

	for _, fn := range fns {
		fn(value)
	}
}

// Current returns the last set value, or the zero value and false if
// Set has never been called.
func (v *Value[V]) Current() (V, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.value, v.set
}

// Observe registers fn. If a value is already held fn is called with it
// immediately, so late subscribers always see the latest value.
// The returned cancel func unregisters fn and is safe to call more than once.
func (v *Value[V]) Observe(fn func(V)) (cancel func()) {
	v.mu.Lock()
	if v.observers == nil {
		v.observers = make(map[uint64]func(V))
	}
	v.nextID++
	id := v.nextID
	v.observers[id] = fn
	v.order = append(v.order, id)
	value, set := v.value, v.set
	v.mu.Unlock()

	if set {
		fn(value)
	}

	var once sync.Once
	return func() {
		once.Do(func() { v.remove(id) })
	}
}

// Observers returns the number of registered observers
func (v *Value[V]) Observers() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.observers)
}

func (v *Value[V]) remove(id uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.observers, id)
	for i, oid := range v.order {
		if oid == id {
			v.order = append(v.order[:i], v.order[i+1:]...)
			break
		}
	}
}

// snapshotLocked copies observers in registration order. Caller must hold v.mu.
func (v *Value[V]) snapshotLocked() []func(V) {
	fns := make([]func(V), 0, len(v.order))
	for _, id := range v.order {
		fns = append(fns, v.observers[id])
	}
	return fns
}
