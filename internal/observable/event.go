package observable

import "sync/atomic"

// Event wraps a payload that may be consumed at most once, no matter how
// many observers see the wrapper or how often they re-subscribe.
type Event[T any] struct {
	payload  T
	consumed atomic.Bool
}

// NewEvent wraps payload in a fresh, unconsumed event
func NewEvent[T any](payload T) *Event[T] {
	return &Event[T]{payload: payload}
}

// Consume returns the payload and true on the first call only.
// Every later call, from any goroutine, returns the zero value and false.
func (e *Event[T]) Consume() (T, bool) {
	if e == nil || !e.consumed.CompareAndSwap(false, true) {
		var zero T
		return zero, false
	}
	return e.payload, true
}

// Peek returns the payload without consuming it
func (e *Event[T]) Peek() T {
	return e.payload
}

// Consumed reports whether the payload has been handed out
func (e *Event[T]) Consumed() bool {
	return e.consumed.Load()
}

// EventChannel publishes one-shot events. Like Value it replays the latest
// wrapper to late observers, but a consumed wrapper yields nothing, so a
// re-attached observer never fires a stale event twice.
type EventChannel[T any] struct {
	latest Value[*Event[T]]
}

// NewEventChannel creates an event channel with no pending event
func NewEventChannel[T any]() *EventChannel[T] {
	return &EventChannel[T]{}
}

// Emit wraps payload in a new event and publishes it
func (c *EventChannel[T]) Emit(payload T) {
	c.latest.Set(NewEvent(payload))
}

// Observe registers fn for every event, including the latest one if any
func (c *EventChannel[T]) Observe(fn func(*Event[T])) (cancel func()) {
	return c.latest.Observe(fn)
}

// Consume consumes the latest event directly. It returns false when no event
// was ever emitted or the latest one has already been consumed.
func (c *EventChannel[T]) Consume() (T, bool) {
	e, _ := c.latest.Current()
	return e.Consume()
}

// Pending reports whether the latest event is still unconsumed
func (c *EventChannel[T]) Pending() bool {
	e, ok := c.latest.Current()
	return ok && !e.Consumed()
}
