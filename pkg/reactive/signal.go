package reactive

import (
	"reflect"
	"sync"
	"sync/atomic"
)

var idCounter uint64

func nextID() uint64 {
	return atomic.AddUint64(&idCounter, 1)
}

// subscriber pairs a callback with a unique identity so it can be removed.
type subscriber[T any] struct {
	id uint64
	fn func(T)
}

// Signal is a reactive value container with last-value replay.
// A new subscriber's first delivered value is the value current at subscribe
// time; every subsequent Set or Update that changes the value is delivered
// to all subscribers before the mutating call returns.
type Signal[T any] struct {
	// value is the current signal value.
	value T

	// mu protects the value.
	mu sync.RWMutex

	// subs are the callbacks subscribed to this signal.
	subs []subscriber[T]

	// subMu protects the subs slice.
	subMu sync.RWMutex

	// equal is the equality function used to determine if the value changed.
	// If nil, uses default equality checking.
	equal func(T, T) bool
}

// NewSignal creates a new signal with the given initial value.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{value: initial}
}

// Get returns the current value.
func (s *Signal[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set updates the signal's value and notifies subscribers if it changed.
func (s *Signal[T]) Set(value T) {
	s.mu.Lock()
	changed := !s.equals(s.value, value)
	if changed {
		s.value = value
	}
	s.mu.Unlock()

	if changed {
		s.notify(value)
	}
}

// Update atomically reads and updates the signal's value.
// The function receives the current value and returns the new value.
func (s *Signal[T]) Update(fn func(T) T) {
	s.mu.Lock()
	newValue := fn(s.value)
	changed := !s.equals(s.value, newValue)
	if changed {
		s.value = newValue
	}
	s.mu.Unlock()

	if changed {
		s.notify(newValue)
	}
}

// Subscribe registers fn and immediately delivers the current value to it.
// The returned cancel function removes the subscription; after it returns,
// fn is never invoked again. fn must not subscribe to or cancel on the same
// signal from inside the callback.
func (s *Signal[T]) Subscribe(fn func(T)) (cancel func()) {
	if fn == nil {
		return func() {}
	}

	sub := subscriber[T]{id: nextID(), fn: fn}

	// The replay runs under the subscriber lock: a concurrent Set's
	// notification needs the read side of that lock, so it cannot reach the
	// new subscriber ahead of the snapshot. The subscriber's view is always
	// snapshot first, newer values after.
	s.subMu.Lock()
	s.mu.RLock()
	current := s.value
	s.mu.RUnlock()
	s.subs = append(s.subs, sub)
	fn(current)
	s.subMu.Unlock()

	id := sub.id
	return func() { s.unsubscribe(id) }
}

// unsubscribe removes a subscriber by id.
func (s *Signal[T]) unsubscribe(id uint64) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for i, existing := range s.subs {
		if existing.id == id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// notify delivers value to all subscribers.
// Uses copy-before-notify to avoid holding locks during delivery.
func (s *Signal[T]) notify(value T) {
	s.subMu.RLock()
	subs := make([]subscriber[T], len(s.subs))
	copy(subs, s.subs)
	s.subMu.RUnlock()

	for _, sub := range subs {
		sub.fn(value)
	}
}

// WithEquals returns the signal configured with a custom equality function.
// This is useful for types where reflect.DeepEqual is too expensive or has
// incorrect semantics.
func (s *Signal[T]) WithEquals(fn func(T, T) bool) *Signal[T] {
	s.equal = fn
	return s
}

// equals checks if two values are equal using the configured equality function.
func (s *Signal[T]) equals(a, b T) bool {
	if s.equal != nil {
		return s.equal(a, b)
	}
	return defaultEquals(a, b)
}

// defaultEquals provides type-appropriate equality checking.
// Uses == for common comparable types and reflect.DeepEqual for others.
func defaultEquals[T any](a, b T) bool {
	switch av := any(a).(type) {
	case int:
		return av == any(b).(int)
	case int64:
		return av == any(b).(int64)
	case uint64:
		return av == any(b).(uint64)
	case float64:
		return av == any(b).(float64)
	case string:
		return av == any(b).(string)
	case bool:
		return av == any(b).(bool)
	default:
		// Fall back to reflect.DeepEqual for slices, maps, structs, etc.
		return reflect.DeepEqual(a, b)
	}
}
