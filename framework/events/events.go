// Package events provides a minimal subscribe/unsubscribe event primitive.
//
// Events are not safe for concurrent use. They are meant to be raised and
// subscribed to from a single update thread.
package events

type Event[T any] struct {
	nextID   uint64
	handlers []handler[T]
}

type handler[T any] struct {
	id uint64
	fn func(T)
}

// Subscription is a handle returned by Event.Subscribe. Unsubscribe is idempotent.
type Subscription struct {
	unsubscribe func()
}

func (e *Event[T]) Subscribe(fn func(T)) *Subscription {
	e.nextID++
	id := e.nextID

	e.handlers = append(e.handlers, handler[T]{id: id, fn: fn})

	return &Subscription{
		unsubscribe: func() {
			e.remove(id)
		},
	}
}

func (e *Event[T]) remove(id uint64) {
	for i, h := range e.handlers {
		if h.id == id {
			e.handlers = append(e.handlers[:i:i], e.handlers[i+1:]...)
			return
		}
	}
}

// Raise invokes handlers in subscription order. Handlers removed during Raise
// still receive the current value.
func (e *Event[T]) Raise(value T) {
	handlers := e.handlers

	for _, h := range handlers {
		h.fn(value)
	}
}

func (e *Event[T]) Len() int {
	return len(e.handlers)
}

func (s *Subscription) Unsubscribe() {
	if s == nil || s.unsubscribe == nil {
		return
	}

	s.unsubscribe()
	s.unsubscribe = nil
}
