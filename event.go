package pulsar

// listener is a single registered callback on an Event.
type listener[T any] struct {
	id uint32
	fn func(T)
}

// Event is a typed observer list owned by the component that emits it.
// Subscribers are notified synchronously, in registration order.
//
// The zero value is ready to use. Event is not safe for concurrent use; it
// is emitted and subscribed to from the game loop goroutine.
type Event[T any] struct {
	listeners []listener[T]
	nextID    uint32
}

// Handle allows removing a registered callback.
type Handle struct {
	remove func()
}

// Remove unregisters the callback so it no longer fires. Safe to call more
// than once and on the zero Handle.
func (h Handle) Remove() {
	if h.remove != nil {
		h.remove()
	}
}

// Subscribe registers fn and returns a handle that removes it.
func (e *Event[T]) Subscribe(fn func(T)) Handle {
	e.nextID++
	id := e.nextID
	e.listeners = append(e.listeners, listener[T]{id: id, fn: fn})
	return Handle{remove: func() { e.unsubscribe(id) }}
}

// unsubscribe removes the listener with the given id.
// The entry is removed from the slice to avoid nil iteration waste.
func (e *Event[T]) unsubscribe(id uint32) {
	for i := range e.listeners {
		if e.listeners[i].id == id {
			copy(e.listeners[i:], e.listeners[i+1:])
			e.listeners[len(e.listeners)-1] = listener[T]{}
			e.listeners = e.listeners[:len(e.listeners)-1]
			return
		}
	}
}

// Emit calls every current subscriber with v. Subscribers added or removed
// during Emit take effect on the next Emit.
func (e *Event[T]) Emit(v T) {
	if len(e.listeners) == 0 {
		return
	}
	snapshot := make([]listener[T], len(e.listeners))
	copy(snapshot, e.listeners)
	for _, l := range snapshot {
		l.fn(v)
	}
}

// Len returns the number of registered subscribers.
func (e *Event[T]) Len() int {
	return len(e.listeners)
}
