package pulsar

import (
	"errors"
	"fmt"
)

var (
	// ErrNilComponent is returned when adding a nil component.
	ErrNilComponent = errors.New("pulsar: nil component")
	// ErrDuplicateComponent is returned when a component is added twice.
	ErrDuplicateComponent = errors.New("pulsar: component already added")
)

// ComponentCollection owns the components attached to a Game and raises a
// notification for every add and remove.
type ComponentCollection struct {
	items   []Component
	added   Event[Component]
	removed Event[Component]
}

// Added fires after a component has been appended.
func (c *ComponentCollection) Added() *Event[Component] { return &c.added }

// Removed fires after a component has been taken out.
func (c *ComponentCollection) Removed() *Event[Component] { return &c.removed }

// Add appends comp and raises Added.
func (c *ComponentCollection) Add(comp Component) error {
	if comp == nil {
		return ErrNilComponent
	}
	if c.indexOf(comp) >= 0 {
		return fmt.Errorf("add %T: %w", comp, ErrDuplicateComponent)
	}
	c.items = append(c.items, comp)
	c.added.Emit(comp)
	return nil
}

// Remove takes comp out and raises Removed. Reports whether it was present.
func (c *ComponentCollection) Remove(comp Component) bool {
	i := c.indexOf(comp)
	if i < 0 {
		return false
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	c.removed.Emit(comp)
	return true
}

// Clear removes every component, raising Removed once per component in
// registration order.
func (c *ComponentCollection) Clear() {
	items := c.items
	c.items = nil
	for _, comp := range items {
		c.removed.Emit(comp)
	}
}

// Contains reports whether comp is in the collection.
func (c *ComponentCollection) Contains(comp Component) bool {
	return c.indexOf(comp) >= 0
}

// Len returns the number of components.
func (c *ComponentCollection) Len() int { return len(c.items) }

// All returns the components in registration order. The returned slice
// MUST NOT be mutated.
func (c *ComponentCollection) All() []Component { return c.items }

func (c *ComponentCollection) indexOf(comp Component) int {
	for i, item := range c.items {
		if item == comp {
			return i
		}
	}
	return -1
}

// orderedList keeps entries sorted by an order key.
type orderedList[T comparable] struct {
	items []T
	order func(T) int
}

// insert places v after every entry whose order is <= v's order, so equal
// orders keep their insertion order.
func (l *orderedList[T]) insert(v T) {
	key := l.order(v)
	l.insertAt(v, func(order int) bool { return order > key })
}

// insertBefore places v before the first entry whose order is >= v's order.
func (l *orderedList[T]) insertBefore(v T) {
	key := l.order(v)
	l.insertAt(v, func(order int) bool { return order >= key })
}

// insertAt inserts v before the first entry matching follows, or at the end.
func (l *orderedList[T]) insertAt(v T, follows func(order int) bool) {
	idx := len(l.items)
	for i, item := range l.items {
		if follows(l.order(item)) {
			idx = i
			break
		}
	}
	var zero T
	l.items = append(l.items, zero)
	copy(l.items[idx+1:], l.items[idx:])
	l.items[idx] = v
}

// remove deletes v. Reports whether it was present.
func (l *orderedList[T]) remove(v T) bool {
	for i, item := range l.items {
		if item == v {
			copy(l.items[i:], l.items[i+1:])
			var zero T
			l.items[len(l.items)-1] = zero
			l.items = l.items[:len(l.items)-1]
			return true
		}
	}
	return false
}

// reposition moves v to the slot matching its current order: before the
// first entry whose order is >= the new one.
func (l *orderedList[T]) reposition(v T) {
	if l.remove(v) {
		l.insertBefore(v)
	}
}

// snapshot copies the entries into buf so callers can iterate while the list
// is mutated.
func (l *orderedList[T]) snapshot(buf []T) []T {
	return append(buf[:0], l.items...)
}
