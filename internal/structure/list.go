package structure

// List is an ordered list that is either absent or non-empty.
//
// The zero value is absent. Removing the last element makes it absent
// again, so an empty backing slice is never observable. Every optional
// repeated element of the schema (initial values, each connection kind,
// each function kind, simulators) is held in a List.
type List[T any] struct {
	items []T
}

// ListOf returns a List holding items, absent if items is empty.
func ListOf[T any](items ...T) List[T] {
	if len(items) == 0 {
		return List[T]{}
	}
	return List[T]{items: append([]T(nil), items...)}
}

// Present reports whether the list holds at least one element.
func (l List[T]) Present() bool { return len(l.items) > 0 }

// Len returns the number of elements.
func (l List[T]) Len() int { return len(l.items) }

// At returns the element at index i.
func (l List[T]) At(i int) T { return l.items[i] }

// Items returns a copy of the elements, nil when absent.
func (l List[T]) Items() []T {
	if len(l.items) == 0 {
		return nil
	}
	return append([]T(nil), l.items...)
}

// Index returns the index of the first element satisfying match, or -1.
func (l List[T]) Index(match func(T) bool) int {
	for i, item := range l.items {
		if match(item) {
			return i
		}
	}
	return -1
}

// Append adds item at the end.
func (l *List[T]) Append(item T) {
	l.items = append(l.items, item)
}

// Set replaces the element at index i.
func (l *List[T]) Set(i int, item T) {
	l.items[i] = item
}

// RemoveAt removes and returns the element at index i. The list becomes
// absent if it was the last one.
func (l *List[T]) RemoveAt(i int) T {
	item := l.items[i]
	if len(l.items) == 1 {
		l.items = nil
		return item
	}
	next := make([]T, 0, len(l.items)-1)
	next = append(next, l.items[:i]...)
	next = append(next, l.items[i+1:]...)
	l.items = next
	return item
}

// RemoveFunc removes every element satisfying match and returns them in
// order. The list becomes absent if nothing is left.
func (l *List[T]) RemoveFunc(match func(T) bool) []T {
	var removed, kept []T
	for _, item := range l.items {
		if match(item) {
			removed = append(removed, item)
		} else {
			kept = append(kept, item)
		}
	}
	if len(removed) > 0 {
		l.items = kept
	}
	return removed
}

// Clone returns a shallow copy that shares no backing array with l.
func (l List[T]) Clone() List[T] {
	return ListOf(l.items...)
}
