// Package store provides the single-writer in-memory collections that back
// every tool: ordered records addressed by id.
package store

import "sync"

// Memory is an ordered, mutex-guarded collection of records keyed by id.
//
// Records are held by value. Callers that need to change a slice field
// inside Update must build a new slice rather than write through the old one,
// since previously returned copies share its backing array.
type Memory[T any] struct {
	mu    sync.RWMutex
	items []T
	idOf  func(T) string
}

// NewMemory creates an empty collection using idOf to address records.
func NewMemory[T any](idOf func(T) string) *Memory[T] {
	return &Memory[T]{idOf: idOf}
}

// Insert appends records in the given order.
func (m *Memory[T]) Insert(items ...T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, items...)
}

// Prepend builds a record from the current length and places it at the
// front in one step, so concurrent callers see distinct lengths.
func (m *Memory[T]) Prepend(build func(n int) T) T {
	m.mu.Lock()
	defer m.mu.Unlock()
	item := build(len(m.items))
	next := make([]T, 0, len(m.items)+1)
	next = append(next, item)
	m.items = append(next, m.items...)
	return item
}

// Get returns the record with the given id.
func (m *Memory[T]) Get(id string) (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := m.indexOf(id); i >= 0 {
		return m.items[i], true
	}
	var zero T
	return zero, false
}

// Update applies fn to the stored record and returns the result.
// A missing id is a no-op and reports false.
func (m *Memory[T]) Update(id string, fn func(*T)) (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		var zero T
		return zero, false
	}
	fn(&m.items[i])
	return m.items[i], true
}

// Remove deletes exactly the record with the given id, preserving the
// relative order of the rest.
func (m *Memory[T]) Remove(id string) (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		var zero T
		return zero, false
	}
	removed := m.items[i]
	next := make([]T, 0, len(m.items)-1)
	next = append(next, m.items[:i]...)
	m.items = append(next, m.items[i+1:]...)
	return removed, true
}

// List returns a snapshot of all records in order.
func (m *Memory[T]) List() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]T, len(m.items))
	copy(out, m.items)
	return out
}

// Filter returns the records matching pred, in order.
func (m *Memory[T]) Filter(pred func(T) bool) []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]T, 0, len(m.items))
	for _, it := range m.items {
		if pred(it) {
			out = append(out, it)
		}
	}
	return out
}

// Len returns the number of records.
func (m *Memory[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

func (m *Memory[T]) indexOf(id string) int {
	for i, it := range m.items {
		if m.idOf(it) == id {
			return i
		}
	}
	return -1
}
