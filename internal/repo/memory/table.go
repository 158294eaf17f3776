package memory

import (
	"sort"
	"sync"
)

// table is a mutex guarded row set with store-assigned, never reused ids.
type table[T any] struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]T
	idOf   func(T) int64
	setID  func(*T, int64)
}

func newTable[T any](idOf func(T) int64, setID func(*T, int64)) *table[T] {
	return &table[T]{
		rows:  make(map[int64]T),
		idOf:  idOf,
		setID: setID,
	}
}

// list returns matching rows ordered by id.
func (t *table[T]) list(match func(T) bool) []T {
	t.mu.RLock()
	out := make([]T, 0, len(t.rows))
	for _, row := range t.rows {
		if match == nil || match(row) {
			out = append(out, row)
		}
	}
	t.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return t.idOf(out[i]) < t.idOf(out[j]) })
	return out
}

func (t *table[T]) get(id int64) (T, bool) {
	t.mu.RLock()
	row, ok := t.rows[id]
	t.mu.RUnlock()
	return row, ok
}

func (t *table[T]) insert(row T) T {
	t.mu.Lock()
	t.nextID++
	t.setID(&row, t.nextID)
	t.rows[t.nextID] = row
	t.mu.Unlock()
	return row
}

// replace overwrites row id under one lock. merge sees the stored row and the
// submitted one and returns what gets persisted.
func (t *table[T]) replace(id int64, row T, merge func(stored, submitted T) T) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	stored, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, false
	}

	if merge != nil {
		row = merge(stored, row)
	}
	t.setID(&row, id)
	t.rows[id] = row
	return row, true
}

func (t *table[T]) delete(id int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	return true
}
