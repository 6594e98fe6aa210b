package store

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID    string
	Value int
}

func newRecords() *Memory[record] {
	return NewMemory(func(r record) string { return r.ID })
}

func ids(rs []record) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return out
}

func TestMemory_InsertAndPrepend(t *testing.T) {
	m := newRecords()
	m.Insert(record{ID: "a"}, record{ID: "b"})
	got := m.Prepend(func(n int) record { return record{ID: "z", Value: n} })
	m.Prepend(func(n int) record { return record{ID: "y", Value: n} })
	m.Insert(record{ID: "c"})

	assert.Equal(t, record{ID: "z", Value: 2}, got)
	assert.Equal(t, []string{"y", "z", "a", "b", "c"}, ids(m.List()))
	assert.Equal(t, 5, m.Len())
}

func TestMemory_ConcurrentPrependSeesDistinctLengths(t *testing.T) {
	m := newRecords()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.Prepend(func(n int) record { return record{ID: fmt.Sprintf("r%d", i), Value: n} })
		}(i)
	}
	wg.Wait()

	seen := make(map[int]bool)
	for _, r := range m.List() {
		assert.False(t, seen[r.Value], "length %d handed out twice", r.Value)
		seen[r.Value] = true
	}
	assert.Len(t, seen, 50)
}

func TestMemory_Remove(t *testing.T) {
	tests := []struct {
		name      string
		remove    string
		wantOK    bool
		wantOrder []string
	}{
		{name: "first", remove: "a", wantOK: true, wantOrder: []string{"b", "c", "d"}},
		{name: "middle", remove: "c", wantOK: true, wantOrder: []string{"a", "b", "d"}},
		{name: "last", remove: "d", wantOK: true, wantOrder: []string{"a", "b", "c"}},
		{name: "missing", remove: "x", wantOK: false, wantOrder: []string{"a", "b", "c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newRecords()
			m.Insert(record{ID: "a"}, record{ID: "b"}, record{ID: "c"}, record{ID: "d"})

			removed, ok := m.Remove(tt.remove)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.remove, removed.ID)
			}
			assert.Equal(t, tt.wantOrder, ids(m.List()))
		})
	}
}

func TestMemory_Update(t *testing.T) {
	m := newRecords()
	m.Insert(record{ID: "a", Value: 1})

	got, ok := m.Update("a", func(r *record) { r.Value = 42 })
	require.True(t, ok)
	assert.Equal(t, 42, got.Value)

	stored, _ := m.Get("a")
	assert.Equal(t, 42, stored.Value)

	called := false
	_, ok = m.Update("missing", func(r *record) { called = true })
	assert.False(t, ok)
	assert.False(t, called, "update on a missing id must not run the mutation")
}

func TestMemory_ListIsSnapshot(t *testing.T) {
	m := newRecords()
	m.Insert(record{ID: "a", Value: 1})

	snap := m.List()
	snap[0].Value = 99

	stored, _ := m.Get("a")
	assert.Equal(t, 1, stored.Value)
}

func TestMemory_Filter(t *testing.T) {
	m := newRecords()
	for i := 0; i < 6; i++ {
		m.Insert(record{ID: fmt.Sprintf("r%d", i), Value: i})
	}

	even := m.Filter(func(r record) bool { return r.Value%2 == 0 })
	assert.Equal(t, []string{"r0", "r2", "r4"}, ids(even))
}

func TestMemory_ConcurrentWriters(t *testing.T) {
	m := newRecords()
	m.Insert(record{ID: "counter"})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Update("counter", func(r *record) { r.Value++ })
		}()
	}
	wg.Wait()

	got, _ := m.Get("counter")
	assert.Equal(t, 50, got.Value)
}
