package queue

import (
	"context"
	"sync"
)

// MemoryLists keeps lists in process memory, for single-node runs and tests.
type MemoryLists struct {
	mu    sync.Mutex
	lists map[string][]int64
}

func NewMemoryLists() *MemoryLists {
	return &MemoryLists{lists: map[string][]int64{}}
}

func (m *MemoryLists) Push(_ context.Context, key string, ids ...int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lists[key] = append(m.lists[key], ids...)
	return nil
}

func (m *MemoryLists) Pop(_ context.Context, key string, n int) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.lists[key]
	n = min(n, len(list))
	if n == 0 {
		return nil, nil
	}

	out := append([]int64(nil), list[:n]...)
	m.lists[key] = list[n:]
	return out, nil
}

func (m *MemoryLists) Len(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return int64(len(m.lists[key])), nil
}
