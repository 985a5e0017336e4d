package idempotency

import (
	"context"
	"sync"
	"time"

	"github.com/shandysiswandi/coursebell/internal/pkg/clock"
)

type memoryEntry struct {
	state     State
	expiresAt time.Time
}

// MemoryTracker keeps state in process memory, for single-node runs and tests.
type MemoryTracker struct {
	clock   clock.Clocker
	mu      sync.Mutex
	entries map[string]memoryEntry
}

func NewMemory(clk clock.Clocker) *MemoryTracker {
	return &MemoryTracker{
		clock:   clk,
		entries: map[string]memoryEntry{},
	}
}

func (m *MemoryTracker) Acquire(_ context.Context, key string, lockDuration time.Duration) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	if e, ok := m.entries[key]; ok && now.Before(e.expiresAt) {
		return e.state, nil
	}

	m.entries[key] = memoryEntry{state: StateInProgress, expiresAt: now.Add(lockDuration)}
	return StateNone, nil
}

func (m *MemoryTracker) MarkCompleted(_ context.Context, key string, ttl time.Duration) error {
	m.set(key, StateCompleted, ttl)
	return nil
}

func (m *MemoryTracker) MarkFailed(_ context.Context, key string, ttl time.Duration) error {
	m.set(key, StateFailed, ttl)
	return nil
}

func (m *MemoryTracker) Release(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
	return nil
}

func (m *MemoryTracker) Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error {
	return exec(ctx, m, key, fn, opts...)
}

func (m *MemoryTracker) set(key string, state State, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = memoryEntry{state: state, expiresAt: m.clock.Now().Add(ttl)}
}
