// AngelaMos | 2026
// memory.go

package limiter

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	count int
	last  time.Time
}

type Memory struct {
	cfg     Config
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

func NewMemory(cfg Config) *Memory {
	return &Memory{
		cfg:     cfg.normalize(),
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

func (m *Memory) Allow(_ context.Context, key string) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	e, ok := m.entries[key]
	if !ok || now.Sub(e.last) >= m.cfg.Window {
		m.entries[key] = &entry{count: 1, last: now}
		return Result{Allowed: true, Count: 1}, nil
	}

	if e.count >= m.cfg.Attempts {
		return Result{
			Allowed:    false,
			Count:      e.count,
			RetryAfter: m.cfg.Window - now.Sub(e.last),
		}, nil
	}

	e.count++
	e.last = now
	return Result{Allowed: true, Count: e.count}, nil
}

// Sweep drops keys idle for longer than the window and returns how many
// were removed.
func (m *Memory) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for key, e := range m.entries {
		if now.Sub(e.last) >= m.cfg.Window {
			delete(m.entries, key)
			removed++
		}
	}
	return removed
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Run sweeps on every interval until ctx is done.
func (m *Memory) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = m.cfg.Window
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}
