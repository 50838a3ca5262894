package cache

import (
	"context"
	"sync"
	"time"
)

const defaultMaxEntries = 1024

type entry struct {
	value     string
	expiresAt time.Time
	addedAt   time.Time
}

type Memory struct {
	mu         sync.Mutex
	entries    map[string]entry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		entries:    make(map[string]entry),
		ttl:        ttl,
		maxEntries: defaultMaxEntries,
		now:        time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return "", false, nil
	}
	if m.ttl > 0 && !m.now().Before(e.expiresAt) {
		delete(m.entries, key)
		return "", false, nil
	}
	return e.value, true, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if _, ok := m.entries[key]; !ok {
		m.evictLocked(now)
	}
	m.entries[key] = entry{value: value, expiresAt: now.Add(m.ttl), addedAt: now}
	return nil
}

// evictLocked drops expired entries, then the oldest ones until there is
// room for one more.
func (m *Memory) evictLocked(now time.Time) {
	if m.ttl > 0 {
		for k, e := range m.entries {
			if !now.Before(e.expiresAt) {
				delete(m.entries, k)
			}
		}
	}

	for m.maxEntries > 0 && len(m.entries) >= m.maxEntries {
		var oldestKey string
		var oldest time.Time
		for k, e := range m.entries {
			if oldestKey == "" || e.addedAt.Before(oldest) {
				oldestKey, oldest = k, e.addedAt
			}
		}
		delete(m.entries, oldestKey)
	}
}
