package budget

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type Store interface {
	AddSpend(ctx context.Context, persona string, usd float64, at time.Time) error
	GetPersonaSpend(ctx context.Context, persona string, day time.Time) (float64, error)
	GetDailySpend(ctx context.Context, day time.Time) (float64, error)
}

// Guard refuses persona calls that would push spend past the per-persona or
// the overall daily limit. A zero limit is unlimited.
type Guard struct {
	enabled      bool
	dailyLimit   float64
	personaLimit float64
	store        Store
}

func NewGuard(enabled bool, dailyLimit, personaLimit float64, store Store) *Guard {
	return &Guard{
		enabled:      enabled,
		dailyLimit:   dailyLimit,
		personaLimit: personaLimit,
		store:        store,
	}
}

func (g *Guard) Enabled() bool {
	return g != nil && g.enabled
}

// Allow reports whether projectedCostUSD fits. When it does not, the second
// value names the limit and the third the scope ("persona" or "daily").
func (g *Guard) Allow(ctx context.Context, persona string, projectedCostUSD float64, now time.Time) (bool, string, string, error) {
	if g == nil || !g.enabled || g.store == nil {
		return true, "", "", nil
	}

	personaSpend, err := g.store.GetPersonaSpend(ctx, persona, now)
	if err != nil {
		return false, "", "", err
	}
	if g.personaLimit > 0 && personaSpend+projectedCostUSD > g.personaLimit {
		return false, fmt.Sprintf("persona budget exceeded (limit=%.4f USD)", g.personaLimit), "persona", nil
	}

	daySpend, err := g.store.GetDailySpend(ctx, now)
	if err != nil {
		return false, "", "", err
	}
	if g.dailyLimit > 0 && daySpend+projectedCostUSD > g.dailyLimit {
		return false, fmt.Sprintf("daily budget exceeded (limit=%.4f USD)", g.dailyLimit), "daily", nil
	}

	return true, "", "", nil
}

func (g *Guard) Record(ctx context.Context, persona string, usd float64, now time.Time) error {
	if g == nil || !g.enabled || g.store == nil || usd <= 0 {
		return nil
	}
	return g.store.AddSpend(ctx, persona, usd, now)
}

type MemoryStore struct {
	mu        sync.Mutex
	byPersona map[string]float64
	byDay     map[string]float64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byPersona: make(map[string]float64),
		byDay:     make(map[string]float64),
	}
}

func (m *MemoryStore) AddSpend(_ context.Context, persona string, usd float64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.byPersona[personaKey(persona, at)] += usd
	m.byDay[dayKey(at)] += usd
	return nil
}

func (m *MemoryStore) GetPersonaSpend(_ context.Context, persona string, day time.Time) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byPersona[personaKey(persona, day)], nil
}

func (m *MemoryStore) GetDailySpend(_ context.Context, day time.Time) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byDay[dayKey(day)], nil
}

func personaKey(persona string, t time.Time) string {
	return fmt.Sprintf("%s#%s", persona, dayKey(t))
}

func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
