package budget

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGuardBlocksWhenPersonaLimitExceeded(t *testing.T) {
	store := NewMemoryStore()
	g := NewGuard(true, 100, 1.0, store)

	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, g.Record(ctx, "pirate", 0.9, now))

	allowed, reason, scope, err := g.Allow(ctx, "pirate", 0.2, now)
	require.NoError(t, err)
	require.False(t, allowed)
	require.Equal(t, "persona", scope)
	require.Contains(t, reason, "persona budget exceeded")

	allowed, _, _, err = g.Allow(ctx, "linus", 0.2, now)
	require.NoError(t, err)
	require.True(t, allowed)
}

func TestGuardBlocksWhenDailyLimitExceeded(t *testing.T) {
	store := NewMemoryStore()
	g := NewGuard(true, 1.0, 10.0, store)

	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, g.Record(ctx, "pirate", 0.95, now))

	allowed, reason, scope, err := g.Allow(ctx, "linus", 0.1, now)
	require.NoError(t, err)
	require.False(t, allowed)
	require.Equal(t, "daily", scope)
	require.Contains(t, reason, "daily budget exceeded")
}

func TestGuardPersonaSpendResetsNextDay(t *testing.T) {
	g := NewGuard(true, 0, 1.0, NewMemoryStore())

	ctx := context.Background()
	today := time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC)

	require.NoError(t, g.Record(ctx, "pirate", 1.0, today))

	allowed, _, _, err := g.Allow(ctx, "pirate", 0.1, today.Add(2*time.Hour))
	require.NoError(t, err)
	require.True(t, allowed)
}

func TestGuardDisabledAllowsEverything(t *testing.T) {
	var nilGuard *Guard
	allowed, _, _, err := nilGuard.Allow(context.Background(), "pirate", 1e9, time.Now())
	require.NoError(t, err)
	require.True(t, allowed)

	g := NewGuard(false, 0.01, 0.01, NewMemoryStore())
	allowed, _, _, err = g.Allow(context.Background(), "pirate", 1e9, time.Now())
	require.NoError(t, err)
	require.True(t, allowed)
	require.False(t, g.Enabled())
}
