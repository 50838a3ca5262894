package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLimiter_PrunesExpiredEntries(t *testing.T) {
	l := New(1, 1)
	l.ttl = 5 * time.Millisecond

	first := l.Get("pirate")
	require.NotNil(t, first)

	time.Sleep(10 * time.Millisecond)
	l.lastPruned = time.Now().Add(-2 * time.Minute)

	// Trigger prune and new allocation.
	second := l.Get("linus")
	require.NotNil(t, second)

	_, ok := l.limiters["pirate"]
	require.False(t, ok, "expected stale limiter to be pruned")
}

func TestLimiter_SamePersonaSharesBucket(t *testing.T) {
	l := New(1, 1)

	require.Same(t, l.Get("pirate"), l.Get("pirate"))
	require.NotSame(t, l.Get("pirate"), l.Get("linus"))
}

func TestLimiter_WaitHonoursContext(t *testing.T) {
	l := New(0.001, 1)
	ctx := context.Background()

	require.NoError(t, l.Wait(ctx, "pirate"))

	ctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	require.Error(t, l.Wait(ctx, "pirate"))

	// other personas are unaffected
	require.NoError(t, l.Wait(context.Background(), "linus"))
}

func TestLimiter_NilWaitIsNoop(t *testing.T) {
	var l *Limiter
	require.NoError(t, l.Wait(context.Background(), "any"))
}
