package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/GriffinCanCode/DeskOS/backend/internal/infrastructure/resilience"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyStore struct {
	*MemoryStore
	failing bool
	calls   int
}

func (f *flakyStore) Set(ctx context.Context, key string, value []byte) error {
	f.calls++
	if f.failing {
		return errors.New("disk full")
	}
	return f.MemoryStore.Set(ctx, key, value)
}

func TestGuardedOpensOnRepeatedFailures(t *testing.T) {
	ctx := context.Background()
	inner := &flakyStore{MemoryStore: NewMemoryStore(), failing: true}
	g := NewGuarded(inner, resilience.New("storage", resilience.Settings{Threshold: 2, Cooldown: time.Hour}))

	assert.Error(t, g.Set(ctx, KeyTheme, []byte("dark")))
	assert.Error(t, g.Set(ctx, KeyTheme, []byte("dark")))
	assert.ErrorIs(t, g.Set(ctx, KeyTheme, []byte("dark")), resilience.ErrCircuitOpen)
	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, resilience.StateOpen, g.Breaker().State())
}

func TestGuardedPassesThrough(t *testing.T) {
	ctx := context.Background()
	g := NewGuarded(NewMemoryStore(), resilience.New("storage", resilience.Settings{Threshold: 1}))

	require.NoError(t, g.Set(ctx, KeyNotes, []byte("{}")))
	v, ok, err := g.Get(ctx, KeyNotes)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "{}", string(v))

	keys, err := g.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{KeyNotes}, keys)

	require.NoError(t, g.Delete(ctx, KeyNotes))
	require.NoError(t, g.Close())
}

func TestGuardedIgnoresCallerErrors(t *testing.T) {
	ctx := context.Background()
	g := NewGuarded(NewMemoryStore(), resilience.New("storage", resilience.Settings{Threshold: 1}))

	assert.ErrorIs(t, g.Set(ctx, "a/b", nil), ErrInvalidKey)
	assert.ErrorIs(t, g.Set(ctx, "", nil), ErrInvalidKey)
	assert.Equal(t, resilience.StateClosed, g.Breaker().State())
}
