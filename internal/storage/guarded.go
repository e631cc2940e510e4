package storage

import (
	"context"
	"errors"

	"github.com/GriffinCanCode/DeskOS/backend/internal/infrastructure/resilience"
)

// Guarded routes a store's I/O through a circuit breaker so a failing
// backend is skipped quickly instead of retried on every mutation. Invalid
// keys are caller errors and do not count against the backend.
type Guarded struct {
	inner   Store
	breaker *resilience.Breaker
}

// NewGuarded wraps inner
func NewGuarded(inner Store, breaker *resilience.Breaker) *Guarded {
	return &Guarded{inner: inner, breaker: breaker}
}

// Breaker exposes the breaker for health reporting
func (g *Guarded) Breaker() *resilience.Breaker {
	return g.breaker
}

func (g *Guarded) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var (
		value []byte
		found bool
	)
	err := g.do(func() error {
		var err error
		value, found, err = g.inner.Get(ctx, key)
		return err
	})
	return value, found, err
}

func (g *Guarded) Set(ctx context.Context, key string, value []byte) error {
	return g.do(func() error {
		return g.inner.Set(ctx, key, value)
	})
}

func (g *Guarded) Delete(ctx context.Context, key string) error {
	return g.do(func() error {
		return g.inner.Delete(ctx, key)
	})
}

func (g *Guarded) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	err := g.do(func() error {
		var err error
		keys, err = g.inner.Keys(ctx)
		return err
	})
	return keys, err
}

func (g *Guarded) Close() error {
	return g.inner.Close()
}

func (g *Guarded) do(fn func() error) error {
	var callerErr error
	err := g.breaker.Do(func() error {
		err := fn()
		if errors.Is(err, ErrInvalidKey) {
			callerErr = err
			return nil
		}
		return err
	})
	if callerErr != nil {
		return callerErr
	}
	return err
}
