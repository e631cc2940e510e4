package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func fail() error { return errBoom }
func ok() error   { return nil }

func TestBreakerStateTransitions(t *testing.T) {
	tests := []struct {
		name          string
		requests      []bool // true = success, false = failure
		expectedState State
	}{
		{"stays closed on successes", []bool{true, true, true}, StateClosed},
		{"opens after consecutive failures", []bool{false, false, false}, StateOpen},
		{"success resets the streak", []bool{false, false, true, false, false}, StateClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New("test", Settings{Threshold: 3, Cooldown: time.Minute})
			for _, success := range tt.requests {
				if success {
					_ = b.Do(ok)
				} else {
					_ = b.Do(fail)
				}
			}
			assert.Equal(t, tt.expectedState, b.State())
		})
	}
}

func TestOpenBreakerRejects(t *testing.T) {
	c := &clock{t: time.Unix(0, 0)}
	b := New("store", Settings{Threshold: 1, Cooldown: time.Second, Now: c.now})

	assert.ErrorIs(t, b.Do(fail), errBoom)
	called := false
	err := b.Do(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
	assert.Equal(t, uint32(1), b.Counts().Rejected)
}

func TestHalfOpenProbe(t *testing.T) {
	c := &clock{t: time.Unix(0, 0)}
	var transitions []string
	b := New("store", Settings{
		Threshold: 1,
		Cooldown:  time.Second,
		Now:       c.now,
		OnStateChange: func(_ string, from, to State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})

	_ = b.Do(fail)
	c.advance(time.Second)
	assert.Equal(t, StateHalfOpen, b.State())

	// A failed probe reopens.
	assert.ErrorIs(t, b.Do(fail), errBoom)
	assert.Equal(t, StateOpen, b.State())

	c.advance(time.Second)
	require.NoError(t, b.Do(ok))
	assert.Equal(t, StateClosed, b.State())

	assert.Equal(t, []string{"closed->open", "half-open->open", "half-open->closed"}, transitions)
}

func TestOnlyOneProbeAtATime(t *testing.T) {
	c := &clock{t: time.Unix(0, 0)}
	b := New("store", Settings{Threshold: 1, Cooldown: time.Second, Now: c.now})
	_ = b.Do(fail)
	c.advance(time.Second)

	err := b.Do(func() error {
		assert.ErrorIs(t, b.Do(ok), ErrTooManyRequests)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, StateClosed, b.State())
}

func TestPanicCountsAsFailure(t *testing.T) {
	b := New("store", Settings{Threshold: 1})
	assert.Panics(t, func() {
		_ = b.Do(func() error { panic("disk") })
	})
	assert.Equal(t, StateOpen, b.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "unknown", State(9).String())
}
