package resilience

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrCircuitOpen     = errors.New("circuit breaker is open")
	ErrTooManyRequests = errors.New("too many requests")
)

// State represents the circuit breaker state
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Settings configures the circuit breaker behavior
type Settings struct {
	// Threshold is the number of consecutive failures that opens the breaker
	Threshold uint32
	// Cooldown is how long the breaker stays open before allowing a probe
	Cooldown time.Duration
	// OnStateChange is called whenever the state changes, outside the lock
	OnStateChange func(name string, from State, to State)
	// Now overrides time.Now (tests)
	Now func() time.Time
}

// Counts holds the statistics for the circuit breaker
type Counts struct {
	Successes           uint32 `json:"successes"`
	Failures            uint32 `json:"failures"`
	ConsecutiveFailures uint32 `json:"consecutive_failures"`
	Rejected            uint32 `json:"rejected"`
}

// Breaker fails fast after repeated failures. While open every call is
// rejected; once the cooldown passes a single probe is let through and its
// outcome closes or reopens the breaker.
type Breaker struct {
	name     string
	settings Settings

	mu       sync.Mutex
	state    State
	counts   Counts
	openedAt time.Time
	probing  bool
}

// New creates a new circuit breaker with the given settings
func New(name string, settings Settings) *Breaker {
	if settings.Threshold == 0 {
		settings.Threshold = 5
	}
	if settings.Cooldown == 0 {
		settings.Cooldown = 30 * time.Second
	}
	if settings.Now == nil {
		settings.Now = time.Now
	}
	return &Breaker{name: name, settings: settings}
}

// Name returns the name of the circuit breaker
func (b *Breaker) Name() string {
	return b.name
}

// State returns the current state of the circuit breaker
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentLocked()
}

// Counts returns a copy of the internal counts
func (b *Breaker) Counts() Counts {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.counts
}

// Do runs req unless the breaker rejects it. A panic in req counts as a
// failure and is re-raised.
func (b *Breaker) Do(req func() error) (err error) {
	if err := b.before(); err != nil {
		return err
	}

	success := false
	defer func() {
		b.after(success)
	}()

	err = req()
	success = err == nil
	return err
}

func (b *Breaker) before() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.currentLocked() {
	case StateOpen:
		b.counts.Rejected++
		return ErrCircuitOpen
	case StateHalfOpen:
		if b.probing {
			b.counts.Rejected++
			return ErrTooManyRequests
		}
		b.probing = true
	}
	return nil
}

func (b *Breaker) after(success bool) {
	b.mu.Lock()
	from := b.currentLocked()
	to := from

	if success {
		b.counts.Successes++
		b.counts.ConsecutiveFailures = 0
		if from == StateHalfOpen {
			to = StateClosed
		}
	} else {
		b.counts.Failures++
		b.counts.ConsecutiveFailures++
		if from == StateHalfOpen || b.counts.ConsecutiveFailures >= b.settings.Threshold {
			to = StateOpen
			b.openedAt = b.settings.Now()
		}
	}
	if from == StateHalfOpen {
		b.probing = false
	}
	b.state = to
	b.mu.Unlock()

	if to != from && b.settings.OnStateChange != nil {
		b.settings.OnStateChange(b.name, from, to)
	}
}

// currentLocked moves an open breaker to half-open once the cooldown passes
func (b *Breaker) currentLocked() State {
	if b.state == StateOpen && b.settings.Now().Sub(b.openedAt) >= b.settings.Cooldown {
		b.state = StateHalfOpen
		b.probing = false
	}
	return b.state
}
