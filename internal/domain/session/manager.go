package session

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/events"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/terminal"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/vfs"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/window"
	"github.com/GriffinCanCode/DeskOS/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/DeskOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/DeskOS/backend/internal/shared/id"
)

// DefaultTTL expires sessions nobody has touched for this long
const DefaultTTL = 12 * time.Hour

// Session is one desktop
type Session struct {
	ID        id.SessionID    `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Windows   *window.Manager `json:"-"`
	Terminal  *terminal.Shell `json:"-"`

	lastSeen time.Time
}

// Info is the listing view of a session
type Info struct {
	ID        id.SessionID `json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	LastSeen  time.Time    `json:"last_seen"`
	Windows   int          `json:"windows"`
}

// Config wires a Manager
type Config struct {
	TTL       time.Duration
	FS        *vfs.FileSystem
	User      string
	Publisher events.Publisher
	Metrics   *monitoring.Metrics
	Logger    *logging.Logger
}

// Manager owns every live session
type Manager struct {
	mu       sync.RWMutex
	sessions map[id.SessionID]*Session

	ttl       time.Duration
	fs        *vfs.FileSystem
	user      string
	publisher events.Publisher
	metrics   *monitoring.Metrics
	logger    *logging.Logger
	now       func() time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

// NewManager creates a session manager and starts the expiry loop when a
// TTL is set. Call Close to stop it.
func NewManager(cfg Config) *Manager {
	if cfg.Publisher == nil {
		cfg.Publisher = events.Nop{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}
	m := &Manager{
		sessions:  make(map[id.SessionID]*Session),
		ttl:       cfg.TTL,
		fs:        cfg.FS,
		user:      cfg.User,
		publisher: cfg.Publisher,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
		now:       time.Now,
		done:      make(chan struct{}),
	}

	if m.ttl > 0 {
		ctx, cancel := context.WithCancel(context.Background())
		m.cancel = cancel
		go m.expireLoop(ctx, sweepInterval(m.ttl))
	} else {
		close(m.done)
	}
	return m
}

func sweepInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval > time.Minute {
		interval = time.Minute
	}
	if interval < 10*time.Millisecond {
		interval = 10 * time.Millisecond
	}
	return interval
}

// Create starts a session
func (m *Manager) Create() *Session {
	sid := id.NewSessionID()
	now := m.now()
	s := &Session{
		ID:        sid,
		CreatedAt: now,
		Windows:   window.NewManager().WithPublisher(sid.String(), m.publisher).WithMetrics(m.metrics),
		lastSeen:  now,
	}
	if m.fs != nil {
		s.Terminal = terminal.New(m.fs, m.user)
	}

	m.mu.Lock()
	m.sessions[sid] = s
	count := len(m.sessions)
	m.mu.Unlock()

	m.metrics.IncSessionsCreated()
	m.metrics.SetSessionsActive(count)
	m.publisher.Publish(events.New(events.SessionCreated, sid.String(), nil))
	m.logger.Debug("Session created", zap.String("session_id", sid.String()))
	return s
}

// Get returns a session and marks it as seen
func (m *Manager) Get(sid id.SessionID) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sid]
	if ok {
		s.lastSeen = m.now()
	}
	return s, ok
}

// Delete ends a session
func (m *Manager) Delete(sid id.SessionID) bool {
	m.mu.Lock()
	_, ok := m.sessions[sid]
	delete(m.sessions, sid)
	count := len(m.sessions)
	m.mu.Unlock()

	if !ok {
		return false
	}
	m.metrics.SetSessionsActive(count)
	m.publisher.Publish(events.New(events.SessionEnded, sid.String(), map[string]interface{}{
		"reason": "closed",
	}))
	return true
}

// List returns sessions oldest first
func (m *Manager) List() []Info {
	m.mu.RLock()
	out := make([]Info, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, Info{
			ID:        s.ID,
			CreatedAt: s.CreatedAt,
			LastSeen:  s.lastSeen,
			Windows:   len(s.Windows.List()),
		})
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Count returns the number of live sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// ExpireIdle drops sessions idle longer than the TTL and returns how many
func (m *Manager) ExpireIdle() int {
	if m.ttl <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.ttl)

	m.mu.Lock()
	var expired []id.SessionID
	for sid, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			expired = append(expired, sid)
			delete(m.sessions, sid)
		}
	}
	count := len(m.sessions)
	m.mu.Unlock()

	for _, sid := range expired {
		m.metrics.IncSessionsExpired()
		m.publisher.Publish(events.New(events.SessionEnded, sid.String(), map[string]interface{}{
			"reason": "expired",
		}))
	}
	if len(expired) > 0 {
		m.metrics.SetSessionsActive(count)
		m.logger.Info("Expired idle sessions", zap.Int("count", len(expired)))
	}
	return len(expired)
}

func (m *Manager) expireLoop(ctx context.Context, interval time.Duration) {
	defer close(m.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.ExpireIdle()
		}
	}
}

// Close stops the expiry loop
func (m *Manager) Close() {
	if m.cancel != nil {
		m.cancel()
	}
	<-m.done
}
