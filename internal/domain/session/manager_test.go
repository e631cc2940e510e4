package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/events"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/vfs"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/window"
	"github.com/GriffinCanCode/DeskOS/backend/internal/shared/id"
	"github.com/GriffinCanCode/DeskOS/backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGetDelete(t *testing.T) {
	fs := vfs.New(storage.NewMemoryStore())
	m := NewManager(Config{FS: fs})
	defer m.Close()

	s := m.Create()
	assert.True(t, id.IsSessionID(s.ID.String()))
	require.NotNil(t, s.Windows)
	require.NotNil(t, s.Terminal)

	got, ok := m.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, 1, m.Count())

	assert.True(t, m.Delete(s.ID))
	assert.False(t, m.Delete(s.ID))
	_, ok = m.Get(s.ID)
	assert.False(t, ok)
}

func TestSessionsHaveSeparateWindows(t *testing.T) {
	m := NewManager(Config{})
	defer m.Close()

	a, b := m.Create(), m.Create()
	a.Windows.Open("Finder", window.AppFinder, window.Rect{Width: 400, Height: 300})

	assert.Len(t, a.Windows.List(), 1)
	assert.Empty(t, b.Windows.List())
	assert.Nil(t, a.Terminal)

	list := m.List()
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)
	assert.Equal(t, 1, list[0].Windows)
}

func TestExpireIdle(t *testing.T) {
	bus := events.NewBus()
	_, ch, cancel := bus.Subscribe(16)
	defer cancel()

	m := NewManager(Config{TTL: time.Hour, Publisher: bus})
	defer m.Close()

	var mu sync.Mutex
	now := time.Now()
	m.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	advance := func(d time.Duration) {
		mu.Lock()
		now = now.Add(d)
		mu.Unlock()
	}

	stale := m.Create()
	advance(50 * time.Minute)
	fresh := m.Create()
	advance(20 * time.Minute)

	assert.Equal(t, 1, m.ExpireIdle())
	_, ok := m.Get(stale.ID)
	assert.False(t, ok)
	_, ok = m.Get(fresh.ID)
	assert.True(t, ok)

	var ended []events.Event
	for len(ch) > 0 {
		if ev := <-ch; ev.Type == events.SessionEnded {
			ended = append(ended, ev)
		}
	}
	require.Len(t, ended, 1)
	assert.Equal(t, stale.ID.String(), ended[0].SessionID)
	assert.Equal(t, "expired", ended[0].Data["reason"])
}

func TestExpiryLoopRuns(t *testing.T) {
	m := NewManager(Config{TTL: 40 * time.Millisecond})
	defer m.Close()

	m.Create()
	assert.Eventually(t, func() bool { return m.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestCloseWithoutTTL(t *testing.T) {
	m := NewManager(Config{})
	m.Close()
	assert.Equal(t, 0, m.ExpireIdle())
}

func TestTerminalUsesSharedFileSystem(t *testing.T) {
	fs := vfs.New(storage.NewMemoryStore())
	m := NewManager(Config{FS: fs})
	defer m.Close()

	s := m.Create()
	s.Terminal.Execute(context.Background(), "mkdir /Desktop/FromShell")
	assert.True(t, fs.Exists("/Desktop/FromShell"))
}
