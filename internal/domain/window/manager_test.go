package window

import (
	"testing"

	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openThree(m *Manager) (Window, Window, Window) {
	a := m.Open("Finder", AppFinder, Rect{X: 10, Y: 10, Width: 400, Height: 300})
	b := m.Open("Notes", AppNotes, Rect{X: 50, Y: 50, Width: 400, Height: 300})
	c := m.Open("Terminal", AppTerminal, Rect{X: 90, Y: 90, Width: 400, Height: 300})
	return a, b, c
}

func TestOpenAssignsIncreasingIDsAndFocus(t *testing.T) {
	m := NewManager()
	a, b, c := openThree(m)

	assert.Equal(t, uint64(1), a.ID)
	assert.Equal(t, uint64(2), b.ID)
	assert.Equal(t, uint64(3), c.ID)
	assert.Less(t, a.ZIndex, b.ZIndex)
	assert.Less(t, b.ZIndex, c.ZIndex)

	active, ok := m.ActiveWindowID()
	require.True(t, ok)
	assert.Equal(t, c.ID, active)

	// Ids are never reused after close.
	m.Close(c.ID)
	d := m.Open("Safari", AppSafari, Rect{Width: 800, Height: 600})
	assert.Equal(t, uint64(4), d.ID)
}

func TestOpenClampsMinimumSize(t *testing.T) {
	m := NewManager()
	w := m.Open("tiny", AppGeneric, Rect{Width: 10, Height: 10})
	assert.Equal(t, MinWidth, w.Width)
	assert.Equal(t, MinHeight, w.Height)
}

func TestFocusStrictlyIncreasesAndBecomesMax(t *testing.T) {
	m := NewManager()
	a, b, c := openThree(m)

	last := 0
	for _, id := range []uint64{a.ID, b.ID, a.ID, c.ID, a.ID, a.ID} {
		require.True(t, m.Focus(id))
		w, _ := m.Get(id)
		assert.Greater(t, w.ZIndex, last)
		last = w.ZIndex

		for _, other := range m.List() {
			if other.ID != id {
				assert.Less(t, other.ZIndex, w.ZIndex)
			}
		}
		active, _ := m.ActiveWindowID()
		assert.Equal(t, id, active)
	}
}

func TestFocusUnknownStillAdvancesCounter(t *testing.T) {
	m := NewManager()
	m.Open("a", AppGeneric, Rect{Width: 300, Height: 200})
	before := m.TopZIndex()

	assert.False(t, m.Focus(99))
	assert.Equal(t, before+1, m.TopZIndex())
}

func TestActiveWindowSkipsMinimized(t *testing.T) {
	m := NewManager()
	a, b, c := openThree(m)

	m.Minimize(c.ID)
	active, ok := m.ActiveWindowID()
	require.True(t, ok)
	assert.Equal(t, b.ID, active)

	m.Minimize(a.ID)
	m.Minimize(b.ID)
	_, ok = m.ActiveWindowID()
	assert.False(t, ok)

	assert.Empty(t, m.VisibleWindows())
	minimized := m.MinimizedWindows()
	require.Len(t, minimized, 3)
	// Registry order, not minimize order.
	assert.Equal(t, []uint64{a.ID, b.ID, c.ID}, []uint64{minimized[0].ID, minimized[1].ID, minimized[2].ID})
}

func TestMinimizeKeepsZIndexAndMaximize(t *testing.T) {
	m := NewManager()
	w := m.Open("a", AppGeneric, Rect{Width: 300, Height: 200})
	m.Maximize(w.ID)

	require.True(t, m.Minimize(w.ID))
	got, _ := m.Get(w.ID)
	assert.True(t, got.IsMinimized)
	assert.True(t, got.IsMaximized)
	assert.Equal(t, w.ZIndex, got.ZIndex)
}

func TestRestoreFocusesAndUnminimizes(t *testing.T) {
	m := NewManager()
	a, _, _ := openThree(m)
	m.Minimize(a.ID)

	require.True(t, m.Restore(a.ID))
	got, _ := m.Get(a.ID)
	assert.False(t, got.IsMinimized)
	active, _ := m.ActiveWindowID()
	assert.Equal(t, a.ID, active)

	assert.False(t, m.Restore(42))
}

func TestMaximizeToggleRestoresExactRect(t *testing.T) {
	m := NewManager()
	w := m.Open("a", AppGeneric, Rect{X: 12.5, Y: 33.25, Width: 640, Height: 480})

	require.True(t, m.Maximize(w.ID))
	got, _ := m.Get(w.ID)
	assert.True(t, got.IsMaximized)
	require.NotNil(t, got.PreMaximizeRect)
	assert.Equal(t, Rect{X: 12.5, Y: 33.25, Width: 640, Height: 480}, *got.PreMaximizeRect)

	require.True(t, m.Maximize(w.ID))
	got, _ = m.Get(w.ID)
	assert.False(t, got.IsMaximized)
	assert.Nil(t, got.PreMaximizeRect)
	assert.Equal(t, Rect{X: 12.5, Y: 33.25, Width: 640, Height: 480}, got.Rect())

	assert.False(t, m.Maximize(999))
}

func TestCloseRemovesAndClearsDrag(t *testing.T) {
	m := NewManager()
	a, b, _ := openThree(m)

	require.True(t, m.BeginMove(a.ID, 0, 0))
	require.True(t, m.Close(a.ID))
	_, ok := m.Get(a.ID)
	assert.False(t, ok)
	assert.Equal(t, OpNone, m.Operation().Kind)

	assert.False(t, m.Close(a.ID))
	assert.Len(t, m.List(), 2)
	_, ok = m.Get(b.ID)
	assert.True(t, ok)
}

func TestMoveClampsAtOrigin(t *testing.T) {
	m := NewManager()
	a, _, _ := openThree(m)

	require.True(t, m.BeginMove(a.ID, 100, 100))
	active, _ := m.ActiveWindowID()
	assert.Equal(t, a.ID, active, "begin move focuses")

	got, ok := m.PointerMove(130, 80)
	require.True(t, ok)
	assert.Equal(t, 40.0, got.X)
	assert.Equal(t, 0.0, got.Y)

	got, _ = m.PointerMove(0, 0)
	assert.Equal(t, 0.0, got.X)
	assert.Equal(t, 0.0, got.Y)
	assert.Equal(t, 400.0, got.Width)

	m.PointerUp()
	_, ok = m.PointerMove(500, 500)
	assert.False(t, ok)
}

func TestBeginIgnoredWhenMaximized(t *testing.T) {
	m := NewManager()
	a, _, _ := openThree(m)
	m.Maximize(a.ID)

	assert.False(t, m.BeginMove(a.ID, 0, 0))
	assert.False(t, m.BeginResize(a.ID, SouthEast, 0, 0))
	assert.Equal(t, OpNone, m.Operation().Kind)
	assert.False(t, m.BeginMove(77, 0, 0))
}

func TestResizeDirections(t *testing.T) {
	start := Rect{X: 100, Y: 100, Width: 400, Height: 300}

	tests := []struct {
		name   string
		dir    Direction
		dx, dy float64
		want   Rect
	}{
		{"east grows", East, 50, 10, Rect{X: 100, Y: 100, Width: 450, Height: 300}},
		{"south grows", South, 10, 40, Rect{X: 100, Y: 100, Width: 400, Height: 340}},
		{"west grows", West, -50, 0, Rect{X: 50, Y: 100, Width: 450, Height: 300}},
		{"north shrinks", North, 0, 60, Rect{X: 100, Y: 160, Width: 400, Height: 240}},
		{"south-east", SouthEast, 20, 30, Rect{X: 100, Y: 100, Width: 420, Height: 330}},
		{"north-west", NorthWest, 20, 30, Rect{X: 120, Y: 130, Width: 380, Height: 270}},
		{"north-east", NorthEast, 20, 30, Rect{X: 100, Y: 130, Width: 420, Height: 270}},
		{"south-west", SouthWest, 20, 30, Rect{X: 120, Y: 100, Width: 380, Height: 330}},
		{"east clamps", East, -1000, 0, Rect{X: 100, Y: 100, Width: MinWidth, Height: 300}},
		{"south clamps", South, 0, -1000, Rect{X: 100, Y: 100, Width: 400, Height: MinHeight}},
		{"north clamps keeps bottom edge", North, 0, 1000, Rect{X: 100, Y: 300, Width: 400, Height: MinHeight}},
		{"north-west clamps both", NorthWest, 1000, 1000, Rect{X: 300, Y: 300, Width: MinWidth, Height: MinHeight}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager()
			w := m.Open("w", AppGeneric, start)

			require.True(t, m.BeginResize(w.ID, tt.dir, 500, 500))
			got, ok := m.PointerMove(500+tt.dx, 500+tt.dy)
			require.True(t, ok)
			assert.Equal(t, tt.want, got.Rect())
		})
	}
}

func TestResizeWestClampsWithoutJump(t *testing.T) {
	m := NewManager()
	w := m.Open("w", AppGeneric, Rect{X: 100, Y: 100, Width: 400, Height: 300})

	require.True(t, m.BeginResize(w.ID, West, 100, 200))
	got, _ := m.PointerMove(450, 200) // raw delta 350 would leave width 50
	assert.Equal(t, MinWidth, got.Width)
	assert.Equal(t, 100.0+(400.0-MinWidth), got.X)

	// Right edge never moved.
	assert.Equal(t, 500.0, got.X+got.Width)

	// Baseline is the pointer-down geometry, not the previous move.
	got, _ = m.PointerMove(90, 200)
	assert.Equal(t, 410.0, got.Width)
	assert.Equal(t, 90.0, got.X)
}

func TestPointerUpAlwaysClears(t *testing.T) {
	m := NewManager()
	m.PointerUp()
	assert.Equal(t, OpNone, m.Operation().Kind)

	w := m.Open("w", AppGeneric, Rect{Width: 300, Height: 200})
	m.BeginResize(w.ID, South, 0, 0)
	assert.True(t, m.Operation().Active())
	m.PointerUp()
	assert.False(t, m.Operation().Active())
}

func TestStats(t *testing.T) {
	m := NewManager()
	a, _, c := openThree(m)
	m.Minimize(a.ID)
	m.BeginMove(c.ID, 0, 0)

	stats := m.Stats()
	assert.Equal(t, 3, stats.TotalWindows)
	assert.Equal(t, 2, stats.VisibleWindows)
	assert.Equal(t, 1, stats.MinimizedWindows)
	assert.True(t, stats.Dragging)
	require.NotNil(t, stats.ActiveWindowID)
	assert.Equal(t, c.ID, *stats.ActiveWindowID)
}

func TestPublishesEvents(t *testing.T) {
	bus := events.NewBus()
	_, ch, cancel := bus.Subscribe(16)
	defer cancel()

	m := NewManager().WithPublisher("sess_1", bus)
	w := m.Open("a", AppGeneric, Rect{Width: 300, Height: 200})
	m.Close(w.ID)

	ev := <-ch
	assert.Equal(t, events.WindowOpened, ev.Type)
	assert.Equal(t, "sess_1", ev.SessionID)
	ev = <-ch
	assert.Equal(t, events.WindowClosed, ev.Type)
	assert.Equal(t, w.ID, ev.Data["id"])
}

func TestParse(t *testing.T) {
	assert.Equal(t, AppCalculator, ParseAppType("calculator"))
	assert.Equal(t, AppGeneric, ParseAppType("photoshop"))

	d, ok := ParseDirection("sw")
	assert.True(t, ok)
	assert.Equal(t, SouthWest, d)
	_, ok = ParseDirection("up")
	assert.False(t, ok)
}
