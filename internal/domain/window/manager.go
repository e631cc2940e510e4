package window

import (
	"sync"

	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/events"
	"github.com/GriffinCanCode/DeskOS/backend/internal/infrastructure/monitoring"
)

// Manager owns the window registry of one desktop session: the window
// records in insertion order, the running top z-index and the single active
// drag or resize. Operations on unknown ids are silent no-ops and report
// false.
type Manager struct {
	mu        sync.RWMutex
	windows   []*Window // insertion order, not display order
	nextID    uint64
	topZIndex int
	op        Operation

	sessionID string
	publisher events.Publisher
	metrics   *monitoring.Metrics
}

// NewManager creates an empty window registry
func NewManager() *Manager {
	return &Manager{
		nextID:    1,
		op:        Operation{Kind: OpNone},
		publisher: events.Nop{},
	}
}

// WithPublisher routes change events for this session to pub
func (m *Manager) WithPublisher(sessionID string, pub events.Publisher) *Manager {
	m.sessionID = sessionID
	if pub != nil {
		m.publisher = pub
	}
	return m
}

// WithMetrics adds metrics tracking to the manager
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// Open creates a window with the next id and focuses it
func (m *Manager) Open(title string, appType AppType, rect Rect) Window {
	m.mu.Lock()
	defer m.mu.Unlock()

	rect = rect.clampSize()
	w := &Window{
		ID:      m.nextID,
		Title:   title,
		AppType: appType,
	}
	w.setRect(rect)
	m.nextID++
	m.windows = append(m.windows, w)

	m.topZIndex++
	w.ZIndex = m.topZIndex

	m.record("open")
	m.publish(events.WindowOpened, w)
	return w.clone()
}

// Focus raises a window to the top. The counter advances even when id is
// unknown.
func (m *Manager) Focus(id uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.focusLocked(id)
}

func (m *Manager) focusLocked(id uint64) bool {
	m.topZIndex++
	w := m.find(id)
	if w == nil {
		return false
	}
	w.ZIndex = m.topZIndex

	m.record("focus")
	m.publish(events.WindowFocused, w)
	return true
}

// Close removes a window. An in-progress drag of that window is dropped.
func (m *Manager) Close(id uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, w := range m.windows {
		if w.ID != id {
			continue
		}
		m.windows = append(m.windows[:i], m.windows[i+1:]...)
		if m.op.Active() && m.op.WindowID == id {
			m.op = Operation{Kind: OpNone}
		}

		m.record("close")
		m.publisher.Publish(events.New(events.WindowClosed, m.sessionID, map[string]interface{}{
			"id": id,
		}))
		return true
	}
	return false
}

// Minimize hides a window without touching z-order or maximize state
func (m *Manager) Minimize(id uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	w := m.find(id)
	if w == nil {
		return false
	}
	w.IsMinimized = true

	m.record("minimize")
	m.publish(events.WindowChanged, w)
	return true
}

// Maximize toggles the maximized flag. Maximizing saves the current
// geometry; un-maximizing restores it and clears the saved rect. The
// full-screen geometry itself is left to the presentation layer.
func (m *Manager) Maximize(id uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	w := m.find(id)
	if w == nil {
		return false
	}

	if !w.IsMaximized {
		saved := w.Rect()
		w.PreMaximizeRect = &saved
		w.IsMaximized = true
	} else {
		if w.PreMaximizeRect != nil {
			w.setRect(*w.PreMaximizeRect)
		}
		w.PreMaximizeRect = nil
		w.IsMaximized = false
	}

	m.record("maximize")
	m.publish(events.WindowChanged, w)
	return true
}

// Restore focuses a window and clears its minimized flag
func (m *Manager) Restore(id uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.focusLocked(id) {
		return false
	}
	w := m.find(id)
	w.IsMinimized = false

	m.record("restore")
	m.publish(events.WindowChanged, w)
	return true
}

// BeginMove starts dragging a window by its title bar. Ignored for
// maximized or unknown windows.
func (m *Manager) BeginMove(id uint64, pointerX, pointerY float64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	w := m.find(id)
	if w == nil || w.IsMaximized {
		return false
	}
	m.focusLocked(id)
	m.op = Operation{
		Kind:     OpMove,
		WindowID: id,
		OriginX:  pointerX,
		OriginY:  pointerY,
		Start:    w.Rect(),
	}
	m.record("begin_move")
	return true
}

// BeginResize starts resizing a window from one of its eight handles.
// Ignored for maximized or unknown windows.
func (m *Manager) BeginResize(id uint64, dir Direction, pointerX, pointerY float64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	w := m.find(id)
	if w == nil || w.IsMaximized {
		return false
	}
	m.focusLocked(id)
	m.op = Operation{
		Kind:      OpResize,
		WindowID:  id,
		Direction: dir,
		OriginX:   pointerX,
		OriginY:   pointerY,
		Start:     w.Rect(),
	}
	m.record("begin_resize")
	return true
}

// PointerMove recomputes the target window geometry from the pointer delta
// and the captured baseline. Returns the updated window, or false when no
// operation is active.
func (m *Manager) PointerMove(pointerX, pointerY float64) (Window, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.op.Active() {
		return Window{}, false
	}
	w := m.find(m.op.WindowID)
	if w == nil {
		return Window{}, false
	}

	dx := pointerX - m.op.OriginX
	dy := pointerY - m.op.OriginY

	switch m.op.Kind {
	case OpMove:
		w.setRect(moveRect(m.op.Start, dx, dy))
	case OpResize:
		w.setRect(resizeRect(m.op.Start, m.op.Direction, dx, dy))
	}

	m.publish(events.WindowChanged, w)
	return w.clone(), true
}

// PointerUp ends any drag or resize
func (m *Manager) PointerUp() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.op = Operation{Kind: OpNone}
}

// Operation returns the active pointer interaction
func (m *Manager) Operation() Operation {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.op
}

// Get returns a copy of a window
func (m *Manager) Get(id uint64) (Window, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	w := m.find(id)
	if w == nil {
		return Window{}, false
	}
	return w.clone(), true
}

// List returns copies of all windows in registry order
func (m *Manager) List() []Window {
	return m.filter(func(*Window) bool { return true })
}

// VisibleWindows returns all non-minimized windows in registry order
func (m *Manager) VisibleWindows() []Window {
	return m.filter(func(w *Window) bool { return !w.IsMinimized })
}

// MinimizedWindows returns all minimized windows in registry order
func (m *Manager) MinimizedWindows() []Window {
	return m.filter(func(w *Window) bool { return w.IsMinimized })
}

// ActiveWindowID returns the topmost non-minimized window
func (m *Manager) ActiveWindowID() (uint64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.activeLocked()
}

// TopZIndex returns the running maximum z-index
func (m *Manager) TopZIndex() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.topZIndex
}

// Stats returns manager statistics
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := Stats{
		TotalWindows: len(m.windows),
		TopZIndex:    m.topZIndex,
		Dragging:     m.op.Active(),
	}
	for _, w := range m.windows {
		if w.IsMinimized {
			stats.MinimizedWindows++
		} else {
			stats.VisibleWindows++
		}
	}
	if id, ok := m.activeLocked(); ok {
		stats.ActiveWindowID = &id
	}
	return stats
}

func (m *Manager) activeLocked() (uint64, bool) {
	var top *Window
	for _, w := range m.windows {
		if w.IsMinimized {
			continue
		}
		if top == nil || w.ZIndex > top.ZIndex {
			top = w
		}
	}
	if top == nil {
		return 0, false
	}
	return top.ID, true
}

func (m *Manager) filter(keep func(*Window) bool) []Window {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Window, 0, len(m.windows))
	for _, w := range m.windows {
		if keep(w) {
			out = append(out, w.clone())
		}
	}
	return out
}

// find must be called with mu held
func (m *Manager) find(id uint64) *Window {
	for _, w := range m.windows {
		if w.ID == id {
			return w
		}
	}
	return nil
}

func (m *Manager) record(op string) {
	m.metrics.RecordWindowOp(op)
}

func (m *Manager) publish(t events.Type, w *Window) {
	m.publisher.Publish(events.New(t, m.sessionID, map[string]interface{}{
		"window": w.clone(),
	}))
}
