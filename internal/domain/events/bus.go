// Package events is the in-process change feed. Stores publish after every
// mutation; the WebSocket handler forwards events to browsers, which then
// pull fresh state and re-render.
package events

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Type names a change
type Type string

const (
	WindowOpened   Type = "window.opened"
	WindowClosed   Type = "window.closed"
	WindowChanged  Type = "window.changed"
	WindowFocused  Type = "window.focused"
	FSChanged      Type = "fs.changed"
	ThemeChanged   Type = "theme.changed"
	NotesChanged   Type = "notes.changed"
	SessionCreated Type = "session.created"
	SessionEnded   Type = "session.ended"
)

// Event is a single change notification
type Event struct {
	Type      Type                   `json:"type"`
	SessionID string                 `json:"session_id,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp int64                  `json:"timestamp"`
}

// New stamps an event with the current time in epoch milliseconds
func New(t Type, sessionID string, data map[string]interface{}) Event {
	return Event{
		Type:      t,
		SessionID: sessionID,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}
}

// Publisher is what stores depend on
type Publisher interface {
	Publish(Event)
}

// Bus fans events out to subscribers. A full subscriber buffer drops the
// event for that subscriber only; Publish never blocks.
type Bus struct {
	mu      sync.RWMutex
	subs    map[string]chan Event
	dropped atomic.Uint64
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{subs: make(map[string]chan Event)}
}

// Subscribe registers a listener. The returned cancel func unregisters it
// and closes the channel; it is safe to call more than once.
func (b *Bus) Subscribe(buffer int) (string, <-chan Event, func()) {
	if buffer <= 0 {
		buffer = 64
	}
	id := uuid.New().String()
	ch := make(chan Event, buffer)

	b.mu.Lock()
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
	return id, ch, cancel
}

// Publish delivers ev to every subscriber with room in its buffer
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			b.dropped.Add(1)
		}
	}
}

// Subscribers returns the current subscriber count
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Dropped returns how many deliveries were skipped because a subscriber
// buffer was full
func (b *Bus) Dropped() uint64 {
	return b.dropped.Load()
}

// Nop discards events. Stores use it when built without a bus.
type Nop struct{}

func (Nop) Publish(Event) {}
