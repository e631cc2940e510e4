// Package theme holds the light/dark appearance preference and the color
// palettes the shell paints its chrome with.
package theme

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/events"
	"github.com/GriffinCanCode/DeskOS/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/DeskOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/DeskOS/backend/internal/storage"
)

//go:embed palettes.toml
var palettesTOML []byte

// Mode is the appearance preference
type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// ParseMode accepts "light" or "dark"; anything else is invalid
func ParseMode(s string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, true
	case Dark:
		return Dark, true
	}
	return Light, false
}

// Palette is the set of colors for one mode
type Palette struct {
	Name          string            `toml:"name" json:"name"`
	Background    string            `toml:"background" json:"background"`
	Surface       string            `toml:"surface" json:"surface"`
	MenuBar       string            `toml:"menu_bar" json:"menu_bar"`
	Text          string            `toml:"text" json:"text"`
	TextMuted     string            `toml:"text_muted" json:"text_muted"`
	Accent        string            `toml:"accent" json:"accent"`
	Border        string            `toml:"border" json:"border"`
	Dock          string            `toml:"dock" json:"dock"`
	TrafficLights map[string]string `toml:"traffic_lights" json:"traffic_lights"`
}

// parsePalettes decodes a TOML palette catalog keyed by mode
func parsePalettes(data []byte) (map[Mode]Palette, error) {
	var raw map[string]Palette
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse palettes: %w", err)
	}
	out := make(map[Mode]Palette, len(raw))
	for k, p := range raw {
		m, ok := ParseMode(k)
		if !ok {
			return nil, fmt.Errorf("unknown palette mode %q", k)
		}
		out[m] = p
	}
	if _, ok := out[Light]; !ok {
		return nil, fmt.Errorf("palette catalog has no light palette")
	}
	if _, ok := out[Dark]; !ok {
		return nil, fmt.Errorf("palette catalog has no dark palette")
	}
	return out, nil
}

// Manager owns the current mode. The stored value is the bare mode name;
// an unreadable or unknown value means light.
type Manager struct {
	mu       sync.RWMutex
	mode     Mode
	palettes map[Mode]Palette

	store     storage.Store
	publisher events.Publisher
	metrics   *monitoring.Metrics
	logger    *logging.Logger
}

// NewManager creates a theme manager with the built-in palettes
func NewManager(store storage.Store, publisher events.Publisher, logger *logging.Logger) *Manager {
	palettes, err := parsePalettes(palettesTOML)
	if err != nil {
		panic(fmt.Sprintf("embedded palettes are invalid: %v", err))
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{
		mode:      Light,
		palettes:  palettes,
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// WithMetrics adds persistence timing
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// Load reads the stored preference
func (m *Manager) Load(ctx context.Context) (Mode, error) {
	data, ok, err := m.store.Get(ctx, storage.KeyTheme)
	if err != nil {
		return m.Get(), fmt.Errorf("failed to load theme: %w", err)
	}

	mode := Light
	if ok {
		if parsed, valid := ParseMode(strings.Trim(string(data), `"`)); valid {
			mode = parsed
		}
	}

	m.mu.Lock()
	m.mode = mode
	m.mu.Unlock()
	return mode, nil
}

// Get returns the current mode
func (m *Manager) Get() Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mode
}

// Palette returns the colors for the current mode
func (m *Manager) Palette() Palette {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.palettes[m.mode]
}

// Palettes returns every palette
func (m *Manager) Palettes() map[Mode]Palette {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[Mode]Palette, len(m.palettes))
	for k, v := range m.palettes {
		out[k] = v
	}
	return out
}

// Set stores a new mode and reports whether it changed
func (m *Manager) Set(ctx context.Context, mode Mode) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.mode == mode {
		return false
	}
	m.mode = mode
	m.persistLocked(ctx)
	m.publisher.Publish(events.New(events.ThemeChanged, "", map[string]interface{}{
		"theme": string(mode),
	}))
	return true
}

// Toggle flips between light and dark
func (m *Manager) Toggle(ctx context.Context) Mode {
	next := Dark
	if m.Get() == Dark {
		next = Light
	}
	m.Set(ctx, next)
	return next
}

func (m *Manager) persistLocked(ctx context.Context) {
	timer := monitoring.NewTimer(m.metrics, storage.KeyTheme)
	err := m.store.Set(ctx, storage.KeyTheme, []byte(m.mode))
	timer.Stop(err)
	if err != nil {
		m.logger.Error("Failed to persist theme", zap.Error(err))
	}
}
