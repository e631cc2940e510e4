package theme

import (
	"context"
	"testing"

	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/events"
	"github.com/GriffinCanCode/DeskOS/backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFallsBackToLight(t *testing.T) {
	ctx := context.Background()
	tests := map[string]struct {
		stored []byte
		want   Mode
	}{
		"missing":   {nil, Light},
		"dark":      {[]byte("dark"), Dark},
		"quoted":    {[]byte(`"dark"`), Dark},
		"invalid":   {[]byte("purple"), Light},
		"light":     {[]byte("light"), Light},
		"malformed": {[]byte{0xff, 0xfe}, Light},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			store := storage.NewMemoryStore()
			if tt.stored != nil {
				require.NoError(t, store.Set(ctx, storage.KeyTheme, tt.stored))
			}
			m := NewManager(store, nil, nil)
			got, err := m.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetPersistsAndPublishes(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	bus := events.NewBus()
	_, ch, cancel := bus.Subscribe(4)
	defer cancel()

	m := NewManager(store, bus, nil)
	assert.False(t, m.Set(ctx, Light))
	assert.True(t, m.Set(ctx, Dark))

	data, ok, err := store.Get(ctx, storage.KeyTheme)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "dark", string(data))

	ev := <-ch
	assert.Equal(t, events.ThemeChanged, ev.Type)
	assert.Equal(t, "dark", ev.Data["theme"])
}

func TestToggle(t *testing.T) {
	ctx := context.Background()
	m := NewManager(storage.NewMemoryStore(), nil, nil)

	assert.Equal(t, Dark, m.Toggle(ctx))
	assert.Equal(t, "Dark", m.Palette().Name)
	assert.Equal(t, Light, m.Toggle(ctx))
	assert.Equal(t, "Light", m.Palette().Name)
}

func TestParsePalettes(t *testing.T) {
	palettes, err := parsePalettes(palettesTOML)
	require.NoError(t, err)
	assert.Len(t, palettes, 2)
	assert.NotEmpty(t, palettes[Dark].TrafficLights["close"])

	_, err = parsePalettes([]byte("[light]\nname = \"Light\"\n"))
	assert.Error(t, err)

	_, err = parsePalettes([]byte("[sepia]\nname = \"Sepia\"\n"))
	assert.Error(t, err)

	_, err = parsePalettes([]byte("not = [toml"))
	assert.Error(t, err)
}

func TestParseMode(t *testing.T) {
	m, ok := ParseMode(" Dark ")
	assert.True(t, ok)
	assert.Equal(t, Dark, m)

	m, ok = ParseMode("")
	assert.False(t, ok)
	assert.Equal(t, Light, m)
}
