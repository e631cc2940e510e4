package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.ErrorContains(t, err, "invalid log level")
}

func TestFromSettingsFallsBackToInfo(t *testing.T) {
	logger := FromSettings("loud", false)
	require.NotNil(t, logger)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))

	assert.True(t, FromSettings("debug", true).Core().Enabled(zapcore.DebugLevel))
}

func TestJSONEntryKeys(t *testing.T) {
	out := filepath.Join(t.TempDir(), "desk.log")
	logger, err := New(Config{Level: "info", OutputPaths: []string{out}})
	require.NoError(t, err)

	logger.Component("vfs").Info("entry created", zap.String("path", "/Desktop/a.txt"))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "entry created", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "vfs", entry["logger"])
	assert.Equal(t, "/Desktop/a.txt", entry["path"])
	assert.Contains(t, entry, "timestamp")
}

func TestComponentNamesLogger(t *testing.T) {
	logger := NewNop().Component("vfs")
	require.NotNil(t, logger)
	assert.NotNil(t, logger.Logger)
}
