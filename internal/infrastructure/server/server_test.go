package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/DeskOS/backend/internal/infrastructure/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.Driver = "file"
	cfg.Storage.Path = t.TempDir()
	cfg.Logging.Level = "error"
	cfg.RateLimit.Enabled = false
	return cfg
}

func get(t *testing.T, srv *Server, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	body := map[string]interface{}{}
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

func TestNewServerWiresRoutes(t *testing.T) {
	srv, err := NewServer(testConfig(t))
	require.NoError(t, err)
	defer srv.Close()

	w, body := get(t, srv, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w, _ = get(t, srv, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)

	// plain GET without an upgrade header is refused by the websocket handler
	w, _ = get(t, srv, "/stream")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatePersistsAcrossRestarts(t *testing.T) {
	cfg := testConfig(t)

	srv, err := NewServer(cfg)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/fs/mkdir", strings.NewReader(`{"path":"/Desktop/Kept"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, srv.Close())

	srv, err = NewServer(cfg)
	require.NoError(t, err)
	defer srv.Close()

	w, _ = get(t, srv, "/fs/entry?path=/Desktop/Kept")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCustomSeedFile(t *testing.T) {
	cfg := testConfig(t)
	seed := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(seed, []byte("directories:\n  - path: /Work\nfiles:\n  - path: /Work/plan.txt\n    content: hi\n"), 0o644))
	cfg.Desktop.SeedFile = seed

	srv, err := NewServer(cfg)
	require.NoError(t, err)
	defer srv.Close()

	_, body := get(t, srv, "/fs/read?path=/Work/plan.txt")
	assert.Equal(t, "hi", body["content"])
}

func TestGlobalRateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimit.Enabled = true
	cfg.RateLimit.RequestsPerSecond = 1000
	cfg.RateLimit.Burst = 1000
	cfg.RateLimit.GlobalRequestsPerSecond = 1
	cfg.RateLimit.GlobalBurst = 2

	srv, err := NewServer(cfg)
	require.NoError(t, err)
	defer srv.Close()

	for i := 0; i < 2; i++ {
		w, _ := get(t, srv, "/health")
		require.Equal(t, http.StatusOK, w.Code)
	}
	w, body := get(t, srv, "/health")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "rate limit exceeded", body["error"])
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestUnknownStorageDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Driver = "floppy"

	_, err := NewServer(cfg)
	assert.ErrorContains(t, err, "failed to open storage")
}
