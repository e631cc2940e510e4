package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/events"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/session"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/vfs"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/window"
	"github.com/GriffinCanCode/DeskOS/backend/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	server   *httptest.Server
	bus      *events.Bus
	fs       *vfs.FileSystem
	sessions *session.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	bus := events.NewBus()
	fs := vfs.New(storage.NewMemoryStore(), vfs.WithPublisher(bus))
	_, err := fs.Load(context.Background())
	require.NoError(t, err)

	sessions := session.NewManager(session.Config{FS: fs, Publisher: bus})
	t.Cleanup(sessions.Close)

	r := gin.New()
	r.GET("/stream", NewHandler(bus, sessions, nil, nil, nil).HandleConnection)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &fixture{server: srv, bus: bus, fs: fs, sessions: sessions}
}

func (f *fixture) dial(t *testing.T, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/stream" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	welcome := read(t, conn)
	require.Equal(t, "system", welcome["type"])
	return conn
}

func read(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg map[string]interface{}
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestPingPong(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t, "")

	require.NoError(t, conn.WriteJSON(Message{Type: "ping"}))
	assert.Equal(t, "pong", read(t, conn)["type"])

	require.NoError(t, conn.WriteJSON(Message{Type: "bogus"}))
	msg := read(t, conn)
	assert.Equal(t, "error", msg["type"])
	assert.Equal(t, "unknown message type", msg["message"])
}

func TestForwardsFileSystemEvents(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t, "")

	require.True(t, f.fs.CreateDir(context.Background(), "/Desktop/New"))

	msg := read(t, conn)
	assert.Equal(t, string(events.FSChanged), msg["type"])
	data := msg["data"].(map[string]interface{})
	assert.Equal(t, "/Desktop/New", data["path"])
}

func TestSessionFilterAndPointerFrames(t *testing.T) {
	f := newFixture(t)
	mine := f.sessions.Create()
	other := f.sessions.Create()

	conn := f.dial(t, "?session="+mine.ID.String())

	other.Windows.Open("Elsewhere", window.AppGeneric, window.Rect{Width: 300, Height: 200})
	w := mine.Windows.Open("Here", window.AppGeneric, window.Rect{X: 10, Y: 10, Width: 300, Height: 200})

	msg := read(t, conn)
	assert.Equal(t, string(events.WindowOpened), msg["type"])
	assert.Equal(t, mine.ID.String(), msg["session_id"])

	require.True(t, mine.Windows.BeginMove(w.ID, 20, 20))
	assert.Equal(t, string(events.WindowFocused), read(t, conn)["type"])
	require.NoError(t, conn.WriteJSON(Message{Type: "pointer_move", X: 70, Y: 40}))

	msg = read(t, conn)
	assert.Equal(t, string(events.WindowChanged), msg["type"])
	moved, ok := mine.Windows.Get(w.ID)
	require.True(t, ok)
	assert.Equal(t, 60.0, moved.X)
	assert.Equal(t, 30.0, moved.Y)

	require.NoError(t, conn.WriteJSON(Message{Type: "pointer_up"}))
	require.NoError(t, conn.WriteJSON(Message{Type: "ping"}))
	assert.Equal(t, "pong", read(t, conn)["type"])
	assert.False(t, mine.Windows.Operation().Active())
}

func TestPointerFramesNeedSession(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t, "")

	require.NoError(t, conn.WriteJSON(Message{Type: "pointer_up"}))
	msg := read(t, conn)
	assert.Equal(t, "error", msg["type"])
}

func TestRejectsUnknownSession(t *testing.T) {
	f := newFixture(t)
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/stream?session=sess_01HZZZZZZZZZZZZZZZZZZZZZZZ"

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
