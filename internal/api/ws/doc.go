// Package ws provides the /stream WebSocket: the desktop's live change feed.
//
// Every store publishes to the event bus after a mutation; this package
// forwards those events to connected browsers, which then pull fresh state.
// Pointer frames give a dragging window a lower-latency path than HTTP.
//
// Message Types (Client → Server):
//   - pointer_move: {x, y} applied to the session's active drag or resize
//   - pointer_up: end any drag or resize
//   - ping: keep-alive ping
//
// Message Types (Server → Client):
//   - system: connection established
//   - window.*, fs.changed, theme.changed, notes.changed, session.*: events
//   - pong: reply to ping
//   - error: bad frame
//
// Example Usage:
//
//	handler := ws.NewHandler(bus, sessions, metrics, logger, cfg.Server.AllowOrigins)
//	router.GET("/stream", handler.HandleConnection)
package ws
