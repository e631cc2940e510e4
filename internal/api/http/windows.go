package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/apps"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/session"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/vfs"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/window"
	"github.com/GriffinCanCode/DeskOS/backend/internal/shared/id"
	"github.com/GriffinCanCode/DeskOS/backend/internal/shared/utils"
)

// genericRect is used for windows opened without an app or geometry
var genericRect = window.Rect{X: 100, Y: 80, Width: 600, Height: 400}

// CreateSession starts a desktop session
func (h *Handlers) CreateSession(c *gin.Context) {
	s := h.sessions.Create()
	c.JSON(http.StatusCreated, gin.H{
		"session_id": s.ID,
		"created_at": s.CreatedAt,
	})
}

// ListSessions lists live sessions
func (h *Handlers) ListSessions(c *gin.Context) {
	sessions := h.sessions.List()
	c.JSON(http.StatusOK, gin.H{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// DeleteSession ends a session
func (h *Handlers) DeleteSession(c *gin.Context) {
	raw := c.Param("sid")
	if !id.IsSessionID(raw) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}
	if !h.sessions.Delete(id.SessionID(raw)) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session_id": raw})
}

// ListWindows returns every window of a session with the derived views
func (h *Handlers) ListWindows(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, desktopState(s))
}

func desktopState(s *session.Session) gin.H {
	body := gin.H{
		"windows":   s.Windows.List(),
		"visible":   s.Windows.VisibleWindows(),
		"minimized": s.Windows.MinimizedWindows(),
		"operation": s.Windows.Operation(),
		"stats":     s.Windows.Stats(),
	}
	if active, ok := s.Windows.ActiveWindowID(); ok {
		body["active_window_id"] = active
	}
	return body
}

type openWindowRequest struct {
	App     string       `json:"app"`
	Title   string       `json:"title"`
	AppType string       `json:"app_type"`
	Rect    *window.Rect `json:"rect"`
}

// OpenWindow opens a window either for a catalog app or from an explicit
// title, app type and geometry
func (h *Handlers) OpenWindow(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req openWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	title, appType, rect := req.Title, window.ParseAppType(req.AppType), genericRect
	open := len(s.Windows.List())

	if req.App != "" {
		app, found := apps.Lookup(req.App)
		if !found {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown app: " + req.App})
			return
		}
		if title == "" {
			title = app.Name
		}
		appType, rect = app.AppType, app.DefaultRect(open)
	} else if app, found := apps.ForType(appType); found {
		rect = app.DefaultRect(open)
	}

	if err := utils.ValidateString(title, "title", 1, utils.MaxTitleLength, true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Rect != nil {
		rect = *req.Rect
	}

	w := s.Windows.Open(title, appType, rect)
	c.JSON(http.StatusCreated, gin.H{"window": w})
}

// windowAction adapts a window manager mutation into a handler
func (h *Handlers) windowAction(action func(m *window.Manager, wid uint64) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := h.session(c)
		if !ok {
			return
		}
		wid, ok := windowID(c)
		if !ok {
			return
		}

		changed := action(s.Windows, wid)
		body := gin.H{"success": changed, "window_id": wid}
		if w, found := s.Windows.Get(wid); found {
			body["window"] = w
		}
		c.JSON(http.StatusOK, body)
	}
}

// FocusWindow raises a window
func (h *Handlers) FocusWindow(c *gin.Context) {
	h.windowAction((*window.Manager).Focus)(c)
}

// MinimizeWindow hides a window to the dock
func (h *Handlers) MinimizeWindow(c *gin.Context) {
	h.windowAction((*window.Manager).Minimize)(c)
}

// MaximizeWindow toggles the maximized state
func (h *Handlers) MaximizeWindow(c *gin.Context) {
	h.windowAction((*window.Manager).Maximize)(c)
}

// RestoreWindow brings a minimized window back and focuses it
func (h *Handlers) RestoreWindow(c *gin.Context) {
	h.windowAction((*window.Manager).Restore)(c)
}

// CloseWindow removes a window
func (h *Handlers) CloseWindow(c *gin.Context) {
	h.windowAction((*window.Manager).Close)(c)
}

type pointerRequest struct {
	WindowID  uint64  `json:"window_id"`
	Direction string  `json:"direction"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

// MoveStart begins dragging a window by its title bar
func (h *Handlers) MoveStart(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req pointerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	started := s.Windows.BeginMove(req.WindowID, req.X, req.Y)
	c.JSON(http.StatusOK, gin.H{"success": started, "operation": s.Windows.Operation()})
}

// ResizeStart begins resizing a window from one of its handles
func (h *Handlers) ResizeStart(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req pointerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	dir, valid := window.ParseDirection(req.Direction)
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid direction: " + req.Direction})
		return
	}

	started := s.Windows.BeginResize(req.WindowID, dir, req.X, req.Y)
	c.JSON(http.StatusOK, gin.H{"success": started, "operation": s.Windows.Operation()})
}

// PointerMove applies a pointer position to the active drag or resize
func (h *Handlers) PointerMove(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req pointerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	w, changed := s.Windows.PointerMove(req.X, req.Y)
	body := gin.H{"success": changed}
	if changed {
		body["window"] = w
	}
	c.JSON(http.StatusOK, body)
}

// PointerUp ends any drag or resize
func (h *Handlers) PointerUp(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	s.Windows.PointerUp()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type terminalRequest struct {
	Command string `json:"command"`
}

// RunCommand executes one terminal line. An open command also opens the
// requested app's window in the session.
func (h *Handlers) RunCommand(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if s.Terminal == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "terminal unavailable"})
		return
	}

	var req terminalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := utils.ValidateCommand(req.Command); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := s.Terminal.Execute(c.Request.Context(), req.Command)
	body := gin.H{"result": result}
	if result.Open != nil {
		title := result.Open.App.Name
		if result.Open.Path != "" {
			title = vfs.BaseName(result.Open.Path)
		}
		body["window"] = s.Windows.Open(title, result.Open.App.AppType,
			result.Open.App.DefaultRect(len(s.Windows.List())))
	}
	c.JSON(http.StatusOK, body)
}
