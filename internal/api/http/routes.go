package http

import (
	"github.com/gin-gonic/gin"
)

// Register mounts every REST route on r. Mutating routes are guarded by
// RequireStorage.
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	if h.metrics != nil {
		r.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}
	r.GET("/metrics/json", h.MetricsJSON)

	// Sessions and windows
	r.POST("/sessions", h.CreateSession)
	r.GET("/sessions", h.ListSessions)
	r.DELETE("/sessions/:sid", h.DeleteSession)

	sess := r.Group("/sessions/:sid")
	sess.GET("/windows", h.ListWindows)
	sess.POST("/windows", h.OpenWindow)
	sess.POST("/windows/:id/focus", h.FocusWindow)
	sess.POST("/windows/:id/minimize", h.MinimizeWindow)
	sess.POST("/windows/:id/maximize", h.MaximizeWindow)
	sess.POST("/windows/:id/restore", h.RestoreWindow)
	sess.DELETE("/windows/:id", h.CloseWindow)
	sess.POST("/pointer/move-start", h.MoveStart)
	sess.POST("/pointer/resize-start", h.ResizeStart)
	sess.POST("/pointer/move", h.PointerMove)
	sess.POST("/pointer/up", h.PointerUp)
	sess.POST("/terminal", h.RequireStorage(), h.RunCommand)

	// Virtual file system
	fs := r.Group("/fs")
	fs.GET("/list", h.ListDir)
	fs.GET("/entry", h.GetEntry)
	fs.GET("/read", h.ReadFile)
	fs.GET("/recents", h.Recents)
	fs.GET("/quicklook", h.QuickLook)
	fsw := fs.Group("", h.RequireStorage())
	fsw.PUT("/write", h.WriteFile)
	fsw.POST("/mkdir", h.CreateDir)
	fsw.DELETE("/entry", h.DeleteEntry)
	fsw.POST("/rename", h.Rename)
	fsw.POST("/drop", h.Drop)

	// Theme
	r.GET("/theme", h.GetTheme)
	r.PUT("/theme", h.RequireStorage(), h.SetTheme)
	r.POST("/theme/toggle", h.RequireStorage(), h.ToggleTheme)

	// Notes
	n := r.Group("/notes")
	n.GET("", h.ListNotes)
	n.GET("/folders", h.ListFolders)
	n.GET("/:id", h.GetNote)
	nw := n.Group("", h.RequireStorage())
	nw.POST("", h.CreateNote)
	nw.PUT("/:id", h.UpdateNote)
	nw.DELETE("/:id", h.DeleteNote)
	nw.POST("/folders", h.CreateFolder)
	nw.DELETE("/folders/:id", h.DeleteFolder)

	r.GET("/search", h.Search)
	r.GET("/apps", h.ListApps)
}
