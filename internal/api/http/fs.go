package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/dragdrop"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/vfs"
	"github.com/GriffinCanCode/DeskOS/backend/internal/shared/utils"
)

// ListDir returns a directory's children in stored order
func (h *Handlers) ListDir(c *gin.Context) {
	path, ok := pathQuery(c)
	if !ok {
		return
	}
	entries := h.fs.ListDir(path)
	c.JSON(http.StatusOK, gin.H{
		"path":    path,
		"entries": entries,
		"count":   len(entries),
	})
}

// GetEntry returns one entry
func (h *Handlers) GetEntry(c *gin.Context) {
	path, ok := pathQuery(c)
	if !ok {
		return
	}
	entry, found := h.fs.Get(path)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such file or directory", "path": path})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// ReadFile returns a file's content
func (h *Handlers) ReadFile(c *gin.Context) {
	path, ok := pathQuery(c)
	if !ok {
		return
	}
	content, found := h.fs.ReadFile(path)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such file", "path": path})
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": path, "content": content})
}

type writeRequest struct {
	Path    string `json:"path" binding:"required"`
	Content string `json:"content"`
	Icon    string `json:"icon"`
}

// WriteFile creates or overwrites a file
func (h *Handlers) WriteFile(c *gin.Context) {
	var req writeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := utils.ValidatePath(req.Path, "path"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateSize(len(req.Content), "content", utils.MaxFileSize); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	path := vfs.Normalize(req.Path)
	changed := h.fs.WriteFile(c.Request.Context(), path, req.Content, req.Icon)
	h.respondEntry(c, changed, path)
}

type pathRequest struct {
	Path string `json:"path" binding:"required"`
}

// CreateDir creates an empty directory
func (h *Handlers) CreateDir(c *gin.Context) {
	var req pathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := utils.ValidatePath(req.Path, "path"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	path := vfs.Normalize(req.Path)
	changed := h.fs.CreateDir(c.Request.Context(), path)
	h.respondEntry(c, changed, path)
}

// DeleteEntry removes a file or a whole directory tree
func (h *Handlers) DeleteEntry(c *gin.Context) {
	path, ok := pathQuery(c)
	if !ok {
		return
	}
	changed := h.fs.Delete(c.Request.Context(), path)
	c.JSON(http.StatusOK, gin.H{"success": changed, "path": path})
}

type renameRequest struct {
	From string `json:"from" binding:"required"`
	To   string `json:"to" binding:"required"`
}

// Rename moves an entry and its subtree
func (h *Handlers) Rename(c *gin.Context) {
	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	for field, p := range map[string]string{"from": req.From, "to": req.To} {
		if err := utils.ValidatePath(p, field); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	to := vfs.Normalize(req.To)
	changed := h.fs.Rename(c.Request.Context(), vfs.Normalize(req.From), to)
	h.respondEntry(c, changed, to)
}

// Recents lists recently modified files
func (h *Handlers) Recents(c *gin.Context) {
	recents := h.fs.GetRecents(limitQuery(c, 10))
	c.JSON(http.StatusOK, gin.H{"entries": recents, "count": len(recents)})
}

// QuickLook renders an entry preview
func (h *Handlers) QuickLook(c *gin.Context) {
	path, ok := pathQuery(c)
	if !ok {
		return
	}
	preview, found := h.quicklook.Preview(path)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such file or directory", "path": path})
		return
	}
	c.JSON(http.StatusOK, gin.H{"preview": preview})
}

type dropRequest struct {
	// Payload is the raw data-transfer text of a Finder drag
	Payload string `json:"payload" binding:"required"`
	Target  string `json:"target" binding:"required"`
}

// Drop moves a dragged entry into the target directory
func (h *Handlers) Drop(c *gin.Context) {
	var req dropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := utils.ValidateSize(len(req.Payload), "payload", utils.MaxPayloadSize); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidatePath(req.Target, "target"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payload, err := dragdrop.Decode([]byte(req.Payload))
	if err != nil {
		code := "invalid_payload"
		if errors.Is(err, dragdrop.ErrUnsupportedVersion) {
			code = "unsupported_version"
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": code})
		return
	}

	from := vfs.Normalize(payload.ID)
	target := vfs.Normalize(req.Target)
	if dir, found := h.fs.Get(target); !found || !dir.IsDir() {
		c.JSON(http.StatusOK, gin.H{"success": false, "path": from})
		return
	}

	to := vfs.Join(target, vfs.BaseName(from))
	changed := from != to && h.fs.Rename(c.Request.Context(), from, to)
	if !changed {
		to = from
	}
	h.respondEntry(c, changed, to)
}

// respondEntry reports whether a mutation applied and the entry at path
func (h *Handlers) respondEntry(c *gin.Context, changed bool, path string) {
	body := gin.H{"success": changed, "path": path}
	if entry, found := h.fs.Get(path); found {
		body["entry"] = entry
	}
	c.JSON(http.StatusOK, body)
}
