package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/apps"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/search"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/theme"
	"github.com/GriffinCanCode/DeskOS/backend/internal/shared/utils"
)

// GetTheme returns the current mode and its palette
func (h *Handlers) GetTheme(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"mode":     h.theme.Get(),
		"palette":  h.theme.Palette(),
		"palettes": h.theme.Palettes(),
	})
}

type themeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

// SetTheme switches to the requested mode
func (h *Handlers) SetTheme(c *gin.Context) {
	var req themeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	mode, ok := theme.ParseMode(req.Mode)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mode: " + req.Mode})
		return
	}

	changed := h.theme.Set(c.Request.Context(), mode)
	c.JSON(http.StatusOK, gin.H{
		"success": changed,
		"mode":    h.theme.Get(),
		"palette": h.theme.Palette(),
	})
}

// ToggleTheme flips between light and dark
func (h *Handlers) ToggleTheme(c *gin.Context) {
	mode := h.theme.Toggle(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"mode": mode, "palette": h.theme.Palette()})
}

// ListFolders returns the notes folders
func (h *Handlers) ListFolders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"folders": h.notes.Folders()})
}

type folderRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateFolder adds a notes folder
func (h *Handlers) CreateFolder(c *gin.Context) {
	var req folderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := utils.ValidateString(req.Name, "name", 1, utils.MaxNameLength, true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	folder, err := h.notes.CreateFolder(c.Request.Context(), req.Name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"folder": folder})
}

// DeleteFolder removes a folder, keeping its notes
func (h *Handlers) DeleteFolder(c *gin.Context) {
	folderID := c.Param("id")
	if err := utils.ValidateID(folderID, "folder_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	changed := h.notes.DeleteFolder(c.Request.Context(), folderID)
	c.JSON(http.StatusOK, gin.H{"success": changed, "folder_id": folderID})
}

// ListNotes lists notes, optionally within one folder or matching ?q=
func (h *Handlers) ListNotes(c *gin.Context) {
	if q := c.Query("q"); q != "" {
		if err := utils.ValidateString(q, "q", 1, utils.MaxSearchLength, true); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		found := h.notes.Search(q)
		c.JSON(http.StatusOK, gin.H{"notes": found, "count": len(found)})
		return
	}

	list := h.notes.List(c.Query("folder"))
	c.JSON(http.StatusOK, gin.H{"notes": list, "count": len(list)})
}

// GetNote returns one note
func (h *Handlers) GetNote(c *gin.Context) {
	note, ok := h.notes.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "note not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"note": note})
}

type noteRequest struct {
	FolderID string `json:"folder_id"`
	Title    string `json:"title"`
	Body     string `json:"body"`
}

func validateNote(req noteRequest) error {
	if err := utils.ValidateString(req.Title, "title", 0, utils.MaxTitleLength, false); err != nil {
		return err
	}
	return utils.ValidateSize(len(req.Body), "body", utils.MaxNoteSize)
}

// CreateNote adds a note
func (h *Handlers) CreateNote(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := validateNote(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note := h.notes.Create(c.Request.Context(), req.FolderID, req.Title, req.Body)
	c.JSON(http.StatusCreated, gin.H{"note": note})
}

// UpdateNote rewrites a note's title and body
func (h *Handlers) UpdateNote(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := validateNote(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	noteID := c.Param("id")
	note, ok := h.notes.Update(c.Request.Context(), noteID, req.Title, req.Body)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "note not found"})
		return
	}
	if req.FolderID != "" && req.FolderID != note.FolderID {
		if h.notes.Move(c.Request.Context(), noteID, req.FolderID) {
			note, _ = h.notes.Get(noteID)
		}
	}
	c.JSON(http.StatusOK, gin.H{"note": note})
}

// DeleteNote removes a note
func (h *Handlers) DeleteNote(c *gin.Context) {
	noteID := c.Param("id")
	changed := h.notes.Delete(c.Request.Context(), noteID)
	c.JSON(http.StatusOK, gin.H{"success": changed, "note_id": noteID})
}

// Search runs a Spotlight query over apps and files
func (h *Handlers) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if err := utils.ValidateString(q, "q", 0, utils.MaxSearchLength, false); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results := h.search.Query(q, limitQuery(c, search.DefaultLimit))
	c.JSON(http.StatusOK, gin.H{
		"query":   q,
		"glob":    search.IsGlob(q),
		"results": results,
		"count":   len(results),
	})
}

// ListApps returns the app catalog in dock order
func (h *Handlers) ListApps(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"apps": apps.All()})
}
