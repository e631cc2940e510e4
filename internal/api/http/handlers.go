package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/events"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/notes"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/quicklook"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/search"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/session"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/theme"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/vfs"
	"github.com/GriffinCanCode/DeskOS/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/DeskOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/DeskOS/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/DeskOS/backend/internal/shared/id"
	"github.com/GriffinCanCode/DeskOS/backend/internal/shared/utils"
)

// Version is reported by the root endpoint
const Version = "0.3.0"

// Deps are the stores the handlers serve
type Deps struct {
	Sessions  *session.Manager
	FS        *vfs.FileSystem
	Theme     *theme.Manager
	Notes     *notes.Store
	Search    *search.Engine
	QuickLook *quicklook.Service
	Bus       *events.Bus
	Breaker   *resilience.Breaker // guards the preference store; nil means unguarded
	Metrics   *monitoring.Metrics
	Logger    *logging.Logger
}

// Handlers contains all HTTP handlers
type Handlers struct {
	sessions  *session.Manager
	fs        *vfs.FileSystem
	theme     *theme.Manager
	notes     *notes.Store
	search    *search.Engine
	quicklook *quicklook.Service
	bus       *events.Bus
	breaker   *resilience.Breaker
	metrics   *monitoring.Metrics
	logger    *logging.Logger
}

// NewHandlers creates a new handler set
func NewHandlers(deps Deps) *Handlers {
	if deps.Logger == nil {
		deps.Logger = logging.NewNop()
	}
	if deps.Search == nil && deps.FS != nil {
		deps.Search = search.NewEngine(deps.FS)
	}
	if deps.QuickLook == nil && deps.FS != nil {
		deps.QuickLook = quicklook.NewService(deps.FS, quicklook.DefaultPreviewBytes)
	}
	return &Handlers{
		sessions:  deps.Sessions,
		fs:        deps.FS,
		theme:     deps.Theme,
		notes:     deps.Notes,
		search:    deps.Search,
		quicklook: deps.QuickLook,
		bus:       deps.Bus,
		breaker:   deps.Breaker,
		metrics:   deps.Metrics,
		logger:    deps.Logger.Component("http"),
	}
}

// Root handles health check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "DeskOS desktop shell",
		"version": Version,
	})
}

// Health reports the state of every store. A tripped storage breaker marks
// the service degraded.
func (h *Handlers) Health(c *gin.Context) {
	status, code := "healthy", http.StatusOK
	storage := gin.H{"guarded": h.breaker != nil}
	if h.breaker != nil {
		state := h.breaker.State()
		storage["breaker"] = state.String()
		storage["counts"] = h.breaker.Counts()
		if state == resilience.StateOpen {
			status, code = "degraded", http.StatusServiceUnavailable
		}
	}

	body := gin.H{
		"status":   status,
		"storage":  storage,
		"sessions": h.sessions.Count(),
		"fs":       h.fs.Stats(),
		"theme":    h.theme.Get(),
	}
	if h.bus != nil {
		body["events"] = gin.H{
			"subscribers": h.bus.Subscribers(),
			"dropped":     h.bus.Dropped(),
		}
	}
	c.JSON(code, body)
}

// MetricsJSON returns the metrics snapshot with live store counts
func (h *Handlers) MetricsJSON(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"backend":  h.metrics.GetSnapshot(),
		"sessions": h.sessions.Count(),
		"fs":       h.fs.Stats(),
	})
}

// RequireStorage rejects mutations while the storage breaker is open so
// in-memory state does not drift from what is persisted.
func (h *Handlers) RequireStorage() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.breaker != nil && h.breaker.State() == resilience.StateOpen {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "storage unavailable",
			})
			return
		}
		c.Next()
	}
}

// session resolves :sid or writes the error response
func (h *Handlers) session(c *gin.Context) (*session.Session, bool) {
	raw := c.Param("sid")
	if !id.IsSessionID(raw) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return nil, false
	}
	s, ok := h.sessions.Get(id.SessionID(raw))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return nil, false
	}
	return s, true
}

// windowID parses :id or writes the error response
func windowID(c *gin.Context) (uint64, bool) {
	wid, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || wid == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid window id"})
		return 0, false
	}
	return wid, true
}

// pathQuery reads and validates the path query parameter
func pathQuery(c *gin.Context) (string, bool) {
	path := c.Query("path")
	if err := utils.ValidatePath(path, "path"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return vfs.Normalize(path), true
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
}

// limitQuery parses ?limit=, falling back to def
func limitQuery(c *gin.Context, def int) int {
	raw := c.Query("limit")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
