package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	api "github.com/GriffinCanCode/DeskOS/backend/internal/api/http"
	"github.com/GriffinCanCode/DeskOS/backend/internal/api/middleware"
	"github.com/GriffinCanCode/DeskOS/backend/internal/api/ws"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/events"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/notes"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/quicklook"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/search"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/session"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/theme"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/vfs"
	"github.com/GriffinCanCode/DeskOS/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/DeskOS/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/DeskOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/DeskOS/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/DeskOS/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/DeskOS/backend/internal/storage"
)

// shutdownTimeout bounds how long Close waits for in-flight requests
const shutdownTimeout = 10 * time.Second

// Server wraps the HTTP server and dependencies
type Server struct {
	router   *gin.Engine
	http     *http.Server
	store    storage.Store
	fs       *vfs.FileSystem
	sessions *session.Manager
	bus      *events.Bus
	tracer   *tracing.Tracer
	logger   *logging.Logger
	config   *config.Config
	metrics  *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	logger := logging.FromSettings(cfg.Logging.Level, cfg.Logging.Development)

	logger.Info("Initializing DeskOS Server",
		zap.String("port", cfg.Server.Port),
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.String("storage_path", cfg.Storage.Path),
	)

	// Initialize metrics first (needed by other components)
	metrics := monitoring.NewMetrics()
	tracer := tracing.New(logger.Logger)

	// Preference store behind a circuit breaker
	inner, err := storage.Open(storage.Options{
		Driver:   cfg.Storage.Driver,
		Path:     cfg.Storage.Path,
		Compress: cfg.Storage.Compress,
	})
	if err != nil {
		tracer.Close()
		metrics.Close()
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	storeLogger := logger.Component("storage")
	breaker := resilience.New("storage", resilience.Settings{
		OnStateChange: func(name string, from, to resilience.State) {
			storeLogger.Warn("Storage breaker changed state",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	store := storage.NewGuarded(inner, breaker)

	bus := events.NewBus()
	ctx := context.Background()

	// Virtual file system
	fsOpts := []vfs.Option{
		vfs.WithPublisher(bus),
		vfs.WithMetrics(metrics),
		vfs.WithLogger(logger.Component("vfs")),
	}
	if cfg.Desktop.SeedFile != "" {
		seed, err := vfs.LoadSeed(cfg.Desktop.SeedFile)
		if err != nil {
			logger.Warn("Failed to load seed file, using built-in tree",
				zap.String("path", cfg.Desktop.SeedFile), zap.Error(err))
		} else {
			fsOpts = append(fsOpts, vfs.WithSeed(seed))
		}
	}
	fs := vfs.New(store, fsOpts...)
	restored, err := fs.Load(ctx)
	if err != nil {
		logger.Warn("Failed to read stored file system, using default tree", zap.Error(err))
	}
	logger.Info("File system ready",
		zap.Bool("restored", restored),
		zap.Int("entries", fs.Stats().Entries),
	)

	// Theme and notes
	themes := theme.NewManager(store, bus, logger.Component("theme")).WithMetrics(metrics)
	mode, err := themes.Load(ctx)
	if err != nil {
		logger.Warn("Failed to read stored theme", zap.Error(err))
	}
	notesStore := notes.NewStore(store, bus, logger.Component("notes")).WithMetrics(metrics)
	if err := notesStore.Load(ctx); err != nil {
		logger.Warn("Failed to read stored notes", zap.Error(err))
	}
	logger.Info("Preferences loaded", zap.String("theme", string(mode)))

	// Initialize session manager
	sessions := session.NewManager(session.Config{
		TTL:       cfg.Desktop.SessionTTL,
		FS:        fs,
		User:      cfg.Desktop.User,
		Publisher: bus,
		Metrics:   metrics,
		Logger:    logger.Component("session"),
	})

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.Server.AllowOrigins...)))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
			zap.Int("global_rps", cfg.RateLimit.GlobalRequestsPerSecond),
		)
		if cfg.RateLimit.GlobalRequestsPerSecond > 0 {
			router.Use(middleware.GlobalRateLimit(middleware.RateLimitConfig{
				RequestsPerSecond: cfg.RateLimit.GlobalRequestsPerSecond,
				Burst:             cfg.RateLimit.GlobalBurst,
			}))
		}
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rl.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(rl))
	}

	handlers := api.NewHandlers(api.Deps{
		Sessions:  sessions,
		FS:        fs,
		Theme:     themes,
		Notes:     notesStore,
		Search:    search.NewEngine(fs),
		QuickLook: quicklook.NewService(fs, cfg.Desktop.QuickLookPreviewMax),
		Bus:       bus,
		Breaker:   breaker,
		Metrics:   metrics,
		Logger:    logger,
	})
	handlers.Register(router)

	wsHandler := ws.NewHandler(bus, sessions, metrics, logger, cfg.Server.AllowOrigins)
	router.GET("/stream", wsHandler.HandleConnection)

	logger.Info("Server initialized successfully")

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		store:    store,
		fs:       fs,
		sessions: sessions,
		bus:      bus,
		tracer:   tracer,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
	}, nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the HTTP server and blocks until it stops. A graceful Close
// makes Run return nil.
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Close gracefully shuts down the server
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	var errs []error
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to shut down http server: %w", err))
	}

	s.sessions.Close()
	s.tracer.Close()
	if err := s.store.Close(); err != nil {
		s.logger.Error("Failed to close storage", zap.Error(err))
		errs = append(errs, fmt.Errorf("failed to close storage: %w", err))
	}
	s.metrics.Close()

	// Sync logger before exit
	_ = s.logger.Sync()

	return errors.Join(errs...)
}
