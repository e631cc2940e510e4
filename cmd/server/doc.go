// Package main is the entry point for the DeskOS backend server.
//
// DeskOS is a simulated desktop in the browser. This server owns the
// desktop's state: per-session window managers, the shared virtual file
// system and the persisted preferences (theme, notes).
//
// Architecture:
//
//	Browser (React) → REST API    → window / vfs / theme / notes stores
//	                → /stream WS  ← event bus
//	stores → preference store (file, sqlite or memory)
//
// The server provides:
//   - REST API for windows, files, theme, notes, search and the terminal
//   - WebSocket event push and low-latency pointer frames
//   - Prometheus metrics and request ids
//   - Rate limiting and CORS
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Production mode
//	STORAGE_DRIVER=sqlite STORAGE_PATH=/var/lib/deskos/prefs.db ./server -port 8000
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Environment Variables:
//
//	PORT, HOST, CORS_ORIGINS
//	STORAGE_DRIVER, STORAGE_PATH, STORAGE_COMPRESS
//	DESKOS_SEED_FILE, DESKOS_USER, SESSION_TTL, QUICKLOOK_PREVIEW_BYTES
//	LOG_LEVEL, LOG_DEV
//	RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
package main
