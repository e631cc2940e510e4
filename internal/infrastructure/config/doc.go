// Package config provides 12-factor configuration management for the DeskOS backend.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables for development flexibility.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - Storage: preference store backend (file, sqlite, memory)
//   - Desktop: seed tree override, session expiry, Quick Look budget
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Server running on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST
//   - STORAGE_DRIVER, STORAGE_PATH, STORAGE_COMPRESS
//   - DESKOS_SEED_FILE, SESSION_TTL, QUICKLOOK_PREVIEW_BYTES
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST
package config
