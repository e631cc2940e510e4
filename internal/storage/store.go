// Package storage provides the key/value preference store that stands in for
// browser local storage: one opaque blob per fixed key.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// Fixed keys used by the desktop shell.
const (
	KeyFileSystem = "finder_fs"
	KeyTheme      = "theme"
	KeyNotes      = "notes_data"
)

var (
	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("storage: store is closed")
	// ErrInvalidKey is returned for empty keys or keys with path separators.
	ErrInvalidKey = errors.New("storage: invalid key")
)

// Store persists opaque values by key. Writes replace the whole value.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Driver   string // "file", "sqlite", "memory"
	Path     string
	Compress bool
}

// Open builds the store named by opts.Driver.
func Open(opts Options) (Store, error) {
	switch opts.Driver {
	case "", "file":
		return NewFileStore(opts.Path, opts.Compress)
	case "sqlite":
		return NewSQLiteStore(opts.Path)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", opts.Driver)
	}
}

func validateKey(key string) error {
	if key == "" {
		return ErrInvalidKey
	}
	for _, r := range key {
		if r == '/' || r == '\\' || r == 0 {
			return fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	if key == "." || key == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
