package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()

	fileStore, err := NewFileStore(t.TempDir(), false)
	require.NoError(t, err)
	zstdStore, err := NewFileStore(t.TempDir(), true)
	require.NoError(t, err)
	sqliteStore, err := NewSQLiteStore(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)

	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fileStore,
		"zstd":   zstdStore,
		"sqlite": sqliteStore,
	}
	t.Cleanup(func() {
		for _, s := range stores {
			s.Close()
		}
	})
	return stores
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := store.Get(ctx, KeyTheme)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, store.Set(ctx, KeyTheme, []byte(`"dark"`)))
			require.NoError(t, store.Set(ctx, KeyNotes, []byte(`{"folders":[]}`)))

			got, ok, err := store.Get(ctx, KeyTheme)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `"dark"`, string(got))

			require.NoError(t, store.Set(ctx, KeyTheme, []byte(`"light"`)))
			got, _, err = store.Get(ctx, KeyTheme)
			require.NoError(t, err)
			assert.Equal(t, `"light"`, string(got))

			keys, err := store.Keys(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{KeyNotes, KeyTheme}, keys)

			require.NoError(t, store.Delete(ctx, KeyTheme))
			_, ok, err = store.Get(ctx, KeyTheme)
			require.NoError(t, err)
			assert.False(t, ok)

			// Deleting a missing key is not an error.
			assert.NoError(t, store.Delete(ctx, "missing"))
		})
	}
}

func TestStoreRejectsInvalidKeys(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "a/b", "..", `a\b`} {
				err := store.Set(ctx, key, []byte("x"))
				assert.ErrorIs(t, err, ErrInvalidKey, "key %q", key)
			}
		})
	}
}

func TestStoreClosed(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Close())
			assert.ErrorIs(t, store.Set(ctx, KeyTheme, []byte("x")), ErrClosed)
			_, _, err := store.Get(ctx, KeyTheme)
			assert.ErrorIs(t, err, ErrClosed)
		})
	}
}

func TestFileStoreCompressionSwitch(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	plain, err := NewFileStore(dir, false)
	require.NoError(t, err)
	require.NoError(t, plain.Set(ctx, KeyFileSystem, []byte(`{"/":{}}`)))
	require.NoError(t, plain.Close())

	compressed, err := NewFileStore(dir, true)
	require.NoError(t, err)
	defer compressed.Close()

	// A plain value written earlier is still readable.
	got, ok, err := compressed.Get(ctx, KeyFileSystem)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"/":{}}`, string(got))

	// Rewriting replaces the plain file with the compressed one.
	require.NoError(t, compressed.Set(ctx, KeyFileSystem, []byte(`{"/":{"children":[]}}`)))
	_, err = os.Stat(filepath.Join(dir, KeyFileSystem+plainSuffix))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, KeyFileSystem+zstdSuffix))
	assert.NoError(t, err)

	got, _, err = compressed.Get(ctx, KeyFileSystem)
	require.NoError(t, err)
	assert.Equal(t, `{"/":{"children":[]}}`, string(got))
}

func TestSQLiteStoreDirectoryPath(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSQLiteStore(dir)
	require.NoError(t, err)
	defer store.Close()

	_, err = os.Stat(filepath.Join(dir, "deskos.db"))
	assert.NoError(t, err)
}

func TestOpen(t *testing.T) {
	store, err := Open(Options{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	store, err = Open(Options{Driver: "file", Path: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, store)
	store.Close()

	_, err = Open(Options{Driver: "etcd"})
	assert.Error(t, err)
}
