package vfs

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/events"
	"github.com/GriffinCanCode/DeskOS/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/DeskOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/DeskOS/backend/internal/storage"
)

// FileSystem is the path-keyed virtual file system. Parent/child links live
// only in each directory's Children list and every mutation keeps them in
// step. Operations on missing paths or parents are silent no-ops that
// report false. Each mutation persists the whole map synchronously.
type FileSystem struct {
	mu      sync.RWMutex
	entries Snapshot

	store     storage.Store
	seed      *Seed
	publisher events.Publisher
	metrics   *monitoring.Metrics
	logger    *logging.Logger
	now       func() time.Time
}

// Option configures a FileSystem
type Option func(*FileSystem)

// WithPublisher routes change events to pub
func WithPublisher(pub events.Publisher) Option {
	return func(fs *FileSystem) {
		if pub != nil {
			fs.publisher = pub
		}
	}
}

// WithMetrics adds metrics tracking
func WithMetrics(m *monitoring.Metrics) Option {
	return func(fs *FileSystem) { fs.metrics = m }
}

// WithLogger sets the logger used for persistence failures
func WithLogger(l *logging.Logger) Option {
	return func(fs *FileSystem) {
		if l != nil {
			fs.logger = l
		}
	}
}

// WithSeed replaces the default tree
func WithSeed(seed *Seed) Option {
	return func(fs *FileSystem) {
		if seed != nil {
			fs.seed = seed
		}
	}
}

// WithClock overrides time.Now (tests)
func WithClock(now func() time.Time) Option {
	return func(fs *FileSystem) { fs.now = now }
}

// New creates a file system holding the default tree. Call Load to replace
// it with the persisted state.
func New(store storage.Store, opts ...Option) *FileSystem {
	fs := &FileSystem{
		store:     store,
		seed:      DefaultSeed(),
		publisher: events.Nop{},
		logger:    logging.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(fs)
	}
	fs.entries = fs.seed.Build(fs.millis())
	return fs
}

// Load restores the persisted map. A missing or malformed blob leaves the
// default tree in place and persists it; restored reports which happened.
// Only a failing store read is returned as an error.
func (fs *FileSystem) Load(ctx context.Context) (restored bool, err error) {
	data, ok, err := fs.store.Get(ctx, storage.KeyFileSystem)

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err == nil && ok {
		snap, derr := Decode(data)
		if derr == nil {
			fs.entries = snap
			fs.metrics.SetFSEntries(len(fs.entries))
			return true, nil
		}
		fs.logger.Warn("Stored file system is malformed, using default tree", zap.Error(derr))
	}

	fs.entries = fs.seed.Build(fs.millis())
	fs.persistLocked(ctx)
	return false, err
}

// ListDir returns the entries named by a directory's children, in order.
// Unresolvable children are skipped; a missing path or a file yields an
// empty list.
func (fs *FileSystem) ListDir(path string) []Entry {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	dir, ok := fs.entries[Normalize(path)]
	if !ok || !dir.IsDir() {
		return []Entry{}
	}

	out := make([]Entry, 0, len(dir.Children))
	for _, child := range dir.Children {
		if e, ok := fs.entries[child]; ok {
			out = append(out, e.clone())
		}
	}
	return out
}

// Get returns any entry by path
func (fs *FileSystem) Get(path string) (Entry, bool) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	e, ok := fs.entries[Normalize(path)]
	if !ok {
		return Entry{}, false
	}
	return e.clone(), true
}

// ReadFile returns a file's content; directories and missing paths yield false
func (fs *FileSystem) ReadFile(path string) (string, bool) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	e, ok := fs.entries[Normalize(path)]
	if !ok || !e.IsFile() {
		return "", false
	}
	return e.Text(), true
}

// Exists reports whether path names an entry
func (fs *FileSystem) Exists(path string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	_, ok := fs.entries[Normalize(path)]
	return ok
}

// WriteFile creates or overwrites a file and registers it with its parent.
// Overwrites keep the original creation time; an empty icon keeps the
// current icon. Writing over a directory or under a missing parent is a
// no-op.
func (fs *FileSystem) WriteFile(ctx context.Context, path, content, icon string) bool {
	path = Normalize(path)
	if path == Root {
		return false
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	parent, ok := fs.entries[ParentPath(path)]
	if !ok || !parent.IsDir() {
		return false
	}

	now := fs.millis()
	if existing, ok := fs.entries[path]; ok {
		if existing.IsDir() {
			return false
		}
		c := content
		existing.Content = &c
		existing.Metadata.Size = int64(len(content))
		existing.Metadata.Modified = now
		if icon != "" {
			existing.Metadata.Icon = icon
		}
	} else {
		fs.entries[path] = newFile(path, content, icon, now)
	}
	parent.Children = appendUnique(parent.Children, path)

	fs.committed(ctx, "write", path)
	return true
}

// CreateDir creates an empty directory under an existing parent
func (fs *FileSystem) CreateDir(ctx context.Context, path string) bool {
	path = Normalize(path)

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, exists := fs.entries[path]; exists {
		return false
	}
	parent, ok := fs.entries[ParentPath(path)]
	if !ok || !parent.IsDir() {
		return false
	}

	fs.entries[path] = newDirectory(path, "", fs.millis())
	parent.Children = appendUnique(parent.Children, path)

	fs.committed(ctx, "mkdir", path)
	return true
}

// Delete removes an entry. Directories are removed with their whole
// subtree. The root is never deleted.
func (fs *FileSystem) Delete(ctx context.Context, path string) bool {
	path = Normalize(path)
	if path == Root {
		return false
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	target, ok := fs.entries[path]
	if !ok {
		return false
	}

	if target.IsDir() {
		fs.removeTreeLocked(path)
	}
	delete(fs.entries, path)

	if parent, ok := fs.entries[ParentPath(path)]; ok && parent.IsDir() {
		parent.Children = remove(parent.Children, path)
	}

	fs.committed(ctx, "delete", path)
	return true
}

// removeTreeLocked drops every descendant of dir. Children lists are
// followed recursively; a key sweep then catches entries whose links were
// already broken in a stored blob.
func (fs *FileSystem) removeTreeLocked(dir string) {
	var walk func(string)
	walk = func(p string) {
		e, ok := fs.entries[p]
		if !ok {
			return
		}
		if e.IsDir() {
			for _, child := range e.Children {
				walk(child)
			}
		}
		if p != dir {
			delete(fs.entries, p)
		}
	}
	walk(dir)

	for p := range fs.entries {
		if p != dir && IsWithin(p, dir) {
			delete(fs.entries, p)
		}
	}
}

// Rename moves an entry to newPath, which may be in another directory.
// Directories carry their subtree along. Renaming onto an existing path,
// under a missing parent, or into the entry's own subtree is a no-op.
func (fs *FileSystem) Rename(ctx context.Context, oldPath, newPath string) bool {
	oldPath, newPath = Normalize(oldPath), Normalize(newPath)
	if oldPath == Root || newPath == Root || oldPath == newPath {
		return false
	}
	if IsWithin(newPath, oldPath) {
		return false
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	target, ok := fs.entries[oldPath]
	if !ok {
		return false
	}
	if _, taken := fs.entries[newPath]; taken {
		return false
	}
	oldParentPath, newParentPath := ParentPath(oldPath), ParentPath(newPath)
	newParent, ok := fs.entries[newParentPath]
	if !ok || !newParent.IsDir() {
		return false
	}

	// Re-key the entry and, for directories, everything below it.
	moved := Snapshot{}
	for p, e := range fs.entries {
		if IsWithin(p, oldPath) {
			moved[p] = e
		}
	}
	for p, e := range moved {
		delete(fs.entries, p)
		np := rebase(p, oldPath, newPath)
		e.Metadata.Path = np
		if e.IsDir() {
			for i, child := range e.Children {
				if IsWithin(child, oldPath) {
					e.Children[i] = rebase(child, oldPath, newPath)
				}
			}
		}
		fs.entries[np] = e
	}

	target.Metadata.Name = BaseName(newPath)
	target.Metadata.Modified = fs.millis()

	if oldParentPath == newParentPath {
		// Same directory: keep the entry's position in the listing.
		for i, child := range newParent.Children {
			if child == oldPath {
				newParent.Children[i] = newPath
				break
			}
		}
	} else {
		if oldParent, ok := fs.entries[oldParentPath]; ok && oldParent.IsDir() {
			oldParent.Children = remove(oldParent.Children, oldPath)
		}
		newParent.Children = appendUnique(newParent.Children, newPath)
	}

	fs.committed(ctx, "rename", newPath)
	return true
}

// GetRecents returns files by modification time, newest first, at most limit.
// Ties are ordered by path.
func (fs *FileSystem) GetRecents(limit int) []Entry {
	if limit <= 0 {
		return []Entry{}
	}

	fs.mu.RLock()
	files := make([]Entry, 0)
	for _, e := range fs.entries {
		if e.IsFile() {
			files = append(files, e.clone())
		}
	}
	fs.mu.RUnlock()

	sort.Slice(files, func(i, j int) bool {
		a, b := files[i].Metadata, files[j].Metadata
		if a.Modified != b.Modified {
			return a.Modified > b.Modified
		}
		return a.Path < b.Path
	})

	if len(files) > limit {
		files = files[:limit]
	}
	return files
}

// Walk visits every entry in path order until fn returns false
func (fs *FileSystem) Walk(fn func(Entry) bool) {
	fs.mu.RLock()
	paths := make([]string, 0, len(fs.entries))
	for p := range fs.entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	snapshot := make([]Entry, 0, len(paths))
	for _, p := range paths {
		snapshot = append(snapshot, fs.entries[p].clone())
	}
	fs.mu.RUnlock()

	for _, e := range snapshot {
		if !fn(e) {
			return
		}
	}
}

// Snapshot returns a deep copy of the whole map
func (fs *FileSystem) Snapshot() Snapshot {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.entries.Clone()
}

// Restore replaces the whole map and persists it. Snapshots without a root
// directory are refused.
func (fs *FileSystem) Restore(ctx context.Context, snap Snapshot) bool {
	root, ok := snap[Root]
	if !ok || root == nil || !root.IsDir() {
		return false
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.entries = snap.Clone()
	fs.entries.repair()
	fs.committed(ctx, "restore", Root)
	return true
}

// Reset rebuilds the default tree
func (fs *FileSystem) Reset(ctx context.Context) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.entries = fs.seed.Build(fs.millis())
	fs.committed(ctx, "reset", Root)
}

// Stats summarizes the tree
func (fs *FileSystem) Stats() Stats {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	var s Stats
	for _, e := range fs.entries {
		s.Entries++
		if e.IsDir() {
			s.Directories++
		} else {
			s.Files++
			s.TotalBytes += e.Metadata.Size
		}
	}
	return s
}

// committed persists, records and announces a mutation. Caller holds mu.
func (fs *FileSystem) committed(ctx context.Context, op, path string) {
	fs.persistLocked(ctx)
	fs.metrics.RecordFSOp(op)
	fs.metrics.SetFSEntries(len(fs.entries))
	fs.publisher.Publish(events.New(events.FSChanged, "", map[string]interface{}{
		"op":     op,
		"path":   path,
		"parent": ParentPath(path),
	}))
}

// persistLocked writes the whole map. Failures are logged and swallowed;
// the in-memory state stays authoritative.
func (fs *FileSystem) persistLocked(ctx context.Context) {
	if fs.store == nil {
		return
	}
	data, err := Encode(fs.entries)
	if err != nil {
		fs.logger.Error("Failed to encode file system", zap.Error(err))
		return
	}

	timer := monitoring.NewTimer(fs.metrics, storage.KeyFileSystem)
	err = fs.store.Set(ctx, storage.KeyFileSystem, data)
	timer.Stop(err)
	if err != nil {
		fs.logger.Error("Failed to persist file system", zap.Error(err))
	}
}

func (fs *FileSystem) millis() int64 {
	return fs.now().UnixMilli()
}

func appendUnique(list []string, path string) []string {
	for _, p := range list {
		if p == path {
			return list
		}
	}
	return append(list, path)
}

func remove(list []string, path string) []string {
	out := list[:0]
	for _, p := range list {
		if p != path {
			out = append(out, p)
		}
	}
	return out
}
