// Package search implements Spotlight: a ranked lookup over file names in
// the virtual file system and the application catalog.
package search

import (
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/apps"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/vfs"
)

// DefaultLimit caps results when the caller gives no limit
const DefaultLimit = 20

// Kind separates app hits from file hits
type Kind string

const (
	KindApp       Kind = "app"
	KindFile      Kind = "file"
	KindDirectory Kind = "directory"
)

// Match quality, best first
const (
	rankExact = iota
	rankPrefix
	rankSubstring
	rankGlob
)

// Result is one hit
type Result struct {
	Kind  Kind   `json:"kind"`
	Name  string `json:"name"`
	Path  string `json:"path"`
	Icon  string `json:"icon"`
	AppID string `json:"app_id,omitempty"`

	rank  int
	depth int
}

// Walker is the file system view search needs
type Walker interface {
	Walk(fn func(vfs.Entry) bool)
}

// Engine runs queries
type Engine struct {
	fs Walker
}

// NewEngine creates a search engine over fs
func NewEngine(fs Walker) *Engine {
	return &Engine{fs: fs}
}

// IsGlob reports whether the query uses glob syntax
func IsGlob(query string) bool {
	return strings.ContainsAny(query, "*?[{")
}

// Query returns hits ordered by match quality (exact name, prefix,
// substring, glob), then by path depth, then by path. Plain queries match
// names case-insensitively; glob queries match the name, or the full path
// when they contain a slash.
func (e *Engine) Query(query string, limit int) []Result {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Result{}
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	match := plainMatcher(query)
	if IsGlob(query) {
		if !doublestar.ValidatePattern(query) {
			return []Result{}
		}
		match = globMatcher(query)
	}

	results := make([]Result, 0)
	for _, a := range apps.All() {
		if rank, ok := match(a.Name, a.BundlePath()); ok {
			results = append(results, Result{
				Kind:  KindApp,
				Name:  a.Name,
				Path:  a.BundlePath(),
				Icon:  a.Icon,
				AppID: a.ID,
				rank:  rank,
			})
		}
	}

	e.fs.Walk(func(entry vfs.Entry) bool {
		path := entry.Metadata.Path
		if path == vfs.Root || isBundle(path) {
			return true
		}
		rank, ok := match(entry.Metadata.Name, path)
		if !ok {
			return true
		}
		kind := KindFile
		if entry.IsDir() {
			kind = KindDirectory
		}
		results = append(results, Result{
			Kind:  kind,
			Name:  entry.Metadata.Name,
			Path:  path,
			Icon:  entry.Metadata.Icon,
			rank:  rank,
			depth: strings.Count(path, "/"),
		})
		return true
	})

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.rank != b.rank {
			return a.rank < b.rank
		}
		if a.depth != b.depth {
			return a.depth < b.depth
		}
		return a.Path < b.Path
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// isBundle skips catalog bundles, which are reported as apps
func isBundle(path string) bool {
	if vfs.ParentPath(path) != apps.ApplicationsDir {
		return false
	}
	_, ok := apps.Lookup(vfs.BaseName(path))
	return ok && strings.HasSuffix(path, ".app")
}

type matcher func(name, path string) (int, bool)

func plainMatcher(query string) matcher {
	q := strings.ToLower(query)
	return func(name, _ string) (int, bool) {
		n := strings.ToLower(name)
		switch {
		case n == q || strings.TrimSuffix(n, ".app") == q:
			return rankExact, true
		case strings.HasPrefix(n, q):
			return rankPrefix, true
		case strings.Contains(n, q):
			return rankSubstring, true
		}
		return 0, false
	}
}

func globMatcher(pattern string) matcher {
	p := strings.ToLower(pattern)
	full := strings.Contains(p, "/")
	return func(name, path string) (int, bool) {
		subject := strings.ToLower(name)
		if full {
			subject = strings.ToLower(path)
		}
		ok, err := doublestar.Match(p, subject)
		if err != nil || !ok {
			return 0, false
		}
		return rankGlob, true
	}
}
