package vfs

import "strings"

// Root is the path of the root directory
const Root = "/"

// Normalize canonicalizes a path: exactly one leading slash is ensured and a
// single trailing slash is stripped unless the path is the root.
func Normalize(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if path != Root && strings.HasSuffix(path, "/") {
		path = path[:len(path)-1]
	}
	return path
}

// ParentPath returns the directory containing path. The root is its own parent.
func ParentPath(path string) string {
	path = Normalize(path)
	if path == Root {
		return Root
	}
	i := strings.LastIndex(path, "/")
	if i <= 0 {
		return Root
	}
	return path[:i]
}

// BaseName returns the last path segment
func BaseName(path string) string {
	path = Normalize(path)
	if path == Root {
		return Root
	}
	return path[strings.LastIndex(path, "/")+1:]
}

// Join appends name to dir
func Join(dir, name string) string {
	dir = Normalize(dir)
	if dir == Root {
		return Normalize(name)
	}
	return dir + "/" + strings.TrimPrefix(name, "/")
}

// IsWithin reports whether path is dir itself or lies below it
func IsWithin(path, dir string) bool {
	if dir == Root {
		return true
	}
	return path == dir || strings.HasPrefix(path, dir+"/")
}

// Resolve interprets target relative to cwd, folding "." and ".." segments.
// Absolute targets ignore cwd. ".." never climbs above the root.
func Resolve(cwd, target string) string {
	if target == "" {
		return Normalize(cwd)
	}
	base := Normalize(cwd)
	if strings.HasPrefix(target, "/") {
		base = Root
	}

	var parts []string
	if base != Root {
		parts = strings.Split(strings.TrimPrefix(base, "/"), "/")
	}
	for _, seg := range strings.Split(target, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(parts) > 0 {
				parts = parts[:len(parts)-1]
			}
		default:
			parts = append(parts, seg)
		}
	}
	return "/" + strings.Join(parts, "/")
}

// rebase rewrites a path below from so it sits below to instead
func rebase(path, from, to string) string {
	if path == from {
		return to
	}
	return to + path[len(from):]
}
