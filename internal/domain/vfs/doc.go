// Package vfs implements the virtual file system behind Finder, the Terminal
// and Spotlight: a flat map from normalized absolute path to entry, where
// directories keep the ordered list of their children's paths.
//
// Invariants:
//   - every key is normalized and equals its entry's metadata path;
//   - a directory's children all name existing entries whose parent is that
//     directory;
//   - a file's size is the byte length of its content.
//
// The whole map is written to the preference store under "finder_fs" after
// every mutation. Load falls back to the default tree (seed.yaml) when the
// stored blob is missing or cannot be parsed.
//
// Example:
//
//	fs := vfs.New(store)
//	fs.Load(ctx)
//	fs.CreateDir(ctx, "/Documents/Work/Q1")
//	fs.WriteFile(ctx, "/Documents/Work/Q1/report.txt", "draft", "")
//	entries := fs.ListDir("/Documents/Work/Q1")
package vfs
