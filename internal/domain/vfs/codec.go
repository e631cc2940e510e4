package vfs

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// Encode serializes a snapshot to the persisted JSON layout
// {path: {metadata, content, children}}
func Encode(snap Snapshot) ([]byte, error) {
	data, err := sonic.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to encode file system: %w", err)
	}
	return data, nil
}

// Decode parses a persisted snapshot. A blob without a root directory is
// rejected so callers fall back to the default tree.
func Decode(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := sonic.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode file system: %w", err)
	}
	root, ok := snap[Root]
	if !ok || root == nil || !root.IsDir() {
		return nil, fmt.Errorf("file system snapshot has no root directory")
	}
	snap.repair()
	return snap, nil
}

// repair fills shape defaults lost to omitempty and drops nil entries. It
// does not touch parent/child links.
func (s Snapshot) repair() {
	for path, e := range s {
		if e == nil {
			delete(s, path)
			continue
		}
		if e.IsDir() {
			e.Content = nil
			if e.Children == nil {
				e.Children = []string{}
			}
		} else {
			e.Children = nil
			if e.Content == nil {
				empty := ""
				e.Content = &empty
			}
		}
	}
}

// Clone deep-copies a snapshot
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for k, v := range s {
		c := v.clone()
		out[k] = &c
	}
	return out
}
