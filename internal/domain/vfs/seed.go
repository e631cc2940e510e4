package vfs

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

//go:embed seed.yaml
var defaultSeedYAML []byte

// Seed describes an initial tree
type Seed struct {
	Directories []SeedDirectory `yaml:"directories"`
	Files       []SeedFile      `yaml:"files"`
}

// SeedDirectory is a directory to create
type SeedDirectory struct {
	Path string `yaml:"path"`
	Icon string `yaml:"icon"`
}

// SeedFile is a file to create
type SeedFile struct {
	Path    string `yaml:"path"`
	Icon    string `yaml:"icon"`
	Content string `yaml:"content"`
}

// ParseSeed decodes a YAML seed
func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	return &seed, nil
}

// LoadSeed reads a YAML seed file
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed %s: %w", path, err)
	}
	return ParseSeed(data)
}

// DefaultSeed returns the built-in tree: Applications, Desktop, Documents
// and Downloads with a few files
func DefaultSeed() *Seed {
	seed, err := ParseSeed(defaultSeedYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded seed is invalid: %v", err))
	}
	return seed
}

// Build materializes the seed into a snapshot. Missing parent directories
// are created along the way so seeds may list paths in any order.
func (s *Seed) Build(now int64) Snapshot {
	snap := Snapshot{Root: newDirectory(Root, "", now)}

	var mkdirAll func(path, icon string)
	mkdirAll = func(path, icon string) {
		if _, ok := snap[path]; ok {
			return
		}
		parent := ParentPath(path)
		mkdirAll(parent, "")
		if p, ok := snap[parent]; !ok || !p.IsDir() {
			return
		}
		snap[path] = newDirectory(path, icon, now)
		snap[parent].Children = append(snap[parent].Children, path)
	}

	for _, d := range s.Directories {
		mkdirAll(Normalize(d.Path), d.Icon)
	}
	for _, f := range s.Files {
		path := Normalize(f.Path)
		if path == Root {
			continue
		}
		if existing, ok := snap[path]; ok && existing.IsDir() {
			continue
		}
		parent := ParentPath(path)
		mkdirAll(parent, "")
		if p, ok := snap[parent]; !ok || !p.IsDir() {
			continue
		}
		if _, ok := snap[path]; !ok {
			snap[parent].Children = append(snap[parent].Children, path)
		}
		snap[path] = newFile(path, f.Content, f.Icon, now)
	}
	return snap
}
