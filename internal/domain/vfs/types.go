package vfs

// EntryType distinguishes files from directories
type EntryType string

const (
	TypeFile      EntryType = "file"
	TypeDirectory EntryType = "directory"
)

// Default icons for entries created without one
const (
	DefaultFileIcon      = "📄"
	DefaultDirectoryIcon = "📁"
)

// Metadata describes an entry. Timestamps are epoch milliseconds.
type Metadata struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	EntryType EntryType `json:"entry_type"`
	Size      int64     `json:"size"`
	Icon      string    `json:"icon"`
	Created   int64     `json:"created"`
	Modified  int64     `json:"modified"`
}

// Entry is a file or directory keyed by its normalized path. Files carry
// Content (possibly empty); directories carry the ordered Children paths.
type Entry struct {
	Metadata Metadata `json:"metadata"`
	Content  *string  `json:"content,omitempty"`
	Children []string `json:"children,omitempty"`
}

// IsDir reports whether the entry is a directory
func (e *Entry) IsDir() bool {
	return e.Metadata.EntryType == TypeDirectory
}

// IsFile reports whether the entry is a file
func (e *Entry) IsFile() bool {
	return e.Metadata.EntryType == TypeFile
}

// Text returns the file content, empty for directories
func (e *Entry) Text() string {
	if e.Content == nil {
		return ""
	}
	return *e.Content
}

func (e *Entry) clone() Entry {
	c := *e
	if e.Content != nil {
		s := *e.Content
		c.Content = &s
	}
	if e.Children != nil {
		c.Children = append([]string{}, e.Children...)
	}
	return c
}

// Snapshot is the whole path-to-entry map, the unit of persistence
type Snapshot map[string]*Entry

// Stats summarizes the tree
type Stats struct {
	Entries     int   `json:"entries"`
	Files       int   `json:"files"`
	Directories int   `json:"directories"`
	TotalBytes  int64 `json:"total_bytes"`
}

func newFile(path, content, icon string, now int64) *Entry {
	if icon == "" {
		icon = DefaultFileIcon
	}
	c := content
	return &Entry{
		Metadata: Metadata{
			Name:      BaseName(path),
			Path:      path,
			EntryType: TypeFile,
			Size:      int64(len(content)),
			Icon:      icon,
			Created:   now,
			Modified:  now,
		},
		Content: &c,
	}
}

func newDirectory(path, icon string, now int64) *Entry {
	if icon == "" {
		icon = DefaultDirectoryIcon
	}
	return &Entry{
		Metadata: Metadata{
			Name:      BaseName(path),
			Path:      path,
			EntryType: TypeDirectory,
			Icon:      icon,
			Created:   now,
			Modified:  now,
		},
		Children: []string{},
	}
}
