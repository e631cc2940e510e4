// Package quicklook builds the space-bar preview of a file: its detected
// type, a human-readable size and, for text, the leading part of the content.
package quicklook

import (
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"

	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/vfs"
)

// DefaultPreviewBytes bounds text previews when no limit is configured
const DefaultPreviewBytes = 4096

// Kind is a coarse content class the shell picks a renderer by
type Kind string

const (
	KindText   Kind = "text"
	KindImage  Kind = "image"
	KindApp    Kind = "application"
	KindBinary Kind = "binary"
	KindFolder Kind = "folder"
)

// Preview describes one entry
type Preview struct {
	Path      string `json:"path"`
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	Kind      Kind   `json:"kind"`
	MIME      string `json:"mime"`
	Size      int64  `json:"size"`
	HumanSize string `json:"human_size"`
	Modified  int64  `json:"modified"`
	Preview   string `json:"preview,omitempty"`
	Truncated bool   `json:"truncated,omitempty"`
	Children  int    `json:"children,omitempty"`
}

// Reader is the file system view Quick Look needs
type Reader interface {
	Get(path string) (vfs.Entry, bool)
}

// Service renders previews
type Service struct {
	fs       Reader
	maxBytes int
}

// NewService creates a preview service; maxBytes <= 0 uses DefaultPreviewBytes
func NewService(fs Reader, maxBytes int) *Service {
	if maxBytes <= 0 {
		maxBytes = DefaultPreviewBytes
	}
	return &Service{fs: fs, maxBytes: maxBytes}
}

// Preview describes the entry at path
func (s *Service) Preview(path string) (Preview, bool) {
	e, ok := s.fs.Get(path)
	if !ok {
		return Preview{}, false
	}

	p := Preview{
		Path:     e.Metadata.Path,
		Name:     e.Metadata.Name,
		Icon:     e.Metadata.Icon,
		Size:     e.Metadata.Size,
		Modified: e.Metadata.Modified,
	}
	if e.IsDir() {
		p.Kind = KindFolder
		p.MIME = "inode/directory"
		p.Children = len(e.Children)
		p.HumanSize = humanize.Comma(int64(p.Children)) + " items"
		return p, true
	}

	p.HumanSize = humanize.Bytes(uint64(e.Metadata.Size))
	if strings.HasSuffix(e.Metadata.Name, ".app") {
		p.Kind = KindApp
		p.MIME = "application/x-deskos-app"
		return p, true
	}

	content := []byte(e.Text())
	mtype := mimetype.Detect(content)
	p.MIME = mtype.String()
	p.Kind = classify(mtype)

	if p.Kind == KindText {
		p.Preview, p.Truncated = truncate(e.Text(), s.maxBytes)
	}
	return p, true
}

func classify(m *mimetype.MIME) Kind {
	for ; m != nil; m = m.Parent() {
		switch {
		case m.Is("text/plain"):
			return KindText
		case strings.HasPrefix(m.String(), "image/"):
			return KindImage
		}
	}
	return KindBinary
}

// truncate cuts s to at most n bytes without splitting a rune
func truncate(s string, n int) (string, bool) {
	if len(s) <= n {
		return s, false
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut], true
}
