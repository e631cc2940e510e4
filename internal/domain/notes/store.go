// Package notes keeps the Notes app's folders and notes as one blob in the
// preference store.
package notes

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/events"
	"github.com/GriffinCanCode/DeskOS/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/DeskOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/DeskOS/backend/internal/storage"
)

// Store owns the notes blob
type Store struct {
	mu   sync.RWMutex
	data Data

	store     storage.Store
	policy    *bluemonday.Policy
	publisher events.Publisher
	metrics   *monitoring.Metrics
	logger    *logging.Logger
	now       func() time.Time
}

// NewStore creates a notes store holding the default blob until Load
func NewStore(store storage.Store, publisher events.Publisher, logger *logging.Logger) *Store {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Store{
		store:     store,
		policy:    bluemonday.UGCPolicy(),
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
	s.data = defaultData(s.millis())
	return s
}

// WithMetrics adds persistence timing
func (s *Store) WithMetrics(metrics *monitoring.Metrics) *Store {
	s.metrics = metrics
	return s
}

// Load reads the stored blob. A missing or malformed blob keeps the default.
func (s *Store) Load(ctx context.Context) error {
	raw, ok, err := s.store.Get(ctx, storage.KeyNotes)
	if err != nil {
		return fmt.Errorf("failed to load notes: %w", err)
	}
	if !ok {
		return nil
	}

	var data Data
	if err := sonic.Unmarshal(raw, &data); err != nil {
		s.logger.Warn("Stored notes are malformed, using defaults", zap.Error(err))
		return nil
	}
	s.mu.Lock()
	s.data = s.repair(data)
	s.mu.Unlock()
	return nil
}

// repair guarantees the default folder exists and every note points at a
// known folder
func (s *Store) repair(data Data) Data {
	known := make(map[string]bool, len(data.Folders))
	for _, f := range data.Folders {
		known[f.ID] = true
	}
	if !known[DefaultFolderID] {
		data.Folders = append([]Folder{{ID: DefaultFolderID, Name: "Notes"}}, data.Folders...)
		known[DefaultFolderID] = true
	}
	if data.Notes == nil {
		data.Notes = []Note{}
	}
	for i := range data.Notes {
		if !known[data.Notes[i].FolderID] {
			data.Notes[i].FolderID = DefaultFolderID
		}
	}
	return data
}

// Snapshot returns a copy of the blob
func (s *Store) Snapshot() Data {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Data{
		Folders: append([]Folder{}, s.data.Folders...),
		Notes:   append([]Note{}, s.data.Notes...),
	}
}

// Folders lists folders in creation order
func (s *Store) Folders() []Folder {
	return s.Snapshot().Folders
}

// CreateFolder adds a folder
func (s *Store) CreateFolder(ctx context.Context, name string) (Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Folder{}, fmt.Errorf("folder name is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f := Folder{ID: uuid.NewString(), Name: name}
	s.data.Folders = append(s.data.Folders, f)
	s.commitLocked(ctx, "folder_created", f.ID)
	return f, nil
}

// DeleteFolder removes a folder and moves its notes to the default folder.
// The default folder cannot be deleted.
func (s *Store) DeleteFolder(ctx context.Context, id string) bool {
	if id == DefaultFolderID {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, f := range s.data.Folders {
		if f.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	s.data.Folders = append(s.data.Folders[:idx], s.data.Folders[idx+1:]...)
	for i := range s.data.Notes {
		if s.data.Notes[i].FolderID == id {
			s.data.Notes[i].FolderID = DefaultFolderID
		}
	}
	s.commitLocked(ctx, "folder_deleted", id)
	return true
}

// List returns a folder's notes, most recently modified first. An empty
// folder id lists every note.
func (s *Store) List(folderID string) []Note {
	s.mu.RLock()
	out := make([]Note, 0, len(s.data.Notes))
	for _, n := range s.data.Notes {
		if folderID == "" || n.FolderID == folderID {
			out = append(out, n)
		}
	}
	s.mu.RUnlock()

	sortByModified(out)
	return out
}

// Get returns a note
func (s *Store) Get(id string) (Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.data.Notes {
		if n.ID == id {
			return n, true
		}
	}
	return Note{}, false
}

// Create adds a note to a folder; unknown folders fall back to the default
func (s *Store) Create(ctx context.Context, folderID, title, body string) Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasFolderLocked(folderID) {
		folderID = DefaultFolderID
	}
	now := s.millis()
	n := Note{
		ID:       uuid.NewString(),
		FolderID: folderID,
		Title:    strings.TrimSpace(title),
		Body:     s.policy.Sanitize(body),
		Created:  now,
		Modified: now,
	}
	s.data.Notes = append(s.data.Notes, n)
	s.commitLocked(ctx, "note_created", n.ID)
	return n
}

// Update replaces a note's title and body
func (s *Store) Update(ctx context.Context, id, title, body string) (Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.data.Notes {
		n := &s.data.Notes[i]
		if n.ID != id {
			continue
		}
		n.Title = strings.TrimSpace(title)
		n.Body = s.policy.Sanitize(body)
		n.Modified = s.millis()
		s.commitLocked(ctx, "note_updated", id)
		return *n, true
	}
	return Note{}, false
}

// Move puts a note in another folder
func (s *Store) Move(ctx context.Context, id, folderID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasFolderLocked(folderID) {
		return false
	}
	for i := range s.data.Notes {
		if s.data.Notes[i].ID == id {
			s.data.Notes[i].FolderID = folderID
			s.data.Notes[i].Modified = s.millis()
			s.commitLocked(ctx, "note_moved", id)
			return true
		}
	}
	return false
}

// Delete removes a note
func (s *Store) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.data.Notes {
		if n.ID == id {
			s.data.Notes = append(s.data.Notes[:i], s.data.Notes[i+1:]...)
			s.commitLocked(ctx, "note_deleted", id)
			return true
		}
	}
	return false
}

// Search matches the query against titles and bodies, ignoring case and
// markup
func (s *Store) Search(query string) []Note {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []Note{}
	}
	text := bluemonday.StrictPolicy()

	s.mu.RLock()
	out := make([]Note, 0)
	for _, n := range s.data.Notes {
		if strings.Contains(strings.ToLower(n.Title), query) ||
			strings.Contains(strings.ToLower(text.Sanitize(n.Body)), query) {
			out = append(out, n)
		}
	}
	s.mu.RUnlock()

	sortByModified(out)
	return out
}

func (s *Store) hasFolderLocked(id string) bool {
	for _, f := range s.data.Folders {
		if f.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) commitLocked(ctx context.Context, op, id string) {
	raw, err := sonic.Marshal(s.data)
	if err != nil {
		s.logger.Error("Failed to encode notes", zap.Error(err))
		return
	}
	timer := monitoring.NewTimer(s.metrics, storage.KeyNotes)
	err = s.store.Set(ctx, storage.KeyNotes, raw)
	timer.Stop(err)
	if err != nil {
		s.logger.Error("Failed to persist notes", zap.Error(err))
	}
	s.publisher.Publish(events.New(events.NotesChanged, "", map[string]interface{}{
		"op": op,
		"id": id,
	}))
}

func (s *Store) millis() int64 {
	return s.now().UnixMilli()
}

func sortByModified(notes []Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].Modified > notes[j].Modified
	})
}
