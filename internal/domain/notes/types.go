package notes

// DefaultFolderID is the folder notes fall back to when theirs is deleted
const DefaultFolderID = "notes"

// Folder groups notes
type Folder struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Note is a single note. Body is sanitized HTML; timestamps are epoch
// milliseconds.
type Note struct {
	ID       string `json:"id"`
	FolderID string `json:"folder_id"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	Created  int64  `json:"created"`
	Modified int64  `json:"modified"`
}

// Data is the persisted notes blob
type Data struct {
	Folders []Folder `json:"folders"`
	Notes   []Note   `json:"notes"`
}

func defaultData(now int64) Data {
	return Data{
		Folders: []Folder{{ID: DefaultFolderID, Name: "Notes"}},
		Notes: []Note{{
			ID:       "welcome",
			FolderID: DefaultFolderID,
			Title:    "Welcome to Notes",
			Body:     "<p>Jot down ideas, lists and anything else worth keeping.</p>",
			Created:  now,
			Modified: now,
		}},
	}
}
