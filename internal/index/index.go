package index

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// FileName is the index file inside the state directory.
const FileName = "index.json"

// Entry represents one filed log in the index.
type Entry struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"` // Relative to the root
	Project   string    `json:"project"`
	Category  string    `json:"category"`
	Title     string    `json:"title"`
	Tags      []string  `json:"tags,omitempty"`
	Summary   string    `json:"summary,omitempty"`
	Model     string    `json:"model,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Fallback entries point at raw text saved under _Uncategorized.
	Fallback    bool   `json:"fallback,omitempty"`
	FailedStage string `json:"failed_stage,omitempty"`
	Reason      string `json:"reason,omitempty"`

	Archived bool `json:"archived,omitempty"`
}

// Index manages the index.json file.
type Index struct {
	path    string
	Entries map[string]Entry `json:"entries"` // keyed by ID
}

// Load reads the index from disk, creating an empty one if it doesn't exist.
func Load(stateDir string) (*Index, error) {
	idx := newIndex(stateDir)

	data, err := os.ReadFile(idx.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return idx, nil
		}
		return nil, goerr.Wrap(err, "read index", goerr.V("path", idx.path))
	}

	if err := json.Unmarshal(data, &idx.Entries); err != nil {
		return nil, goerr.Wrap(err, "parse index", goerr.V("path", idx.path))
	}
	if idx.Entries == nil {
		idx.Entries = make(map[string]Entry)
	}

	return idx, nil
}

func newIndex(stateDir string) *Index {
	return &Index{
		path:    filepath.Join(stateDir, FileName),
		Entries: make(map[string]Entry),
	}
}

// Path returns the index file location.
func (idx *Index) Path() string {
	return idx.path
}

// Save writes the index to disk.
func (idx *Index) Save() error {
	if err := os.MkdirAll(filepath.Dir(idx.path), 0o755); err != nil {
		return goerr.Wrap(err, "create state dir", goerr.V("path", filepath.Dir(idx.path)))
	}

	data, err := json.MarshalIndent(idx.Entries, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "marshal index")
	}

	if err := os.WriteFile(idx.path, data, 0o644); err != nil {
		return goerr.Wrap(err, "write index", goerr.V("path", idx.path))
	}
	return nil
}

// Add inserts or updates an entry. An older entry for the same file is
// dropped, since writing the same path overwrote it.
func (idx *Index) Add(entry Entry) {
	for id, e := range idx.Entries {
		if e.Path == entry.Path && id != entry.ID {
			delete(idx.Entries, id)
		}
	}
	idx.Entries[entry.ID] = entry
}

// Get returns the entry with the given ID.
func (idx *Index) Get(id string) (Entry, bool) {
	e, ok := idx.Entries[id]
	return e, ok
}

// ByPath returns the entry for a root-relative path.
func (idx *Index) ByPath(rel string) (Entry, bool) {
	for _, e := range idx.Entries {
		if e.Path == rel {
			return e, true
		}
	}
	return Entry{}, false
}

// Sorted returns all entries, newest first.
func (idx *Index) Sorted() []Entry {
	entries := make([]Entry, 0, len(idx.Entries))
	for _, e := range idx.Entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		}
		return entries[i].Path < entries[j].Path
	})
	return entries
}

// Projects returns entry counts per project, fallback entries excluded.
func (idx *Index) Projects() map[string]int {
	counts := make(map[string]int)
	for _, e := range idx.Entries {
		if !e.Fallback {
			counts[e.Project]++
		}
	}
	return counts
}
