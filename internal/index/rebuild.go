package index

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/suykerbuyk/logvault/internal/logging"
	"github.com/suykerbuyk/logvault/internal/noteparse"
	"github.com/suykerbuyk/logvault/internal/render"
)

// Rebuild walks root, parses each Markdown file via noteparse, and builds
// an index from scratch. Files under _Uncategorized (or without front
// matter) become fallback entries. The state directory is skipped, and IDs
// already recorded for a path are kept.
func Rebuild(root, stateDir string) (*Index, int, error) {
	logger := logging.Default()

	// Load existing index to preserve IDs and fields not stored in files
	oldIdx, err := Load(stateDir)
	if err != nil {
		logger.Warn("rebuild: ignoring unreadable index", "error", err.Error())
		oldIdx = newIndex(stateDir)
	}

	idx := newIndex(stateDir)
	count := 0

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if filepath.Clean(path) == filepath.Clean(stateDir) {
				return filepath.SkipDir
			}
			return nil
		}

		if filepath.Ext(path) != ".md" {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		// Files directly under root (README.md) are not filed logs
		if !strings.ContainsRune(rel, filepath.Separator) {
			return nil
		}

		note, parseErr := noteparse.ParseFile(path)
		if parseErr != nil {
			logger.Warn("rebuild: skip note", "path", path, "error", parseErr.Error())
			return nil
		}

		entry := entryFromNote(rel, note)
		if entry.CreatedAt.IsZero() {
			if info, infoErr := d.Info(); infoErr == nil {
				entry.CreatedAt = info.ModTime()
			}
		}

		if old, ok := oldIdx.ByPath(rel); ok {
			entry.ID = old.ID
			entry.Model = old.Model
			entry.Archived = old.Archived
			if entry.Fallback {
				entry.FailedStage = old.FailedStage
				entry.Reason = old.Reason
			}
		} else {
			entry.ID = uuid.NewString()
		}

		idx.Add(entry)
		count++
		return nil
	})

	if err != nil {
		return nil, 0, goerr.Wrap(err, "walk root", goerr.V("root", root))
	}

	return idx, count, nil
}

func entryFromNote(rel string, note *noteparse.Note) Entry {
	dir := filepath.Dir(rel)
	name := filepath.Base(rel)

	if dir == render.UncategorizedDir || !note.Structured {
		entry := Entry{
			Path:     rel,
			Project:  render.UncategorizedDir,
			Title:    strings.TrimSuffix(name, ".md"),
			Fallback: true,
		}
		if t, ok := render.ParseFallbackFileName(name); ok {
			entry.CreatedAt = t
		}
		return entry
	}

	project := note.Project
	if project == "" {
		// Fall back to directory name
		project = filepath.Base(dir)
	}

	return Entry{
		Path:      rel,
		Project:   project,
		Category:  note.Category,
		Title:     note.Title,
		Tags:      note.Tags,
		Summary:   note.Summary,
		CreatedAt: note.CreatedAt,
	}
}
