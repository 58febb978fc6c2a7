package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/suykerbuyk/logvault/internal/archive"
	"github.com/suykerbuyk/logvault/internal/config"
	"github.com/suykerbuyk/logvault/internal/index"
	"github.com/suykerbuyk/logvault/internal/logging"
	"github.com/suykerbuyk/logvault/internal/pipeline"
	"github.com/suykerbuyk/logvault/internal/render"
)

// recorder adds each filed log to the index and, when enabled, archives
// the original text. Failures are logged and never fail the run.
type recorder struct {
	cfg config.Config
	id  string
}

func (r *recorder) record(ctx context.Context, o *pipeline.Outcome) {
	logger := logging.From(ctx)

	entry := entryFor(r.cfg, o)
	r.id = entry.ID

	if r.cfg.Archive.Enabled {
		if _, err := archive.Store(o.Entry.Text, entry.ID, r.cfg.ArchiveDir()); err != nil {
			logger.Warn("archive original text", "id", entry.ID, "error", err.Error())
		} else {
			entry.Archived = true
		}
	}

	idx, err := index.Load(r.cfg.StateDir())
	if err != nil {
		logger.Warn("load index", "error", err.Error())
		return
	}
	idx.Add(entry)
	if err := idx.Save(); err != nil {
		logger.Warn("save index", "error", err.Error())
	}
}

func entryFor(cfg config.Config, o *pipeline.Outcome) index.Entry {
	rel, err := filepath.Rel(cfg.RootPath, o.Path)
	if err != nil {
		rel = o.Path
	}

	entry := index.Entry{
		ID:        uuid.NewString(),
		Path:      rel,
		Model:     cfg.Classifier.Model,
		CreatedAt: o.Entry.CapturedAt,
	}

	if o.ViaFallback() {
		entry.Project = render.UncategorizedDir
		entry.Title = strings.TrimSuffix(filepath.Base(o.Path), ".md")
		entry.Fallback = true
		entry.FailedStage = o.FailedStage.String()
		entry.Reason = string(o.Kind)
		return entry
	}

	c := o.Classification
	entry.Project = c.ProjectName
	entry.Category = c.Category
	entry.Title = c.Title
	entry.Tags = c.Tags
	entry.Summary = c.Summary
	return entry
}
