package render

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/suykerbuyk/logvault/internal/response"
	"github.com/suykerbuyk/logvault/internal/sanitize"
)

// UncategorizedDir holds originals whose classification or filing failed.
const UncategorizedDir = "_Uncategorized"

// CreatedAtLayout is the front matter timestamp format.
const CreatedAtLayout = "2006-01-02 15:04:05"

const (
	dateLayout     = "2006-01-02"
	fallbackLayout = "2006-01-02_15-04-05"
)

// Entry is one pasted log as captured at pipeline entry.
type Entry struct {
	Text       string
	CapturedAt time.Time
}

// Artifact is a file to be written: Dir/FileName with Content.
type Artifact struct {
	Dir      string
	FileName string
	Content  string
}

// Path returns the full file path of the artifact.
func (a Artifact) Path() string {
	return filepath.Join(a.Dir, a.FileName)
}

// Resolve derives the structured artifact for a classified entry.
// The project name is reduced to a safe single segment; an empty result
// files under the default project.
func Resolve(root string, c response.Classification, e Entry) Artifact {
	return Artifact{
		Dir:      filepath.Join(root, ProjectDir(c.ProjectName)),
		FileName: FileName(c.Title, e.CapturedAt),
		Content:  Content(c, e),
	}
}

// ProjectDir returns the directory segment used for a project name.
func ProjectDir(project string) string {
	seg := sanitize.Segment(project)
	if seg == "" || seg == UncategorizedDir {
		return response.DefaultProjectName
	}
	return seg
}

// FileName returns the sanitized "<date>_<title>.md" name. Only the calendar
// date is used, so the same title on the same day maps to the same file.
func FileName(title string, capturedAt time.Time) string {
	return sanitize.FileName(capturedAt.Format(dateLayout) + "_" + title + ".md")
}

// Content renders the front matter, title, summary and original text.
func Content(c response.Classification, e Entry) string {
	var b strings.Builder

	b.WriteString("---\n")
	b.WriteString("project: " + oneLine(c.ProjectName) + "\n")
	b.WriteString("category: " + oneLine(c.Category) + "\n")
	b.WriteString("tags: [" + oneLine(strings.Join(c.Tags, ", ")) + "]\n")
	b.WriteString("created_at: " + e.CapturedAt.Format(CreatedAtLayout) + "\n")
	b.WriteString("---\n")

	b.WriteString("# " + oneLine(c.Title) + "\n\n")

	b.WriteString(SummaryHeading + "\n")
	b.WriteString(c.Summary + "\n\n")

	b.WriteString(BodyHeading + "\n")
	b.WriteString(e.Text + "\n")

	return b.String()
}

// oneLine keeps single-line fields from breaking the front matter block.
func oneLine(s string) string {
	return newlines.Replace(s)
}

var newlines = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// Section headings of a structured artifact.
const (
	SummaryHeading = "## AI要約"
	BodyHeading    = "## 本文"
)

// Fallback derives the raw artifact written when the structured path fails.
// Content is the original text, unmodified.
func Fallback(root string, e Entry) Artifact {
	return Artifact{
		Dir:      filepath.Join(root, UncategorizedDir),
		FileName: FallbackFileName(e.CapturedAt),
		Content:  e.Text,
	}
}

// FallbackFileName returns "<YYYY-MM-DD_HH-MM-SS>_error_log.md".
func FallbackFileName(capturedAt time.Time) string {
	return capturedAt.Format(fallbackLayout) + fallbackSuffix
}

const fallbackSuffix = "_error_log.md"

// ParseFallbackFileName recovers the capture time from a fallback file name.
func ParseFallbackFileName(name string) (time.Time, bool) {
	stamp, ok := strings.CutSuffix(name, fallbackSuffix)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(fallbackLayout, stamp, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
