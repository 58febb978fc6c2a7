package noteparse

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/suykerbuyk/logvault/internal/render"
)

// Note is a filed log read back from disk.
type Note struct {
	// Frontmatter key-value pairs
	Frontmatter map[string]string

	Project   string
	Category  string
	Tags      []string // parsed from bracket list
	CreatedAt time.Time

	Title   string
	Summary string
	Body    string

	// Structured is false for raw fallback files, whose Body is the whole file.
	Structured bool
}

// ParseFile reads and parses a filed log from disk.
func ParseFile(path string) (*Note, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "open note", goerr.V("path", path))
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads and parses a filed log from a reader.
func Parse(r io.Reader) (*Note, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, goerr.Wrap(err, "read note")
	}
	return ParseString(string(data)), nil
}

// ParseString parses s. Text without a front matter block is treated as a
// raw fallback file.
func ParseString(s string) *Note {
	note := &Note{Frontmatter: make(map[string]string)}

	fm, rest, ok := splitFrontmatter(s)
	if !ok {
		note.Body = s
		return note
	}
	note.Structured = true

	for _, line := range strings.Split(fm, "\n") {
		if idx := strings.IndexByte(line, ':'); idx > 0 {
			key := strings.TrimSpace(line[:idx])
			note.Frontmatter[key] = strings.TrimSpace(line[idx+1:])
		}
	}

	note.Project = note.Frontmatter["project"]
	note.Category = note.Frontmatter["category"]
	note.Tags = parseBracketList(note.Frontmatter["tags"])
	if ts, ok := note.Frontmatter["created_at"]; ok {
		if t, err := time.ParseInLocation(render.CreatedAtLayout, ts, time.Local); err == nil {
			note.CreatedAt = t
		}
	}

	title, rest, _ := strings.Cut(rest, "\n")
	note.Title = strings.TrimSpace(strings.TrimPrefix(title, "#"))

	summary, body, found := strings.Cut(rest, "\n"+render.BodyHeading+"\n")
	if !found {
		note.Summary = sectionText(rest)
		return note
	}
	note.Summary = sectionText(summary)
	note.Body = strings.TrimSuffix(body, "\n")
	return note
}

// splitFrontmatter returns the lines between the leading "---" delimiters
// and everything after the closing one.
func splitFrontmatter(s string) (fm, rest string, ok bool) {
	if !strings.HasPrefix(s, "---\n") {
		return "", "", false
	}
	s = s[len("---\n"):]
	if strings.HasPrefix(s, "---\n") {
		return "", s[len("---\n"):], true
	}
	fm, rest, ok = strings.Cut(s, "\n---\n")
	return fm, rest, ok
}

func sectionText(s string) string {
	s = strings.TrimLeft(s, "\n")
	s = strings.TrimPrefix(s, render.SummaryHeading+"\n")
	return strings.TrimRight(s, "\n")
}

// parseBracketList parses "[a, b, c]" into []string{"a", "b", "c"}.
func parseBracketList(s string) []string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil
	}
	s = s[1 : len(s)-1]
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
