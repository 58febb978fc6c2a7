// Package stats aggregates the log index into per-project, per-category,
// per-tag, per-model and per-month counts.
package stats

import (
	"sort"
	"strings"

	"github.com/suykerbuyk/logvault/internal/index"
)

// Summary holds aggregate metrics computed from the log index.
type Summary struct {
	TotalLogs      int
	Structured     int
	Fallbacks      int
	Archived       int
	ActiveProjects int

	FallbackRate float64 // percent of all logs

	Projects   []Count
	Categories []Count
	Models     []Count
	Tags       []Count
	Stages     []Count
	Monthly    []Count
}

// Count is one named bucket.
type Count struct {
	Name    string
	Count   int
	Percent float64
}

// monthLimit caps the monthly trend to the most recent months.
const monthLimit = 6

// Compute builds a Summary from index entries, optionally filtered by project.
// Fallback entries have no project and are excluded when a project is given.
func Compute(entries map[string]index.Entry, project string) Summary {
	var s Summary

	projects := make(map[string]int)
	categories := make(map[string]int)
	models := make(map[string]int)
	tags := make(map[string]int)
	stages := make(map[string]int)
	months := make(map[string]int)

	for _, e := range entries {
		if project != "" && (e.Fallback || !strings.EqualFold(e.Project, project)) {
			continue
		}

		s.TotalLogs++
		if e.Archived {
			s.Archived++
		}
		if e.Model != "" {
			models[e.Model]++
		}
		if !e.CreatedAt.IsZero() {
			months[e.CreatedAt.Format("2006-01")]++
		}

		if e.Fallback {
			s.Fallbacks++
			stage := e.FailedStage
			if stage == "" {
				stage = "unknown"
			}
			stages[stage]++
			continue
		}

		s.Structured++
		projects[e.Project]++
		if e.Category != "" {
			categories[e.Category]++
		}
		seen := make(map[string]bool, len(e.Tags))
		for _, t := range e.Tags {
			t = strings.ToLower(strings.TrimSpace(t))
			if t == "" || seen[t] {
				continue
			}
			seen[t] = true
			tags[t]++
		}
	}

	if s.TotalLogs > 0 {
		s.FallbackRate = float64(s.Fallbacks) / float64(s.TotalLogs) * 100
	}
	s.ActiveProjects = len(projects)

	s.Projects = ranked(projects, s.Structured)
	s.Categories = ranked(categories, s.Structured)
	s.Models = ranked(models, s.TotalLogs)
	s.Tags = ranked(tags, s.Structured)
	s.Stages = ranked(stages, s.Fallbacks)

	// Months recent-first, capped.
	for m, n := range months {
		s.Monthly = append(s.Monthly, Count{Name: m, Count: n, Percent: percent(n, s.TotalLogs)})
	}
	sort.Slice(s.Monthly, func(i, j int) bool {
		return s.Monthly[i].Name > s.Monthly[j].Name
	})
	if len(s.Monthly) > monthLimit {
		s.Monthly = s.Monthly[:monthLimit]
	}

	return s
}

// ranked sorts buckets by count desc, then name.
func ranked(m map[string]int, total int) []Count {
	out := make([]Count, 0, len(m))
	for name, n := range m {
		out = append(out, Count{Name: name, Count: n, Percent: percent(n, total)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
