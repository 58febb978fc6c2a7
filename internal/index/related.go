package index

import (
	"sort"
	"strings"
)

// RelatedEntry holds a related entry and its relevance score.
type RelatedEntry struct {
	Entry Entry
	Score int
}

// Related finds structured entries related to the entry with the given ID
// within the same project. Returns at most 3 results with a minimum score of 3.
func (idx *Index) Related(id string) []RelatedEntry {
	candidate, ok := idx.Entries[id]
	if !ok || candidate.Fallback {
		return nil
	}

	var results []RelatedEntry
	for _, entry := range idx.Entries {
		if entry.ID == candidate.ID || entry.Fallback {
			continue
		}
		if entry.Project != candidate.Project {
			continue
		}

		score := computeScore(candidate, entry)
		if score >= 3 {
			results = append(results, RelatedEntry{Entry: entry, Score: score})
		}
	}

	// Sort by score descending, then by date descending for ties
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Entry.CreatedAt.After(results[j].Entry.CreatedAt)
	})

	if len(results) > 3 {
		results = results[:3]
	}

	return results
}

func computeScore(candidate, other Entry) int {
	score := 0

	// Shared tags: 3 per tag, capped at 15
	tagScore := len(setIntersection(lower(candidate.Tags), lower(other.Tags))) * 3
	if tagScore > 15 {
		tagScore = 15
	}
	score += tagScore

	// Shared title and summary words: 1 each, capped at 5
	wordScore := len(setIntersection(
		significantWords(candidate.Title+" "+candidate.Summary),
		significantWords(other.Title+" "+other.Summary),
	))
	if wordScore > 5 {
		wordScore = 5
	}
	score += wordScore

	// Same category: 2 points
	if candidate.Category != "" && strings.EqualFold(candidate.Category, other.Category) {
		score += 2
	}

	return score
}

func lower(ss []string) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		out = append(out, strings.ToLower(strings.TrimSpace(s)))
	}
	return out
}

// significantWords extracts words >= 4 bytes, lowercased, skipping stop words.
func significantWords(s string) []string {
	words := strings.Fields(strings.ToLower(s))
	var result []string
	for _, w := range words {
		// Strip punctuation from edges
		w = strings.Trim(w, ".,;:!?\"'`()[]{}-。、「」")
		if len(w) >= 4 && !stopWords[w] {
			result = append(result, w)
		}
	}
	return result
}

var stopWords = map[string]bool{
	"that": true, "this": true, "with": true, "from": true,
	"have": true, "been": true, "were": true, "will": true,
	"would": true, "could": true, "should": true, "what": true,
	"when": true, "where": true, "which": true, "their": true,
	"there": true, "these": true, "those": true, "them": true,
	"then": true, "than": true, "some": true, "also": true,
	"into": true, "each": true, "make": true, "like": true,
	"just": true, "over": true, "such": true, "only": true,
	"very": true, "more": true, "most": true, "other": true,
	"about": true, "after": true, "before": true, "being": true,
}

// setIntersection returns elements present in both slices.
func setIntersection(a, b []string) []string {
	set := make(map[string]bool, len(a))
	for _, s := range a {
		set[s] = true
	}
	var result []string
	for _, s := range b {
		if set[s] {
			result = append(result, s)
			delete(set, s) // avoid duplicates
		}
	}
	return result
}
