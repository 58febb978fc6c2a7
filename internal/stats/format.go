package stats

import (
	"fmt"
	"strings"
)

// listLimit caps the project and tag sections.
const listLimit = 5

// Format renders a Summary as aligned terminal output.
func Format(s Summary, project string) string {
	if s.TotalLogs == 0 {
		if project != "" {
			return fmt.Sprintf("lv stats --project %s\n\n  No logs found for project %q.\n", project, project)
		}
		return "lv stats\n\n  No logs found. Run `lv file` or `lv index rebuild` first.\n"
	}

	var b strings.Builder

	if project != "" {
		fmt.Fprintf(&b, "lv stats --project %s\n", project)
	} else {
		b.WriteString("lv stats\n")
	}

	b.WriteString("\nOverview\n")
	fmt.Fprintf(&b, "  %-20s %s\n", "logs", formatInt(s.TotalLogs))
	if project == "" {
		fmt.Fprintf(&b, "  %-20s %d\n", "projects", s.ActiveProjects)
	}
	fmt.Fprintf(&b, "  %-20s %s\n", "structured", formatInt(s.Structured))
	fmt.Fprintf(&b, "  %-20s %s (%.1f%%)\n", "fallbacks", formatInt(s.Fallbacks), s.FallbackRate)
	fmt.Fprintf(&b, "  %-20s %s\n", "archived", formatInt(s.Archived))

	if project == "" {
		writeTop(&b, "Projects", s.Projects, "logs")
	}
	writeAll(&b, "Categories", s.Categories)
	writeAll(&b, "Models", s.Models)
	writeTop(&b, "Tags", s.Tags, "")
	writeAll(&b, "Fallback Stages", s.Stages)

	if len(s.Monthly) > 0 {
		b.WriteString("\nMonthly Trend\n")
		for _, m := range s.Monthly {
			fmt.Fprintf(&b, "  %-12s %3d logs\n", m.Name, m.Count)
		}
	}

	return b.String()
}

func writeAll(b *strings.Builder, title string, cs []Count) {
	if len(cs) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s\n", title)
	for _, c := range cs {
		fmt.Fprintf(b, "  %-24s %3d (%d%%)\n", c.Name, c.Count, int(c.Percent+0.5))
	}
}

func writeTop(b *strings.Builder, title string, cs []Count, unit string) {
	if len(cs) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s\n", title)
	limit := min(len(cs), listLimit)
	for _, c := range cs[:limit] {
		if unit != "" {
			fmt.Fprintf(b, "  %-24s %3d %s\n", c.Name, c.Count, unit)
		} else {
			fmt.Fprintf(b, "  %-24s %3d (%d%%)\n", c.Name, c.Count, int(c.Percent+0.5))
		}
	}
	if len(cs) > listLimit {
		fmt.Fprintf(b, "  ... and %d more\n", len(cs)-listLimit)
	}
}

// formatInt formats an integer with comma separators.
func formatInt(n int) string {
	if n < 0 {
		return "0"
	}
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var result []byte
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}
	return string(result)
}
