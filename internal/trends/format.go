package trends

import (
	"fmt"
	"strings"
)

// Format renders a Result as aligned terminal output.
func Format(r Result) string {
	if r.TotalLogs == 0 {
		if r.Project != "" {
			return fmt.Sprintf("lv trends --project %s\n\n  No logs found for project %q.\n", r.Project, r.Project)
		}
		return "lv trends\n\n  No logs found. Run `lv file` or `lv index rebuild` first.\n"
	}

	var b strings.Builder

	if r.Project != "" {
		fmt.Fprintf(&b, "lv trends --project %s\n", r.Project)
	} else {
		b.WriteString("lv trends\n")
	}

	fmt.Fprintf(&b, "\nOverview (%d logs, %d weeks)\n", r.TotalLogs, r.TotalWeeks)
	for _, m := range r.Metrics {
		detail := ""
		if m.Direction != "stable" && m.DeltaPct != 0 {
			detail = fmt.Sprintf(" (%+.0f%%)", m.DeltaPct)
		}
		fmt.Fprintf(&b, "  %-16s %8s avg  %s %s%s\n",
			m.Name, formatValue(m.Name, m.OverallAvg), directionArrow(m), m.Direction, detail)
	}

	for _, m := range r.Metrics {
		if len(m.Points) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s\n", metricTitle(m.Name))
		fmt.Fprintf(&b, "  %-10s %8s %8s\n", "Week", "Value", "Avg")
		for _, p := range m.Points {
			avgStr := ""
			if p.RollingAvg > 0 {
				avgStr = formatValue(m.Name, p.RollingAvg)
			}
			fmt.Fprintf(&b, "  %-10s %8s %8s%s\n", p.WeekLabel, formatValue(m.Name, p.Value), avgStr, anomalyMarker(p))
		}
	}

	var anomalies []string
	for _, m := range r.Metrics {
		for _, p := range m.Points {
			if !p.Anomaly {
				continue
			}
			kind := "spike"
			if p.RollingAvg > 0 && p.Value < p.RollingAvg {
				kind = "dip"
			}
			anomalies = append(anomalies, fmt.Sprintf("  %-10s %-14s %s (avg %s)  %s",
				p.WeekLabel, m.Name, formatValue(m.Name, p.Value), formatValue(m.Name, p.RollingAvg), kind))
		}
	}
	if len(anomalies) > 0 {
		b.WriteString("\nAnomalies\n")
		for _, a := range anomalies {
			b.WriteString(a)
			b.WriteByte('\n')
		}
	}

	return b.String()
}

func anomalyMarker(p TrendPoint) string {
	if !p.Anomaly {
		return ""
	}
	if p.RollingAvg > 0 && p.Value > p.RollingAvg {
		return "  ^ spike"
	}
	return "  v dip"
}

func directionArrow(m MetricTrend) string {
	switch {
	case m.Direction == "stable":
		return "→"
	case m.DeltaPct > 0:
		return "↑"
	default:
		return "↓"
	}
}

func metricTitle(name string) string {
	switch name {
	case MetricLogs:
		return "Logs per Week"
	case MetricFallback:
		return "Fallback Rate (%)"
	case MetricTags:
		return "Tags per Log"
	default:
		return name
	}
}

func formatValue(metric string, val float64) string {
	switch metric {
	case MetricLogs:
		return fmt.Sprintf("%d", int(val+0.5))
	default:
		return fmt.Sprintf("%.1f", val)
	}
}
