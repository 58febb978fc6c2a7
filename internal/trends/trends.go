// Package trends buckets filed logs into ISO weeks and tracks how volume,
// fallback rate and tagging change over time.
package trends

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/suykerbuyk/logvault/internal/index"
)

// Metric names.
const (
	MetricLogs     = "logs"
	MetricFallback = "fallback %"
	MetricTags     = "tags/log"
)

// Polarity says which way a metric should move.
type Polarity int

const (
	Neutral Polarity = iota
	LowerIsBetter
	HigherIsBetter
)

// WeekBucket accumulates raw values for a single ISO week.
type WeekBucket struct {
	Year, Week int
	Start      time.Time // Monday of the ISO week

	Logs      int
	Fallbacks int
	TagCounts []float64 // structured logs only
}

// TrendPoint is a single data point in a metric time series.
type TrendPoint struct {
	WeekLabel  string  // "Jan 06", "Feb 17", etc.
	Value      float64 // per-week value
	RollingAvg float64 // 4-week rolling average (0 if < 4 weeks of data)
	Anomaly    bool    // >1.5 stddev from rolling avg
}

// MetricTrend holds the full time series for one metric.
type MetricTrend struct {
	Name       string
	Points     []TrendPoint // most recent first
	OverallAvg float64
	Direction  string  // improving, worsening, rising, falling or stable
	DeltaPct   float64 // percent change of the last 4 weeks vs the 4 before
}

// Result holds the complete trends analysis.
type Result struct {
	TotalLogs    int
	TotalWeeks   int
	DisplayWeeks int
	Project      string
	Metrics      []MetricTrend
}

// Compute builds trend analysis from index entries. Entries without a
// capture time are skipped; a project filter excludes fallbacks.
func Compute(entries map[string]index.Entry, project string, displayWeeks int) Result {
	if displayWeeks <= 0 {
		displayWeeks = 12
	}

	var valid []index.Entry
	for _, e := range entries {
		if project != "" && (e.Fallback || !strings.EqualFold(e.Project, project)) {
			continue
		}
		if e.CreatedAt.IsZero() {
			continue
		}
		valid = append(valid, e)
	}

	if len(valid) == 0 {
		return Result{Project: project, DisplayWeeks: displayWeeks}
	}

	bucketMap := make(map[[2]int]*WeekBucket)
	for _, e := range valid {
		year, week := e.CreatedAt.ISOWeek()
		key := [2]int{year, week}

		b, ok := bucketMap[key]
		if !ok {
			b = &WeekBucket{Year: year, Week: week, Start: isoWeekStart(year, week)}
			bucketMap[key] = b
		}
		b.Logs++

		if e.Fallback {
			b.Fallbacks++
			continue
		}
		b.TagCounts = append(b.TagCounts, float64(len(e.Tags)))
	}

	// Oldest first for the rolling average.
	buckets := make([]*WeekBucket, 0, len(bucketMap))
	for _, b := range bucketMap {
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Year != buckets[j].Year {
			return buckets[i].Year < buckets[j].Year
		}
		return buckets[i].Week < buckets[j].Week
	})

	logsPts := buildPoints(buckets, func(b *WeekBucket) (float64, bool) {
		return float64(b.Logs), true
	})
	fallbackPts := buildPoints(buckets, func(b *WeekBucket) (float64, bool) {
		return float64(b.Fallbacks) / float64(b.Logs) * 100, true
	})
	tagsPts := buildPoints(buckets, func(b *WeekBucket) (float64, bool) { return avg(b.TagCounts) })

	return Result{
		TotalLogs:    len(valid),
		TotalWeeks:   len(buckets),
		DisplayWeeks: displayWeeks,
		Project:      project,
		Metrics: []MetricTrend{
			buildMetric(MetricLogs, logsPts, displayWeeks, Neutral),
			buildMetric(MetricFallback, fallbackPts, displayWeeks, LowerIsBetter),
			buildMetric(MetricTags, tagsPts, displayWeeks, HigherIsBetter),
		},
	}
}

// buildPoints creates oldest-first TrendPoints from buckets.
func buildPoints(buckets []*WeekBucket, extract func(*WeekBucket) (float64, bool)) []TrendPoint {
	var pts []TrendPoint
	for _, b := range buckets {
		val, ok := extract(b)
		if !ok {
			continue
		}
		pts = append(pts, TrendPoint{
			WeekLabel: weekLabel(b.Start),
			Value:     val,
		})
	}
	return pts
}

// buildMetric computes rolling averages, anomalies, and direction for a metric.
func buildMetric(name string, pts []TrendPoint, displayWeeks int, p Polarity) MetricTrend {
	m := MetricTrend{Name: name}

	if len(pts) == 0 {
		m.Direction = "stable"
		return m
	}

	values := make([]float64, len(pts))
	for i := range pts {
		values[i] = pts[i].Value
	}

	for i := range pts {
		if i >= 3 {
			ra := rollingAvg(values, i, 4)
			pts[i].RollingAvg = ra

			sd := rollingStddev(values, i, 4)
			if sd > 0 && math.Abs(pts[i].Value-ra) > 1.5*sd {
				pts[i].Anomaly = true
			}
		}
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	m.OverallAvg = sum / float64(len(values))

	m.Direction, m.DeltaPct = metricDirection(values, p)

	// Most recent first, trimmed to displayWeeks.
	reversed := make([]TrendPoint, len(pts))
	for i, pt := range pts {
		reversed[len(pts)-1-i] = pt
	}
	if len(reversed) > displayWeeks {
		reversed = reversed[:displayWeeks]
	}
	m.Points = reversed

	return m
}

// metricDirection compares the last 4 values vs the previous 4.
func metricDirection(values []float64, p Polarity) (string, float64) {
	n := len(values)
	if n < 8 {
		return "stable", 0
	}

	recent := rollingAvg(values, n-1, 4)
	prev := rollingAvg(values, n-5, 4)

	if prev == 0 {
		return "stable", 0
	}

	delta := (recent - prev) / prev * 100

	if math.Abs(delta) < 10 {
		return "stable", delta
	}

	up := delta > 0
	switch p {
	case LowerIsBetter:
		if up {
			return "worsening", delta
		}
		return "improving", delta
	case HigherIsBetter:
		if up {
			return "improving", delta
		}
		return "worsening", delta
	default:
		if up {
			return "rising", delta
		}
		return "falling", delta
	}
}

// isoWeekStart returns the Monday of the given ISO year/week.
func isoWeekStart(year, week int) time.Time {
	// Jan 4 is always in week 1
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	weekday := jan4.Weekday()
	if weekday == time.Sunday {
		weekday = 7
	}
	monday := jan4.AddDate(0, 0, -int(weekday-time.Monday))
	return monday.AddDate(0, 0, (week-1)*7)
}

// weekLabel formats a date as "Jan 06".
func weekLabel(t time.Time) string {
	return t.Format("Jan 02")
}

// avg computes the arithmetic mean. Returns (0, false) if slice is empty.
func avg(vals []float64) (float64, bool) {
	if len(vals) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals)), true
}

// rollingAvg averages the `window` values ending at index `end` (inclusive).
func rollingAvg(values []float64, end, window int) float64 {
	start := max(end-window+1, 0)
	var sum float64
	count := 0
	for i := start; i <= end; i++ {
		sum += values[i]
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// rollingStddev is the standard deviation of the `window` values ending at `end`.
func rollingStddev(values []float64, end, window int) float64 {
	start := max(end-window+1, 0)
	mean := rollingAvg(values, end, window)
	var sumSq float64
	count := 0
	for i := start; i <= end; i++ {
		diff := values[i] - mean
		sumSq += diff * diff
		count++
	}
	if count < 2 {
		return 0
	}
	return math.Sqrt(sumSq / float64(count))
}
