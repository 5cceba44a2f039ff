package temporal

import (
	"sort"
	"time"

	"github.com/rohankatakam/orgpulse/internal/models"
)

// AllMembers is the member filter value that disables member filtering
const AllMembers = "all"

// DateLayout is the zero-padded calendar date used for series keys
const DateLayout = "2006-01-02"

// Filter selects events before bucketing. Zero values disable each criterion.
type Filter struct {
	Member string
	Since  time.Time // inclusive lower bound
	Type   models.EventType

	// Location overrides the zone used for day and hour buckets.
	// Nil keeps the offset encoded in each event timestamp.
	Location *time.Location
}

func (f Filter) memberSet() bool {
	return f.Member != "" && f.Member != AllMembers
}

// Apply returns the events matching f, in input order
func Apply(events []models.TemporalEvent, f Filter) []models.TemporalEvent {
	member := models.CanonicalLogin(f.Member)
	out := make([]models.TemporalEvent, 0, len(events))
	for _, ev := range events {
		if f.memberSet() && models.CanonicalLogin(ev.User) != member {
			continue
		}
		if !f.Since.IsZero() && ev.Date.Before(f.Since) {
			continue
		}
		if f.Type != "" && ev.Type != f.Type {
			continue
		}
		out = append(out, ev)
	}
	return out
}

func (f Filter) local(t time.Time) time.Time {
	if f.Location == nil {
		return t
	}
	return t.In(f.Location)
}

// Heatmap counts events by weekday (0 = Sunday) and hour of day
type Heatmap [7][24]int

// Total sums every cell
func (h Heatmap) Total() int {
	total := 0
	for _, row := range h {
		for _, c := range row {
			total += c
		}
	}
	return total
}

// BucketHeatmap filters by member (unless empty or "all") and by since
// (unless zero), then buckets by each timestamp's own day and hour.
func BucketHeatmap(events []models.TemporalEvent, memberFilter string, since time.Time) Heatmap {
	return HeatmapFor(events, Filter{Member: memberFilter, Since: since})
}

// HeatmapFor buckets the events selected by f
func HeatmapFor(events []models.TemporalEvent, f Filter) Heatmap {
	var h Heatmap
	for _, ev := range Apply(events, f) {
		t := f.local(ev.Date)
		h[int(t.Weekday())][t.Hour()]++
	}
	return h
}

// Point is one day of a time series
type Point struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// BucketTimeSeries counts events per calendar date, ascending. An empty
// type counts every event.
func BucketTimeSeries(events []models.TemporalEvent, typ models.EventType) []Point {
	return TimeSeriesFor(events, Filter{Type: typ})
}

// TimeSeriesFor counts the events selected by f per calendar date
func TimeSeriesFor(events []models.TemporalEvent, f Filter) []Point {
	counts := make(map[string]int)
	for _, ev := range Apply(events, f) {
		counts[f.local(ev.Date).Format(DateLayout)]++
	}

	series := make([]Point, 0, len(counts))
	for date, n := range counts {
		series = append(series, Point{Date: date, Count: n})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date < series[j].Date
	})
	return series
}

// SortByDate orders events chronologically, keeping ties in input order
func SortByDate(events []models.TemporalEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})
}
