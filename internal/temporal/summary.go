package temporal

import (
	"sort"
	"time"

	"github.com/rohankatakam/orgpulse/internal/models"
)

// DailyActivity aggregates one calendar date
type DailyActivity struct {
	Date        string `json:"date" csv:"date"`
	Commits     int    `json:"commits" csv:"commits"`
	Issues      int    `json:"issues" csv:"issues"`
	PRs         int    `json:"prs" csv:"prs"`
	Total       int    `json:"total" csv:"total"`
	ActiveUsers int    `json:"active_users" csv:"active_users"`
}

// DailySummary aggregates events per calendar date, ascending
func DailySummary(events []models.TemporalEvent, loc *time.Location) []DailyActivity {
	f := Filter{Location: loc}
	days := make(map[string]*DailyActivity)
	users := make(map[string]map[string]struct{})

	for _, ev := range events {
		date := f.local(ev.Date).Format(DateLayout)
		d, ok := days[date]
		if !ok {
			d = &DailyActivity{Date: date}
			days[date] = d
			users[date] = make(map[string]struct{})
		}
		d.Total++
		users[date][ev.User] = struct{}{}
		switch ev.Type {
		case models.EventCommit:
			d.Commits++
		case models.EventIssue:
			d.Issues++
		case models.EventPR:
			d.PRs++
		}
	}

	out := make([]DailyActivity, 0, len(days))
	for date, d := range days {
		d.ActiveUsers = len(users[date])
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})
	return out
}

// HeatmapCell is one weekday/hour bucket in flattened form
type HeatmapCell struct {
	Day     int    `json:"day"`
	DayName string `json:"day_name"`
	Hour    int    `json:"hour"`
	Count   int    `json:"count"`
}

// Cells flattens the grid into 168 cells, Sunday 00h first
func (h Heatmap) Cells() []HeatmapCell {
	cells := make([]HeatmapCell, 0, 7*24)
	for day := 0; day < 7; day++ {
		for hour := 0; hour < 24; hour++ {
			cells = append(cells, HeatmapCell{
				Day:     day,
				DayName: time.Weekday(day).String(),
				Hour:    hour,
				Count:   h[day][hour],
			})
		}
	}
	return cells
}

// Busiest returns the weekday and hour with the most events. Ties resolve
// to the earliest cell; an empty grid reports Sunday 0h and false.
func (h Heatmap) Busiest() (time.Weekday, int, bool) {
	bestDay, bestHour, best := 0, 0, 0
	for day := 0; day < 7; day++ {
		for hour := 0; hour < 24; hour++ {
			if h[day][hour] > best {
				bestDay, bestHour, best = day, hour, h[day][hour]
			}
		}
	}
	return time.Weekday(bestDay), bestHour, best > 0
}

// DateRange is the span of calendar dates covered by a set of events
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Days  int    `json:"days"`
}

// Statistics summarizes the temporal dataset
type Statistics struct {
	TotalEvents      int            `json:"total_events"`
	EventsByType     map[string]int `json:"events_by_type"`
	ActiveUsers      int            `json:"active_users"`
	DateRange        DateRange      `json:"date_range"`
	AvgDailyActivity float64        `json:"avg_daily_activity"`
	BusiestDay       string         `json:"busiest_day,omitempty"`
	BusiestHour      int            `json:"busiest_hour"`
	CycleTimes       CycleSummary   `json:"cycle_times"`
}

// Summarize computes dataset-wide statistics. DateRange.Days counts the
// inclusive calendar days between the first and last event, and the daily
// average divides by it; both are 0 without events.
func Summarize(events []models.TemporalEvent, cycles []CycleTime, loc *time.Location) Statistics {
	s := Statistics{
		TotalEvents:  len(events),
		EventsByType: make(map[string]int),
		CycleTimes:   SummarizeCycles(cycles),
	}

	f := Filter{Location: loc}
	users := make(map[string]struct{})
	var first, last time.Time
	for i, ev := range events {
		s.EventsByType[string(ev.Type)]++
		users[ev.User] = struct{}{}
		// compare local dates, not instants: offsets may differ per event
		day := calendarDay(f.local(ev.Date))
		if i == 0 || day.Before(first) {
			first = day
		}
		if i == 0 || day.After(last) {
			last = day
		}
	}
	s.ActiveUsers = len(users)

	if len(events) == 0 {
		return s
	}

	days := int(last.Sub(first).Hours()/24) + 1
	if days < 1 {
		days = 1
	}
	s.DateRange = DateRange{
		Start: first.Format(DateLayout),
		End:   last.Format(DateLayout),
		Days:  days,
	}
	s.AvgDailyActivity = float64(len(events)) / float64(days)

	if day, hour, ok := HeatmapFor(events, f).Busiest(); ok {
		s.BusiestDay = day.String()
		s.BusiestHour = hour
	}
	return s
}

// calendarDay maps t's local calendar date onto UTC midnight so that day
// differences are not skewed by mixed offsets or DST.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
