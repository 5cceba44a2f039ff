package temporal

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohankatakam/orgpulse/internal/models"
)

func TestDailySummary(t *testing.T) {
	events := []models.TemporalEvent{
		event(t, "a", "2024-03-02T09:00:00Z", models.EventCommit),
		event(t, "b", "2024-03-02T10:00:00Z", models.EventPR),
		event(t, "a", "2024-03-02T11:00:00Z", models.EventIssue),
		event(t, "a", "2024-03-01T11:00:00Z", "other"),
	}

	days := DailySummary(events, nil)
	require.Len(t, days, 2)
	assert.Equal(t, DailyActivity{Date: "2024-03-01", Total: 1, ActiveUsers: 1}, days[0])
	assert.Equal(t, DailyActivity{Date: "2024-03-02", Commits: 1, Issues: 1, PRs: 1, Total: 3, ActiveUsers: 2}, days[1])
}

func TestHeatmapCellsAndBusiest(t *testing.T) {
	var h Heatmap
	h[time.Wednesday][14] = 5
	h[time.Monday][9] = 5
	h[time.Friday][17] = 2

	cells := h.Cells()
	require.Len(t, cells, 168)
	assert.Equal(t, "Sunday", cells[0].DayName)
	assert.Equal(t, 5, cells[int(time.Wednesday)*24+14].Count)

	day, hour, ok := h.Busiest()
	require.True(t, ok)
	assert.Equal(t, time.Monday, day)
	assert.Equal(t, 9, hour)

	_, _, ok = Heatmap{}.Busiest()
	assert.False(t, ok)
}

func TestSummarize(t *testing.T) {
	events := []models.TemporalEvent{
		event(t, "a", "2024-03-01T09:00:00Z", models.EventCommit),
		event(t, "b", "2024-03-03T10:00:00Z", models.EventCommit),
		event(t, "a", "2024-03-10T10:30:00Z", models.EventPR),
	}

	s := Summarize(events, nil, nil)
	assert.Equal(t, 3, s.TotalEvents)
	assert.Equal(t, 2, s.EventsByType["commit"])
	assert.Equal(t, 2, s.ActiveUsers)
	assert.Equal(t, DateRange{Start: "2024-03-01", End: "2024-03-10", Days: 10}, s.DateRange)
	assert.InDelta(t, 0.3, s.AvgDailyActivity, 1e-9)
	assert.Equal(t, "Sunday", s.BusiestDay)
	assert.Equal(t, 10, s.BusiestHour)
}

func TestSummarize_MixedOffsetsUseLocalDates(t *testing.T) {
	// the earlier instant falls on the later local date
	events := []models.TemporalEvent{
		event(t, "a", "2024-01-02T01:00:00+14:00", models.EventCommit),
		event(t, "b", "2024-01-01T20:00:00-05:00", models.EventCommit),
	}

	s := Summarize(events, nil, nil)
	assert.Equal(t, DateRange{Start: "2024-01-01", End: "2024-01-02", Days: 2}, s.DateRange)
	assert.InDelta(t, 1.0, s.AvgDailyActivity, 1e-9)

	_, err := json.Marshal(s)
	assert.NoError(t, err)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, nil, nil)
	assert.Equal(t, 0, s.TotalEvents)
	assert.Equal(t, 0.0, s.AvgDailyActivity)
	assert.Equal(t, 0, s.DateRange.Days)
}

func TestActivitySpans(t *testing.T) {
	events := []models.TemporalEvent{
		event(t, "a", "2024-03-05T09:00:00Z", models.EventCommit),
		event(t, "a", "2024-03-01T09:00:00Z", models.EventCommit),
		event(t, "a", "2024-03-05T19:00:00Z", models.EventPR),
		event(t, "b", "2024-03-02T09:00:00Z", models.EventIssue),
	}

	spans := ActivitySpans(events, nil)
	require.Len(t, spans, 2)
	assert.Equal(t, "a", spans[0].User)
	assert.Equal(t, 3, spans[0].Events)
	assert.Equal(t, 2, spans[0].ActiveDays)
	assert.Equal(t, 1, spans[0].Repos)
	assert.Equal(t, at(t, "2024-03-01T09:00:00Z"), spans[0].FirstSeen)
	assert.Equal(t, at(t, "2024-03-05T19:00:00Z"), spans[0].LastSeen)
}
