package temporal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohankatakam/orgpulse/internal/models"
)

func at(t *testing.T, ts string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, ts)
	require.NoError(t, err)
	return parsed
}

func event(t *testing.T, user, ts string, typ models.EventType) models.TemporalEvent {
	return models.TemporalEvent{Date: at(t, ts), Type: typ, User: user, Repo: "api"}
}

func TestBucketHeatmap_MemberFilter(t *testing.T) {
	events := []models.TemporalEvent{
		event(t, "a", "2024-03-04T10:00:00Z", models.EventCommit),
		event(t, "a", "2024-03-05T11:00:00Z", models.EventPR),
		event(t, "b", "2024-03-05T11:00:00Z", models.EventCommit),
	}

	h := BucketHeatmap(events, "a", time.Time{})
	assert.Equal(t, 2, h.Total())
	assert.Equal(t, 1, h[time.Monday][10])
	assert.Equal(t, 1, h[time.Tuesday][11])

	assert.Equal(t, 3, BucketHeatmap(events, AllMembers, time.Time{}).Total())
	assert.Equal(t, 3, BucketHeatmap(events, "", time.Time{}).Total())
	assert.Equal(t, 2, BucketHeatmap(events, "A", time.Time{}).Total())
}

func TestBucketHeatmap_SinceIsInclusive(t *testing.T) {
	events := []models.TemporalEvent{
		event(t, "a", "2024-03-04T10:00:00Z", models.EventCommit),
		event(t, "a", "2024-03-05T11:00:00Z", models.EventCommit),
		event(t, "a", "2024-03-06T12:00:00Z", models.EventCommit),
	}

	h := BucketHeatmap(events, AllMembers, at(t, "2024-03-05T11:00:00Z"))
	assert.Equal(t, 2, h.Total())
	assert.Equal(t, 0, h[time.Monday][10])
}

func TestBucketHeatmap_UsesEncodedOffset(t *testing.T) {
	events := []models.TemporalEvent{event(t, "a", "2024-03-01T23:30:00-05:00", models.EventCommit)}

	h := BucketHeatmap(events, AllMembers, time.Time{})
	assert.Equal(t, 1, h[time.Friday][23])

	utc := HeatmapFor(events, Filter{Location: time.UTC})
	assert.Equal(t, 1, utc[time.Saturday][4])
}

func TestHeatmap_TotalMatchesFilteredCount(t *testing.T) {
	var events []models.TemporalEvent
	base := at(t, "2024-01-01T00:00:00Z")
	for i := 0; i < 500; i++ {
		events = append(events, models.TemporalEvent{
			Date: base.Add(time.Duration(i*37) * time.Minute),
			Type: models.EventCommit,
			User: []string{"a", "b", "c"}[i%3],
		})
	}

	f := Filter{Member: "b", Since: base.Add(24 * time.Hour)}
	assert.Equal(t, len(Apply(events, f)), HeatmapFor(events, f).Total())
}

func TestBucketTimeSeries(t *testing.T) {
	events := []models.TemporalEvent{
		event(t, "a", "2024-03-10T09:00:00Z", models.EventCommit),
		event(t, "a", "2024-03-02T09:00:00Z", models.EventCommit),
		event(t, "b", "2024-03-02T18:00:00Z", models.EventIssue),
		event(t, "b", "2024-03-10T23:59:00Z", models.EventCommit),
	}

	all := BucketTimeSeries(events, "")
	assert.Equal(t, []Point{{Date: "2024-03-02", Count: 2}, {Date: "2024-03-10", Count: 2}}, all)

	commits := BucketTimeSeries(events, models.EventCommit)
	assert.Equal(t, []Point{{Date: "2024-03-02", Count: 1}, {Date: "2024-03-10", Count: 2}}, commits)

	assert.Empty(t, BucketTimeSeries(nil, ""))
}

func TestBucketTimeSeries_DateInEncodedOffset(t *testing.T) {
	events := []models.TemporalEvent{event(t, "a", "2024-03-01T23:30:00-05:00", models.EventCommit)}
	assert.Equal(t, "2024-03-01", BucketTimeSeries(events, "")[0].Date)
}

func TestSortByDate(t *testing.T) {
	events := []models.TemporalEvent{
		event(t, "late", "2024-03-03T00:00:00Z", models.EventCommit),
		event(t, "early", "2024-03-01T00:00:00Z", models.EventCommit),
	}
	SortByDate(events)
	assert.Equal(t, "early", events[0].User)
}
