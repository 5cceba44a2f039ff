package temporal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohankatakam/orgpulse/internal/models"
)

func TestCycleTimes(t *testing.T) {
	issues := []models.RawIssue{
		{Number: 1, Author: "A", Repo: "api", CreatedAt: "2024-03-01T00:00:00Z", ClosedAt: "2024-03-02T00:00:00Z"},
		{Number: 2, Author: "b", Repo: "api", CreatedAt: "2024-03-01T00:00:00Z"},
		{Number: 3, Author: "b", Repo: "api", CreatedAt: "2024-03-05T00:00:00Z", ClosedAt: "2024-03-01T00:00:00Z"},
	}
	prs := []models.RawPullRequest{
		{Number: 4, Author: "c", Repo: "web", CreatedAt: "2024-03-01T00:00:00Z", MergedAt: "2024-03-01T06:00:00Z"},
	}

	cycles := CycleTimes(issues, prs)
	require.Len(t, cycles, 2)

	assert.Equal(t, models.EventPR, cycles[0].Type)
	assert.InDelta(t, 6.0, cycles[0].Hours, 1e-9)
	assert.Equal(t, "a", cycles[1].Author)
	assert.InDelta(t, 24.0, cycles[1].Hours, 1e-9)
}

func TestSummarizeCycles(t *testing.T) {
	cycles := []CycleTime{
		{Type: models.EventIssue, Hours: 10},
		{Type: models.EventIssue, Hours: 30},
		{Type: models.EventPR, Hours: 2},
	}

	s := SummarizeCycles(cycles)
	assert.Equal(t, 3, s.Count)
	assert.InDelta(t, 14.0, s.MeanHours, 1e-9)
	assert.InDelta(t, 10.0, s.MedianHours, 1e-9)
	assert.InDelta(t, 30.0, s.P90Hours, 1e-9)
	assert.InDelta(t, 20.0, s.IssueMedianHours, 1e-9)
	assert.InDelta(t, 2.0, s.PRMedianHours, 1e-9)

	assert.Equal(t, CycleSummary{}, SummarizeCycles(nil))
}
