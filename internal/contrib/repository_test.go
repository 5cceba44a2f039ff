package contrib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohankatakam/orgpulse/internal/models"
)

func TestByRepository(t *testing.T) {
	events := []models.TemporalEvent{
		ev("alice", "api", models.EventCommit),
		ev("bob", "api", models.EventIssue),
		ev("bob", "api", models.EventPR),
		ev("alice", "web", "mystery"),
	}

	repos := ByRepository(events)
	require.Len(t, repos, 2)

	api := repos[0]
	assert.Equal(t, "api", api.Repo)
	assert.Equal(t, 1, api.Commits)
	assert.Equal(t, 1, api.Issues)
	assert.Equal(t, 1, api.PRs)
	assert.Equal(t, 3, api.TotalEvents)
	assert.Equal(t, 2, api.Contributors)

	web := repos[1]
	assert.Equal(t, 1, web.TotalEvents)
	assert.Equal(t, 0, web.Commits+web.Issues+web.PRs)
}

func TestDistribute(t *testing.T) {
	metrics := []models.ContributionMetrics{
		{User: "a", TotalContributions: 2, HasContributed: true},
		{User: "b", TotalContributions: 4, HasContributed: true},
		{User: "c", TotalContributions: 6, HasContributed: true},
		{User: "d"},
	}

	d := Distribute(metrics)
	assert.Equal(t, 4, d.TotalUsers)
	assert.Equal(t, 3, d.Contributors)
	assert.Equal(t, 1, d.NonContributors)
	assert.InDelta(t, 0.75, d.ParticipationRate, 1e-9)
	assert.InDelta(t, 4.0, d.Mean, 1e-9)
	assert.InDelta(t, 4.0, d.Median, 1e-9)
	assert.InDelta(t, 6.0, d.Max, 1e-9)
	assert.InDelta(t, 1.632993, d.StdDev, 1e-6)
}

func TestDistribute_EmptySetsAreNeutral(t *testing.T) {
	assert.Equal(t, Distribution{}, Distribute(nil))

	d := Distribute([]models.ContributionMetrics{{User: "idle"}})
	assert.Equal(t, 1, d.TotalUsers)
	assert.Equal(t, 0.0, d.ParticipationRate)
	assert.Equal(t, 0.0, d.Mean)
}
