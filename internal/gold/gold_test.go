package gold

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohankatakam/orgpulse/internal/collab"
	"github.com/rohankatakam/orgpulse/internal/models"
	"github.com/rohankatakam/orgpulse/internal/temporal"
)

func metric(user string, total int) models.ContributionMetrics {
	return models.ContributionMetrics{User: user, TotalContributions: total, Commits: total, HasContributed: total > 0}
}

func TestBuildDashboard(t *testing.T) {
	in := Inputs{
		Members: []models.MemberAnalytics{
			{Login: "a", Status: models.StatusNew},
			{Login: "b", Status: models.StatusEstablished},
			{Login: "c", Status: models.StatusEstablished},
		},
		Contributions: []models.ContributionMetrics{metric("a", 5), metric("b", 0), metric("c", 9), metric("x", 1)},
		Network:       collab.Statistics{TotalCollaborations: 4, CrossRepoContributors: 2, AvgCollaboratorsPerUser: 1.5},
		Temporal: temporal.Statistics{
			TotalEvents:      15,
			AvgDailyActivity: 1.5,
			DateRange:        temporal.DateRange{Days: 10},
			BusiestDay:       "Monday",
			BusiestHour:      10,
			CycleTimes:       temporal.CycleSummary{MedianHours: 6},
		},
	}

	d := BuildDashboard(in, 2)
	assert.Equal(t, OrganizationHealth{TotalMembers: 3, ActiveContributors: 3, NewMembers: 1, EstablishedMembers: 2}, d.OrganizationHealth)
	assert.Equal(t, 4, d.CollaborationMetrics.TotalCollaborations)
	assert.Equal(t, 10, d.ActivityMetrics.DateRangeDays)
	assert.Equal(t, 6.0, d.ActivityMetrics.MedianCycleHours)
	require.Len(t, d.TopContributors, 2)
	assert.Equal(t, "c", d.TopContributors[0].User)
	assert.Equal(t, "a", d.TopContributors[1].User)
}

func TestBuildDashboard_Empty(t *testing.T) {
	d := BuildDashboard(Inputs{}, 10)
	assert.Equal(t, OrganizationHealth{}, d.OrganizationHealth)
	assert.NotNil(t, d.TopContributors)
	assert.Empty(t, d.TopContributors)
}

func TestBuildTiers(t *testing.T) {
	var metrics []models.ContributionMetrics
	for i := 1; i <= 20; i++ {
		metrics = append(metrics, metric(fmt.Sprintf("u%02d", i), i))
	}
	metrics = append(metrics, metric("idle", 0))

	tiers, ok := BuildTiers(metrics)
	require.True(t, ok)

	// descending totals 20..1: index 2 -> 18, index 5 -> 15
	assert.Equal(t, 18, tiers.TopThreshold)
	assert.Equal(t, 15, tiers.RegularThreshold)
	assert.Len(t, tiers.TopPerformers, 3)
	assert.Len(t, tiers.Regular, 3)
	assert.Len(t, tiers.Occasional, 14)
	require.Len(t, tiers.NonContributors, 1)
	assert.Equal(t, "idle", tiers.NonContributors[0].User)
	assert.Equal(t, "u20", tiers.TopPerformers[0].User)
}

func TestBuildTiers_SingleContributor(t *testing.T) {
	tiers, ok := BuildTiers([]models.ContributionMetrics{metric("a", 3), metric("b", 0)})
	require.True(t, ok)
	assert.Equal(t, 3, tiers.TopThreshold)
	assert.Len(t, tiers.TopPerformers, 1)
	assert.Len(t, tiers.NonContributors, 1)
}

func TestBuildTiers_NoContributors(t *testing.T) {
	_, ok := BuildTiers([]models.ContributionMetrics{metric("a", 0)})
	assert.False(t, ok)
}
