package collab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohankatakam/orgpulse/internal/models"
)

func TestAnalyze(t *testing.T) {
	events := []models.TemporalEvent{
		ev("alice", "api"), ev("bob", "api"), ev("carol", "api"),
		ev("alice", "web"), ev("dave", "web"),
		ev("erin", "docs"),
	}

	n := Analyze(events)

	require.Len(t, n.Edges, 4)
	assert.Equal(t, 4, n.Statistics.TotalCollaborations)
	assert.Equal(t, 3, n.Statistics.TotalRepositories)
	assert.Equal(t, 4, n.Statistics.TotalUsers)
	assert.Equal(t, 1, n.Statistics.CrossRepoContributors)
	assert.InDelta(t, 2.0, n.Statistics.AvgContributorsPerRepo, 1e-9)
	assert.InDelta(t, 2.0, n.Statistics.AvgCollaboratorsPerUser, 1e-9)

	require.NotEmpty(t, n.Users)
	top := n.Users[0]
	assert.Equal(t, "alice", top.User)
	assert.Equal(t, 3, top.CollaboratorCount)
	assert.Equal(t, []string{"bob", "carol", "dave"}, top.Collaborators)
	assert.Equal(t, 2, top.RepositoriesContributed)

	require.Len(t, n.Hubs, 1)
	assert.Equal(t, "alice", n.Hubs[0].User)
	assert.Equal(t, []string{"api", "web"}, n.Hubs[0].Repositories)

	require.Len(t, n.Repos, 3)
	assert.Equal(t, "api", n.Repos[0].Repo)
	assert.Equal(t, 3, n.Repos[0].PotentialCollaborations)
	assert.Equal(t, 1.0, n.Repos[0].CollaborationDensity)

	docs := n.Repos[2]
	assert.Equal(t, "docs", docs.Repo)
	assert.Equal(t, 0, docs.PotentialCollaborations)
	assert.Equal(t, 0.0, docs.CollaborationDensity)
}

func TestAnalyze_Empty(t *testing.T) {
	n := Analyze(nil)
	assert.Empty(t, n.Edges)
	assert.NotNil(t, n.Users)
	assert.NotNil(t, n.Hubs)
	assert.Equal(t, Statistics{}, n.Statistics)
}
