package collab

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohankatakam/orgpulse/internal/models"
)

func ev(user, repo string) models.TemporalEvent {
	return models.TemporalEvent{Date: time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC), Type: models.EventCommit, User: user, Repo: repo}
}

func TestBuildGraph_SharedRepoOnly(t *testing.T) {
	edges := BuildGraph([]models.TemporalEvent{ev("a", "r1"), ev("b", "r1"), ev("a", "r2")})

	require.Len(t, edges, 1)
	assert.Equal(t, models.CollaborationEdge{Source: "a", Target: "b", Weight: 1}, edges[0])
}

func TestBuildGraph_WeightCountsDistinctRepos(t *testing.T) {
	var events []models.TemporalEvent
	for i := 0; i < 50; i++ {
		events = append(events, ev("zed", "r1"), ev("amy", "r1"))
	}
	events = append(events, ev("amy", "r2"), ev("zed", "r2"), ev("amy", "r3"), ev("zed", "r3"))

	edges := BuildGraph(events)
	require.Len(t, edges, 1)
	assert.Equal(t, "amy", edges[0].Source)
	assert.Equal(t, "zed", edges[0].Target)
	assert.Equal(t, 3, edges[0].Weight)
}

func TestBuildGraph_SingleUserRepoHasNoEdges(t *testing.T) {
	assert.Empty(t, BuildGraph([]models.TemporalEvent{ev("solo", "r1"), ev("solo", "r1")}))
	assert.Empty(t, BuildGraph(nil))
}

func TestBuildGraph_TypeIsIgnored(t *testing.T) {
	a := ev("a", "r1")
	b := ev("b", "r1")
	b.Type = "not-a-type"

	edges := BuildGraph([]models.TemporalEvent{a, b})
	require.Len(t, edges, 1)
}

func TestBuildGraph_CaseInsensitiveIdentity(t *testing.T) {
	assert.Empty(t, BuildGraph([]models.TemporalEvent{ev("Alice", "r1"), ev("alice", "r1")}))
}

func TestBuildGraph_Invariants(t *testing.T) {
	var events []models.TemporalEvent
	for r := 0; r < 6; r++ {
		for u := 0; u <= r; u++ {
			events = append(events, ev(fmt.Sprintf("user%d", u), fmt.Sprintf("repo%d", r)))
		}
	}

	edges := BuildGraph(events)
	seen := make(map[[2]string]bool)
	for _, e := range edges {
		assert.NotEqual(t, e.Source, e.Target)
		assert.Less(t, e.Source, e.Target)
		assert.GreaterOrEqual(t, e.Weight, 1)

		key := [2]string{e.Source, e.Target}
		assert.False(t, seen[key], "duplicate pair %v", key)
		seen[key] = true
	}

	// user0 and user1 share repo1..repo5
	for _, e := range edges {
		if e.Source == "user0" && e.Target == "user1" {
			assert.Equal(t, 5, e.Weight)
		}
	}
	assert.Equal(t, edges, BuildGraph(events))
}

func TestSortEdges(t *testing.T) {
	edges := []models.CollaborationEdge{
		{Source: "b", Target: "c", Weight: 1},
		{Source: "a", Target: "c", Weight: 1},
		{Source: "a", Target: "b", Weight: 4},
	}
	SortEdges(edges)
	assert.Equal(t, "b", edges[0].Target)
	assert.Equal(t, "a", edges[1].Source)
	assert.Equal(t, "b", edges[2].Source)
}
