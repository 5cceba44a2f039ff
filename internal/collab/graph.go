package collab

import (
	"sort"

	"github.com/rohankatakam/orgpulse/internal/models"
)

type pairKey struct {
	a, b string
}

// RepoContributors maps each repository to the distinct users that acted on
// it. Event type plays no part in membership.
func RepoContributors(events []models.TemporalEvent) map[string]map[string]struct{} {
	repos := make(map[string]map[string]struct{})
	for _, ev := range events {
		user := models.CanonicalLogin(ev.User)
		if user == "" {
			continue
		}
		users, ok := repos[ev.Repo]
		if !ok {
			users = make(map[string]struct{})
			repos[ev.Repo] = users
		}
		users[user] = struct{}{}
	}
	return repos
}

// BuildGraph links every pair of distinct users sharing a repository.
// Weight is the number of distinct shared repositories, so repeated activity
// inside one repo never adds more than one.
func BuildGraph(events []models.TemporalEvent) []models.CollaborationEdge {
	return edgesFrom(RepoContributors(events))
}

func edgesFrom(repos map[string]map[string]struct{}) []models.CollaborationEdge {
	weights := make(map[pairKey]int)
	for _, users := range repos {
		list := sortedUsers(users)
		for i := 0; i < len(list); i++ {
			for j := i + 1; j < len(list); j++ {
				weights[pairKey{list[i], list[j]}]++
			}
		}
	}

	edges := make([]models.CollaborationEdge, 0, len(weights))
	for k, w := range weights {
		if w <= 0 {
			continue
		}
		edges = append(edges, models.CollaborationEdge{Source: k.a, Target: k.b, Weight: w})
	}
	SortEdges(edges)
	return edges
}

// SortEdges orders edges by weight descending, then source and target
func SortEdges(edges []models.CollaborationEdge) {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Weight != edges[j].Weight {
			return edges[i].Weight > edges[j].Weight
		}
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Target < edges[j].Target
	})
}

func sortedUsers(users map[string]struct{}) []string {
	list := make([]string, 0, len(users))
	for u := range users {
		list = append(list, u)
	}
	sort.Strings(list)
	return list
}
