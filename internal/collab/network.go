package collab

import (
	"sort"

	"github.com/rohankatakam/orgpulse/internal/models"
)

// UserMetrics describes one user's place in the collaboration network
type UserMetrics struct {
	User                    string   `json:"user"`
	CollaboratorCount       int      `json:"collaborator_count"`
	Collaborators           []string `json:"collaborators"`
	RepositoriesContributed int      `json:"repositories_contributed"`
}

// RepoAnalysis describes collaboration inside one repository
type RepoAnalysis struct {
	Repo                    string   `json:"repo"`
	ContributorCount        int      `json:"contributor_count"`
	Contributors            []string `json:"contributors"`
	PotentialCollaborations int      `json:"potential_collaborations"`
	ActualCollaborations    int      `json:"actual_collaborations"`
	CollaborationDensity    float64  `json:"collaboration_density"`
}

// Hub is a user active in more than one repository
type Hub struct {
	User               string   `json:"user"`
	Repositories       []string `json:"repositories"`
	RepoCount          int      `json:"repo_count"`
	TotalCollaborators int      `json:"total_collaborators"`
}

// Statistics summarizes the network topology
type Statistics struct {
	TotalUsers              int     `json:"total_users"`
	TotalCollaborations     int     `json:"total_collaborations"`
	TotalRepositories       int     `json:"total_repositories"`
	CrossRepoContributors   int     `json:"cross_repo_contributors"`
	AvgCollaboratorsPerUser float64 `json:"avg_collaborators_per_user"`
	AvgContributorsPerRepo  float64 `json:"avg_contributors_per_repo"`
}

// Network holds every collaboration dataset derived from one event set
type Network struct {
	Edges      []models.CollaborationEdge
	Users      []UserMetrics
	Repos      []RepoAnalysis
	Hubs       []Hub
	Statistics Statistics
}

// Analyze derives the edge list and the per-user, per-repo and summary views.
// Users only appear in Users when they have at least one collaborator.
func Analyze(events []models.TemporalEvent) Network {
	repos := RepoContributors(events)
	edges := edgesFrom(repos)

	collaborators := make(map[string]map[string]struct{})
	link := func(a, b string) {
		set, ok := collaborators[a]
		if !ok {
			set = make(map[string]struct{})
			collaborators[a] = set
		}
		set[b] = struct{}{}
	}
	for _, e := range edges {
		link(e.Source, e.Target)
		link(e.Target, e.Source)
	}

	userRepos := make(map[string][]string)
	for _, repo := range sortedRepos(repos) {
		for u := range repos[repo] {
			userRepos[u] = append(userRepos[u], repo)
		}
	}

	n := Network{Edges: edges}

	for user, set := range collaborators {
		n.Users = append(n.Users, UserMetrics{
			User:                    user,
			CollaboratorCount:       len(set),
			Collaborators:           sortedUsers(set),
			RepositoriesContributed: len(userRepos[user]),
		})
	}
	sort.Slice(n.Users, func(i, j int) bool {
		if n.Users[i].CollaboratorCount != n.Users[j].CollaboratorCount {
			return n.Users[i].CollaboratorCount > n.Users[j].CollaboratorCount
		}
		return n.Users[i].User < n.Users[j].User
	})

	for repo, users := range repos {
		count := len(users)
		potential := count * (count - 1) / 2
		ra := RepoAnalysis{
			Repo:                    repo,
			ContributorCount:        count,
			Contributors:            sortedUsers(users),
			PotentialCollaborations: potential,
			ActualCollaborations:    potential,
		}
		if potential > 0 {
			ra.CollaborationDensity = float64(ra.ActualCollaborations) / float64(potential)
		}
		n.Repos = append(n.Repos, ra)
	}
	sort.Slice(n.Repos, func(i, j int) bool {
		if n.Repos[i].ContributorCount != n.Repos[j].ContributorCount {
			return n.Repos[i].ContributorCount > n.Repos[j].ContributorCount
		}
		return n.Repos[i].Repo < n.Repos[j].Repo
	})

	for user := range collaborators {
		repoList := userRepos[user]
		if len(repoList) < 2 {
			continue
		}
		n.Hubs = append(n.Hubs, Hub{
			User:               user,
			Repositories:       repoList,
			RepoCount:          len(repoList),
			TotalCollaborators: len(collaborators[user]),
		})
	}
	sort.Slice(n.Hubs, func(i, j int) bool {
		if n.Hubs[i].RepoCount != n.Hubs[j].RepoCount {
			return n.Hubs[i].RepoCount > n.Hubs[j].RepoCount
		}
		return n.Hubs[i].User < n.Hubs[j].User
	})

	n.Statistics = Statistics{
		TotalUsers:            len(collaborators),
		TotalCollaborations:   len(edges),
		TotalRepositories:     len(repos),
		CrossRepoContributors: len(n.Hubs),
	}
	if len(collaborators) > 0 {
		total := 0
		for _, set := range collaborators {
			total += len(set)
		}
		n.Statistics.AvgCollaboratorsPerUser = float64(total) / float64(len(collaborators))
	}
	if len(repos) > 0 {
		total := 0
		for _, users := range repos {
			total += len(users)
		}
		n.Statistics.AvgContributorsPerRepo = float64(total) / float64(len(repos))
	}

	if n.Users == nil {
		n.Users = []UserMetrics{}
	}
	if n.Repos == nil {
		n.Repos = []RepoAnalysis{}
	}
	if n.Hubs == nil {
		n.Hubs = []Hub{}
	}
	return n
}

func sortedRepos(repos map[string]map[string]struct{}) []string {
	list := make([]string, 0, len(repos))
	for r := range repos {
		list = append(list, r)
	}
	sort.Strings(list)
	return list
}
