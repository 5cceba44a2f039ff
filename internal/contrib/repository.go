package contrib

import (
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/rohankatakam/orgpulse/internal/models"
)

// RepositoryMetrics tallies activity per repository
type RepositoryMetrics struct {
	Repo         string `json:"repo" csv:"repo"`
	Commits      int    `json:"commits" csv:"commits"`
	Issues       int    `json:"issues" csv:"issues"`
	PRs          int    `json:"prs" csv:"prs"`
	TotalEvents  int    `json:"total_events" csv:"total_events"`
	Contributors int    `json:"contributors" csv:"contributors"`
}

// ByRepository groups events by repo. TotalEvents counts every event,
// including unknown types; the typed counts only the known ones.
func ByRepository(events []models.TemporalEvent) []RepositoryMetrics {
	type acc struct {
		RepositoryMetrics
		users map[string]struct{}
	}
	byRepo := make(map[string]*acc)

	for _, ev := range events {
		a, ok := byRepo[ev.Repo]
		if !ok {
			a = &acc{RepositoryMetrics: RepositoryMetrics{Repo: ev.Repo}, users: make(map[string]struct{})}
			byRepo[ev.Repo] = a
		}
		a.TotalEvents++
		if ev.User != "" {
			a.users[ev.User] = struct{}{}
		}
		switch ev.Type {
		case models.EventCommit:
			a.Commits++
		case models.EventIssue:
			a.Issues++
		case models.EventPR:
			a.PRs++
		}
	}

	out := make([]RepositoryMetrics, 0, len(byRepo))
	for _, a := range byRepo {
		a.Contributors = len(a.users)
		out = append(out, a.RepositoryMetrics)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalEvents != out[j].TotalEvents {
			return out[i].TotalEvents > out[j].TotalEvents
		}
		return out[i].Repo < out[j].Repo
	})
	return out
}

// Distribution summarizes how contributions spread across users
type Distribution struct {
	TotalUsers        int     `json:"total_users"`
	Contributors      int     `json:"contributors"`
	NonContributors   int     `json:"non_contributors"`
	ParticipationRate float64 `json:"participation_rate"`
	Mean              float64 `json:"mean"`
	Median            float64 `json:"median"`
	Max               float64 `json:"max"`
	StdDev            float64 `json:"stddev"`
}

// Distribute computes the distribution over contributors. Statistics over
// an empty contributor set are 0.
func Distribute(metrics []models.ContributionMetrics) Distribution {
	d := Distribution{TotalUsers: len(metrics)}

	var totals stats.Float64Data
	for _, m := range metrics {
		if m.HasContributed {
			totals = append(totals, float64(m.TotalContributions))
		}
	}
	d.Contributors = len(totals)
	d.NonContributors = d.TotalUsers - d.Contributors

	if d.TotalUsers > 0 {
		d.ParticipationRate = float64(d.Contributors) / float64(d.TotalUsers)
	}
	if len(totals) == 0 {
		return d
	}

	d.Mean, _ = stats.Mean(totals)
	d.Median, _ = stats.Median(totals)
	d.Max, _ = stats.Max(totals)
	d.StdDev, _ = stats.StandardDeviationPopulation(totals)
	return d
}
