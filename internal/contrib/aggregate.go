package contrib

import (
	"sort"

	"github.com/rohankatakam/orgpulse/internal/models"
)

// Aggregate tallies per-user contributions. Every member login gets a row,
// even with no events, and users seen only in events are included too.
// Events with an unknown type create the user's row but add to no count.
func Aggregate(events []models.TemporalEvent, members []models.RawMember) []models.ContributionMetrics {
	byUser := make(map[string]*models.ContributionMetrics, len(members))

	row := func(login string) *models.ContributionMetrics {
		m, ok := byUser[login]
		if !ok {
			m = &models.ContributionMetrics{User: login}
			byUser[login] = m
		}
		return m
	}

	for _, member := range members {
		if login := models.CanonicalLogin(member.Login); login != "" {
			row(login)
		}
	}

	for _, ev := range events {
		login := models.CanonicalLogin(ev.User)
		if login == "" {
			continue
		}
		m := row(login)
		switch ev.Type {
		case models.EventCommit:
			m.Commits++
		case models.EventIssue:
			m.IssuesCreated++
		case models.EventPR:
			m.PRsAuthored++
		}
	}

	out := make([]models.ContributionMetrics, 0, len(byUser))
	for _, m := range byUser {
		m.TotalContributions = m.Commits + m.PRsAuthored + m.IssuesCreated
		m.HasContributed = m.TotalContributions > 0
		out = append(out, *m)
	}
	SortByTotal(out)
	return out
}

// SortByTotal orders rows by total_contributions descending, then user
func SortByTotal(metrics []models.ContributionMetrics) {
	sort.Slice(metrics, func(i, j int) bool {
		if metrics[i].TotalContributions != metrics[j].TotalContributions {
			return metrics[i].TotalContributions > metrics[j].TotalContributions
		}
		return metrics[i].User < metrics[j].User
	})
}

// TopN returns the n highest contributors without modifying metrics
func TopN(metrics []models.ContributionMetrics, n int) []models.ContributionMetrics {
	if n <= 0 {
		return []models.ContributionMetrics{}
	}
	ranked := make([]models.ContributionMetrics, len(metrics))
	copy(ranked, metrics)
	SortByTotal(ranked)
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
