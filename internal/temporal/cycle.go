package temporal

import (
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/rohankatakam/orgpulse/internal/models"
	"github.com/rohankatakam/orgpulse/internal/normalize"
)

// CycleTime is how long one issue or pull request stayed open
type CycleTime struct {
	Repo      string           `json:"repo"`
	Number    int              `json:"number"`
	Type      models.EventType `json:"type"`
	Author    string           `json:"author"`
	CreatedAt time.Time        `json:"created_at"`
	ClosedAt  time.Time        `json:"closed_at"`
	Hours     float64          `json:"hours"`
}

// CycleTimes collects closed issues and pull requests. Pull requests close
// at closed_at, falling back to merged_at. Open items, unparseable dates and
// negative durations are skipped.
func CycleTimes(issues []models.RawIssue, prs []models.RawPullRequest) []CycleTime {
	var out []CycleTime

	add := func(typ models.EventType, repo string, number int, author, created, closed string) {
		c, ok := normalize.ParseTimestamp(created)
		if !ok {
			return
		}
		d, ok := normalize.ParseTimestamp(closed)
		if !ok || d.Before(c) {
			return
		}
		out = append(out, CycleTime{
			Repo:      repo,
			Number:    number,
			Type:      typ,
			Author:    models.CanonicalLogin(author),
			CreatedAt: c,
			ClosedAt:  d,
			Hours:     d.Sub(c).Hours(),
		})
	}

	for _, is := range issues {
		add(models.EventIssue, is.Repo, is.Number, is.Author, is.CreatedAt, is.ClosedAt)
	}
	for _, pr := range prs {
		closed := pr.ClosedAt
		if closed == "" {
			closed = pr.MergedAt
		}
		add(models.EventPR, pr.Repo, pr.Number, pr.Author, pr.CreatedAt, closed)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ClosedAt.Before(out[j].ClosedAt)
	})
	return out
}

// CycleSummary aggregates cycle times per type and overall
type CycleSummary struct {
	Count            int     `json:"count"`
	MeanHours        float64 `json:"mean_hours"`
	MedianHours      float64 `json:"median_hours"`
	P90Hours         float64 `json:"p90_hours"`
	IssueMedianHours float64 `json:"issue_median_hours"`
	PRMedianHours    float64 `json:"pr_median_hours"`
}

// SummarizeCycles computes cycle statistics; all zero without input
func SummarizeCycles(cycles []CycleTime) CycleSummary {
	s := CycleSummary{Count: len(cycles)}
	if len(cycles) == 0 {
		return s
	}

	var all, issues, prs stats.Float64Data
	for _, c := range cycles {
		all = append(all, c.Hours)
		switch c.Type {
		case models.EventIssue:
			issues = append(issues, c.Hours)
		case models.EventPR:
			prs = append(prs, c.Hours)
		}
	}

	s.MeanHours, _ = stats.Mean(all)
	s.MedianHours, _ = stats.Median(all)
	s.P90Hours, _ = stats.PercentileNearestRank(all, 90)
	if len(issues) > 0 {
		s.IssueMedianHours, _ = stats.Median(issues)
	}
	if len(prs) > 0 {
		s.PRMedianHours, _ = stats.Median(prs)
	}
	return s
}
