package gold

import (
	"sort"

	"github.com/rohankatakam/orgpulse/internal/contrib"
	"github.com/rohankatakam/orgpulse/internal/models"
)

// Tiers buckets users by contribution volume
type Tiers struct {
	TopThreshold     int                          `json:"top_threshold"`
	RegularThreshold int                          `json:"regular_threshold"`
	TopPerformers    []models.ContributionMetrics `json:"top_performers"`
	Regular          []models.ContributionMetrics `json:"regular_contributors"`
	Occasional       []models.ContributionMetrics `json:"occasional_contributors"`
	NonContributors  []models.ContributionMetrics `json:"non_contributors"`
}

// BuildTiers splits users at the totals found 10% and 25% of the way down
// the descending list of contributor totals. Users at or above the first
// threshold are top performers, at or above the second are regular, any
// other positive total is occasional. The boolean is false when nobody
// contributed.
func BuildTiers(metrics []models.ContributionMetrics) (Tiers, bool) {
	var totals []int
	for _, m := range metrics {
		if m.HasContributed {
			totals = append(totals, m.TotalContributions)
		}
	}
	if len(totals) == 0 {
		return Tiers{}, false
	}
	sort.Sort(sort.Reverse(sort.IntSlice(totals)))

	rank := func(frac float64) int {
		i := int(float64(len(totals)) * frac)
		if i > len(totals)-1 {
			i = len(totals) - 1
		}
		return totals[i]
	}

	t := Tiers{
		TopThreshold:     rank(0.10),
		RegularThreshold: rank(0.25),
		TopPerformers:    []models.ContributionMetrics{},
		Regular:          []models.ContributionMetrics{},
		Occasional:       []models.ContributionMetrics{},
		NonContributors:  []models.ContributionMetrics{},
	}

	sorted := append([]models.ContributionMetrics(nil), metrics...)
	contrib.SortByTotal(sorted)
	for _, m := range sorted {
		switch total := m.TotalContributions; {
		case total == 0:
			t.NonContributors = append(t.NonContributors, m)
		case total >= t.TopThreshold:
			t.TopPerformers = append(t.TopPerformers, m)
		case total >= t.RegularThreshold:
			t.Regular = append(t.Regular, m)
		default:
			t.Occasional = append(t.Occasional, m)
		}
	}
	return t, true
}
