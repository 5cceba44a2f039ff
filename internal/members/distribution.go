package members

import (
	"github.com/montanaflynn/stats"

	"github.com/rohankatakam/orgpulse/internal/models"
)

// StatusDistribution counts members per status. Both keys are always present.
func StatusDistribution(analytics []models.MemberAnalytics) map[models.MemberStatus]int {
	dist := map[models.MemberStatus]int{
		models.StatusNew:         0,
		models.StatusEstablished: 0,
	}
	for _, m := range analytics {
		dist[m.Status]++
	}
	return dist
}

// MaturityBands splits members at the 33rd and 67th maturity percentiles
type MaturityBands struct {
	Low    int     `json:"low"`
	Medium int     `json:"medium"`
	High   int     `json:"high"`
	P33    float64 `json:"p33"`
	P67    float64 `json:"p67"`
}

// Bands computes maturity bands using nearest-rank percentiles.
// The boolean is false when there are no members.
func Bands(analytics []models.MemberAnalytics) (MaturityBands, bool) {
	if len(analytics) == 0 {
		return MaturityBands{}, false
	}

	scores := make(stats.Float64Data, len(analytics))
	for i, m := range analytics {
		scores[i] = m.MaturityScore
	}

	p33, err := stats.PercentileNearestRank(scores, 33)
	if err != nil {
		return MaturityBands{}, false
	}
	p67, err := stats.PercentileNearestRank(scores, 67)
	if err != nil {
		return MaturityBands{}, false
	}

	bands := MaturityBands{P33: p33, P67: p67}
	for _, s := range scores {
		switch {
		case s < p33:
			bands.Low++
		case s < p67:
			bands.Medium++
		default:
			bands.High++
		}
	}
	return bands, true
}
