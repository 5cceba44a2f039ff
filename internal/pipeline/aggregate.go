package pipeline

import (
	"github.com/rohankatakam/orgpulse/internal/collab"
	"github.com/rohankatakam/orgpulse/internal/gold"
	"github.com/rohankatakam/orgpulse/internal/layers"
	"github.com/rohankatakam/orgpulse/internal/logging"
	"github.com/rohankatakam/orgpulse/internal/models"
	"github.com/rohankatakam/orgpulse/internal/temporal"
)

// Aggregate reads the silver layer and writes the gold datasets
func Aggregate(store *layers.Store, topN int) (*gold.Dashboard, error) {
	log := logging.Component("pipeline")

	analytics, _, err := layers.ReadRecords[models.MemberAnalytics](store, layers.Silver, layers.MembersAnalytics)
	if err != nil {
		return nil, err
	}
	contributions, _, err := layers.ReadRecords[models.ContributionMetrics](store, layers.Silver, layers.ContributionMetrics)
	if err != nil {
		return nil, err
	}
	var network collab.Statistics
	if err := store.ReadObject(layers.Silver, layers.NetworkStatistics, &network); err != nil {
		return nil, err
	}
	var stats temporal.Statistics
	if err := store.ReadObject(layers.Silver, layers.TemporalStatistics, &stats); err != nil {
		return nil, err
	}

	dashboard := gold.BuildDashboard(gold.Inputs{
		Members:       analytics,
		Contributions: contributions,
		Network:       network,
		Temporal:      stats,
	}, topN)

	if err := store.Write(layers.Gold, layers.ExecutiveDashboard, dashboard,
		layers.MembersAnalytics, layers.ContributionMetrics, layers.NetworkStatistics, layers.TemporalStatistics); err != nil {
		return nil, err
	}

	tiers, ok := gold.BuildTiers(contributions)
	if !ok {
		log.Warn("no contributions, writing empty performance tiers")
		tiers = gold.Tiers{
			TopPerformers:   []models.ContributionMetrics{},
			Regular:         []models.ContributionMetrics{},
			Occasional:      []models.ContributionMetrics{},
			NonContributors: contributions,
		}
	}
	if err := store.Write(layers.Gold, layers.PerformanceTiers, tiers, layers.ContributionMetrics); err != nil {
		return nil, err
	}

	log.Info("gold aggregation completed",
		"members", dashboard.OrganizationHealth.TotalMembers,
		"active", dashboard.OrganizationHealth.ActiveContributors)
	return &dashboard, nil
}
