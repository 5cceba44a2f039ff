package registry

import (
	"time"

	"github.com/rohankatakam/orgpulse/internal/layers"
)

// LayerCatalog describes the datasets of one layer
type LayerCatalog struct {
	Description string            `json:"description"`
	Entities    map[string]string `json:"entities"`
}

// Catalog documents every dataset and the workloads that read them
type Catalog struct {
	GeneratedAt   time.Time           `json:"generated_at"`
	Bronze        LayerCatalog        `json:"bronze_layer"`
	Silver        LayerCatalog        `json:"silver_layer"`
	Gold          LayerCatalog        `json:"gold_layer"`
	UsagePatterns map[string][]string `json:"usage_patterns"`
}

func file(name string) string { return name + ".json" }

// BuildCatalog returns the static dataset catalog
func BuildCatalog(now time.Time) Catalog {
	return Catalog{
		GeneratedAt: now.UTC(),
		Bronze: LayerCatalog{
			Description: "Raw data extracted directly from the GitHub API",
			Entities: map[string]string{
				file(layers.RepositoriesRaw):      "Every repository of the organization",
				file(layers.RepositoriesFiltered): "Repositories kept after dropping forks and the skip list",
				file(layers.MembersDetailed):      "Member profiles with public repository and follower counts",
				file(layers.IssuesAll):            "Issues across repositories, pull requests excluded",
				file(layers.PRsAll):               "Open and closed pull requests across repositories",
				file(layers.CommitsAll):           "Commits across repositories",
			},
		},
		Silver: LayerCatalog{
			Description: "Normalized and derived datasets ready for analytics",
			Entities: map[string]string{
				file(layers.MembersAnalytics):         "Member profiles with maturity scores and new/established status",
				file(layers.MemberStatusDistribution): "Count of new and established members",
				file(layers.MaturityBands):            "Members split at the 33rd and 67th maturity percentiles",
				file(layers.ContributionMetrics):      "Commit, issue and pull request counts per user",
				file(layers.RepositoryMetrics):        "Activity aggregated by repository",
				file(layers.ContributionDistribution): "Participation rate and spread of contribution totals",
				file(layers.CollaborationEdges):       "Weighted user pairs sharing repositories",
				file(layers.UserCollaborationMetrics): "Collaborators and repositories per user",
				file(layers.RepositoryCollaboration):  "Contributor count and collaboration density per repository",
				file(layers.CrossRepositoryHubs):      "Users active in more than one repository",
				file(layers.NetworkStatistics):        "Collaboration network topology summary",
				file(layers.TemporalEvents):           "Every normalized event in time order",
				file(layers.DailyActivitySummary):     "Events and active users per calendar day",
				file(layers.ActivityHeatmap):          "Events per weekday and hour",
				file(layers.CycleTimes):               "Open-to-close duration of issues and pull requests",
				file(layers.TemporalStatistics):       "Date range, daily average and busiest slot",
				file(layers.ContributorActivitySpans): "First and last activity per user",
			},
		},
		Gold: LayerCatalog{
			Description: "Executive aggregates built from silver datasets",
			Entities: map[string]string{
				file(layers.ExecutiveDashboard): "Organization health, collaboration and activity KPIs",
				file(layers.PerformanceTiers):   "Users bucketed into performance tiers by contribution volume",
			},
		},
		UsagePatterns: map[string][]string{
			"dashboard_visualization": {
				silverPath(layers.MembersAnalytics),
				silverPath(layers.ContributionMetrics),
				silverPath(layers.DailyActivitySummary),
				silverPath(layers.RepositoryMetrics),
				goldPath(layers.ExecutiveDashboard),
			},
			"network_analysis": {
				silverPath(layers.CollaborationEdges),
				silverPath(layers.UserCollaborationMetrics),
				silverPath(layers.CrossRepositoryHubs),
			},
			"temporal_analysis": {
				silverPath(layers.TemporalEvents),
				silverPath(layers.ActivityHeatmap),
				silverPath(layers.CycleTimes),
			},
			"research": {
				silverPath(layers.ContributionDistribution),
				silverPath(layers.NetworkStatistics),
				silverPath(layers.TemporalStatistics),
			},
		},
	}
}
