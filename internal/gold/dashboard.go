package gold

import (
	"github.com/rohankatakam/orgpulse/internal/collab"
	"github.com/rohankatakam/orgpulse/internal/contrib"
	"github.com/rohankatakam/orgpulse/internal/models"
	"github.com/rohankatakam/orgpulse/internal/temporal"
)

// OrganizationHealth counts members by activity and status
type OrganizationHealth struct {
	TotalMembers       int `json:"total_members"`
	ActiveContributors int `json:"active_contributors"`
	NewMembers         int `json:"new_members"`
	EstablishedMembers int `json:"established_members"`
}

// CollaborationKPIs is the network summary shown on the dashboard
type CollaborationKPIs struct {
	TotalCollaborations     int     `json:"total_collaborations"`
	CrossRepoContributors   int     `json:"cross_repo_contributors"`
	AvgCollaboratorsPerUser float64 `json:"avg_collaborators_per_user"`
}

// ActivityKPIs is the temporal summary shown on the dashboard
type ActivityKPIs struct {
	TotalEvents      int     `json:"total_events"`
	AvgDailyActivity float64 `json:"avg_daily_activity"`
	DateRangeDays    int     `json:"date_range_days"`
	BusiestDay       string  `json:"busiest_day,omitempty"`
	BusiestHour      int     `json:"busiest_hour"`
	MedianCycleHours float64 `json:"median_cycle_hours"`
}

// Dashboard is the executive view of one run
type Dashboard struct {
	OrganizationHealth   OrganizationHealth           `json:"organization_health"`
	CollaborationMetrics CollaborationKPIs            `json:"collaboration_metrics"`
	ActivityMetrics      ActivityKPIs                 `json:"activity_metrics"`
	TopContributors      []models.ContributionMetrics `json:"top_contributors"`
}

// Inputs are the silver datasets the gold layer reads
type Inputs struct {
	Members       []models.MemberAnalytics
	Contributions []models.ContributionMetrics
	Network       collab.Statistics
	Temporal      temporal.Statistics
}

// BuildDashboard derives the executive KPIs. topN bounds the contributor list.
func BuildDashboard(in Inputs, topN int) Dashboard {
	var health OrganizationHealth
	health.TotalMembers = len(in.Members)
	for _, m := range in.Members {
		switch m.Status {
		case models.StatusNew:
			health.NewMembers++
		case models.StatusEstablished:
			health.EstablishedMembers++
		}
	}
	for _, c := range in.Contributions {
		if c.HasContributed {
			health.ActiveContributors++
		}
	}

	top := contrib.TopN(in.Contributions, topN)
	if top == nil {
		top = []models.ContributionMetrics{}
	}

	return Dashboard{
		OrganizationHealth: health,
		CollaborationMetrics: CollaborationKPIs{
			TotalCollaborations:     in.Network.TotalCollaborations,
			CrossRepoContributors:   in.Network.CrossRepoContributors,
			AvgCollaboratorsPerUser: in.Network.AvgCollaboratorsPerUser,
		},
		ActivityMetrics: ActivityKPIs{
			TotalEvents:      in.Temporal.TotalEvents,
			AvgDailyActivity: in.Temporal.AvgDailyActivity,
			DateRangeDays:    in.Temporal.DateRange.Days,
			BusiestDay:       in.Temporal.BusiestDay,
			BusiestHour:      in.Temporal.BusiestHour,
			MedianCycleHours: in.Temporal.CycleTimes.MedianHours,
		},
		TopContributors: top,
	}
}
