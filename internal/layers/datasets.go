package layers

import (
	"time"

	"github.com/rohankatakam/orgpulse/internal/members"
	"github.com/rohankatakam/orgpulse/internal/models"
)

// Bronze datasets
const (
	RepositoriesRaw      = "repositories_raw"
	RepositoriesFiltered = "repositories_filtered"
	MembersDetailed      = "members_detailed"
	IssuesAll            = "issues_all"
	PRsAll               = "prs_all"
	CommitsAll           = "commits_all"
	ExtractionFailures   = "extraction_failures"
)

// Silver datasets
const (
	MembersAnalytics         = "members_analytics"
	MemberStatusDistribution = "member_status_distribution"
	MaturityBands            = "maturity_bands"
	ContributionMetrics      = "contribution_metrics"
	RepositoryMetrics        = "repository_metrics"
	ContributionDistribution = "contribution_distribution"
	CollaborationEdges       = "collaboration_edges"
	UserCollaborationMetrics = "user_collaboration_metrics"
	RepositoryCollaboration  = "repository_collaboration_analysis"
	CrossRepositoryHubs      = "cross_repository_hubs"
	NetworkStatistics        = "network_statistics"
	TemporalEvents           = "temporal_events"
	DailyActivitySummary     = "daily_activity_summary"
	ActivityHeatmap          = "activity_heatmap"
	CycleTimes               = "cycle_times"
	TemporalStatistics       = "temporal_statistics"
	ContributorActivitySpans = "contributor_activity_spans"
)

// Gold datasets
const (
	ExecutiveDashboard = "executive_dashboard"
	PerformanceTiers   = "performance_tiers"
)

// Registry datasets, written at the data directory root
const (
	MasterRegistry = "master_registry"
	DataCatalog    = "data_catalog"
)

// BronzeSet is the raw input of silver processing
type BronzeSet struct {
	Members []models.RawMember
	Commits []models.RawCommit
	Issues  []models.RawIssue
	PRs     []models.RawPullRequest

	// SentinelsDropped counts legacy metadata rows skipped across all files
	SentinelsDropped int
}

// LoadBronze reads the member and activity collections. Member ages are
// derived from created_at relative to now when the profile carries one.
func LoadBronze(s *Store, now time.Time) (*BronzeSet, error) {
	set := &BronzeSet{}

	raw, rep, err := ReadRecords[models.RawMember](s, Bronze, MembersDetailed)
	if err != nil {
		return nil, err
	}
	set.SentinelsDropped += rep.SentinelsDropped
	set.Members = make([]models.RawMember, 0, len(raw))
	for _, m := range raw {
		set.Members = append(set.Members, members.ResolveAge(m, now))
	}

	if set.Commits, rep, err = ReadRecords[models.RawCommit](s, Bronze, CommitsAll); err != nil {
		return nil, err
	}
	set.SentinelsDropped += rep.SentinelsDropped

	if set.Issues, rep, err = ReadRecords[models.RawIssue](s, Bronze, IssuesAll); err != nil {
		return nil, err
	}
	set.SentinelsDropped += rep.SentinelsDropped

	if set.PRs, rep, err = ReadRecords[models.RawPullRequest](s, Bronze, PRsAll); err != nil {
		return nil, err
	}
	set.SentinelsDropped += rep.SentinelsDropped

	return set, nil
}
