package normalize

import (
	"strings"
	"time"

	"github.com/rohankatakam/orgpulse/internal/models"
)

// UnknownRepo is assigned to records that carry no repository name
const UnknownRepo = "unknown"

// Report counts records kept and dropped per source collection
type Report struct {
	Commits        int `json:"commits"`
	Issues         int `json:"issues"`
	PRs            int `json:"prs"`
	DroppedCommits int `json:"dropped_commits"`
	DroppedIssues  int `json:"dropped_issues"`
	DroppedPRs     int `json:"dropped_prs"`
}

// Dropped returns the total number of excluded records
func (r Report) Dropped() int {
	return r.DroppedCommits + r.DroppedIssues + r.DroppedPRs
}

// Normalize flattens the three raw collections into temporal events
func Normalize(commits []models.RawCommit, issues []models.RawIssue, prs []models.RawPullRequest) []models.TemporalEvent {
	events, _ := NormalizeWithReport(commits, issues, prs)
	return events
}

// NormalizeWithReport is Normalize plus drop accounting. A record without an
// actor login or a parseable timestamp is excluded; nothing is deduplicated.
func NormalizeWithReport(commits []models.RawCommit, issues []models.RawIssue, prs []models.RawPullRequest) ([]models.TemporalEvent, Report) {
	var report Report
	events := make([]models.TemporalEvent, 0, len(commits)+len(issues)+len(prs))

	for _, c := range commits {
		ev, ok := toEvent(models.EventCommit, c.Author, c.Repo, c.Timestamp)
		if !ok {
			report.DroppedCommits++
			continue
		}
		events = append(events, ev)
		report.Commits++
	}

	for _, is := range issues {
		ev, ok := toEvent(models.EventIssue, is.Author, is.Repo, is.CreatedAt)
		if !ok {
			report.DroppedIssues++
			continue
		}
		events = append(events, ev)
		report.Issues++
	}

	for _, pr := range prs {
		ev, ok := toEvent(models.EventPR, pr.Author, pr.Repo, pr.CreatedAt)
		if !ok {
			report.DroppedPRs++
			continue
		}
		events = append(events, ev)
		report.PRs++
	}

	return events, report
}

func toEvent(t models.EventType, actor, repo, timestamp string) (models.TemporalEvent, bool) {
	user := models.CanonicalLogin(actor)
	if user == "" {
		return models.TemporalEvent{}, false
	}
	ts, ok := ParseTimestamp(timestamp)
	if !ok {
		return models.TemporalEvent{}, false
	}

	repo = strings.TrimSpace(repo)
	if repo == "" {
		repo = UnknownRepo
	}
	return models.TemporalEvent{Date: ts, Type: t, User: user, Repo: repo}, true
}

// ParseTimestamp parses an RFC 3339 timestamp keeping its encoded offset.
// The zero instant counts as missing.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil || ts.IsZero() {
		return time.Time{}, false
	}
	return ts, true
}
