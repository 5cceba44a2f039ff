package models

import (
	"strings"
	"time"
)

// EventType tags a TemporalEvent with the collection it was normalized from
type EventType string

const (
	EventCommit EventType = "commit"
	EventIssue  EventType = "issue"
	EventPR     EventType = "pr"
)

// Known reports whether t is one of the three event types the engine counts
func (t EventType) Known() bool {
	switch t {
	case EventCommit, EventIssue, EventPR:
		return true
	}
	return false
}

// MemberStatus classifies a member as new or established
type MemberStatus string

const (
	StatusNew         MemberStatus = "new"
	StatusEstablished MemberStatus = "established"
)

// RawMember is a member profile as extracted into the bronze layer
type RawMember struct {
	Login          string `json:"login"`
	AccountAgeDays int    `json:"account_age_days"`
	PublicRepos    int    `json:"public_repos"`
	Followers      int    `json:"followers"`
	Following      int    `json:"following,omitempty"`
	Name           string `json:"name,omitempty"`
	Company        string `json:"company,omitempty"`
	Location       string `json:"location,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
}

// RawCommit is a commit record from the bronze layer
type RawCommit struct {
	SHA       string `json:"sha"`
	Author    string `json:"author"`
	Repo      string `json:"repo_name"`
	Timestamp string `json:"timestamp"`
	Message   string `json:"message,omitempty"`
}

// RawIssue is an issue record from the bronze layer (pull requests excluded)
type RawIssue struct {
	Number    int    `json:"number"`
	Author    string `json:"author"`
	Assignee  string `json:"assignee,omitempty"`
	Repo      string `json:"repo_name"`
	Title     string `json:"title,omitempty"`
	State     string `json:"state,omitempty"`
	CreatedAt string `json:"created_at"`
	ClosedAt  string `json:"closed_at,omitempty"`
}

// RawPullRequest is a pull request record from the bronze layer
type RawPullRequest struct {
	Number    int    `json:"number"`
	Author    string `json:"author"`
	Repo      string `json:"repo_name"`
	Title     string `json:"title,omitempty"`
	State     string `json:"state,omitempty"`
	CreatedAt string `json:"created_at"`
	MergedAt  string `json:"merged_at,omitempty"`
	ClosedAt  string `json:"closed_at,omitempty"`
}

// RawRepository is an organization repository from the bronze layer
type RawRepository struct {
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	Fork          bool   `json:"fork"`
	Archived      bool   `json:"archived"`
	Language      string `json:"language,omitempty"`
	DefaultBranch string `json:"default_branch,omitempty"`
	Stars         int    `json:"stargazers_count"`
	CreatedAt     string `json:"created_at,omitempty"`
	UpdatedAt     string `json:"updated_at,omitempty"`
}

// TemporalEvent is a single normalized contribution action
type TemporalEvent struct {
	Date time.Time `json:"date"`
	Type EventType `json:"type"`
	User string    `json:"user"`
	Repo string    `json:"repo"`
}

// MemberAnalytics is the silver-layer view of a member
type MemberAnalytics struct {
	Login         string       `json:"login"`
	MaturityScore float64      `json:"maturity_score"`
	Status        MemberStatus `json:"status"`
	PublicRepos   int          `json:"public_repos"`
	Followers     int          `json:"followers"`
}

// ContributionMetrics tallies one user's contributions
type ContributionMetrics struct {
	User               string `json:"user" csv:"user"`
	TotalContributions int    `json:"total_contributions" csv:"total_contributions"`
	Commits            int    `json:"commits" csv:"commits"`
	PRsAuthored        int    `json:"prs_authored" csv:"prs_authored"`
	IssuesCreated      int    `json:"issues_created" csv:"issues_created"`
	HasContributed     bool   `json:"has_contributed" csv:"has_contributed"`
}

// CollaborationEdge links two members who acted on the same repositories.
// Source always sorts before Target.
type CollaborationEdge struct {
	Source string `json:"source" csv:"source"`
	Target string `json:"target" csv:"target"`
	Weight int    `json:"weight" csv:"weight"`
}

// CanonicalLogin folds a login to the case used for all map keys.
// GitHub logins are unique case-insensitively.
func CanonicalLogin(login string) string {
	return strings.ToLower(strings.TrimSpace(login))
}
