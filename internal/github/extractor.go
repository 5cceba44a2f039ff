package github

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rohankatakam/orgpulse/internal/errors"
	"github.com/rohankatakam/orgpulse/internal/models"
)

// Options controls an organization extraction
type Options struct {
	Org       string
	SkipRepos []string
	SkipForks bool
	MaxRepos  int       // 0 = no limit
	Workers   int       // concurrent repository fetches
	Since     time.Time // commits only; zero fetches full history
}

// RepoFailure records a repository fetch that was skipped
type RepoFailure struct {
	Repo  string `json:"repo"`
	Stage string `json:"stage"`
	Error string `json:"error"`
}

// ExtractResult is the bronze layer of one organization
type ExtractResult struct {
	RepositoriesRaw      []models.RawRepository
	RepositoriesFiltered []models.RawRepository
	Members              []models.RawMember
	Issues               []models.RawIssue
	PullRequests         []models.RawPullRequest
	Commits              []models.RawCommit
	Failures             []RepoFailure
	ExtractedAt          time.Time
}

// Extractor orchestrates organization extraction
type Extractor struct {
	client *Client
	logger *logrus.Logger
}

// NewExtractor creates a new GitHub extractor
func NewExtractor(client *Client, logger *logrus.Logger) *Extractor {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Extractor{
		client: client,
		logger: logger,
	}
}

// FilterRepositories drops forks (when asked) and skip-listed names, then
// truncates to max. Skip-list matching ignores case.
func FilterRepositories(repos []models.RawRepository, skip []string, skipForks bool, max int) []models.RawRepository {
	skipped := make(map[string]struct{}, len(skip))
	for _, name := range skip {
		skipped[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
	}

	out := make([]models.RawRepository, 0, len(repos))
	for _, r := range repos {
		if skipForks && r.Fork {
			continue
		}
		if _, ok := skipped[strings.ToLower(r.Name)]; ok {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}

// Extract fetches repositories, members and per-repository activity.
// Listing repositories or members must succeed; a failing repository or
// profile is logged and skipped.
func (e *Extractor) Extract(ctx context.Context, opts Options) (*ExtractResult, error) {
	if opts.Org == "" {
		return nil, errors.ValidationErrorf("organization is required")
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}

	startTime := time.Now()
	log := e.logger.WithField("org", opts.Org)
	log.Info("Starting organization extraction")

	result := &ExtractResult{ExtractedAt: startTime.UTC()}

	repos, err := e.client.ListRepositories(ctx, opts.Org)
	if err != nil {
		return nil, err
	}
	result.RepositoriesRaw = repos
	result.RepositoriesFiltered = FilterRepositories(repos, opts.SkipRepos, opts.SkipForks, opts.MaxRepos)
	log.WithFields(logrus.Fields{
		"total":    len(repos),
		"filtered": len(result.RepositoriesFiltered),
	}).Info("Repositories listed")

	logins, err := e.client.ListMembers(ctx, opts.Org)
	if err != nil {
		return nil, err
	}
	if result.Members, err = e.fetchProfiles(ctx, logins, workers); err != nil {
		return nil, err
	}
	log.WithField("count", len(result.Members)).Info("Member profiles extracted")

	if err := e.fetchActivity(ctx, opts, workers, result); err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"duration": time.Since(startTime).String(),
		"commits":  len(result.Commits),
		"prs":      len(result.PullRequests),
		"issues":   len(result.Issues),
		"failures": len(result.Failures),
	}).Info("Organization extraction completed")

	return result, nil
}

// fetchProfiles loads each member profile in login order. A failed profile
// keeps the bare login so the member still counts; cancellation fails the
// whole fetch.
func (e *Extractor) fetchProfiles(ctx context.Context, logins []string, workers int) ([]models.RawMember, error) {
	sorted := append([]string(nil), logins...)
	sort.Strings(sorted)

	profiles := make([]models.RawMember, len(sorted))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, login := range sorted {
		g.Go(func() error {
			m, err := e.client.GetMember(gctx, login)
			if err != nil {
				e.logger.WithError(err).WithField("login", login).Warn("Failed to fetch member profile")
				m = models.RawMember{Login: login}
			}
			profiles[i] = m
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("extract profiles: %w", err)
	}
	return profiles, nil
}

type repoActivity struct {
	issues  []models.RawIssue
	prs     []models.RawPullRequest
	commits []models.RawCommit
}

// fetchActivity pulls issues, pull requests and commits per repository on a
// bounded worker pool and merges them in repository order
func (e *Extractor) fetchActivity(ctx context.Context, opts Options, workers int, result *ExtractResult) error {
	repos := result.RepositoriesFiltered
	activity := make([]repoActivity, len(repos))

	var mu sync.Mutex
	fail := func(repo, stage string, err error) {
		e.logger.WithError(err).WithFields(logrus.Fields{
			"repo":  repo,
			"stage": stage,
		}).Warn("Skipping repository data")
		mu.Lock()
		result.Failures = append(result.Failures, RepoFailure{Repo: repo, Stage: stage, Error: err.Error()})
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, repo := range repos {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var a repoActivity
			var err error

			if a.issues, err = e.client.ListIssues(gctx, opts.Org, repo.Name); err != nil {
				fail(repo.Name, "issues", err)
			}
			if a.prs, err = e.client.ListPullRequests(gctx, opts.Org, repo.Name); err != nil {
				fail(repo.Name, "pulls", err)
			}
			if a.commits, err = e.client.ListCommits(gctx, opts.Org, repo.Name, opts.Since); err != nil {
				fail(repo.Name, "commits", err)
			}
			activity[i] = a

			e.logger.WithFields(logrus.Fields{
				"repo":    repo.Name,
				"issues":  len(a.issues),
				"prs":     len(a.prs),
				"commits": len(a.commits),
			}).Debug("Repository extracted")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("extract activity: %w", err)
	}

	result.Issues = []models.RawIssue{}
	result.PullRequests = []models.RawPullRequest{}
	result.Commits = []models.RawCommit{}
	for _, a := range activity {
		result.Issues = append(result.Issues, a.issues...)
		result.PullRequests = append(result.PullRequests, a.prs...)
		result.Commits = append(result.Commits, a.commits...)
	}
	sort.Slice(result.Failures, func(i, j int) bool {
		if result.Failures[i].Repo != result.Failures[j].Repo {
			return result.Failures[i].Repo < result.Failures[j].Repo
		}
		return result.Failures[i].Stage < result.Failures[j].Stage
	})
	return nil
}
