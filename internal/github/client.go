package github

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v57/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/rohankatakam/orgpulse/internal/cache"
	"github.com/rohankatakam/orgpulse/internal/errors"
	"github.com/rohankatakam/orgpulse/internal/models"
)

const perPage = 100

// Client wraps the GitHub API client with rate limiting and an optional
// response cache
type Client struct {
	client      *github.Client
	rateLimiter *rate.Limiter
	cache       *cache.Manager
	logger      *logrus.Logger
}

// NewClient creates a client allowed rateLimit requests per second.
// A non-positive limit disables throttling. An empty token makes
// unauthenticated requests.
func NewClient(token string, rateLimit float64, logger *logrus.Logger) *Client {
	client := github.NewClient(nil)
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		client = github.NewClient(oauth2.NewClient(context.Background(), ts))
	}

	limit := rate.Inf
	if rateLimit > 0 {
		limit = rate.Limit(rateLimit)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Client{
		client:      client,
		rateLimiter: rate.NewLimiter(limit, 1),
		logger:      logger,
	}
}

// WithCache serves list and profile calls from m when fresh
func (c *Client) WithCache(m *cache.Manager) *Client {
	c.cache = m
	return c
}

// SetBaseURL points the client at another API root (GitHub Enterprise or a
// test server)
func (c *Client) SetBaseURL(raw string) error {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return errors.ConfigErrorf("invalid GitHub API URL %q: %v", raw, err)
	}
	c.client.BaseURL = u
	return nil
}

// cached runs fetch unless key has a fresh cache entry
func cached[T any](c *Client, key string, fetch func() (T, error)) (T, error) {
	var out T
	if c.cache != nil {
		found, err := c.cache.Get(key, &out)
		if err != nil {
			c.logger.WithError(err).WithField("key", key).Warn("Cache read failed")
		} else if found {
			return out, nil
		}
	}

	out, err := fetch()
	if err != nil {
		return out, err
	}

	if c.cache != nil {
		if err := c.cache.Set(key, out); err != nil {
			c.logger.WithError(err).WithField("key", key).Warn("Cache write failed")
		}
	}
	return out, nil
}

func (c *Client) wait(ctx context.Context) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	return nil
}

// logRateLimit warns when the remaining quota runs low
func (c *Client) logRateLimit(resp *github.Response) {
	if resp == nil {
		return
	}
	if resp.Rate.Limit > 0 && resp.Rate.Remaining < 100 {
		c.logger.WithFields(logrus.Fields{
			"remaining": resp.Rate.Remaining,
			"limit":     resp.Rate.Limit,
			"reset":     resp.Rate.Reset.Time.Format(time.RFC3339),
		}).Warn("GitHub rate limit low")
	}
}

// ListRepositories lists every repository of org
func (c *Client) ListRepositories(ctx context.Context, org string) ([]models.RawRepository, error) {
	return cached(c, "orgs/"+org+"/repos", func() ([]models.RawRepository, error) {
		opts := &github.RepositoryListByOrgOptions{
			Type:        "all",
			ListOptions: github.ListOptions{PerPage: perPage},
		}

		var out []models.RawRepository
		for {
			if err := c.wait(ctx); err != nil {
				return nil, err
			}
			repos, resp, err := c.client.Repositories.ListByOrg(ctx, org, opts)
			if err != nil {
				return nil, errors.ExternalErrorf(err, "list repositories of %s", org)
			}
			for _, r := range repos {
				out = append(out, models.RawRepository{
					Name:          r.GetName(),
					FullName:      r.GetFullName(),
					Fork:          r.GetFork(),
					Archived:      r.GetArchived(),
					Language:      r.GetLanguage(),
					DefaultBranch: r.GetDefaultBranch(),
					Stars:         r.GetStargazersCount(),
					CreatedAt:     formatTimestamp(r.CreatedAt),
					UpdatedAt:     formatTimestamp(r.UpdatedAt),
				})
			}
			c.logRateLimit(resp)
			if resp.NextPage == 0 {
				break
			}
			opts.Page = resp.NextPage
		}
		return out, nil
	})
}

// ListMembers lists the logins of org members
func (c *Client) ListMembers(ctx context.Context, org string) ([]string, error) {
	return cached(c, "orgs/"+org+"/members", func() ([]string, error) {
		opts := &github.ListMembersOptions{ListOptions: github.ListOptions{PerPage: perPage}}

		var out []string
		for {
			if err := c.wait(ctx); err != nil {
				return nil, err
			}
			users, resp, err := c.client.Organizations.ListMembers(ctx, org, opts)
			if err != nil {
				return nil, errors.ExternalErrorf(err, "list members of %s", org)
			}
			for _, u := range users {
				out = append(out, u.GetLogin())
			}
			c.logRateLimit(resp)
			if resp.NextPage == 0 {
				break
			}
			opts.Page = resp.NextPage
		}
		return out, nil
	})
}

// GetMember fetches a member profile. AccountAgeDays is left for the
// caller to derive from CreatedAt.
func (c *Client) GetMember(ctx context.Context, login string) (models.RawMember, error) {
	return cached(c, "users/"+login, func() (models.RawMember, error) {
		if err := c.wait(ctx); err != nil {
			return models.RawMember{}, err
		}
		u, resp, err := c.client.Users.Get(ctx, login)
		if err != nil {
			return models.RawMember{}, errors.ExternalErrorf(err, "get user %s", login)
		}
		c.logRateLimit(resp)
		return models.RawMember{
			Login:       u.GetLogin(),
			PublicRepos: u.GetPublicRepos(),
			Followers:   u.GetFollowers(),
			Following:   u.GetFollowing(),
			Name:        u.GetName(),
			Company:     u.GetCompany(),
			Location:    u.GetLocation(),
			CreatedAt:   formatTimestamp(u.CreatedAt),
		}, nil
	})
}

// ListIssues lists every issue of a repository, excluding pull requests
func (c *Client) ListIssues(ctx context.Context, org, repo string) ([]models.RawIssue, error) {
	return cached(c, "repos/"+org+"/"+repo+"/issues", func() ([]models.RawIssue, error) {
		opts := &github.IssueListByRepoOptions{
			State:       "all",
			ListOptions: github.ListOptions{PerPage: perPage},
		}

		var out []models.RawIssue
		for {
			if err := c.wait(ctx); err != nil {
				return nil, err
			}
			issues, resp, err := c.client.Issues.ListByRepo(ctx, org, repo, opts)
			if err != nil {
				return nil, errors.ExternalErrorf(err, "list issues of %s/%s", org, repo)
			}
			for _, is := range issues {
				if is.IsPullRequest() {
					continue
				}
				out = append(out, models.RawIssue{
					Number:    is.GetNumber(),
					Author:    is.GetUser().GetLogin(),
					Assignee:  is.GetAssignee().GetLogin(),
					Repo:      repo,
					Title:     is.GetTitle(),
					State:     is.GetState(),
					CreatedAt: formatTimestamp(is.CreatedAt),
					ClosedAt:  formatTimestamp(is.ClosedAt),
				})
			}
			c.logRateLimit(resp)
			if resp.NextPage == 0 {
				break
			}
			opts.Page = resp.NextPage
		}
		return out, nil
	})
}

// ListPullRequests lists open and closed pull requests of a repository
func (c *Client) ListPullRequests(ctx context.Context, org, repo string) ([]models.RawPullRequest, error) {
	return cached(c, "repos/"+org+"/"+repo+"/pulls", func() ([]models.RawPullRequest, error) {
		opts := &github.PullRequestListOptions{
			State:       "all",
			ListOptions: github.ListOptions{PerPage: perPage},
		}

		var out []models.RawPullRequest
		for {
			if err := c.wait(ctx); err != nil {
				return nil, err
			}
			prs, resp, err := c.client.PullRequests.List(ctx, org, repo, opts)
			if err != nil {
				return nil, errors.ExternalErrorf(err, "list pull requests of %s/%s", org, repo)
			}
			for _, pr := range prs {
				out = append(out, models.RawPullRequest{
					Number:    pr.GetNumber(),
					Author:    pr.GetUser().GetLogin(),
					Repo:      repo,
					Title:     pr.GetTitle(),
					State:     pr.GetState(),
					CreatedAt: formatTimestamp(pr.CreatedAt),
					MergedAt:  formatTimestamp(pr.MergedAt),
					ClosedAt:  formatTimestamp(pr.ClosedAt),
				})
			}
			c.logRateLimit(resp)
			if resp.NextPage == 0 {
				break
			}
			opts.Page = resp.NextPage
		}
		return out, nil
	})
}

// ListCommits lists commits of the default branch, optionally since a time.
// Commits whose author has no linked GitHub account keep an empty author.
func (c *Client) ListCommits(ctx context.Context, org, repo string, since time.Time) ([]models.RawCommit, error) {
	key := "repos/" + org + "/" + repo + "/commits"
	if !since.IsZero() {
		key += "?since=" + since.UTC().Format(time.RFC3339)
	}
	return cached(c, key, func() ([]models.RawCommit, error) {
		opts := &github.CommitsListOptions{
			Since:       since,
			ListOptions: github.ListOptions{PerPage: perPage},
		}

		var out []models.RawCommit
		for {
			if err := c.wait(ctx); err != nil {
				return nil, err
			}
			commits, resp, err := c.client.Repositories.ListCommits(ctx, org, repo, opts)
			if err != nil {
				if isEmptyRepository(resp) {
					return out, nil
				}
				return nil, errors.ExternalErrorf(err, "list commits of %s/%s", org, repo)
			}
			for _, cm := range commits {
				date := cm.GetCommit().GetAuthor().GetDate()
				out = append(out, models.RawCommit{
					SHA:       cm.GetSHA(),
					Author:    cm.GetAuthor().GetLogin(),
					Repo:      repo,
					Timestamp: formatTimestamp(&date),
					Message:   firstLine(cm.GetCommit().GetMessage()),
				})
			}
			c.logRateLimit(resp)
			if resp.NextPage == 0 {
				break
			}
			opts.Page = resp.NextPage
		}
		return out, nil
	})
}

// isEmptyRepository matches the 409 GitHub returns for commits of an empty repository
func isEmptyRepository(resp *github.Response) bool {
	return resp != nil && resp.Response != nil && resp.StatusCode == 409
}

func formatTimestamp(ts *github.Timestamp) string {
	if ts == nil || ts.IsZero() {
		return ""
	}
	return ts.Time.Format(time.RFC3339)
}

func firstLine(msg string) string {
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		return msg[:i]
	}
	return msg
}
