package pipeline

import (
	"time"

	"github.com/rohankatakam/orgpulse/internal/github"
	"github.com/rohankatakam/orgpulse/internal/layers"
)

// ExtractionReport is the bronze record of repositories skipped mid-extraction
type ExtractionReport struct {
	Org         string               `json:"org"`
	Failures    []github.RepoFailure `json:"failures"`
	ExtractedAt string               `json:"extracted_at"`
}

// WriteBronze persists one extraction as the bronze datasets
func WriteBronze(store *layers.Store, org string, res *github.ExtractResult) error {
	const source = "github_api"

	outputs := []struct {
		name    string
		data    interface{}
		sources []string
	}{
		{layers.RepositoriesRaw, res.RepositoriesRaw, []string{source}},
		{layers.RepositoriesFiltered, res.RepositoriesFiltered, []string{layers.RepositoriesRaw}},
		{layers.MembersDetailed, res.Members, []string{source}},
		{layers.IssuesAll, res.Issues, []string{source, layers.RepositoriesFiltered}},
		{layers.PRsAll, res.PullRequests, []string{source, layers.RepositoriesFiltered}},
		{layers.CommitsAll, res.Commits, []string{source, layers.RepositoriesFiltered}},
	}
	for _, out := range outputs {
		if err := store.Write(layers.Bronze, out.name, out.data, out.sources...); err != nil {
			return err
		}
	}

	failures := res.Failures
	if failures == nil {
		failures = []github.RepoFailure{}
	}
	return store.Write(layers.Bronze, layers.ExtractionFailures, ExtractionReport{
		Org:         org,
		Failures:    failures,
		ExtractedAt: res.ExtractedAt.UTC().Format(time.RFC3339),
	}, source)
}
