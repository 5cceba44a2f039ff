package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rohankatakam/orgpulse/internal/cache"
	"github.com/rohankatakam/orgpulse/internal/config"
	"github.com/rohankatakam/orgpulse/internal/github"
	"github.com/rohankatakam/orgpulse/internal/notify"
	"github.com/rohankatakam/orgpulse/internal/pipeline"
)

var (
	orgFlag     string
	publishRun  bool
	exportCSV   bool
	noCacheFlag bool
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Fetch organization data from GitHub into the bronze layer",
	Long: `Extract lists the organization's repositories and members, then fetches
issues, pull requests and commits for every repository that passes the skip
filters. Repositories that fail are recorded and skipped.

Examples:
  # Extract with the configured organization
  orgpulse extract

  # Override the organization
  orgpulse extract --org acme`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStages(cmd, config.ValidationContextExtract, pipeline.StageExtract)
	},
}

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Derive the silver layer from bronze data",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStages(cmd, config.ValidationContextProcess, pipeline.StageProcess)
	},
}

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Build the gold layer and refresh the registry",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStages(cmd, config.ValidationContextProcess, pipeline.StageAggregate, pipeline.StageRegistry)
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run extract, process, aggregate and registry in sequence",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStages(cmd, config.ValidationContextAll, pipeline.AllStages...)
	},
}

func init() {
	for _, c := range []*cobra.Command{extractCmd, runCmd} {
		c.Flags().StringVar(&orgFlag, "org", "", "GitHub organization (overrides config)")
		c.Flags().BoolVar(&noCacheFlag, "no-cache", false, "bypass the GitHub response cache")
	}
	for _, c := range []*cobra.Command{processCmd, runCmd} {
		c.Flags().BoolVar(&exportCSV, "csv", false, "also write CSV copies of the tabular silver datasets")
	}
	for _, c := range []*cobra.Command{extractCmd, processCmd, aggregateCmd, runCmd} {
		c.Flags().BoolVar(&publishRun, "publish", false, "publish the run summary to NATS")
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runStages(cmd *cobra.Command, vctx config.ValidationContext, stages ...pipeline.Stage) error {
	if orgFlag != "" {
		cfg.Org = orgFlag
	}
	if exportCSV {
		cfg.Export.CSV = true
	}

	needsGitHub := false
	for _, s := range stages {
		if s == pipeline.StageExtract {
			needsGitHub = true
		}
	}
	if needsGitHub {
		if err := resolveToken(); err != nil {
			return err
		}
	}

	result := cfg.Validate(vctx)
	for _, w := range result.Warnings {
		logger.Warn(w)
	}
	if result.HasErrors() {
		return result
	}

	ctx, cancel := signalContext()
	defer cancel()

	runner, cleanup, err := newRunner(needsGitHub, publishRun)
	if err != nil {
		return err
	}
	defer cleanup()

	summary, err := runner.Run(ctx, stages...)
	printSummary(summary)
	return err
}

// resolveToken fills cfg.GitHub.Token from the credential chain when the
// config and environment left it empty
func resolveToken() error {
	if cfg.GitHub.Token != "" {
		return nil
	}
	token, source, err := config.NewCredentialManager().GetGitHubToken()
	if err != nil {
		return err
	}
	logger.Debugf("Using GitHub token from %s", source)
	cfg.GitHub.Token = token
	return nil
}

// newRunner wires the GitHub client, response cache and NATS publisher
func newRunner(withGitHub, publish bool) (*pipeline.Runner, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	runner := &pipeline.Runner{Config: cfg, Logger: logger}

	if withGitHub {
		client := github.NewClient(cfg.GitHub.Token, cfg.GitHub.RateLimit, logger)
		if cfg.GitHub.APIURL != "" {
			if err := client.SetBaseURL(cfg.GitHub.APIURL); err != nil {
				return nil, cleanup, err
			}
		}
		if cfg.Cache.Enabled && !noCacheFlag {
			m, err := cache.NewManager(cfg.Cache.Path, cfg.Cache.TTL, logger)
			if err != nil {
				logger.WithError(err).Warn("Response cache unavailable, continuing without it")
			} else {
				client.WithCache(m)
				closers = append(closers, func() { m.Close() })
			}
		}
		runner.Extractor = github.NewExtractor(client, logger)
	}

	if publish {
		if cfg.Notify.NATSURL == "" {
			cleanup()
			return nil, func() {}, fmt.Errorf("--publish requires notify.nats_url")
		}
		pub, err := notify.NewPublisher(cfg.Notify.NATSURL, cfg.Notify.Subject, logger)
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		runner.Notifier = pub
		closers = append(closers, pub.Close)
	}

	return runner, cleanup, nil
}

func printSummary(s notify.RunSummary) {
	status := "✅ succeeded"
	if !s.Success {
		status = "❌ failed"
	}
	fmt.Printf("\nRun %s %s (%s)\n", s.RunID, status, strings.Join(s.Stages, " → "))
	if s.Repositories > 0 {
		fmt.Printf("  Repositories: %d", s.Repositories)
		if s.RepoFailures > 0 {
			fmt.Printf(" (%d skipped)", s.RepoFailures)
		}
		fmt.Println()
	}
	if s.Members > 0 {
		fmt.Printf("  Members: %d\n", s.Members)
	}
	if s.Events > 0 {
		fmt.Printf("  Events: %d (%d dropped)\n", s.Events, s.DroppedEvents)
		fmt.Printf("  Collaboration edges: %d\n", s.Edges)
	}
	fmt.Printf("  Duration: %dms\n", s.DurationMS)
}
