package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rohankatakam/orgpulse/internal/config"
	"github.com/rohankatakam/orgpulse/internal/errors"
	"github.com/rohankatakam/orgpulse/internal/github"
	"github.com/rohankatakam/orgpulse/internal/layers"
	"github.com/rohankatakam/orgpulse/internal/notify"
	"github.com/rohankatakam/orgpulse/internal/registry"
	"github.com/rohankatakam/orgpulse/internal/temporal"
)

// Stage is one step of a pipeline run
type Stage string

const (
	StageExtract   Stage = "extract"
	StageProcess   Stage = "process"
	StageAggregate Stage = "aggregate"
	StageRegistry  Stage = "registry"
)

// AllStages is the full medallion run, in order
var AllStages = []Stage{StageExtract, StageProcess, StageAggregate, StageRegistry}

// Notifier receives the summary of every run
type Notifier interface {
	Publish(s notify.RunSummary) error
}

// Runner executes pipeline stages against one data directory
type Runner struct {
	Config    *config.Config
	Extractor *github.Extractor // required for StageExtract
	Notifier  Notifier          // optional
	Logger    *logrus.Logger
	Now       func() time.Time
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Runner) logger() *logrus.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return logrus.StandardLogger()
}

// Run executes stages in the given order and returns the run summary. The
// summary is published even when a stage fails; publish errors are logged
// and never fail the run.
func (r *Runner) Run(ctx context.Context, stages ...Stage) (notify.RunSummary, error) {
	if len(stages) == 0 {
		stages = AllStages
	}

	store := layers.NewStore(r.Config.DataDir)
	started := r.now()
	summary := notify.RunSummary{
		RunID:     store.RunID(),
		Org:       r.Config.Org,
		StartedAt: started,
	}
	for _, s := range stages {
		summary.Stages = append(summary.Stages, string(s))
	}

	log := r.logger().WithFields(logrus.Fields{"run_id": summary.RunID, "org": summary.Org})
	log.Infof("Starting pipeline run: %v", summary.Stages)

	runErr := r.runStages(ctx, store, stages, &summary)

	summary.FinishedAt = r.now()
	summary.DurationMS = summary.FinishedAt.Sub(started).Milliseconds()
	summary.Success = runErr == nil
	if runErr != nil {
		summary.Error = runErr.Error()
		log.WithError(runErr).Error("Pipeline run failed")
	} else {
		log.Infof("Pipeline run completed in %dms", summary.DurationMS)
	}

	if r.Notifier != nil {
		if err := r.Notifier.Publish(summary); err != nil {
			log.WithError(err).Warn("Failed to publish run summary")
		}
	}
	return summary, runErr
}

func (r *Runner) runStages(ctx context.Context, store *layers.Store, stages []Stage, summary *notify.RunSummary) error {
	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		if err := r.runStage(ctx, store, s, summary); err != nil {
			return fmt.Errorf("%s stage: %w", s, err)
		}
		r.logger().Debugf("Stage %s finished in %s", s, time.Since(start))
	}
	return nil
}

func (r *Runner) runStage(ctx context.Context, store *layers.Store, s Stage, summary *notify.RunSummary) error {
	switch s {
	case StageExtract:
		return r.extract(ctx, store, summary)
	case StageProcess:
		loc, err := r.Config.Location()
		if err != nil {
			return err
		}
		report, err := Process(ctx, store, Options{
			Location:  loc,
			ExportCSV: r.Config.Export.CSV,
			Now:       r.Now,
		})
		if err != nil {
			return err
		}
		summary.Members = report.Members
		summary.Events = report.Events
		summary.DroppedEvents = report.Dropped.Dropped()
		summary.Edges = report.Edges
		if summary.Repositories == 0 {
			summary.Repositories = report.Repositories
		}
		return nil
	case StageAggregate:
		_, err := Aggregate(store, r.Config.Analysis.TopN)
		return err
	case StageRegistry:
		_, err := WriteRegistry(store, r.now())
		return err
	}
	return errors.ValidationErrorf("unknown stage %q", s)
}

func (r *Runner) extract(ctx context.Context, store *layers.Store, summary *notify.RunSummary) error {
	if r.Extractor == nil {
		return errors.ConfigErrorf("extract stage requires a GitHub client")
	}
	window, err := temporal.ParseWindow(r.Config.Analysis.SinceWindow)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeValidation, errors.SeverityHigh, "invalid since_window")
	}

	res, err := r.Extractor.Extract(ctx, github.Options{
		Org:       r.Config.Org,
		SkipRepos: r.Config.GitHub.SkipRepos,
		SkipForks: r.Config.GitHub.SkipForks,
		MaxRepos:  r.Config.GitHub.MaxRepos,
		Workers:   r.Config.GitHub.Workers,
		Since:     window.Since(r.now()),
	})
	if err != nil {
		return err
	}
	if err := WriteBronze(store, r.Config.Org, res); err != nil {
		return err
	}

	summary.Repositories = len(res.RepositoriesFiltered)
	summary.Members = len(res.Members)
	summary.RepoFailures = len(res.Failures)
	return nil
}

// WriteRegistry rebuilds the master registry and data catalog from the
// files currently on disk
func WriteRegistry(store *layers.Store, now time.Time) (*registry.Master, error) {
	master, err := registry.Build(store, now)
	if err != nil {
		return nil, err
	}
	if _, err := registry.Write(store, layers.MasterRegistry, master); err != nil {
		return nil, err
	}
	if _, err := registry.Write(store, layers.DataCatalog, registry.BuildCatalog(now)); err != nil {
		return nil, err
	}
	return master, nil
}
