package main

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/rohankatakam/orgpulse/internal/config"
	"github.com/rohankatakam/orgpulse/internal/pipeline"
)

var (
	scheduleTimeout time.Duration
	scheduleOnce    bool
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the full pipeline on a cron schedule",
	Long: `Schedule runs extract, process, aggregate and registry whenever the
configured cron expression fires, publishing each run summary to NATS when
notify.nats_url is set. A run still in progress when the next tick fires
causes that tick to be skipped.

Examples:
  # Nightly at 02:00 (default schedule.cron)
  orgpulse schedule

  # Every six hours, with an immediate first run
  ORGPULSE_SCHEDULE_CRON="0 */6 * * *" orgpulse schedule --run-now`,
	RunE: runSchedule,
}

func init() {
	scheduleCmd.Flags().DurationVar(&scheduleTimeout, "timeout", 30*time.Minute, "maximum duration of one run")
	scheduleCmd.Flags().BoolVar(&scheduleOnce, "run-now", false, "run once at startup (same as schedule.run_on_startup)")
}

// pipelineJob wraps run so that the startup run and every cron tick share
// one guard: a tick that fires while a run is in progress is skipped.
func pipelineJob(run func()) cron.Job {
	return cron.NewChain(cron.SkipIfStillRunning(cron.PrintfLogger(logger))).Then(cron.FuncJob(run))
}

func runSchedule(cmd *cobra.Command, args []string) error {
	if err := resolveToken(); err != nil {
		return err
	}
	result := cfg.Validate(config.ValidationContextSchedule)
	for _, w := range result.Warnings {
		logger.Warn(w)
	}
	if result.HasErrors() {
		return result
	}

	runner, cleanup, err := newRunner(true, cfg.Notify.NATSURL != "")
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := signalContext()
	defer cancel()

	job := pipelineJob(func() {
		runCtx, runCancel := context.WithTimeout(ctx, scheduleTimeout)
		defer runCancel()
		if _, err := runner.Run(runCtx, pipeline.AllStages...); err != nil {
			logger.WithError(err).Error("Scheduled run failed")
		}
	})

	c := cron.New()
	if _, err := c.AddJob(cfg.Schedule.Cron, job); err != nil {
		return err
	}
	c.Start()
	logger.Infof("Scheduler started with cron %q for org %s", cfg.Schedule.Cron, cfg.Org)

	if cfg.Schedule.RunOnStartup || scheduleOnce {
		logger.Info("Running pipeline on startup")
		job.Run()
	}

	<-ctx.Done()
	logger.Info("Shutting down scheduler")
	<-c.Stop().Done()
	return nil
}
