package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rohankatakam/orgpulse/internal/collab"
	"github.com/rohankatakam/orgpulse/internal/contrib"
	"github.com/rohankatakam/orgpulse/internal/export"
	"github.com/rohankatakam/orgpulse/internal/layers"
	"github.com/rohankatakam/orgpulse/internal/logging"
	"github.com/rohankatakam/orgpulse/internal/members"
	"github.com/rohankatakam/orgpulse/internal/models"
	"github.com/rohankatakam/orgpulse/internal/normalize"
	"github.com/rohankatakam/orgpulse/internal/temporal"
)

// Options tunes silver and gold processing
type Options struct {
	ExportCSV bool
	Now       func() time.Time

	// Location overrides the zone of day and hour buckets; nil keeps each
	// timestamp's own offset
	Location *time.Location
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// ProcessReport summarizes one silver run
type ProcessReport struct {
	Members          int              `json:"members"`
	Events           int              `json:"events"`
	Dropped          normalize.Report `json:"dropped"`
	SentinelsDropped int              `json:"sentinels_dropped"`
	Contributors     int              `json:"contributors"`
	Edges            int              `json:"edges"`
	Repositories     int              `json:"repositories"`
	CycleTimes       int              `json:"cycle_times"`
}

// HeatmapDataset is the stored form of the activity heatmap
type HeatmapDataset struct {
	Timezone string                 `json:"timezone"`
	Matrix   temporal.Heatmap       `json:"matrix"`
	Cells    []temporal.HeatmapCell `json:"cells"`
	Total    int                    `json:"total"`
}

var activitySources = []string{layers.CommitsAll, layers.IssuesAll, layers.PRsAll}

// Process reads the bronze layer and writes every silver dataset. The four
// analysis families run concurrently over the same read-only events.
func Process(ctx context.Context, store *layers.Store, opts Options) (*ProcessReport, error) {
	log := logging.Component("pipeline")
	start := time.Now()

	bronze, err := layers.LoadBronze(store, opts.now())
	if err != nil {
		return nil, err
	}

	events, dropped := normalize.NormalizeWithReport(bronze.Commits, bronze.Issues, bronze.PRs)
	if dropped.Dropped() > 0 {
		log.Warn("dropped unusable records",
			"commits", dropped.DroppedCommits,
			"issues", dropped.DroppedIssues,
			"prs", dropped.DroppedPRs)
	}
	if bronze.SentinelsDropped > 0 {
		log.Warn("skipped legacy metadata rows", "rows", bronze.SentinelsDropped)
	}

	report := &ProcessReport{
		Members:          len(bronze.Members),
		Events:           len(events),
		Dropped:          dropped,
		SentinelsDropped: bronze.SentinelsDropped,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return stage(gctx, "members", func() error {
			return processMembers(store, bronze.Members)
		})
	})

	g.Go(func() error {
		return stage(gctx, "contributions", func() error {
			n, repos, err := processContributions(store, events, bronze.Members, opts.ExportCSV)
			report.Contributors, report.Repositories = n, repos
			return err
		})
	})

	g.Go(func() error {
		return stage(gctx, "collaboration", func() error {
			n, err := processCollaboration(store, events, opts.ExportCSV)
			report.Edges = n
			return err
		})
	})

	g.Go(func() error {
		return stage(gctx, "temporal", func() error {
			n, err := processTemporal(store, events, bronze, opts)
			report.CycleTimes = n
			return err
		})
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info("silver processing completed",
		"events", report.Events,
		"members", report.Members,
		"edges", report.Edges,
		"duration", time.Since(start).String())
	return report, nil
}

// stage runs fn unless ctx was cancelled by a failing sibling
func stage(ctx context.Context, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	if err := fn(); err != nil {
		return err
	}
	logging.Component("pipeline").Debug("stage done", "stage", name, "duration", time.Since(start).String())
	return nil
}

func processMembers(store *layers.Store, raw []models.RawMember) error {
	analytics := members.ClassifyAll(raw)
	if err := store.Write(layers.Silver, layers.MembersAnalytics, analytics, layers.MembersDetailed); err != nil {
		return err
	}
	if err := store.Write(layers.Silver, layers.MemberStatusDistribution, members.StatusDistribution(analytics), layers.MembersDetailed); err != nil {
		return err
	}
	bands, _ := members.Bands(analytics)
	return store.Write(layers.Silver, layers.MaturityBands, bands, layers.MembersDetailed)
}

func processContributions(store *layers.Store, events []models.TemporalEvent, raw []models.RawMember, csv bool) (int, int, error) {
	metrics := contrib.Aggregate(events, raw)
	repos := contrib.ByRepository(events)
	dist := contrib.Distribute(metrics)
	sources := append([]string{layers.MembersDetailed}, activitySources...)

	if err := store.Write(layers.Silver, layers.ContributionMetrics, metrics, sources...); err != nil {
		return 0, 0, err
	}
	if err := store.Write(layers.Silver, layers.RepositoryMetrics, repos, activitySources...); err != nil {
		return 0, 0, err
	}
	if err := store.Write(layers.Silver, layers.ContributionDistribution, dist, sources...); err != nil {
		return 0, 0, err
	}

	if csv {
		if err := export.WriteCSV(csvPath(store, layers.ContributionMetrics), &metrics); err != nil {
			return 0, 0, err
		}
		if err := export.WriteCSV(csvPath(store, layers.RepositoryMetrics), &repos); err != nil {
			return 0, 0, err
		}
	}
	return dist.Contributors, len(repos), nil
}

func processCollaboration(store *layers.Store, events []models.TemporalEvent, csv bool) (int, error) {
	net := collab.Analyze(events)

	outputs := []struct {
		name string
		data interface{}
	}{
		{layers.CollaborationEdges, net.Edges},
		{layers.UserCollaborationMetrics, net.Users},
		{layers.RepositoryCollaboration, net.Repos},
		{layers.CrossRepositoryHubs, net.Hubs},
		{layers.NetworkStatistics, net.Statistics},
	}
	for _, out := range outputs {
		if err := store.Write(layers.Silver, out.name, out.data, activitySources...); err != nil {
			return 0, err
		}
	}

	if csv {
		if err := export.WriteCSV(csvPath(store, layers.CollaborationEdges), &net.Edges); err != nil {
			return 0, err
		}
	}
	return len(net.Edges), nil
}

func processTemporal(store *layers.Store, events []models.TemporalEvent, bronze *layers.BronzeSet, opts Options) (int, error) {
	sorted := append([]models.TemporalEvent(nil), events...)
	temporal.SortByDate(sorted)
	if sorted == nil {
		sorted = []models.TemporalEvent{}
	}

	daily := temporal.DailySummary(sorted, opts.Location)
	heatmap := temporal.HeatmapFor(sorted, temporal.Filter{Location: opts.Location})
	cycles := temporal.CycleTimes(bronze.Issues, bronze.PRs)
	if cycles == nil {
		cycles = []temporal.CycleTime{}
	}
	stats := temporal.Summarize(sorted, cycles, opts.Location)
	spans := temporal.ActivitySpans(sorted, opts.Location)

	zone := "event offset"
	if opts.Location != nil {
		zone = opts.Location.String()
	}

	outputs := []struct {
		name    string
		data    interface{}
		sources []string
	}{
		{layers.TemporalEvents, sorted, activitySources},
		{layers.DailyActivitySummary, daily, []string{layers.TemporalEvents}},
		{layers.ActivityHeatmap, HeatmapDataset{Timezone: zone, Matrix: heatmap, Cells: heatmap.Cells(), Total: heatmap.Total()}, []string{layers.TemporalEvents}},
		{layers.CycleTimes, cycles, []string{layers.IssuesAll, layers.PRsAll}},
		{layers.TemporalStatistics, stats, append([]string{layers.TemporalEvents}, layers.IssuesAll, layers.PRsAll)},
		{layers.ContributorActivitySpans, spans, []string{layers.TemporalEvents}},
	}
	for _, out := range outputs {
		if err := store.Write(layers.Silver, out.name, out.data, out.sources...); err != nil {
			return 0, err
		}
	}

	if opts.ExportCSV {
		if err := export.WriteCSV(csvPath(store, layers.DailyActivitySummary), &daily); err != nil {
			return 0, err
		}
	}
	return len(cycles), nil
}

func csvPath(store *layers.Store, name string) string {
	return filepath.Join(store.Dir(layers.Silver), "csv", name+".csv")
}
