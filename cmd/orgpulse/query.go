package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rohankatakam/orgpulse/internal/errors"
	"github.com/rohankatakam/orgpulse/internal/layers"
	"github.com/rohankatakam/orgpulse/internal/models"
	"github.com/rohankatakam/orgpulse/internal/temporal"
)

var (
	queryMember string
	queryWindow string
	queryType   string
	queryTZ     string
	queryJSON   bool
)

var heatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Show activity by weekday and hour",
	Long: `Buckets silver temporal events into a 7x24 weekday/hour grid.

Examples:
  # Whole organization, all time
  orgpulse heatmap

  # One member over the last six months, in their local zone
  orgpulse heatmap --member alice --window 6m --tz Europe/Berlin`,
	RunE: runHeatmap,
}

var timeseriesCmd = &cobra.Command{
	Use:   "timeseries",
	Short: "Show daily event counts",
	Long: `Counts silver temporal events per calendar date.

Examples:
  # Commits over the last 30 days
  orgpulse timeseries --type commit --window 30d`,
	RunE: runTimeseries,
}

func init() {
	for _, c := range []*cobra.Command{heatmapCmd, timeseriesCmd} {
		c.Flags().StringVar(&queryMember, "member", temporal.AllMembers, "member login, or \"all\"")
		c.Flags().StringVar(&queryWindow, "window", "all", "time window: 1d, 7d, 30d, 6m, 1y or all")
		c.Flags().StringVar(&queryType, "type", "", "event type: commit, issue or pr (default all)")
		c.Flags().StringVar(&queryTZ, "tz", "", "IANA timezone for buckets (default: analysis.timezone)")
		c.Flags().BoolVar(&queryJSON, "json", false, "print JSON")
	}
}

// queryFilter builds the temporal filter from flags and config
func queryFilter(now time.Time) (temporal.Filter, error) {
	window, err := temporal.ParseWindow(queryWindow)
	if err != nil {
		return temporal.Filter{}, errors.ValidationErrorf("%v", err)
	}
	typ, err := parseEventType(queryType)
	if err != nil {
		return temporal.Filter{}, err
	}

	if queryTZ != "" {
		cfg.Analysis.Timezone = queryTZ
	}
	loc, err := cfg.Location()
	if err != nil {
		return temporal.Filter{}, errors.ValidationErrorf("%v", err)
	}

	return temporal.Filter{
		Member:   queryMember,
		Since:    window.Since(now),
		Type:     typ,
		Location: loc,
	}, nil
}

func parseEventType(s string) (models.EventType, error) {
	switch t := models.EventType(strings.ToLower(strings.TrimSpace(s))); t {
	case "", "all":
		return "", nil
	case models.EventCommit, models.EventIssue, models.EventPR:
		return t, nil
	}
	return "", errors.ValidationErrorf("unknown event type %q (want commit, issue or pr)", s)
}

func loadEvents() ([]models.TemporalEvent, error) {
	store := layers.NewStore(cfg.DataDir)
	events, _, err := layers.ReadRecords[models.TemporalEvent](store, layers.Silver, layers.TemporalEvents)
	if err != nil {
		return nil, fmt.Errorf("%w (run 'orgpulse process' first)", err)
	}
	return events, nil
}

func runHeatmap(cmd *cobra.Command, args []string) error {
	f, err := queryFilter(time.Now())
	if err != nil {
		return err
	}
	events, err := loadEvents()
	if err != nil {
		return err
	}

	h := temporal.HeatmapFor(events, f)
	if queryJSON {
		return printJSON(h.Cells())
	}

	fmt.Printf("Activity heatmap (member: %s, window: %s, total: %d)\n\n", queryMember, queryWindow, h.Total())
	fmt.Print("     ")
	for hour := 0; hour < 24; hour++ {
		fmt.Printf("%3d", hour)
	}
	fmt.Println()
	for day := 0; day < 7; day++ {
		fmt.Printf("%-5s", time.Weekday(day).String()[:3])
		for hour := 0; hour < 24; hour++ {
			if n := h[day][hour]; n > 0 {
				fmt.Printf("%3d", n)
			} else {
				fmt.Printf("%3s", ".")
			}
		}
		fmt.Println()
	}
	if day, hour, ok := h.Busiest(); ok {
		fmt.Printf("\nBusiest: %s, %02d:00 (%d events)\n", day, hour, h[day][hour])
	}
	return nil
}

func runTimeseries(cmd *cobra.Command, args []string) error {
	f, err := queryFilter(time.Now())
	if err != nil {
		return err
	}
	events, err := loadEvents()
	if err != nil {
		return err
	}

	series := temporal.TimeSeriesFor(events, f)
	if queryJSON {
		return printJSON(series)
	}

	peak := 0
	for _, p := range series {
		if p.Count > peak {
			peak = p.Count
		}
	}
	for _, p := range series {
		bar := 0
		if peak > 0 {
			bar = p.Count * 40 / peak
		}
		fmt.Printf("%s %5d %s\n", p.Date, p.Count, strings.Repeat("█", bar))
	}
	if len(series) == 0 {
		fmt.Println("No events match the filter")
	}
	return nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
