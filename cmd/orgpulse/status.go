package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rohankatakam/orgpulse/internal/cache"
	"github.com/rohankatakam/orgpulse/internal/layers"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show data layer and cache status",
	Long:  `Display the current configuration, every dataset in the bronze, silver and gold layers, and response cache usage.`,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Printf("📊 OrgPulse Status\n")
	fmt.Printf("%s\n", strings.Repeat("═", 60))

	fmt.Printf("\n📋 Configuration:\n")
	org := cfg.Org
	if org == "" {
		org = "(not set)"
	}
	fmt.Printf("  Organization: %s\n", org)
	fmt.Printf("  Data directory: %s\n", cfg.DataDir)
	tz := cfg.Analysis.Timezone
	if tz == "" {
		tz = "event offset"
	}
	fmt.Printf("  Timezone: %s\n", tz)
	fmt.Printf("  Schedule: %s\n", cfg.Schedule.Cron)

	store := layers.NewStore(cfg.DataDir)
	for _, layer := range layers.All {
		printLayer(store, layer)
	}

	fmt.Printf("\n💾 Response Cache:\n")
	if !cfg.Cache.Enabled {
		fmt.Printf("  Status: disabled\n")
		return nil
	}
	if _, err := os.Stat(cfg.Cache.Path); err != nil {
		fmt.Printf("  Status: ❌ Not created yet (%s)\n", cfg.Cache.Path)
		return nil
	}
	m, err := cache.NewManager(cfg.Cache.Path, cfg.Cache.TTL, logger)
	if err != nil {
		fmt.Printf("  Status: ❌ Cannot open (%v)\n", err)
		return nil
	}
	defer m.Close()

	stats, err := m.Stats()
	if err != nil {
		fmt.Printf("  Status: ❌ Cannot read (%v)\n", err)
		return nil
	}
	fmt.Printf("  Path: %s\n", stats.Path)
	fmt.Printf("  Size: %s\n", humanize.Bytes(uint64(stats.Size)))
	fmt.Printf("  Entries: %s (%s expired)\n", humanize.Comma(int64(stats.Entries)), humanize.Comma(int64(stats.Expired)))
	fmt.Printf("  TTL: %s\n", cfg.Cache.TTL)
	return nil
}

func printLayer(store *layers.Store, layer layers.Layer) {
	name := string(layer)
	fmt.Printf("\n🗂  %s layer:\n", strings.ToUpper(name[:1])+name[1:])

	matches, _ := filepath.Glob(filepath.Join(store.Dir(layer), "*.json"))
	if len(matches) == 0 {
		fmt.Printf("  (empty)\n")
		return
	}
	sort.Strings(matches)

	var total uint64
	for _, path := range matches {
		name := strings.TrimSuffix(filepath.Base(path), ".json")
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		total += uint64(info.Size())

		records := "-"
		if meta, err := store.ReadMetadata(layer, name); err == nil && meta != nil {
			records = humanize.Comma(int64(meta.RecordCount))
		}
		fmt.Printf("  %-36s %10s %9s  %s\n", name, records, humanize.Bytes(uint64(info.Size())), humanize.Time(info.ModTime()))
	}
	fmt.Printf("  %d datasets, %s\n", len(matches), humanize.Bytes(total))
}
