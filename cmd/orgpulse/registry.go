package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/rohankatakam/orgpulse/internal/layers"
	"github.com/rohankatakam/orgpulse/internal/pipeline"
)

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Rebuild the master registry and data catalog",
	Long: `Scans the bronze, silver and gold directories and writes
master_registry.json and data_catalog.json at the data directory root.`,
	RunE: runRegistry,
}

func runRegistry(cmd *cobra.Command, args []string) error {
	store := layers.NewStore(cfg.DataDir)
	master, err := pipeline.WriteRegistry(store, time.Now())
	if err != nil {
		return err
	}

	fmt.Printf("Registry written to %s\n", store.Root())
	for _, layer := range layers.All {
		categories := master.Layers[layer]
		names := make([]string, 0, len(categories))
		for c := range categories {
			names = append(names, c)
		}
		sort.Strings(names)

		fmt.Printf("\n%s:\n", layer)
		if len(names) == 0 {
			fmt.Println("  (empty)")
		}
		for _, c := range names {
			fmt.Printf("  %-24s %d files\n", c, len(categories[c]))
		}
	}
	fmt.Printf("\n%d files inventoried\n", len(master.FileInventory))
	return nil
}
