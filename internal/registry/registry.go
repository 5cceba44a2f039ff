package registry

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rohankatakam/orgpulse/internal/errors"
	"github.com/rohankatakam/orgpulse/internal/layers"
)

// FileEntry is one dataset file on disk
type FileEntry struct {
	FilePath   string       `json:"file_path"`
	Layer      layers.Layer `json:"layer"`
	Category   string       `json:"category"`
	SizeBytes  int64        `json:"size_bytes"`
	ModifiedAt time.Time    `json:"modified_at"`
	RunID      string       `json:"run_id,omitempty"`
	Records    int          `json:"record_count"`
}

// Stage links the inputs of a processing stage to its outputs
type Stage struct {
	Inputs  []string `json:"inputs"`
	Outputs []string `json:"outputs"`
}

// Lineage maps stage names to their datasets
type Lineage struct {
	BronzeToSilver map[string]Stage `json:"bronze_to_silver"`
	SilverToGold   map[string]Stage `json:"silver_to_gold"`
}

// Master is the registry of every dataset in a data directory
type Master struct {
	CreatedAt     time.Time                            `json:"created_at"`
	Layers        map[layers.Layer]map[string][]string `json:"layers"`
	DataLineage   Lineage                              `json:"data_lineage"`
	FileInventory []FileEntry                          `json:"file_inventory"`
}

// BronzeCategory files a bronze dataset under the entity it holds
func BronzeCategory(name string) string {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "repo"):
		return "repositories"
	case strings.Contains(n, "member"):
		return "members"
	case strings.Contains(n, "issue") && !strings.Contains(n, "event"):
		return "issues"
	case strings.HasPrefix(n, "pr") || strings.Contains(n, "pull"):
		return "prs"
	case strings.Contains(n, "commit"):
		return "commits"
	case strings.Contains(n, "event"):
		return "events"
	}
	return "raw"
}

// SilverCategory files a silver dataset under its analysis family
func SilverCategory(name string) string {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "member") || strings.Contains(n, "maturity"):
		return "member_analytics"
	case strings.Contains(n, "contribution") || strings.Contains(n, "repository_metrics"):
		return "contribution_metrics"
	case strings.Contains(n, "collaboration") || strings.Contains(n, "network") || strings.Contains(n, "hubs"):
		return "collaboration_networks"
	case strings.Contains(n, "temporal") || strings.Contains(n, "cycle") || strings.Contains(n, "activity"):
		return "temporal_analysis"
	}
	return "summary_statistics"
}

// GoldCategory files a gold dataset
func GoldCategory(name string) string {
	if strings.Contains(strings.ToLower(name), "tier") {
		return "performance"
	}
	return "executive"
}

func categoryOf(layer layers.Layer, name string) string {
	switch layer {
	case layers.Bronze:
		return BronzeCategory(name)
	case layers.Silver:
		return SilverCategory(name)
	}
	return GoldCategory(name)
}

// Build scans every layer directory of the store. Paths in the registry are
// relative to the data directory.
func Build(store *layers.Store, now time.Time) (*Master, error) {
	m := &Master{
		CreatedAt:     now.UTC(),
		Layers:        make(map[layers.Layer]map[string][]string),
		DataLineage:   BuildLineage(),
		FileInventory: []FileEntry{},
	}

	for _, layer := range layers.All {
		categories := make(map[string][]string)
		m.Layers[layer] = categories

		dir := store.Dir(layer)
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if os.IsNotExist(err) && path == dir {
					return filepath.SkipDir
				}
				return err
			}
			if d.IsDir() || filepath.Ext(path) != ".json" {
				return nil
			}

			info, err := d.Info()
			if err != nil {
				return err
			}
			rel, err := filepath.Rel(store.Root(), path)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)
			name := strings.TrimSuffix(d.Name(), ".json")
			category := categoryOf(layer, name)

			entry := FileEntry{
				FilePath:   rel,
				Layer:      layer,
				Category:   category,
				SizeBytes:  info.Size(),
				ModifiedAt: info.ModTime().UTC(),
			}
			if meta, err := store.ReadMetadata(layer, name); err == nil && meta != nil {
				entry.RunID = meta.RunID
				entry.Records = meta.RecordCount
			}

			categories[category] = append(categories[category], rel)
			m.FileInventory = append(m.FileInventory, entry)
			return nil
		})
		if err != nil {
			return nil, errors.FileSystemErrorf(err, "failed to scan %s", dir)
		}
	}

	for _, categories := range m.Layers {
		for _, files := range categories {
			sort.Strings(files)
		}
	}
	sort.Slice(m.FileInventory, func(i, j int) bool {
		return m.FileInventory[i].FilePath < m.FileInventory[j].FilePath
	})
	return m, nil
}

func bronzePath(name string) string { return "bronze/" + name + ".json" }
func silverPath(name string) string { return "silver/" + name + ".json" }
func goldPath(name string) string   { return "gold/" + name + ".json" }

// BuildLineage describes which datasets each stage reads and writes
func BuildLineage() Lineage {
	activity := []string{
		bronzePath(layers.IssuesAll),
		bronzePath(layers.PRsAll),
		bronzePath(layers.CommitsAll),
	}

	return Lineage{
		BronzeToSilver: map[string]Stage{
			"members_analytics": {
				Inputs: []string{bronzePath(layers.MembersDetailed)},
				Outputs: []string{
					silverPath(layers.MembersAnalytics),
					silverPath(layers.MemberStatusDistribution),
					silverPath(layers.MaturityBands),
				},
			},
			"contribution_metrics": {
				Inputs: append([]string{bronzePath(layers.MembersDetailed)}, activity...),
				Outputs: []string{
					silverPath(layers.ContributionMetrics),
					silverPath(layers.RepositoryMetrics),
					silverPath(layers.ContributionDistribution),
				},
			},
			"collaboration_networks": {
				Inputs: activity,
				Outputs: []string{
					silverPath(layers.CollaborationEdges),
					silverPath(layers.UserCollaborationMetrics),
					silverPath(layers.RepositoryCollaboration),
					silverPath(layers.CrossRepositoryHubs),
					silverPath(layers.NetworkStatistics),
				},
			},
			"temporal_analysis": {
				Inputs: activity,
				Outputs: []string{
					silverPath(layers.TemporalEvents),
					silverPath(layers.DailyActivitySummary),
					silverPath(layers.ActivityHeatmap),
					silverPath(layers.CycleTimes),
					silverPath(layers.TemporalStatistics),
					silverPath(layers.ContributorActivitySpans),
				},
			},
		},
		SilverToGold: map[string]Stage{
			"executive_dashboard": {
				Inputs: []string{
					silverPath(layers.MembersAnalytics),
					silverPath(layers.ContributionMetrics),
					silverPath(layers.NetworkStatistics),
					silverPath(layers.TemporalStatistics),
				},
				Outputs: []string{goldPath(layers.ExecutiveDashboard)},
			},
			"performance_tiers": {
				Inputs:  []string{silverPath(layers.ContributionMetrics)},
				Outputs: []string{goldPath(layers.PerformanceTiers)},
			},
		},
	}
}

// Write stores v as indented JSON at the data directory root
func Write(store *layers.Store, name string, v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", errors.InternalErrorf("failed to marshal %s: %v", name, err)
	}
	path := filepath.Join(store.Root(), name+".json")
	if err := os.MkdirAll(store.Root(), 0755); err != nil {
		return "", errors.FileSystemErrorf(err, "failed to create %s", store.Root())
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", errors.FileSystemErrorf(err, "failed to write %s", path)
	}
	return path, nil
}
