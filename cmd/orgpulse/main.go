package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rohankatakam/orgpulse/internal/config"
	"github.com/rohankatakam/orgpulse/internal/logging"
)

var (
	// Version information (set by build flags)
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"

	cfgFile string
	dataDir string
	verbose bool
	logger  *logrus.Logger
	cfg     *config.Config
)

func main() {
	err := rootCmd.Execute()
	logging.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "orgpulse",
	Short: "OrgPulse - GitHub organization activity analytics",
	Long: `OrgPulse extracts a GitHub organization's repositories, members, commits,
issues and pull requests into a bronze/silver/gold data layout and derives
contribution, collaboration and temporal analytics from it.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)

		logger = logrus.New()
		if err != nil {
			logger.WithError(err).Warn("Failed to load config, using defaults")
			cfg = config.Default()
		}
		if dataDir != "" {
			cfg.DataDir = dataDir
		}

		level, lerr := logrus.ParseLevel(cfg.Log.Level)
		if lerr != nil {
			level = logrus.InfoLevel
		}
		if verbose {
			level = logrus.DebugLevel
		}
		logger.SetLevel(level)
		if cfg.Log.JSON {
			logger.SetFormatter(&logrus.JSONFormatter{})
		}

		return initComponentLogging()
	},
}

// initComponentLogging configures the slog loggers used by the internal
// processing packages
func initComponentLogging() error {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logging.INFO
	}
	if verbose {
		level = logging.DEBUG
	}

	lc := logging.ConsoleConfig(level)
	if cfg.Log.Dir != "" {
		lc = logging.DefaultConfig(cfg.Log.Dir, verbose)
		lc.Level = level
	}
	if cfg.Log.JSON {
		lc.JSONFormat = true
	}
	return logging.Initialize(lc)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./orgpulse.yaml or ~/.orgpulse/orgpulse.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.SetVersionTemplate(`OrgPulse {{.Version}}
Build time: ` + BuildTime + `
Git commit: ` + GitCommit + `
`)

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(aggregateCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(heatmapCmd)
	rootCmd.AddCommand(timeseriesCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(registryCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(configCmd)
}
