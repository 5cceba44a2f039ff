package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration settings
type Config struct {
	// Organization to analyze
	Org string `mapstructure:"org" yaml:"org"`

	// Root of the bronze/silver/gold layout
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`

	GitHub   GitHubConfig   `mapstructure:"github" yaml:"github"`
	Cache    CacheConfig    `mapstructure:"cache" yaml:"cache"`
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`
	Schedule ScheduleConfig `mapstructure:"schedule" yaml:"schedule"`
	Notify   NotifyConfig   `mapstructure:"notify" yaml:"notify"`
	Export   ExportConfig   `mapstructure:"export" yaml:"export"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

type GitHubConfig struct {
	Token     string   `mapstructure:"token" yaml:"token,omitempty"`
	APIURL    string   `mapstructure:"api_url" yaml:"api_url,omitempty"` // empty = api.github.com
	RateLimit float64  `mapstructure:"rate_limit" yaml:"rate_limit"`     // requests per second
	Workers   int      `mapstructure:"workers" yaml:"workers"`
	SkipRepos []string `mapstructure:"skip_repos" yaml:"skip_repos"`
	SkipForks bool     `mapstructure:"skip_forks" yaml:"skip_forks"`
	MaxRepos  int      `mapstructure:"max_repos" yaml:"max_repos"` // 0 = all
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled" yaml:"enabled"`
	Path    string        `mapstructure:"path" yaml:"path"`
	TTL     time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

type AnalysisConfig struct {
	// IANA zone for heatmap and daily buckets; empty keeps each timestamp's offset
	Timezone    string `mapstructure:"timezone" yaml:"timezone"`
	TopN        int    `mapstructure:"top_n" yaml:"top_n"`
	SinceWindow string `mapstructure:"since_window" yaml:"since_window"` // commit history window for extraction
}

type ScheduleConfig struct {
	Cron         string `mapstructure:"cron" yaml:"cron"`
	RunOnStartup bool   `mapstructure:"run_on_startup" yaml:"run_on_startup"`
}

type NotifyConfig struct {
	NATSURL string `mapstructure:"nats_url" yaml:"nats_url"`
	Subject string `mapstructure:"subject" yaml:"subject"`
}

type ExportConfig struct {
	CSV bool `mapstructure:"csv" yaml:"csv"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	Dir   string `mapstructure:"dir" yaml:"dir"`
	JSON  bool   `mapstructure:"json" yaml:"json"`
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		DataDir: "data",
		GitHub: GitHubConfig{
			RateLimit: 1.2, // stays under 5,000 requests/hour
			Workers:   4,
			SkipForks: true,
		},
		Cache: CacheConfig{
			Path: filepath.Join(".orgpulse", "cache.db"),
			TTL:  6 * time.Hour,
		},
		Analysis: AnalysisConfig{
			TopN:        10,
			SinceWindow: "all",
		},
		Schedule: ScheduleConfig{
			Cron: "0 2 * * *",
		},
		Notify: NotifyConfig{
			Subject: "orgpulse.runs",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// setDefaults registers every leaf key so viper can resolve env overrides
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("org", cfg.Org)
	v.SetDefault("data_dir", cfg.DataDir)

	v.SetDefault("github.token", cfg.GitHub.Token)
	v.SetDefault("github.api_url", cfg.GitHub.APIURL)
	v.SetDefault("github.rate_limit", cfg.GitHub.RateLimit)
	v.SetDefault("github.workers", cfg.GitHub.Workers)
	v.SetDefault("github.skip_repos", cfg.GitHub.SkipRepos)
	v.SetDefault("github.skip_forks", cfg.GitHub.SkipForks)
	v.SetDefault("github.max_repos", cfg.GitHub.MaxRepos)

	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.path", cfg.Cache.Path)
	v.SetDefault("cache.ttl", cfg.Cache.TTL)

	v.SetDefault("analysis.timezone", cfg.Analysis.Timezone)
	v.SetDefault("analysis.top_n", cfg.Analysis.TopN)
	v.SetDefault("analysis.since_window", cfg.Analysis.SinceWindow)

	v.SetDefault("schedule.cron", cfg.Schedule.Cron)
	v.SetDefault("schedule.run_on_startup", cfg.Schedule.RunOnStartup)

	v.SetDefault("notify.nats_url", cfg.Notify.NATSURL)
	v.SetDefault("notify.subject", cfg.Notify.Subject)

	v.SetDefault("export.csv", cfg.Export.CSV)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.dir", cfg.Log.Dir)
	v.SetDefault("log.json", cfg.Log.JSON)
}

// Load loads configuration from path, or from orgpulse.yaml in the working
// directory or ~/.orgpulse when path is empty. A missing file is not an error.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	cfg := Default()
	setDefaults(v, cfg)

	// ORGPULSE_GITHUB_WORKERS -> github.workers
	v.SetEnvPrefix("ORGPULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("orgpulse")
		v.AddConfigPath(".")
		homeDir, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(homeDir, ".orgpulse"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(cfg)
	cfg.DataDir = expandPath(cfg.DataDir)
	cfg.Cache.Path = expandPath(cfg.Cache.Path)
	cfg.Log.Dir = expandPath(cfg.Log.Dir)

	return cfg, nil
}

// loadEnvFiles loads .env files in order of precedence. godotenv never
// overrides a variable that is already set.
func loadEnvFiles() {
	for _, file := range []string{".env.local", ".env"} {
		if _, err := os.Stat(file); err == nil {
			_ = godotenv.Load(file)
		}
	}

	homeDir, _ := os.UserHomeDir()
	homeEnvFile := filepath.Join(homeDir, ".orgpulse", ".env")
	if _, err := os.Stat(homeEnvFile); err == nil {
		_ = godotenv.Load(homeEnvFile)
	}
}

// applyEnvOverrides applies the conventional unprefixed variables
func applyEnvOverrides(cfg *Config) {
	if org := os.Getenv("GITHUB_ORG"); org != "" {
		cfg.Org = org
	}
	for _, envVar := range []string{"GITHUB_TOKEN", "GH_TOKEN"} {
		if token := os.Getenv(envVar); token != "" {
			cfg.GitHub.Token = token
			break
		}
	}
	if rateLimit := os.Getenv("GITHUB_RATE_LIMIT"); rateLimit != "" {
		if rate, err := strconv.ParseFloat(rateLimit, 64); err == nil {
			cfg.GitHub.RateLimit = rate
		}
	}
	if skip := os.Getenv("GITHUB_SKIP_REPOS"); skip != "" {
		cfg.GitHub.SkipRepos = splitList(skip)
	}
	if url := os.Getenv("GITHUB_API_URL"); url != "" {
		cfg.GitHub.APIURL = url
	}

	if url := os.Getenv("NATS_URL"); url != "" {
		cfg.Notify.NATSURL = url
	}
	if subject := os.Getenv("NATS_SUBJECT"); subject != "" {
		cfg.Notify.Subject = subject
	}
	if schedule := os.Getenv("CRON_SCHEDULE"); schedule != "" {
		cfg.Schedule.Cron = schedule
	}
}

// splitList splits a comma-separated value, dropping blanks
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}

// Location resolves Analysis.Timezone. Nil means each timestamp keeps its
// own offset.
func (c *Config) Location() (*time.Location, error) {
	if c.Analysis.Timezone == "" {
		return nil, nil
	}
	loc, err := time.LoadLocation(c.Analysis.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Analysis.Timezone, err)
	}
	return loc, nil
}

// Save writes the configuration as YAML. The token is never written; it
// belongs in the keychain or the environment.
func (c *Config) Save(path string) error {
	v := viper.New()
	v.SetConfigType("yaml")

	github := c.GitHub
	github.Token = ""

	v.Set("org", c.Org)
	v.Set("data_dir", c.DataDir)
	v.Set("github", github)
	v.Set("cache", c.Cache)
	v.Set("analysis", c.Analysis)
	v.Set("schedule", c.Schedule)
	v.Set("notify", c.Notify)
	v.Set("export", c.Export)
	v.Set("log", c.Log)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
