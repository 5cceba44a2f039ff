package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/rohankatakam/orgpulse/internal/temporal"
)

// ValidationContext specifies what configuration is required
type ValidationContext string

const (
	// ValidationContextExtract - extract needs an org, a token and sane fetch limits
	ValidationContextExtract ValidationContext = "extract"
	// ValidationContextProcess - process and aggregate need a data dir and timezone
	ValidationContextProcess ValidationContext = "process"
	// ValidationContextSchedule - schedule needs everything plus a cron expression
	ValidationContextSchedule ValidationContext = "schedule"
	// ValidationContextAll - validate all configuration
	ValidationContextAll ValidationContext = "all"
)

// ValidationResult holds validation results
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// AddError adds an error to the validation result
func (vr *ValidationResult) AddError(format string, args ...interface{}) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, fmt.Sprintf(format, args...))
}

// AddWarning adds a warning to the validation result
func (vr *ValidationResult) AddWarning(format string, args ...interface{}) {
	vr.Warnings = append(vr.Warnings, fmt.Sprintf(format, args...))
}

// HasErrors returns true if there are any errors
func (vr *ValidationResult) HasErrors() bool {
	return !vr.Valid || len(vr.Errors) > 0
}

// Error returns a formatted error message
func (vr *ValidationResult) Error() string {
	if !vr.HasErrors() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Configuration validation failed:\n")
	for _, err := range vr.Errors {
		sb.WriteString(fmt.Sprintf("  ❌ %s\n", err))
	}

	if len(vr.Warnings) > 0 {
		sb.WriteString("\nWarnings:\n")
		for _, warn := range vr.Warnings {
			sb.WriteString(fmt.Sprintf("  ⚠️  %s\n", warn))
		}
	}
	return sb.String()
}

// Validate validates configuration for the given context with auto-detected mode
func (c *Config) Validate(ctx ValidationContext) *ValidationResult {
	return c.ValidateWithMode(ctx, DetectMode())
}

// ValidateWithMode validates configuration for the given context and mode
func (c *Config) ValidateWithMode(ctx ValidationContext, mode DeploymentMode) *ValidationResult {
	result := &ValidationResult{Valid: true}

	switch ctx {
	case ValidationContextExtract:
		c.validateGitHub(result, mode)
		c.validateCache(result)
		c.validateDataDir(result)
	case ValidationContextProcess:
		c.validateDataDir(result)
		c.validateAnalysis(result)
	case ValidationContextSchedule, ValidationContextAll:
		c.validateGitHub(result, mode)
		c.validateCache(result)
		c.validateDataDir(result)
		c.validateAnalysis(result)
		c.validateSchedule(result, ctx == ValidationContextSchedule)
		c.validateNotify(result)
	default:
		result.AddError("unknown validation context %q", ctx)
	}

	return result
}

func (c *Config) validateGitHub(result *ValidationResult, mode DeploymentMode) {
	if strings.TrimSpace(c.Org) == "" {
		result.AddError("org is required (set org in orgpulse.yaml, GITHUB_ORG or --org)")
	}

	if c.GitHub.Token == "" {
		if mode.RequiresStrictValidation() {
			result.AddError("GITHUB_TOKEN is required in %s mode", mode)
		} else {
			result.AddWarning("GitHub token not set in config or environment; the keychain or a prompt will be tried")
		}
	}

	if c.GitHub.Workers <= 0 {
		result.AddError("github.workers must be positive, got %d", c.GitHub.Workers)
	} else if c.GitHub.Workers > 32 {
		result.AddWarning("github.workers=%d is likely to trip secondary rate limits", c.GitHub.Workers)
	}

	if c.GitHub.RateLimit <= 0 {
		result.AddWarning("github.rate_limit is %v; requests will not be throttled", c.GitHub.RateLimit)
	}
	if c.GitHub.MaxRepos < 0 {
		result.AddError("github.max_repos must not be negative")
	}

	if c.GitHub.APIURL != "" {
		if u, err := url.Parse(c.GitHub.APIURL); err != nil || u.Scheme == "" || u.Host == "" {
			result.AddError("github.api_url is invalid: %q", c.GitHub.APIURL)
		}
	}

	if _, err := temporal.ParseWindow(c.Analysis.SinceWindow); err != nil {
		result.AddError("analysis.since_window: %v", err)
	}
}

func (c *Config) validateCache(result *ValidationResult) {
	if !c.Cache.Enabled {
		return
	}
	if c.Cache.Path == "" {
		result.AddError("cache.path is required when the cache is enabled")
	}
	if c.Cache.TTL < 0 {
		result.AddError("cache.ttl must not be negative")
	}
}

func (c *Config) validateDataDir(result *ValidationResult) {
	if strings.TrimSpace(c.DataDir) == "" {
		result.AddError("data_dir is required")
	}
}

func (c *Config) validateAnalysis(result *ValidationResult) {
	if _, err := c.Location(); err != nil {
		result.AddError("analysis.timezone: %v", err)
	}
	if c.Analysis.TopN <= 0 {
		result.AddError("analysis.top_n must be positive, got %d", c.Analysis.TopN)
	}
}

func (c *Config) validateSchedule(result *ValidationResult, required bool) {
	if c.Schedule.Cron == "" {
		if required {
			result.AddError("schedule.cron is required")
		}
		return
	}
	if _, err := cron.ParseStandard(c.Schedule.Cron); err != nil {
		result.AddError("schedule.cron %q is invalid: %v", c.Schedule.Cron, err)
	}
}

func (c *Config) validateNotify(result *ValidationResult) {
	if c.Notify.NATSURL == "" {
		return
	}
	for _, server := range strings.Split(c.Notify.NATSURL, ",") {
		if u, err := url.Parse(strings.TrimSpace(server)); err != nil || u.Host == "" {
			result.AddError("notify.nats_url contains an invalid server %q", server)
		}
	}
	if c.Notify.Subject == "" {
		result.AddError("notify.subject is required when notify.nats_url is set")
	}
}
