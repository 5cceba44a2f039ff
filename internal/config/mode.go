package config

import (
	"os"
	"strings"
)

// DeploymentMode represents the execution context
type DeploymentMode string

const (
	// ModeInteractive is a developer shell; credential prompts are allowed
	ModeInteractive DeploymentMode = "interactive"

	// ModeCI is a pipeline or scheduled container; credentials come from
	// the environment only
	ModeCI DeploymentMode = "ci"
)

// DetectMode determines the execution context from the environment
func DetectMode() DeploymentMode {
	if mode := os.Getenv("ORGPULSE_MODE"); mode != "" {
		switch strings.ToLower(mode) {
		case "ci", "cicd", "headless":
			return ModeCI
		case "interactive", "dev", "development":
			return ModeInteractive
		}
	}

	if isCI() {
		return ModeCI
	}
	return ModeInteractive
}

// isCI detects if running in a CI/CD environment
func isCI() bool {
	ciEnvVars := []string{
		"CI",
		"CONTINUOUS_INTEGRATION",
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"CIRCLECI",
		"JENKINS_URL",
		"BUILDKITE",
		"TF_BUILD",
	}

	for _, envVar := range ciEnvVars {
		if os.Getenv(envVar) != "" {
			return true
		}
	}
	return false
}

// String returns the string representation of the mode
func (m DeploymentMode) String() string {
	return string(m)
}

// AllowsInteractivePrompts returns true if interactive prompts are allowed
func (m DeploymentMode) AllowsInteractivePrompts() bool {
	return m == ModeInteractive
}

// RequiresStrictValidation turns validation warnings about credentials
// into errors
func (m DeploymentMode) RequiresStrictValidation() bool {
	return m == ModeCI
}
