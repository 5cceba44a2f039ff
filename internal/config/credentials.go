package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/rohankatakam/orgpulse/internal/errors"
)

// CredentialManager handles credential retrieval with priority chain
// Priority: Environment Variables → Keychain → Credentials File → Interactive Prompt
type CredentialManager struct {
	mode       DeploymentMode
	keyring    *KeyringManager
	configPath string
}

// Credentials is the on-disk credentials file
type Credentials struct {
	GitHubToken string `yaml:"github_token"`
}

// NewCredentialManager creates a new credential manager
func NewCredentialManager() *CredentialManager {
	homeDir, _ := os.UserHomeDir()
	return &CredentialManager{
		mode:       DetectMode(),
		keyring:    NewKeyringManager(),
		configPath: filepath.Join(homeDir, ".config", "orgpulse", "credentials.yaml"),
	}
}

// GitHubTokenSource names where a token was found
type GitHubTokenSource string

const (
	SourceEnv     GitHubTokenSource = "env"
	SourceKeyring GitHubTokenSource = "keychain"
	SourceFile    GitHubTokenSource = "file"
	SourcePrompt  GitHubTokenSource = "prompt"
	SourceNone    GitHubTokenSource = "none"
)

// GetGitHubToken retrieves the GitHub token using the priority chain.
// Extraction cannot run anonymously against an organization, so a missing
// token is a configuration error.
func (cm *CredentialManager) GetGitHubToken() (string, GitHubTokenSource, error) {
	for _, envVar := range []string{"GITHUB_TOKEN", "GH_TOKEN"} {
		if token := os.Getenv(envVar); token != "" {
			return token, SourceEnv, nil
		}
	}

	if cm.keyring.IsAvailable() {
		if token, err := cm.keyring.GetGitHubToken(); err == nil && token != "" {
			return token, SourceKeyring, nil
		}
	}

	if creds, err := cm.loadConfigFile(); err == nil && creds.GitHubToken != "" {
		return creds.GitHubToken, SourceFile, nil
	}

	if cm.mode.AllowsInteractivePrompts() && isInteractive() {
		fmt.Println("\nGitHub token not found.")
		fmt.Println("   Needs read:org and repo scopes: https://github.com/settings/tokens")
		fmt.Print("Enter GitHub token: ")

		token, err := cm.readSecurely()
		if err != nil {
			return "", SourceNone, errors.Wrap(err, errors.ErrorTypeConfig, errors.SeverityCritical, "failed to read token")
		}
		if token != "" {
			if err := cm.SaveCredentials(Credentials{GitHubToken: token}); err == nil {
				fmt.Println("✓ Token saved")
			}
			return token, SourcePrompt, nil
		}
	}

	return "", SourceNone, errors.ConfigErrorf(
		"GitHub token not found. Set it via:\n"+
			"  1. Environment variable: export GITHUB_TOKEN=ghp_...\n"+
			"  2. Run: orgpulse config set-token\n"+
			"  3. Credentials file: %s", cm.configPath)
}

// SaveCredentials saves credentials to keychain (preferred) or the
// credentials file (fallback)
func (cm *CredentialManager) SaveCredentials(creds Credentials) error {
	if cm.keyring.IsAvailable() && creds.GitHubToken != "" {
		if err := cm.keyring.SetGitHubToken(creds.GitHubToken); err != nil {
			return errors.Wrap(err, errors.ErrorTypeConfig, errors.SeverityHigh,
				"failed to save GitHub token to keychain")
		}
		return nil
	}
	return cm.saveConfigFile(creds)
}

// loadConfigFile loads credentials from the credentials file
func (cm *CredentialManager) loadConfigFile() (*Credentials, error) {
	data, err := os.ReadFile(cm.configPath)
	if err != nil {
		return nil, err
	}

	var creds Credentials
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// saveConfigFile writes the credentials file, readable by the user only
func (cm *CredentialManager) saveConfigFile(creds Credentials) error {
	if err := os.MkdirAll(filepath.Dir(cm.configPath), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(creds)
	if err != nil {
		return err
	}
	return os.WriteFile(cm.configPath, data, 0600)
}

// readSecurely reads a token from stdin without echoing
func (cm *CredentialManager) readSecurely() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		bytes, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(bytes)), nil
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// isInteractive returns true if stdin is a terminal (not piped)
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// GetMode returns the current deployment mode
func (cm *CredentialManager) GetMode() DeploymentMode {
	return cm.mode
}

// GetConfigPath returns the path to the credentials file
func (cm *CredentialManager) GetConfigPath() string {
	return cm.configPath
}
