package config

import (
	"fmt"
	"log/slog"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService is the service name in the OS keychain
	KeyringService = "orgpulse"

	// KeyringGitHubTokenItem is the key for GitHub token
	KeyringGitHubTokenItem = "github-token"
)

// KeyringManager handles secure credential storage in OS keychain
type KeyringManager struct {
	logger *slog.Logger
}

// NewKeyringManager creates a new keyring manager
func NewKeyringManager() *KeyringManager {
	return &KeyringManager{
		logger: slog.Default().With("component", "keyring"),
	}
}

// GetGitHubToken retrieves GitHub token from OS keychain. A missing entry
// returns an empty token and no error.
func (km *KeyringManager) GetGitHubToken() (string, error) {
	token, err := keyring.Get(KeyringService, KeyringGitHubTokenItem)
	if err == keyring.ErrNotFound {
		return "", nil
	}
	if err != nil {
		km.logger.Error("failed to get GitHub token from keychain", "error", err)
		return "", fmt.Errorf("failed to read from OS keychain: %w", err)
	}

	km.logger.Debug("github token retrieved from keychain")
	return token, nil
}

// SetGitHubToken stores GitHub token securely in OS keychain
func (km *KeyringManager) SetGitHubToken(token string) error {
	if token == "" {
		return fmt.Errorf("github token cannot be empty")
	}

	err := keyring.Set(KeyringService, KeyringGitHubTokenItem, token)
	if err != nil {
		km.logger.Error("failed to save GitHub token to keychain", "error", err)
		return fmt.Errorf("failed to save to OS keychain: %w", err)
	}

	km.logger.Info("github token saved to keychain", "service", KeyringService)
	return nil
}

// DeleteGitHubToken removes GitHub token from OS keychain
func (km *KeyringManager) DeleteGitHubToken() error {
	err := keyring.Delete(KeyringService, KeyringGitHubTokenItem)
	if err == keyring.ErrNotFound {
		return nil
	}
	if err != nil {
		km.logger.Error("failed to delete GitHub token from keychain", "error", err)
		return fmt.Errorf("failed to delete from OS keychain: %w", err)
	}

	km.logger.Info("github token deleted from keychain")
	return nil
}

// IsAvailable checks if OS keychain is available.
// Returns false on headless systems where no secret service runs.
func (km *KeyringManager) IsAvailable() bool {
	_, err := keyring.Get(KeyringService, "test-availability")
	if err == nil || err == keyring.ErrNotFound {
		return true
	}
	km.logger.Debug("keychain not available", "error", err)
	return false
}

// MaskToken masks a token for display: first 4 and last 4 characters
func MaskToken(token string) string {
	if token == "" {
		return "(not set)"
	}
	if len(token) < 12 {
		return "***"
	}
	return fmt.Sprintf("%s...%s", token[:4], token[len(token)-4:])
}
