package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/rohankatakam/orgpulse/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage OrgPulse configuration",
	Long:  `View, initialize and validate configuration, and manage the stored GitHub token.`,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the effective configuration",
	RunE:  runConfigList,
}

var (
	initPath  string
	initForce bool
)

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to a file",
	Long: `Writes the effective configuration (defaults, config file and environment
merged) as YAML. The GitHub token is never written; use 'config set-token'.`,
	RunE: runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration for a full scheduled run",
	RunE:  runConfigValidate,
}

var configSetTokenCmd = &cobra.Command{
	Use:   "set-token [token]",
	Short: "Store the GitHub token in the OS keychain",
	Long: `Stores the GitHub token in the OS keychain, or in
~/.config/orgpulse/credentials.yaml when no keychain is available.
Without an argument the token is read from the terminal without echo.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigSetToken,
}

var configDeleteTokenCmd = &cobra.Command{
	Use:   "delete-token",
	Short: "Remove the GitHub token from the OS keychain",
	RunE:  runConfigDeleteToken,
}

func init() {
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configSetTokenCmd)
	configCmd.AddCommand(configDeleteTokenCmd)

	configInitCmd.Flags().StringVar(&initPath, "path", "orgpulse.yaml", "file to write")
	configInitCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing file")
}

func runConfigList(cmd *cobra.Command, args []string) error {
	shown := *cfg
	shown.GitHub.Token = config.MaskToken(cfg.GitHub.Token)

	out, err := yaml.Marshal(&shown)
	if err != nil {
		return err
	}
	fmt.Println("📋 OrgPulse Configuration")
	fmt.Println("═════════════════════════")
	fmt.Print(string(out))

	km := config.NewKeyringManager()
	if !km.IsAvailable() {
		fmt.Println("\n🔐 Keychain: unavailable")
		return nil
	}
	if token, err := km.GetGitHubToken(); err == nil && token != "" {
		fmt.Printf("\n🔐 Keychain token: %s\n", config.MaskToken(token))
	} else {
		fmt.Println("\n🔐 Keychain token: (not set)")
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(initPath); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", initPath)
	}
	if err := cfg.Save(initPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Printf("✅ Configuration written to %s\n", initPath)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	result := cfg.Validate(config.ValidationContextSchedule)
	if result.HasErrors() {
		return result
	}
	fmt.Println("✅ Configuration is valid")
	for _, w := range result.Warnings {
		fmt.Printf("  ⚠️  %s\n", w)
	}
	return nil
}

func runConfigSetToken(cmd *cobra.Command, args []string) error {
	var token string
	if len(args) == 1 {
		token = args[0]
	} else {
		var err error
		if token, err = readToken(); err != nil {
			return err
		}
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("empty token")
	}

	cm := config.NewCredentialManager()
	if err := cm.SaveCredentials(config.Credentials{GitHubToken: token}); err != nil {
		return err
	}
	if config.NewKeyringManager().IsAvailable() {
		fmt.Println("✅ GitHub token saved to OS keychain")
	} else {
		fmt.Printf("✅ GitHub token saved to %s\n", cm.GetConfigPath())
	}
	return nil
}

func readToken() (string, error) {
	fmt.Print("GitHub token: ")
	if term.IsTerminal(int(os.Stdin.Fd())) {
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		return string(raw), err
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return line, nil
}

func runConfigDeleteToken(cmd *cobra.Command, args []string) error {
	if err := config.NewKeyringManager().DeleteGitHubToken(); err != nil {
		return err
	}
	fmt.Println("✅ GitHub token removed from OS keychain")
	return nil
}
