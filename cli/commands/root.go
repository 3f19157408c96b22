// Package commands implements the CLI command structure using Cobra.
package commands

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/loomlabs/loom/cli/config"
)

var (
	// Global flags
	cfgFile    string
	model      string
	baseURL    string
	jsonOutput bool
	verbose    bool

	// Loaded configuration
	cfg *config.Config
)

// rootCmd is the base command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "loom",
	Short: "Loom - inference endpoint CLI",
	Long: `Loom is a command-line interface for the Loom inference endpoint.

Use Loom to manage API keys and chat with models, blocking or streaming.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.loom/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "model ID (e.g. loom-1-pro)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "endpoint base URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "emit JSON output")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")
}

// initConfig loads .env, reads the config file, and applies defaults.
func initConfig() error {
	// A local .env supplies LOOM_API_KEY in development; ignore if absent.
	_ = godotenv.Load()

	path := cfgFile
	if path == "" {
		path = config.DefaultConfigPath()
	}

	var err error
	cfg, err = config.LoadConfig(path)
	if err != nil {
		return err
	}

	// Apply config defaults if flags not set
	if model == "" && cfg.DefaultModel != "" {
		model = cfg.DefaultModel
	}
	if baseURL == "" && cfg.BaseURL != "" {
		baseURL = cfg.BaseURL
	}

	return nil
}

// GetConfig returns the loaded configuration.
func GetConfig() *config.Config {
	return cfg
}

// GetModel returns the effective model ID (flag or config default).
func GetModel() string {
	return model
}

// GetBaseURL returns the effective endpoint base URL, empty for the default.
func GetBaseURL() string {
	return baseURL
}

// IsJSONOutput returns true if JSON output is enabled.
func IsJSONOutput() bool {
	return jsonOutput
}

// IsVerbose returns true if verbose output is enabled.
func IsVerbose() bool {
	return verbose
}
