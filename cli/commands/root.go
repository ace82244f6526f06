// Package commands implements the CLI command structure using Cobra.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/cumulo-ai/cumulo-go/cli/config"
)

var (
	// Global flags
	cfgFile    string
	model      string
	jsonOutput bool
	verbose    bool

	// Loaded configuration
	cfg *config.Config
)

// rootCmd is the base command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "cumulo",
	Short: "Cumulo - inference and compute platform CLI",
	Long: `Cumulo is the command-line interface for the Cumulo platform.

Use it to manage API keys, chat with hosted models, and inspect your
account's resources.`,
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
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.cumulo/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "model ID (e.g. cumulo-large-1)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "emit JSON output")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")
}

// initConfig reads the config file and applies its defaults to unset flags.
func initConfig() error {
	path := cfgFile
	if path == "" {
		path = config.DefaultConfigPath()
	}

	var err error
	cfg, err = config.LoadConfig(path)
	if err != nil {
		return err
	}

	if model == "" && cfg.DefaultModel != "" {
		model = cfg.DefaultModel
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

// IsJSONOutput returns true if JSON output is enabled.
func IsJSONOutput() bool {
	return jsonOutput
}

// IsVerbose returns true if verbose output is enabled.
func IsVerbose() bool {
	return verbose
}
