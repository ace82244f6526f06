package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cumulo-ai/cumulo-go/cli/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	Long: `Write a starter configuration file with sensible defaults.

The file is created at ~/.cumulo/config.yaml unless --config points
elsewhere. An existing file is never overwritten without --force.

Example:
  cumulo init
  cumulo init --model cumulo-large-1
  cumulo init --config ./cumulo.yaml --force`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = config.DefaultConfigPath()
	}

	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("config file %q already exists (use --force to overwrite)", path)
	}

	starter := starterConfig(model)
	if err := starter.Save(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Printf("Created config file: %s\n\n", path)
	fmt.Println("Next steps:")
	fmt.Println("  cumulo keys set default      # store your API key, or export CUMULO_API_KEY")
	fmt.Println(`  cumulo chat --prompt "Hello"`)

	return nil
}

// starterConfig builds the default configuration, taking the model from the
// --model flag when given.
func starterConfig(modelID string) *config.Config {
	if modelID == "" {
		modelID = "cumulo-large-1"
	}
	return &config.Config{
		DefaultModel:   modelID,
		TimeoutSeconds: 60,
	}
}
