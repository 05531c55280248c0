// Command consolectl manages the console's local store and runs exports
// without starting the server.
package main

import (
	"fmt"
	"os"

	"ainews-console/internal/config"
	"ainews-console/internal/storage"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "consolectl",
	Short: "Manage the AI news console from the command line",
	Long: `consolectl works on the same local store as the console server.

Available commands:
  token  - Show, set or clear the stored admin and reader tokens
  export - Write screen exports to EXPORT_DIR`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(tokenCmd, exportCmd)
}

// openStore loads the config and the local store it points at.
func openStore() (*config.Config, storage.LocalStore, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	store, err := storage.NewFromConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open local store: %w", err)
	}
	return cfg, store, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
