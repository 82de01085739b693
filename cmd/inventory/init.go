// Init command for the inventory CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize inventory storage",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return fmt.Errorf("init: %w", err)
		}
		if err := ensureConfigDir(configDir); err != nil {
			return fmt.Errorf("init: %w", err)
		}
		if err := ensureDefaultConfigFile(configDir); err != nil {
			return fmt.Errorf("init: %w", err)
		}

		// Opening creates the data directory.
		db, err := openDatabase()
		if err != nil {
			return fmt.Errorf("init: %w", err)
		}
		defer db.Close()

		dataDir, err := resolveDataDir()
		if err != nil {
			return fmt.Errorf("init: %w", err)
		}

		fmt.Println("Inventory initialized successfully")
		fmt.Println("  config:", configDir)
		fmt.Println("  data:  ", dataDir)
		return nil
	},
}
