// Root command for the inventory CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/Gatchang-nyawargak/inventory-rdbms/internal/paths"
	"github.com/Gatchang-nyawargak/inventory-rdbms/pkg/engine"
	"github.com/Gatchang-nyawargak/inventory-rdbms/pkg/inventory"
)

// Exit codes: 0 success, 1 user error, 2 system error.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
)

// Values loaded from config.yaml by PersistentPreRunE so all subcommands
// can use them.
var (
	configDataDir    string
	configListenAddr string
)

var rootCmd = &cobra.Command{
	Use:     "inventory",
	Short:   "Inventory is a small relational database with an inventory API",
	Version: inventory.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}

		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}

		configDataDir = cfg.GetString(cfgKeyDataDir)
		configListenAddr = cfg.GetString(cfgKeyListenAddr)
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $(CWD)/.inventory-db)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(serveCmd)
}

// resolveDataDir follows the precedence chain:
// --data-dir flag > config.yaml data_dir > INVENTORY_DATA_DIR env > default.
func resolveDataDir() (string, error) {
	return paths.ResolveDataDir(flagDataDir, configDataDir)
}

// resolveConfigDir follows the precedence chain:
// --config-dir flag > INVENTORY_CONFIG_DIR env > platform default.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}

// openDatabase opens the database at the resolved data directory. The
// caller must Close it.
func openDatabase() (*engine.Database, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, err
	}
	return engine.Open(dataDir)
}
