// Version command for the inventory CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Gatchang-nyawargak/inventory-rdbms/pkg/inventory"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the inventory version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("inventory", inventory.Version)
	},
}
