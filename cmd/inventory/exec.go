// Exec command runs a single statement against the database.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var execCmd = &cobra.Command{
	Use:   "exec <statement>",
	Short: "Execute one statement and print the result",
	Long: `Exec runs a single statement against the database and prints the
result set, or the affected row count for write statements.

Example:
  inventory exec "CREATE TABLE items (id INT PRIMARY KEY, name VARCHAR(50))"
  inventory exec "INSERT INTO items VALUES (1, 'widget')"
  inventory exec --json "SELECT * FROM items"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		rs, err := db.Execute(args[0])
		if err != nil {
			return err
		}
		return renderResult(os.Stdout, rs, flagJSON)
	},
}
