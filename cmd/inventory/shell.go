// Shell command provides the interactive query loop.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

const shellHelp = `Statements:
  CREATE TABLE name (col TYPE [PRIMARY KEY|UNIQUE|NOT NULL], ...)
  INSERT INTO name [(cols)] VALUES (...)
  SELECT cols|* FROM name [JOIN other ON a = b] [WHERE col OP literal]
  UPDATE name SET col = value [, ...] [WHERE ...]
  DELETE FROM name [WHERE ...]
  SHOW TABLES
  DESCRIBE name

Shell commands:
  help        show this help
  exit, quit  leave the shell`

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive query shell",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		in := bufio.NewScanner(cmd.InOrStdin())
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "inventory shell. Type 'help' for help, 'exit' to leave.")
		for {
			fmt.Fprint(out, "inventory> ")
			if !in.Scan() {
				fmt.Fprintln(out)
				return in.Err()
			}
			line := strings.TrimSpace(in.Text())

			// Pseudo-commands never reach the parser.
			switch strings.ToLower(line) {
			case "":
				continue
			case "exit", "quit":
				return nil
			case "help":
				fmt.Fprintln(out, shellHelp)
				continue
			}

			rs, err := db.Execute(line)
			if err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
				continue
			}
			if err := renderResult(out, rs, flagJSON); err != nil {
				return err
			}
		}
	},
}
