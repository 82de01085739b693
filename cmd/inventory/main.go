// Package main provides the inventory CLI: an interactive shell, a
// one-shot statement runner, and the HTTP inventory service, all over the
// same embedded database engine.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Gatchang-nyawargak/inventory-rdbms/pkg/types"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "inventory:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode classifies an error: statement-level problems are user errors,
// anything touching the environment is a system error.
func exitCode(err error) int {
	switch {
	case errors.Is(err, types.ErrSyntax),
		errors.Is(err, types.ErrSchema),
		errors.Is(err, types.ErrConstraint),
		errors.Is(err, types.ErrTypeMismatch):
		return exitUserError
	default:
		return exitSysError
	}
}
