// Serve command runs the HTTP inventory service.
package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/Gatchang-nyawargak/inventory-rdbms/internal/server"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP inventory service",
	Long: `Serve starts the REST API over the database: CRUD for categories
and products under /api/, plus /health. The categories and products tables
are created on startup if missing.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := flagAddr
		if addr == "" {
			addr = configListenAddr
		}
		if addr == "" {
			addr = defaultListenAddr
		}

		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		srv := server.New(db)
		if err := srv.EnsureSchema(); err != nil {
			return err
		}

		fmt.Println("inventory service listening on", addr)
		return http.ListenAndServe(addr, srv.Handler())
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (default from config.yaml, then :8080)")
}
