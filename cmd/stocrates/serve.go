package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TobiSchelling/stocrates/internal/server"
)

var (
	servePort    int
	serveExplain bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web server and JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		// The manager lives as long as the server so cooldowns carry across requests.
		m := newManager()
		agg := newAggregator(m, serveExplain)

		fmt.Printf("Starting server at http://localhost:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(db, agg, m, port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8000, "Port to run server on")
	serveCmd.Flags().BoolVar(&serveExplain, "explain", false, "Enable LLM commentary for ?explain=true requests")
}
