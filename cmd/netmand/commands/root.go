// Package commands implements netmand's cobra command tree: "serve"
// runs the daemon, "sessions" is a small admin CLI that talks to a
// running daemon's HTTP surface over --addr with --format table/json
// output.
package commands

import (
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

var (
	serverAddr   string
	outputFormat string
	httpClient   = &http.Client{Timeout: 10 * time.Second}
)

var rootCmd = &cobra.Command{
	Use:   "netmand",
	Short: "Netman switch management daemon and admin CLI",

	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverAddr, "addr", "localhost:8443",
		"netmand HTTP address (host:port), for admin subcommands")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "table",
		"output format for admin subcommands: table, json")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(sessionsCmd())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
