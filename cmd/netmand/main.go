// Command netmand runs the Netman switch management daemon, and its
// administrative CLI for inspecting open sessions.
package main

import (
	"fmt"
	"os"

	"github.com/idjaw/netman/cmd/netmand/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
