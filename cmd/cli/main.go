package main

import (
	"os"

	"github.com/fleetworks/fleet-maintenance/cmd/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
