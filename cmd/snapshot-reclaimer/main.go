package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/raoulx24/snapshot-reclaimer/cmd/snapshot-reclaimer/commands"
)

// Build-time variables injected via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.Version = version
	commands.Commit = commit
	commands.Date = date

	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var ee *commands.ExitError
		if errors.As(err, &ee) {
			os.Exit(ee.Code)
		}
		os.Exit(commands.ExitRuntimeError)
	}
}
