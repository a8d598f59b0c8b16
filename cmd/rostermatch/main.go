// Package main provides the entry point for the rostermatch CLI tool.
package main

import (
	"context"
	"os"

	"github.com/agentstation/rostermatch/cmd/rostermatch/app"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	application, err := app.New(version, commit, date, builtBy)
	if err != nil {
		app.ExitOnError(err)
	}

	// Cancelled on SIGINT/SIGTERM; an interrupted fetch then degrades like
	// any other fetch failure and the run stops before writing.
	ctx, cancel := app.ContextWithSignals(context.Background())
	defer cancel()

	if err := application.Execute(ctx, os.Args[1:]); err != nil {
		app.ExitOnError(err)
	}
}
