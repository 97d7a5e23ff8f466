// Package main provides the entry point for the locrecon CLI.
package main

import (
	"context"
	"os"
	"time"

	"github.com/agentstation/locrecon/cmd/locrecon/app"
	"github.com/agentstation/locrecon/internal/cmd/application"
)

// Set with -ldflags "-X main.version=..." by the release build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	cli, err := app.New(application.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
		BuiltBy: builtBy,
	})
	app.ExitOnError(err)

	// SIGINT/SIGTERM cancel ctx; serve drains in-flight requests
	ctx, cancel := app.ContextWithSignals(context.Background())
	defer cancel()

	if err := cli.Execute(ctx, os.Args[1:]); err != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if shutdownErr := cli.Shutdown(shutdownCtx); shutdownErr != nil {
			cli.Logger().Error().Err(shutdownErr).Msg("Shutdown failed")
		}
		app.ExitOnError(err)
	}
}
