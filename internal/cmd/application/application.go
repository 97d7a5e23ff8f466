// Package application defines what locrecon commands need from the running
// CLI. Commands take an Application rather than the concrete app, so they
// can run against Mock in tests.
package application

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/agentstation/locrecon/internal/server"
	"github.com/agentstation/locrecon/pkg/reconcile"
)

// Application is implemented by the CLI app. Methods are safe for
// concurrent use.
type Application interface {
	// Reconciler returns the reconciliation service, built from the loaded
	// configuration on first use.
	Reconciler() (reconcile.Reconciler, error)

	// ServerConfig returns the HTTP server settings from defaults, config
	// file and environment. Command flags are applied on top by serve.
	ServerConfig() server.Config

	Logger() *zerolog.Logger

	// OutputFormat returns the --format value; empty means auto-detect.
	OutputFormat() string

	Build() BuildInfo
}

// BuildInfo identifies the binary, as stamped by the release build.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
	BuiltBy string
}

// String renders the multi-line form shown by "version -v".
func (b BuildInfo) String() string {
	return fmt.Sprintf("locrecon %s\n  commit:   %s\n  built:    %s\n  built by: %s",
		b.Version, b.Commit, b.Date, b.BuiltBy)
}
