package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/locrecon/internal/server"
	"github.com/agentstation/locrecon/pkg/reconcile"
)

// Mock is an Application for command tests. Unset fields fall back to
// defaults: no reconciler, server.DefaultConfig, a no-op logger and the
// "table" format.
//
//	cmd := query.NewCommand(&application.Mock{
//	    ReconcilerFunc: func() (reconcile.Reconciler, error) { return stub, nil },
//	    Format:         "json",
//	})
type Mock struct {
	ReconcilerFunc   func() (reconcile.Reconciler, error)
	ServerConfigFunc func() server.Config
	Log              *zerolog.Logger
	Format           string
	Info             BuildInfo
}

var _ Application = (*Mock)(nil)

// Reconciler implements Application.
func (m *Mock) Reconciler() (reconcile.Reconciler, error) {
	if m.ReconcilerFunc == nil {
		return nil, nil
	}
	return m.ReconcilerFunc()
}

// ServerConfig implements Application.
func (m *Mock) ServerConfig() server.Config {
	if m.ServerConfigFunc == nil {
		return server.DefaultConfig()
	}
	return m.ServerConfigFunc()
}

// Logger implements Application.
func (m *Mock) Logger() *zerolog.Logger {
	if m.Log == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return m.Log
}

// OutputFormat implements Application.
func (m *Mock) OutputFormat() string {
	if m.Format == "" {
		return "table"
	}
	return m.Format
}

// Build implements Application.
func (m *Mock) Build() BuildInfo {
	if m.Info.Version == "" {
		return BuildInfo{Version: "dev", Commit: "unknown", Date: "unknown", BuiltBy: "test"}
	}
	return m.Info
}
