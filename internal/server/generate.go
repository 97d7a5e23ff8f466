// Package server provides the HTTP server for the reconciliation service.
//
// The server package is layered the same way from top to bottom:
//
//   - Server: core server struct wiring the authority client, cascade,
//     reconciliation service, response cache and metrics
//   - Config: server configuration with sensible defaults
//   - Router: route registration and middleware chain
//   - Handlers: HTTP request handlers
//
// Usage:
//
//	cfg := server.DefaultConfig()
//	cfg.Port = 5000
//
//	srv, err := server.New(cfg, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer srv.Shutdown(context.Background())
//
//	http.ListenAndServe(srv.Addr(), srv.Handler())
package server

//go:generate gomarkdoc --output README.md .
