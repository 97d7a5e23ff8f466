// Package logging provides the zerolog loggers used across locrecon.
//
// A process-wide default logger is configured from LOCRECON_LOG_* variables
// at start-up and replaced by the CLI once flags are parsed. Request and
// query scoped loggers travel in a context.Context:
//
//	ctx = logging.WithRequestID(ctx, id)
//	ctx = logging.WithPartition(ctx, "/names")
//	logging.FromContext(ctx).Debug().Str("term", term).Msg("Retrieving candidates")
package logging

import (
	"os"
	"sync/atomic"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var defaultLogger atomic.Pointer[zerolog.Logger]

func init() {
	SetDefault(NewLoggerFromConfig(FromEnv()))
}

// Default returns the process-wide logger.
func Default() *zerolog.Logger {
	return defaultLogger.Load()
}

// SetDefault replaces the process-wide logger, including zerolog's own
// global logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger.Store(&logger)
	log.Logger = logger
}

func stderrIsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
