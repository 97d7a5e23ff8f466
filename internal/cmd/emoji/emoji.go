// Package emoji provides symbol constants for CLI output.
package emoji

// Symbols used in terminal output.
const (
	// Success marks a match or a completed operation.
	Success = "✓"

	// Error marks a failed query or operation.
	Error = "✗"

	// Stop marks a shutdown.
	Stop = "■"

	// Warning marks a non-fatal problem, such as a degraded stage.
	Warning = "!"

	// Info marks general information.
	Info = "i"
)
