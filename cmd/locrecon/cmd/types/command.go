// Package types provides the types command, which lists the authority
// partitions a query can be restricted to.
package types

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/locrecon/internal/cmd/application"
	"github.com/agentstation/locrecon/internal/cmd/output"
)

// NewCommand creates the types command using app context.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "types",
		Aliases: []string{"metadata"},
		GroupID: "core",
		Short:   "List reconciliation types and service metadata",
		Long: `Types prints the partitions a query can target. With --format json or
yaml it prints the full service metadata document served to
reconciliation clients.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := output.ParseFormat(app.OutputFormat())
			if err != nil {
				return err
			}
			if format == "" {
				format = output.DetectFormat("")
			}

			rec, err := app.Reconciler()
			if err != nil {
				return err
			}
			return output.FormatMetadata(cmd.OutOrStdout(), rec.Metadata(), format)
		},
	}
}
