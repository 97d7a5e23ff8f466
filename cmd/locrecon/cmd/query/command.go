// Package query provides the query command, which runs reconciliation
// queries against the authority service without starting a server.
package query

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/locrecon/internal/cmd/application"
	"github.com/agentstation/locrecon/internal/cmd/output"
	"github.com/agentstation/locrecon/pkg/errors"
	"github.com/agentstation/locrecon/pkg/logging"
	"github.com/agentstation/locrecon/pkg/reconcile"
)

// NewCommand creates the query command using app context.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "query [term...]",
		Aliases: []string{"q"},
		GroupID: "core",
		Short:   "Reconcile a term against the LoC authority files",
		Long: `Query runs one reconciliation query, or a batch of named queries, and
prints the ranked candidates.

Terms given as arguments are joined with spaces into a single query.
With --batch, a JSON object of named queries in the reconciliation API
format is read from a file, or from stdin when the file is "-".`,
		Example: `  # Look up a name
  locrecon query --type names "Twain, Mark"

  # Search subjects and print JSON
  locrecon query -t subjects -o json "World War, 1939-1945"

  # Run a batch file
  locrecon query --batch queries.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, app)
		},
	}

	cmd.Flags().StringP("type", "t", "", "Type to search: names, subjects (default all)")
	cmd.Flags().IntP("limit", "l", 0, "Maximum results (default from configuration)")
	cmd.Flags().StringP("batch", "b", "", `Read a JSON batch of queries from a file ("-" for stdin)`)

	return cmd
}

func run(cmd *cobra.Command, args []string, app application.Application) error {
	typeID, _ := cmd.Flags().GetString("type")
	limit, _ := cmd.Flags().GetInt("limit")
	batchFile, _ := cmd.Flags().GetString("batch")

	if batchFile == "" && len(args) == 0 {
		return errors.NewValidationError("term", nil, "a query term or --batch is required")
	}
	if batchFile != "" && len(args) > 0 {
		return errors.NewValidationError("term", args, "query terms cannot be combined with --batch")
	}

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

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := app.Logger()
	ctx = logging.WithLogger(ctx, logger)
	out := cmd.OutOrStdout()

	if batchFile != "" {
		data, err := readBatch(batchFile, cmd.InOrStdin())
		if err != nil {
			return err
		}
		batch, err := reconcile.ParseBatch(data)
		if err != nil {
			return err
		}

		logger.Debug().Int("queries", len(batch)).Str("file", batchFile).Msg("Running batch")
		resp, ok := rec.ReconcileBatch(ctx, batch)
		if !ok {
			return errors.NewValidationError("type", nil, "every query in a batch needs a type")
		}
		return output.FormatBatch(out, resp, format)
	}

	text := strings.Join(args, " ")
	logger.Debug().Str("query", text).Str("type", typeID).Int("limit", limit).Msg("Running query")
	results := rec.ReconcileQuery(ctx, text, typeID, limit)
	return output.FormatResults(out, results, format)
}

func readBatch(name string, stdin io.Reader) ([]byte, error) {
	if name == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, errors.WrapResource("read", "batch", "stdin", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.WrapResource("read", "batch", name, err)
	}
	if len(data) == 0 {
		return nil, errors.NewValidationError("batch", name, "file is empty")
	}
	return data, nil
}
