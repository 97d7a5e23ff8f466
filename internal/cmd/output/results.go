package output

import (
	"io"

	"github.com/agentstation/locrecon/internal/cmd/table"
	"github.com/agentstation/locrecon/pkg/reconcile"
	"github.com/agentstation/locrecon/pkg/vocabulary"
)

// tabular reports whether a format renders table data rather than the
// raw value.
func tabular(format Format) bool {
	switch format {
	case FormatTable, FormatWide, FormatTSV, "":
		return true
	}
	return false
}

// FormatResults writes one query's results. JSON and YAML receive the
// reconciliation response shape; table formats a row per candidate.
func FormatResults(w io.Writer, results []reconcile.Result, format Format) error {
	formatter := NewFormatter(format)
	if tabular(format) {
		return formatter.Format(w, table.ResultsToTableData(results, format == FormatWide))
	}
	return formatter.Format(w, map[string][]reconcile.Result{"result": results})
}

// FormatBatch writes a batch response.
func FormatBatch(w io.Writer, resp reconcile.BatchResponse, format Format) error {
	formatter := NewFormatter(format)
	if tabular(format) {
		return formatter.Format(w, table.BatchToTableData(resp, format == FormatWide))
	}
	return formatter.Format(w, resp)
}

// FormatMetadata writes the service metadata, as a type table or as the
// raw metadata document.
func FormatMetadata(w io.Writer, meta vocabulary.Metadata, format Format) error {
	formatter := NewFormatter(format)
	if tabular(format) {
		return formatter.Format(w, table.TypesToTableData(vocabulary.Descriptors()))
	}
	return formatter.Format(w, meta)
}
