// Package table provides common table formatting utilities for CLI commands.
package table

import (
	"sort"
	"strings"

	"github.com/agentstation/locrecon/internal/cmd/emoji"
	"github.com/agentstation/locrecon/pkg/reconcile"
	"github.com/agentstation/locrecon/pkg/vocabulary"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// ResultsToTableData converts one query's results to table format.
func ResultsToTableData(results []reconcile.Result, showTypes bool) Data {
	headers := []string{"Score", "Match", "Name", "ID"}
	if showTypes {
		headers = append(headers, "Types")
	}

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, resultRow(r, showTypes))
	}

	return Data{
		Headers:         headers,
		Rows:            rows,
		ColumnAlignment: []Align{AlignRight, AlignCenter, AlignLeft, AlignLeft, AlignLeft},
	}
}

// BatchToTableData flattens a batch response into one table, ordered by
// query key. Entries that failed show their error in place of a name.
func BatchToTableData(resp reconcile.BatchResponse, showTypes bool) Data {
	headers := []string{"Query", "Score", "Match", "Name", "ID"}
	if showTypes {
		headers = append(headers, "Types")
	}

	keys := make([]string, 0, len(resp))
	for k := range resp {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var rows [][]string
	for _, k := range keys {
		entry := resp[k]
		if entry.Error != "" {
			row := []string{k, "-", emoji.Error, "error: " + entry.Error, "-"}
			if showTypes {
				row = append(row, "-")
			}
			rows = append(rows, row)
			continue
		}
		if len(entry.Result) == 0 {
			row := []string{k, "-", "-", "(no candidates)", "-"}
			if showTypes {
				row = append(row, "-")
			}
			rows = append(rows, row)
			continue
		}
		for _, r := range entry.Result {
			rows = append(rows, append([]string{k}, resultRow(r, showTypes)...))
		}
	}

	return Data{
		Headers:         headers,
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignCenter, AlignLeft, AlignLeft, AlignLeft},
	}
}

// TypesToTableData converts partition descriptors to table format.
func TypesToTableData(descriptors []vocabulary.Descriptor) Data {
	rows := make([][]string, 0, len(descriptors))
	for _, d := range descriptors {
		rows = append(rows, []string{d.ID, d.Name, d.Partition.String(), d.Index})
	}
	return Data{
		Headers: []string{"ID", "Name", "Partition", "Index"},
		Rows:    rows,
	}
}

func resultRow(r reconcile.Result, showTypes bool) []string {
	row := []string{r.Score, FormatMatch(r.Match), r.Name, r.ID}
	if showTypes {
		row = append(row, FormatTypes(r.Type))
	}
	return row
}

// FormatMatch renders the match flag as a check mark or blank.
func FormatMatch(match bool) string {
	if match {
		return emoji.Success
	}
	return ""
}

// FormatTypes joins type identifiers with commas.
func FormatTypes(types []vocabulary.Type) string {
	if len(types) == 0 {
		return "-"
	}
	ids := make([]string, len(types))
	for i, t := range types {
		ids[i] = t.ID
	}
	return strings.Join(ids, ",")
}
