// Package output renders reconciliation results, batches and service
// metadata for the terminal or for other programs.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/agentstation/locrecon/internal/cmd/table"
)

// Format names an output encoding.
type Format string

const (
	// FormatTable renders an aligned table.
	FormatTable Format = "table"
	// FormatWide renders the table with the type column.
	FormatWide Format = "wide"
	// FormatTSV renders tab-separated rows for spreadsheets.
	FormatTSV Format = "tsv"
	// FormatJSON renders the reconciliation response as JSON.
	FormatJSON Format = "json"
	// FormatYAML renders the reconciliation response as YAML.
	FormatYAML Format = "yaml"
)

var formats = []Format{FormatTable, FormatWide, FormatTSV, FormatJSON, FormatYAML}

// Data is a table ready to render.
type Data = table.Data

// Formatter writes a value in one encoding.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// NewFormatter returns the formatter for format. Unknown formats render
// as a table.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: "  "}
	case FormatYAML:
		return &YAMLFormatter{}
	case FormatTSV:
		return &TSVFormatter{}
	default:
		return &TableFormatter{}
	}
}

// JSONFormatter writes JSON without HTML escaping, so labels such as
// "Cats & dogs" stay readable.
type JSONFormatter struct {
	Indent string
}

// Format implements Formatter.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if f.Indent != "" {
		enc.SetIndent("", f.Indent)
	}
	return enc.Encode(data)
}

// YAMLFormatter writes YAML with two-space indentation.
type YAMLFormatter struct{}

// Format implements Formatter.
func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	out, err := yaml.MarshalWithOptions(data, yaml.Indent(2), yaml.IndentSequence(false))
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// TableFormatter draws table data with tablewriter. Anything else is
// written as JSON.
type TableFormatter struct{}

// Format implements Formatter.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	d, ok := data.(Data)
	if !ok {
		return (&JSONFormatter{Indent: "  "}).Format(w, data)
	}

	var cfg tablewriter.Config
	if len(d.ColumnAlignment) > 0 {
		align := tw.CellAlignment{PerColumn: alignments(d.ColumnAlignment)}
		cfg.Header.Alignment = align
		cfg.Row.Alignment = align
	}
	t := tablewriter.NewTable(w, tablewriter.WithConfig(cfg))

	if len(d.Headers) > 0 {
		t.Header(cells(d.Headers)...)
	}
	for _, row := range d.Rows {
		if err := t.Append(cells(row)...); err != nil {
			return err
		}
	}
	return t.Render()
}

func alignments(in []table.Align) []tw.Align {
	out := make([]tw.Align, len(in))
	for i, a := range in {
		switch a {
		case table.AlignLeft:
			out[i] = tw.AlignLeft
		case table.AlignCenter:
			out[i] = tw.AlignCenter
		case table.AlignRight:
			out[i] = tw.AlignRight
		default:
			out[i] = tw.Skip
		}
	}
	return out
}

func cells(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// TSVFormatter writes one tab-separated line per row, headers first.
// Only table data is supported.
type TSVFormatter struct{}

// Format implements Formatter.
func (f *TSVFormatter) Format(w io.Writer, data any) error {
	d, ok := data.(Data)
	if !ok {
		return fmt.Errorf("tsv output needs table data, got %T", data)
	}
	lines := d.Rows
	if len(d.Headers) > 0 {
		lines = append([][]string{d.Headers}, d.Rows...)
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, strings.Join(line, "\t")); err != nil {
			return err
		}
	}
	return nil
}

// DetectFormat returns the explicit format when one is given, a table on
// a terminal and JSON when stdout is piped.
func DetectFormat(explicit string) Format {
	if explicit != "" {
		return Format(strings.ToLower(explicit))
	}
	fd := os.Stdout.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return FormatTable
	}
	return FormatJSON
}

// ParseFormat validates a format name. The empty string means "detect".
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	if f == "" {
		return f, nil
	}
	for _, known := range formats {
		if f == known {
			return f, nil
		}
	}
	names := make([]string, len(formats))
	for i, known := range formats {
		names[i] = string(known)
	}
	return "", fmt.Errorf("invalid format %q: must be one of: %s", s, strings.Join(names, ", "))
}
