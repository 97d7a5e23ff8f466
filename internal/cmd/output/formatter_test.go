package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/locrecon/pkg/reconcile"
	"github.com/agentstation/locrecon/pkg/vocabulary"
)

var sample = []reconcile.Result{
	{ID: "http://id.loc.gov/authorities/subjects/sh1", Name: "Cats & dogs", Score: "1.0", Match: true, Type: vocabulary.Types()},
	{ID: "http://id.loc.gov/authorities/subjects/sh2", Name: "Cats", Score: "0.667", Type: vocabulary.Types()},
}

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"table", "JSON", "yaml", "wide", "tsv", ""} {
		_, err := ParseFormat(in)
		assert.NoError(t, err, in)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestDetectFormat_Explicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}

func TestFormatResults_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatResults(&buf, sample, FormatJSON))

	assert.Contains(t, buf.String(), "Cats & dogs")

	var decoded struct {
		Result []reconcile.Result `json:"result"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, sample, decoded.Result)
}

func TestFormatResults_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatResults(&buf, sample, FormatYAML))
	assert.Contains(t, buf.String(), "1.0")
	assert.Contains(t, buf.String(), "match: true")
}

func TestFormatResults_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatResults(&buf, sample, FormatTable))

	out := buf.String()
	assert.Contains(t, strings.ToUpper(out), "SCORE")
	assert.Contains(t, out, "0.667")
	assert.Contains(t, out, "http://id.loc.gov/authorities/subjects/sh2")
}

func TestFormatBatch_TSV(t *testing.T) {
	resp := reconcile.BatchResponse{
		"q0": {Result: sample[:1]},
	}
	var buf bytes.Buffer
	require.NoError(t, FormatBatch(&buf, resp, FormatTSV))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Query\tScore\tMatch\tName\tID", lines[0])
	assert.Equal(t, "q0\t1.0\t✓\tCats & dogs\thttp://id.loc.gov/authorities/subjects/sh1", lines[1])
}

func TestTSVFormatter_RejectsRawData(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, (&TSVFormatter{}).Format(&buf, sample))
}

func TestFormatMetadata(t *testing.T) {
	meta := vocabulary.NewMetadata("http://id.loc.gov")

	var buf bytes.Buffer
	require.NoError(t, FormatMetadata(&buf, meta, FormatJSON))
	assert.Contains(t, buf.String(), `"identifierSpace": "http://id.loc.gov/authorities"`)

	buf.Reset()
	require.NoError(t, FormatMetadata(&buf, meta, FormatTSV))
	assert.Contains(t, buf.String(), "Subjects\tLibrary of Congress Subject Headings\tsubjects\t/authorities/subjects")
}
