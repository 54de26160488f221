package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/markscan/internal/model"
)

func testDocument() Document {
	return Document{
		Pattern: "*.xml",
		Values:  []string{"INV001:77:2024-01-01", "Bolt&Nut", "AB12CD", "INV001:77:2024-01-01"},
		Codes:   []string{"AB12CD"},
		Result: model.RunResult{
			UniqueCount: 2,
			CodeCount:   1,
			Elapsed:     1234 * time.Millisecond,
			Encoding:    "utf-8",
		},
	}
}

func TestSummary(t *testing.T) {
	assert.Equal(t,
		"Finished in 1.23 s | Encoding: utf-8 | Unique: 2 | Total codes: 1",
		Summary(testDocument().Result))
}

func TestForFormat(t *testing.T) {
	for _, name := range Formats() {
		w, err := ForFormat(name, 10)
		require.NoError(t, err, name)
		assert.NotNil(t, w)
	}

	w, err := ForFormat("", 0)
	require.NoError(t, err)
	assert.IsType(t, TextWriter{}, w)

	_, err = ForFormat("pdf", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestTextWriter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TextWriter{}.Write(&buf, testDocument()))

	out := buf.String()
	assert.Contains(t, out, "Extracted data:\nINV001:77:2024-01-01\nBolt&Nut\nAB12CD\nINV001:77:2024-01-01\n")
	assert.Contains(t, out, "Identification codes:\nAB12CD\n")
	assert.True(t, strings.HasSuffix(out, "Total codes: 1\n"))
}

func TestTextWriter_Limit(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TextWriter{Limit: 2}.Write(&buf, testDocument()))

	out := buf.String()
	assert.Contains(t, out, "Extracted data (first 2 entries):\nINV001:77:2024-01-01\nBolt&Nut\n\n")
	assert.NotContains(t, out, "Bolt&Nut\nAB12CD")
}

func TestCSVWriter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSVWriter{}.Write(&buf, testDocument()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, []string{"kind", "value"}, rows[0])
	assert.Equal(t, []string{"value", "Bolt&Nut"}, rows[2])
	assert.Equal(t, []string{"code", "AB12CD"}, rows[5])
}

func TestJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONWriter{}.Write(&buf, testDocument()))

	assert.Contains(t, buf.String(), `"Bolt&Nut"`, "HTML escaping must be off")

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	result := got["result"].(map[string]any)
	assert.InDelta(t, 2, result["unique_count"], 0)
	assert.InDelta(t, 1.234, result["elapsed_seconds"], 0.0001)
	assert.Equal(t, "utf-8", result["encoding"])
}

func TestJSONWriter_EmptyListsAreArrays(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONWriter{}.Write(&buf, Document{Pattern: "*.xml"}))

	assert.Contains(t, buf.String(), `"values":[]`)
	assert.Contains(t, buf.String(), `"codes":[]`)
}

func TestXLSXWriter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, XLSXWriter{}.Write(&buf, testDocument()))

	f, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)

	data, ok := f.Sheet["Data"]
	require.True(t, ok)
	require.Len(t, data.Rows, 5)
	assert.Equal(t, "value", data.Rows[0].Cells[0].String())
	assert.Equal(t, "Bolt&Nut", data.Rows[2].Cells[0].String())

	codes, ok := f.Sheet["Codes"]
	require.True(t, ok)
	require.Len(t, codes.Rows, 2)
	assert.Equal(t, "AB12CD", codes.Rows[1].Cells[0].String())

	summary, ok := f.Sheet["Summary"]
	require.True(t, ok)
	assert.Equal(t, "encoding", summary.Rows[1].Cells[0].String())
	assert.Equal(t, "utf-8", summary.Rows[1].Cells[1].String())
}

func TestMarkdownWriter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, MarkdownWriter{Limit: 1}.Write(&buf, testDocument()))

	out := buf.String()
	assert.Contains(t, out, "# Extraction report")
	assert.Contains(t, out, "## Extracted data (first 1 entries)")
	assert.Contains(t, out, "`INV001:77:2024-01-01`")
	assert.NotContains(t, out, "`Bolt&Nut`")
	assert.Contains(t, out, "| Encoding")
}

func TestMarkdownWriter_EmptyLists(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, MarkdownWriter{}.Write(&buf, Document{Pattern: "*.xml"}))
	assert.Contains(t, buf.String(), "_none_")
}
