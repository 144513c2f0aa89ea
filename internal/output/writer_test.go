package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/pageza/alchemorsel-insights/backend/internal/model"
)

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"json": FormatJSON, " YAML ": FormatYAML, "table": FormatTable} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestWriter_SerializeJSON(t *testing.T) {
	var buf bytes.Buffer
	rows := []model.CategoryCount{{Category: "Dessert", Count: 2}, {Category: "Soup", Count: 1}}

	require.NoError(t, NewWriter(FormatJSON, &buf).Serialize(rows))

	var result []model.CategoryCount
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, rows, result)
}

func TestWriter_SerializeYAML(t *testing.T) {
	var buf bytes.Buffer
	avg := 3.75
	data := &model.TagAverage{Tag: "rating", Average: &avg, Samples: 8}

	require.NoError(t, NewWriter(FormatYAML, &buf).Serialize(data))

	var result model.TagAverage
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, *data, result)
}

func TestWriter_SerializeTableRows(t *testing.T) {
	var buf bytes.Buffer
	rating := 4.375
	rows := []model.Recipe{
		{Title: "Bacon Hash", Rating: &rating, Ingredients: []string{"bacon", "potatoes"}},
		{Title: "Plain Toast"},
	}

	require.NoError(t, NewWriter(FormatTable, &buf).Serialize(rows))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "TITLE"))
	assert.Contains(t, lines[0], "RATING")
	assert.Contains(t, lines[1], "bacon; potatoes")
	assert.Contains(t, lines[1], "4.375")
	assert.Contains(t, lines[2], "-")
}

func TestWriter_SerializeTableScalars(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(FormatTable, &buf).Serialize(map[string]any{"tag": "categories", "distinct": 2}))

	out := buf.String()
	assert.Contains(t, out, "FIELD")
	assert.Contains(t, out, "distinct")
	assert.Contains(t, out, "categories")
}

func TestWriter_SerializeTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(FormatTable, &buf).Serialize([]model.YearCount{}))
	assert.Equal(t, "<empty>\n", buf.String())
}

func TestWriter_TruncatesLongCells(t *testing.T) {
	long := strings.Repeat("x", 200)
	assert.Len(t, []rune(cell(long)), maxCellWidth)
	assert.True(t, strings.HasSuffix(cell(long), "..."))
}

func TestNewFileWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	w, err := NewFileWriter(FormatJSON, path)
	require.NoError(t, err)
	require.NoError(t, w.Serialize([]model.YearCount{{Year: "2004", Count: 1}}))
	require.NoError(t, w.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"year": "2004"`)

	_, err = NewFileWriter(FormatJSON, filepath.Join(t.TempDir(), "missing", "out.json"))
	assert.Error(t, err)
}

func TestWriter_UnsupportedFormat(t *testing.T) {
	assert.Error(t, NewWriter(Format("xml"), &bytes.Buffer{}).Serialize(1))
}
