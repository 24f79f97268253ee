package csvwriter

import (
	"bytes"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robertnenciu/json-to-csv/internal/models"
)

func record(pairs ...interface{}) *models.Record {
	r := models.NewRecord()
	for i := 0; i < len(pairs); i += 2 {
		r.Set(pairs[i].(string), pairs[i+1])
	}
	return r
}

func TestWriteHeader_AllFieldsQuoted(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.WriteHeader([]string{"name", "address_city"}))
	require.NoError(t, w.Flush())

	assert.Equal(t, "\"name\",\"address_city\"\r\n", buf.String())
}

func TestWriteHeader_ZeroColumns(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.WriteHeader(nil))
	require.NoError(t, w.Flush())

	assert.Equal(t, "\r\n", buf.String())
}

func TestWriteRow_ValuesAndMissingKeys(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	row := record("name", "John", "age", json.Number("30"))
	require.NoError(t, w.WriteRow(row, []string{"name", "age", "missing"}))
	require.NoError(t, w.Flush())

	assert.Equal(t, "\"John\",\"30\",\"\"\r\n", buf.String())
}

func TestWriteRow_CommaInsideValue(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	row := record("street", "123 Main St, Apt 4")
	require.NoError(t, w.WriteRow(row, []string{"street"}))
	require.NoError(t, w.Flush())

	// The comma stays literal inside the quotes
	assert.Equal(t, "\"123 Main St, Apt 4\"\r\n", buf.String())
}

func TestWriteRow_EmbeddedQuotesDoubled(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	row := record("quote", `say "hi"`)
	require.NoError(t, w.WriteRow(row, []string{"quote"}))
	require.NoError(t, w.Flush())

	assert.Equal(t, "\"say \"\"hi\"\"\"\r\n", buf.String())
}

func TestWriteAll(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	rows := []*models.Record{
		record("a", "1", "b", "2"),
		record("b", "3"),
	}
	require.NoError(t, w.WriteAll(rows, []string{"a", "b"}))

	want := "\"a\",\"b\"\r\n" +
		"\"1\",\"2\"\r\n" +
		"\"\",\"3\"\r\n"
	assert.Equal(t, want, buf.String())
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		expected string
	}{
		{name: "string", value: "hello", expected: "hello"},
		{name: "bool true", value: true, expected: "true"},
		{name: "bool false", value: false, expected: "false"},
		{name: "json number integer", value: json.Number("42"), expected: "42"},
		{name: "json number decimal", value: json.Number("0.9999"), expected: "0.9999"},
		{name: "json number big", value: json.Number("9007199254740993"), expected: "9007199254740993"},
		{name: "float64 whole", value: float64(30), expected: "30"},
		{name: "float64 fraction", value: 0.25, expected: "0.25"},
		{name: "int", value: 7, expected: "7"},
		{name: "int64", value: int64(-12), expected: "-12"},
		{name: "nil", value: nil, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := FormatValue(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}
