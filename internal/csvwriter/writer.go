package csvwriter

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/robertnenciu/json-to-csv/internal/models"
)

// Writer emits CSV with every field double-quoted, comma-delimited, CRLF
// terminated. encoding/csv only quotes fields that need it, so emission is
// done by hand to keep quoting unconditional.
type Writer struct {
	w *bufio.Writer
}

// NewWriter creates a CSV writer over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		w: bufio.NewWriter(w),
	}
}

// WriteHeader writes the header row. A zero-column header is a bare line
// terminator, matching the empty-object case.
func (w *Writer) WriteHeader(columns []string) error {
	return w.writeFields(columns)
}

// WriteRow writes one record in header column order. Keys missing from the
// record render as empty quoted fields.
func (w *Writer) WriteRow(record *models.Record, columns []string) error {
	fields := make([]string, 0, len(columns))
	for _, column := range columns {
		value, ok := record.Get(column)
		if !ok {
			fields = append(fields, "")
			continue
		}
		str, err := FormatValue(value)
		if err != nil {
			return err
		}
		fields = append(fields, str)
	}
	return w.writeFields(fields)
}

// WriteAll writes the header followed by every row.
func (w *Writer) WriteAll(rows []*models.Record, columns []string) error {
	if err := w.WriteHeader(columns); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.WriteRow(row, columns); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Flush writes buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return errors.WithStack(w.w.Flush())
}

func (w *Writer) writeFields(fields []string) error {
	for i, field := range fields {
		if i > 0 {
			if err := w.w.WriteByte(','); err != nil {
				return errors.WithStack(err)
			}
		}
		if err := w.writeQuoted(field); err != nil {
			return err
		}
	}
	if _, err := w.w.WriteString("\r\n"); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// writeQuoted writes one field enclosed in double quotes, with embedded
// quotes doubled per RFC 4180.
func (w *Writer) writeQuoted(field string) error {
	if err := w.w.WriteByte('"'); err != nil {
		return errors.WithStack(err)
	}
	if _, err := w.w.WriteString(strings.ReplaceAll(field, `"`, `""`)); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(w.w.WriteByte('"'))
}

// FormatValue converts a scalar JSON value to its CSV text form.
func FormatValue(v interface{}) (string, error) {
	switch val := v.(type) {
	case bool:
		return fmt.Sprintf("%t", val), nil
	case json.Number:
		return val.String(), nil
	case int:
		return fmt.Sprintf("%d", val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case float64:
		// Check if it's a whole number
		if val == math.Trunc(val) {
			return fmt.Sprintf("%.0f", val), nil
		}
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case float32:
		if float64(val) == math.Trunc(float64(val)) {
			return fmt.Sprintf("%.0f", val), nil
		}
		return strconv.FormatFloat(float64(val), 'f', -1, 32), nil
	case string:
		return val, nil
	case nil:
		return "", nil
	default:
		// Composites only reach here under the json array policy via a
		// pre-serialized string, so this is a plain fallback.
		return fmt.Sprintf("%v", val), nil
	}
}
