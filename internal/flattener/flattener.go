package flattener

import (
	"fmt"
	"strconv"

	"github.com/GitRowin/orderedmapjson"
	"github.com/goccy/go-json"

	"github.com/robertnenciu/json-to-csv/internal/config"
	"github.com/robertnenciu/json-to-csv/internal/errors"
	"github.com/robertnenciu/json-to-csv/internal/models"
)

// Result holds the flattened rows and the discovered column set. Columns is
// the union of keys across all rows, in first-seen order.
type Result struct {
	Rows    []*models.Record
	Columns []string
}

// Flattener converts nested records into flat rows with joined column names

type Flattener struct {
	// config holds separator, array policy and naming rules
	config *config.Config
}

// NewFlattener creates a new Flattener instance with default configuration.
func NewFlattener() *Flattener {
	return &Flattener{
		config: config.NewConfig(),
	}
}

// NewFlattenerWithConfig creates a new Flattener instance with custom configuration.
func NewFlattenerWithConfig(cfg *config.Config) *Flattener {
	return &Flattener{
		config: cfg,
	}
}

// Flatten processes every record in the document and collects the column
// union. The same key path always produces the same column name, and two
// distinct paths colliding on one name is an error rather than a silent
// overwrite.
func (f *Flattener) Flatten(doc models.Document) (*Result, error) {
	rows := make([]*models.Record, 0, len(doc.Records))

	// A record doubles as an ordered set for the column union.
	columnSet := models.NewRecord()

	for i, record := range doc.Records {
		row := models.NewRecord()
		for key, value := range record.AllFromFront() {
			if err := f.flattenValue(row, key, value, i); err != nil {
				return nil, err
			}
		}
		for column := range row.Keys() {
			columnSet.Set(column, true)
		}
		rows = append(rows, row)
	}

	columns := make([]string, 0, columnSet.Len())
	for column := range columnSet.Keys() {
		columns = append(columns, column)
	}

	return &Result{
		Rows:    rows,
		Columns: columns,
	}, nil
}

// flattenValue walks one value, joining nested keys onto prefix with the
// configured separator.
func (f *Flattener) flattenValue(row *models.Record, prefix string, value interface{}, recordIndex int) error {
	switch val := value.(type) {
	case *orderedmapjson.AnyOrderedMap:
		for key, child := range val.AllFromFront() {
			if err := f.flattenValue(row, f.join(prefix, key), child, recordIndex); err != nil {
				return err
			}
		}
		return nil

	case []interface{}:
		if f.config.Arrays.Policy == config.ArraysJSON {
			raw, err := json.Marshal(val)
			if err != nil {
				return errors.NewFlattenError(
					fmt.Sprintf("failed to serialize array at '%s'", prefix),
					err,
				)
			}
			return f.emit(row, prefix, string(raw), recordIndex)
		}
		for i, child := range val {
			if err := f.flattenValue(row, f.join(prefix, strconv.Itoa(i)), child, recordIndex); err != nil {
				return err
			}
		}
		return nil

	default:
		return f.emit(row, prefix, val, recordIndex)
	}
}

// emit places a scalar into the row under its final column name, applying
// naming rules and detecting collisions.
func (f *Flattener) emit(row *models.Record, key string, value interface{}, recordIndex int) error {
	column := f.config.ColumnName(key)
	if f.config.SkipColumn(column) {
		return nil
	}
	if _, exists := row.Get(column); exists {
		return errors.NewFlattenError(
			fmt.Sprintf("record %d: two paths flatten to the same column '%s'", recordIndex, column),
			nil,
		)
	}
	row.Set(column, value)
	return nil
}

func (f *Flattener) join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + f.config.Separator + key
}
