package parser

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	stderrors "errors"

	"github.com/goccy/go-json"

	"github.com/robertnenciu/json-to-csv/internal/errors"
	"github.com/robertnenciu/json-to-csv/internal/models"
)

// Parse reads a single JSON value and normalizes it into a Document.
// A root object becomes one record; a root array becomes one record per
// element, and every element must itself be an object.
func Parse(reader io.Reader) (models.Document, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return models.Document{}, errors.NewInputError("failed to read input", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return models.Document{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
	}

	// First pass: validate syntax and determine the root shape. UseNumber
	// keeps numeric text intact instead of forcing float64.
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var rootValue interface{}
	if err := decoder.Decode(&rootValue); err != nil {
		if stderrors.Is(err, io.EOF) {
			return models.Document{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		if stderrors.As(err, &syntaxError) {
			return models.Document{}, errors.NewParsingError(
				fmt.Sprintf("JSON syntax error at offset %d", syntaxError.Offset),
				errors.ErrInvalidJSON,
			)
		}
		if stderrors.As(err, &unmarshalTypeError) {
			return models.Document{}, errors.NewParsingError(
				fmt.Sprintf("JSON type error at offset %d for type %s", unmarshalTypeError.Offset, unmarshalTypeError.Type),
				errors.ErrInvalidJSON,
			)
		}
		return models.Document{}, errors.NewParsingError("failed to decode JSON", err)
	}

	// Check for trailing data after the first JSON value.
	if decoder.More() {
		var trailingValue interface{}
		if err := decoder.Decode(&trailingValue); err != nil {
			if !stderrors.Is(err, io.EOF) {
				return models.Document{}, errors.NewParsingError("invalid trailing data after first JSON value", err)
			}
			// Only whitespace followed the first value.
		} else {
			return models.Document{}, errors.NewParsingError("multiple JSON values found at the root", errors.ErrTrailingData)
		}
	}

	// Second pass: decode order-preserving records for the shapes we accept.
	switch root := rootValue.(type) {
	case map[string]interface{}:
		record := models.NewRecord()
		if err := json.Unmarshal(data, record); err != nil {
			return models.Document{}, errors.NewParsingError("failed to decode JSON object", err)
		}
		return models.Document{
			Records:     []*models.Record{record},
			RootIsArray: false,
		}, nil

	case []interface{}:
		if len(root) == 0 {
			return models.Document{}, errors.NewShapeError("the root array is empty", errors.ErrNoRecords)
		}
		for i, elem := range root {
			if _, ok := elem.(map[string]interface{}); !ok {
				return models.Document{}, errors.NewShapeError(
					fmt.Sprintf("array element %d is %s, expected an object", i, describeValue(elem)),
					nil,
				)
			}
		}

		var raws []json.RawMessage
		if err := json.Unmarshal(data, &raws); err != nil {
			return models.Document{}, errors.NewParsingError("failed to decode JSON array", err)
		}
		records := make([]*models.Record, 0, len(raws))
		for i, raw := range raws {
			record := models.NewRecord()
			if err := json.Unmarshal(raw, record); err != nil {
				return models.Document{}, errors.NewParsingError(
					fmt.Sprintf("failed to decode array element %d", i),
					err,
				)
			}
			records = append(records, record)
		}
		return models.Document{
			Records:     records,
			RootIsArray: true,
		}, nil

	default:
		return models.Document{}, errors.NewShapeError(
			fmt.Sprintf("the root value is %s, expected an object or an array of objects", describeValue(rootValue)),
			nil,
		)
	}
}

// describeValue names a decoded JSON value for error messages
func describeValue(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "a boolean"
	case string:
		return "a string"
	case json.Number:
		return "a number"
	case []interface{}:
		return "an array"
	case map[string]interface{}:
		return "an object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (models.Document, error) {
	if strings.TrimSpace(jsonString) == "" {
		return models.Document{}, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	reader := strings.NewReader(jsonString)
	return Parse(reader)
}

// ParseFile parses JSON from a file path
func ParseFile(filePath string) (models.Document, error) {
	if strings.TrimSpace(filePath) == "" {
		return models.Document{}, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		// Check if the file doesn't exist
		if os.IsNotExist(err) {
			return models.Document{}, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return models.Document{}, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}()

	// Check for empty file before parsing
	stat, err := file.Stat()
	if err != nil {
		return models.Document{}, errors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.Size() == 0 {
		return models.Document{}, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	return Parse(file)
}
