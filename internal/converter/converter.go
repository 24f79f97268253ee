package converter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/robertnenciu/json-to-csv/internal/config"
	"github.com/robertnenciu/json-to-csv/internal/csvwriter"
	"github.com/robertnenciu/json-to-csv/internal/errors"
	"github.com/robertnenciu/json-to-csv/internal/flattener"
	"github.com/robertnenciu/json-to-csv/internal/logger"
	"github.com/robertnenciu/json-to-csv/internal/models"
	"github.com/robertnenciu/json-to-csv/internal/parser"
)

// Result reports what a conversion produced.
type Result struct {
	Records int
	Columns int
}

// Converter runs the parse -> flatten -> write pipeline.
type Converter struct {
	config *config.Config
	logger *slog.Logger
}

// NewConverter creates a Converter with default configuration.
func NewConverter() *Converter {
	return &Converter{
		config: config.NewConfig(),
		logger: logger.NewDefaultLogger(),
	}
}

// NewConverterWithConfig creates a Converter with custom configuration.
func NewConverterWithConfig(cfg *config.Config, l *slog.Logger) *Converter {
	if l == nil {
		l = logger.NewDefaultLogger()
	}
	return &Converter{
		config: cfg,
		logger: l,
	}
}

// Convert flattens the document and writes CSV to w. Rows are written one
// at a time and the context is checked between rows, so cancellation aborts
// without finishing the output.
func (c *Converter) Convert(ctx context.Context, doc models.Document, w io.Writer) (*Result, error) {
	f := flattener.NewFlattenerWithConfig(c.config)
	result, err := f.Flatten(doc)
	if err != nil {
		return nil, err
	}

	c.logger.Debug(fmt.Sprintf("csv header: %v", result.Columns))

	writer := csvwriter.NewWriter(w)
	if err := writer.WriteHeader(result.Columns); err != nil {
		return nil, errors.NewOutputError("failed to write CSV header", err)
	}
	for _, row := range result.Rows {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if err := writer.WriteRow(row, result.Columns); err != nil {
			return nil, errors.NewOutputError("failed to write CSV row", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return nil, errors.NewOutputError("failed to flush CSV output", err)
	}

	return &Result{
		Records: len(result.Rows),
		Columns: len(result.Columns),
	}, nil
}

// ConvertToFile writes the document to outputPath atomically: the CSV goes
// to a temporary file in the destination directory which is renamed over
// the target only after a complete write. A failed conversion leaves no
// partial output behind.
func (c *Converter) ConvertToFile(ctx context.Context, doc models.Document, outputPath string) (*Result, error) {
	dir := filepath.Dir(outputPath)
	tmp, err := os.CreateTemp(dir, ".json2csv-*")
	if err != nil {
		return nil, errors.NewOutputError(
			fmt.Sprintf("failed to create temporary file in '%s'", dir),
			err,
		)
	}
	tmpName := tmp.Name()
	defer func() {
		// No-op after a successful rename.
		_ = os.Remove(tmpName)
	}()

	result, err := c.Convert(ctx, doc, tmp)
	if err != nil {
		_ = tmp.Close()
		return nil, err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return nil, errors.NewOutputError("failed to sync output file", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, errors.NewOutputError("failed to close output file", err)
	}
	if err := os.Rename(tmpName, outputPath); err != nil {
		return nil, errors.NewOutputError(
			fmt.Sprintf("failed to move output into place at '%s'", outputPath),
			err,
		)
	}

	c.logger.Info(fmt.Sprintf("converted %d records, %d columns to %s", result.Records, result.Columns, outputPath))
	return result, nil
}

// ConvertFile reads JSON from inputPath and writes CSV to outputPath.
func (c *Converter) ConvertFile(ctx context.Context, inputPath, outputPath string) (*Result, error) {
	doc, err := parser.ParseFile(inputPath)
	if err != nil {
		return nil, err
	}
	return c.ConvertToFile(ctx, doc, outputPath)
}

// ConvertString converts raw JSON text and writes CSV to w.
func (c *Converter) ConvertString(ctx context.Context, jsonText string, w io.Writer) (*Result, error) {
	doc, err := parser.ParseString(jsonText)
	if err != nil {
		return nil, err
	}
	return c.Convert(ctx, doc, w)
}
