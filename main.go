package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/robertnenciu/json-to-csv/internal/config"
	"github.com/robertnenciu/json-to-csv/internal/converter"
	"github.com/robertnenciu/json-to-csv/internal/errors"
	"github.com/robertnenciu/json-to-csv/internal/logger"
	"github.com/robertnenciu/json-to-csv/internal/models"
	"github.com/robertnenciu/json-to-csv/internal/parser"
)

// CLI defines the command-line interface
var CLI struct {
	Input       string `help:"Path to input JSON file. If not specified, reads from stdin." short:"i" type:"path"`
	Output      string `help:"Path to output CSV file. If not specified, writes to stdout." short:"o" type:"path"`
	Text        string `help:"Inline JSON text to convert." short:"t"`
	Config      string `help:"Path to config file. If not specified, searches for .json2csv.yml upward from the current directory." short:"c" type:"path"`
	Separator   string `help:"Separator joining nested keys into column names." short:"s"`
	Arrays      string `help:"Array handling policy: index or json." enum:",index,json" default:""`
	Debug       bool   `help:"Enable debug logging." short:"d"`
	Version     bool   `help:"Show version information." short:"v"`
	Interactive bool   `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Config *config.Config
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	parser := kong.Must(&CLI,
		kong.Name("json2csv"),
		kong.Description("A tool to convert JSON documents to CSV, flattening nested objects into underscore-joined columns"),
		kong.UsageOnError(),
	)

	// Check if no arguments provided and set interactive mode by default
	if len(os.Args) == 1 {
		CLI.Interactive = true
	}

	// Parse the command line arguments
	_, err := parser.Parse(os.Args[1:])
	if err != nil {
		// Usage is already shown by kong.UsageOnError()
		os.Exit(1)
	}

	// Show version and exit if requested
	if CLI.Version {
		fmt.Printf("json2csv version %s\n", Version)
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}

	err = run(&Context{Debug: cfg.Dev.Debug, Config: cfg})
	if err != nil {
		// Use our custom error handling to provide user-friendly error messages
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))

		fmt.Fprintf(os.Stderr, "\nFor help, run: json2csv --help\n")

		os.Exit(1)
	}
}

// loadConfig resolves the config file and merges CLI flag overrides
func loadConfig() (*config.Config, error) {
	configPath := CLI.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	cfg := config.NewConfig()
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, errors.NewConfigError(fmt.Sprintf("failed to load config from '%s'", configPath), err)
		}
		cfg = loaded
	}

	if err := cfg.MergeCLI(CLI.Separator, CLI.Arrays, CLI.Debug); err != nil {
		return nil, errors.NewConfigError("invalid configuration", err)
	}
	return cfg, nil
}

// run executes the main program logic
func run(ctx *Context) error {
	// 1. Parse JSON input
	doc, err := parseInput()
	if err != nil {
		// Error is already wrapped by parseInput
		return err
	}

	level := "INFO"
	if ctx.Debug {
		level = "DEBUG"
	}
	l, err := logger.NewLogger(level)
	if err != nil {
		return errors.NewConfigError("failed to initialize logger", err)
	}

	// 2. Convert and write the result
	conv := converter.NewConverterWithConfig(ctx.Config, l)
	if CLI.Output != "" {
		if _, err := conv.ConvertToFile(context.Background(), doc, CLI.Output); err != nil {
			return err
		}
		return nil
	}

	result, err := conv.Convert(context.Background(), doc, os.Stdout)
	if err != nil {
		return err
	}
	l.Debug(fmt.Sprintf("converted %d records, %d columns", result.Records, result.Columns))
	return nil
}

// parseInput reads JSON from inline text, a file, or stdin
func parseInput() (models.Document, error) {
	if CLI.Text != "" {
		return parser.ParseString(CLI.Text)
	}

	if CLI.Input != "" {
		// Parse from file
		return parser.ParseFile(CLI.Input)
	}

	// Check if stdin has data
	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return models.Document{}, errors.NewInputError("failed to access stdin", err)
	}

	// Interactive mode or piped input
	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		// Terminal is interactive (not piped)
		if CLI.Interactive {
			// Interactive mode
			return readInteractiveInput()
		}
		// No data provided on stdin and not in interactive mode
		return models.Document{}, errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	// Read from stdin (piped input)
	jsonData, err := io.ReadAll(os.Stdin)
	if err != nil {
		return models.Document{}, errors.NewInputError("failed to read from stdin", err)
	}

	if len(jsonData) == 0 {
		return models.Document{}, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}

	return parser.ParseString(string(jsonData))
}

// readInteractiveInput provides an interactive mode for users to paste JSON
// and signal completion with Ctrl+D (EOF)
func readInteractiveInput() (models.Document, error) {
	fmt.Fprintln(os.Stderr, "json2csv Interactive Mode")
	fmt.Fprintln(os.Stderr, "Paste your JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	// Read all input until EOF (Ctrl+D)
	reader := bufio.NewReader(os.Stdin)
	var jsonBuilder strings.Builder

	for {
		line, err := reader.ReadString('\n')
		if err == io.EOF {
			// End of input
			break
		}
		if err != nil {
			return models.Document{}, errors.NewInputError("error reading input", err)
		}
		jsonBuilder.WriteString(line)
	}

	jsonData := jsonBuilder.String()
	if len(jsonData) == 0 {
		return models.Document{}, errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	fmt.Fprintln(os.Stderr, "\nProcessing JSON...")
	return parser.ParseString(jsonData)
}
