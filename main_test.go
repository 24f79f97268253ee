package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robertnenciu/json-to-csv/internal/config"
)

func TestRun_SimpleJSON(t *testing.T) {
	// Save original CLI state
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	// Test data
	jsonData := `{"name": "John", "age": 30, "active": true}`

	// Create temp input file
	tmpFile, err := os.CreateTemp("", "test_input_*.json")
	require.NoError(t, err)
	defer func() { _ = os.Remove(tmpFile.Name()) }()

	_, err = tmpFile.WriteString(jsonData)
	require.NoError(t, err)
	_ = tmpFile.Close()

	// Create temp output path
	outputPath := filepath.Join(t.TempDir(), "out.csv")

	// Set CLI options
	CLI.Input = tmpFile.Name()
	CLI.Output = outputPath
	CLI.Text = ""

	err = run(&Context{Debug: false, Config: config.NewConfig()})
	require.NoError(t, err)

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, "\"name\",\"age\",\"active\"\r\n\"John\",\"30\",\"true\"\r\n", string(data))
}

func TestRun_InlineText(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	outputPath := filepath.Join(t.TempDir(), "out.csv")

	CLI.Input = ""
	CLI.Output = outputPath
	CLI.Text = `[{"a": "x"}, {"a": "y", "b": "z"}]`

	err := run(&Context{Debug: false, Config: config.NewConfig()})
	require.NoError(t, err)

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, "\"a\",\"b\"\r\n\"x\",\"\"\r\n\"y\",\"z\"\r\n", string(data))
}

func TestRun_InvalidJSON(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Input = ""
	CLI.Output = filepath.Join(t.TempDir(), "out.csv")
	CLI.Text = `{"broken": `

	err := run(&Context{Debug: false, Config: config.NewConfig()})
	require.Error(t, err)

	// No output file should have been created
	_, statErr := os.Stat(CLI.Output)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_MissingInputFile(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Input = filepath.Join(t.TempDir(), "missing.json")
	CLI.Output = ""
	CLI.Text = ""

	err := run(&Context{Debug: false, Config: config.NewConfig()})
	require.Error(t, err)
}

func TestLoadConfig_CLIOverrides(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Config = ""
	CLI.Separator = "."
	CLI.Arrays = config.ArraysJSON
	CLI.Debug = true

	cwd, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(cwd) }()
	// Run from an empty directory so no real config file is picked up
	require.NoError(t, os.Chdir(t.TempDir()))

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.Separator)
	assert.Equal(t, config.ArraysJSON, cfg.Arrays.Policy)
	assert.True(t, cfg.Dev.Debug)
}
