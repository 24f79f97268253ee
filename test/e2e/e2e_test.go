package e2e_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI runs the CLI via go run with the given arguments and optional stdin
func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmdArgs := append([]string{"run", "../../main.go"}, args...)
	cmd := exec.Command("go", cmdArgs...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func TestEndToEnd_GoldenFiles(t *testing.T) {
	tests := []struct {
		name   string
		sample string
		golden string
	}{
		{name: "simple object", sample: "simple.json", golden: "simple.csv"},
		{name: "nested object", sample: "nested.json", golden: "nested.csv"},
		{name: "array of objects", sample: "array.json", golden: "array.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outputFile := filepath.Join(t.TempDir(), "out.csv")
			samplePath := filepath.Join("..", "..", "testdata", "samples", tt.sample)
			goldenPath := filepath.Join("..", "..", "testdata", "golden", tt.golden)

			_, stderr, err := runCLI(t, "", "-i", samplePath, "-o", outputFile)
			require.NoError(t, err, "CLI command failed: %s", stderr)

			got, err := os.ReadFile(outputFile)
			require.NoError(t, err)
			want, err := os.ReadFile(goldenPath)
			require.NoError(t, err)

			assert.Equal(t, string(want), string(got))
		})
	}
}

func TestEndToEnd_StdinToStdout(t *testing.T) {
	stdout, stderr, err := runCLI(t, `{"a": "1", "b": {"c": "2"}}`)
	require.NoError(t, err, "CLI command failed: %s", stderr)

	assert.Equal(t, "\"a\",\"b_c\"\r\n\"1\",\"2\"\r\n", stdout)
}

func TestEndToEnd_InlineText(t *testing.T) {
	stdout, stderr, err := runCLI(t, "", "-t", `[{"x": "1"}, {"y": "2"}]`)
	require.NoError(t, err, "CLI command failed: %s", stderr)

	assert.Equal(t, "\"x\",\"y\"\r\n\"1\",\"\"\r\n\"\",\"2\"\r\n", stdout)
}

func TestEndToEnd_InvalidJSONFails(t *testing.T) {
	_, stderr, err := runCLI(t, `{"broken": `)
	require.Error(t, err)
	assert.Contains(t, stderr, "JSON parsing error")
}

func TestEndToEnd_EmptyArrayFails(t *testing.T) {
	_, stderr, err := runCLI(t, `[]`)
	require.Error(t, err)
	assert.Contains(t, stderr, "Unsupported JSON shape")
}

func TestEndToEnd_ScalarRootFails(t *testing.T) {
	_, stderr, err := runCLI(t, `42`)
	require.Error(t, err)
	assert.Contains(t, stderr, "Unsupported JSON shape")
}

func TestEndToEnd_Idempotent(t *testing.T) {
	samplePath := filepath.Join("..", "..", "testdata", "samples", "array.json")

	first := filepath.Join(t.TempDir(), "first.csv")
	second := filepath.Join(t.TempDir(), "second.csv")

	_, stderr, err := runCLI(t, "", "-i", samplePath, "-o", first)
	require.NoError(t, err, stderr)
	_, stderr, err = runCLI(t, "", "-i", samplePath, "-o", second)
	require.NoError(t, err, stderr)

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b, "converting the same input twice must produce byte-identical CSV")
}

func TestEndToEnd_Version(t *testing.T) {
	stdout, _, err := runCLI(t, "", "-v")
	require.NoError(t, err)
	assert.Contains(t, stdout, "json2csv version")
}
