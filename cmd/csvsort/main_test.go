package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout bytes.Buffer
	err := newApp(&stdout).RunContext(t.Context(), append([]string{"csvsort"}, args...))
	return stdout.String(), err
}

func writeInput(t *testing.T, content string) (input, output string) {
	t.Helper()
	dir := t.TempDir()
	input = filepath.Join(dir, "input.csv")
	require.NoError(t, os.WriteFile(input, []byte(content), 0644))
	return input, filepath.Join(dir, "output.csv")
}

func TestSortCommand(t *testing.T) {
	input, output := writeInput(t, "Header1,Header2\n3, data3\n1, data1\n2, data2\n")

	stdout, err := runApp(t, "sort", "--tmp-dir", t.TempDir(), input, output, "1")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Input file: "+input+"\n")
	assert.Contains(t, stdout, "Output file: "+output+"\n")
	assert.Contains(t, stdout, "Max memory size: 1\n")
	assert.Contains(t, stdout, "Sorted 3 records in 3 runs")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "Header1,Header2\n1, data1\n2, data2\n3, data3\n", string(data))
}

func TestSortCommand_InvalidMaxMemorySizeUsesDefault(t *testing.T) {
	input, output := writeInput(t, "h\n2,b\n1,a\n")

	stdout, err := runApp(t, "sort", input, output, "lots")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Max memory size: 10,000\n")
	assert.FileExists(t, output)
}

func TestSortCommand_MissingPaths(t *testing.T) {
	stdout, err := runApp(t, "sort")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Input and output file paths are required.")
	assert.Contains(t, stdout, "USAGE:")
}

func TestSortCommand_EmptyInput(t *testing.T) {
	input, output := writeInput(t, "Header1,Header2\n")

	stdout, err := runApp(t, "sort", input, output)
	require.NoError(t, err)
	assert.Contains(t, stdout, "File seems to be empty. Aborting process")
	assert.NoFileExists(t, output)
}

func TestSortCommand_InvalidKey(t *testing.T) {
	input, output := writeInput(t, "h\n1, data\nabc, data\n")

	_, err := runApp(t, "sort", input, output)
	assert.ErrorContains(t, err, "line 3")
	assert.NoFileExists(t, output)
}

func TestSortCommand_ConfigFile(t *testing.T) {
	input, output := writeInput(t, "h\n3,c\n2,b\n1,a\n")
	metrics := filepath.Join(t.TempDir(), "csvsort.prom")
	configPath := filepath.Join(t.TempDir(), "sort.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
input: ${input}
output: `+output+`
max_memory_size: 2
compress_runs: true
metrics_file: `+metrics+`
`), 0644))

	stdout, err := runApp(t, "sort", "--config", configPath, "--param", "input="+input, "--max-memory-size", "1")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Max memory size: 1\n", "flags override the file")
	assert.Contains(t, stdout, "Sorted 3 records in 3 runs")
	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "h\n1,a\n2,b\n3,c\n", string(data))

	prom, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "csvsort_phase_duration_seconds")
}

func TestSortCommand_InvalidParam(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "sort.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("input: a\n"), 0644))

	_, err := runApp(t, "sort", "--config", configPath, "--param", "novalue")
	assert.ErrorContains(t, err, "expected key=value")
}

func TestCheckCommand(t *testing.T) {
	sorted, _ := writeInput(t, "h\n1,a\n1,b\n1500,c\n")
	stdout, err := runApp(t, "check", sorted)
	require.NoError(t, err)
	assert.Contains(t, stdout, "is sorted (3 records)")

	unsorted, _ := writeInput(t, "h\n2,a\n1,b\n")
	_, err = runApp(t, "check", unsorted)
	assert.ErrorContains(t, err, "line 3: key 1 follows larger key 2")
}
