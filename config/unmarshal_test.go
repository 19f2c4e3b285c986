package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"reduction.dev/csvsort/config"
)

func TestUnmarshal(t *testing.T) {
	doc := `
input: s3://bucket/in.csv
output: /data/out.csv
max_memory_size: 500
max_run_bytes: 1048576
compress_runs: true
log_level: debug
s3:
  region: us-east-2
  endpoint: http://localhost:9000
`
	c, err := config.Unmarshal([]byte(doc), nil)
	require.NoError(t, err)

	assert.Equal(t, config.Config{
		InputPath:     "s3://bucket/in.csv",
		OutputPath:    "/data/out.csv",
		MaxMemorySize: 500,
		MaxRunBytes:   1 << 20,
		CompressRuns:  true,
		LogLevel:      "debug",
		S3: config.S3{
			Region:   "us-east-2",
			Endpoint: "http://localhost:9000",
		},
	}, c)
	assert.NoError(t, c.Validate())
}

func TestUnmarshal_KeepsDefaults(t *testing.T) {
	c, err := config.Unmarshal([]byte("input: in.csv\noutput: out.csv\n"), nil)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultMaxMemorySize, c.MaxMemorySize)
	assert.Equal(t, "info", c.LogLevel)
}

func TestUnmarshal_EmptyDocument(t *testing.T) {
	c, err := config.Unmarshal(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), c)
}

func TestUnmarshal_UnknownField(t *testing.T) {
	_, err := config.Unmarshal([]byte("inputs: in.csv\n"), nil)
	assert.Error(t, err)
}

func TestUnmarshal_Params(t *testing.T) {
	params := config.NewParams()
	params.Set("BUCKET", "my-bucket")
	t.Setenv("CSVSORT_PARAM_SCRATCH", "/scratch")

	c, err := config.Unmarshal([]byte("input: s3://${BUCKET}/in.csv\ntemp_dir: ${SCRATCH}\n"), params)
	require.NoError(t, err)
	assert.Equal(t, "s3://my-bucket/in.csv", c.InputPath)
	assert.Equal(t, "/scratch", c.TempDir)

	_, err = config.Unmarshal([]byte("input: ${NOPE}\n"), params)
	assert.ErrorContains(t, err, "NOPE")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "csvsort.yaml")
	require.NoError(t, os.WriteFile(path, []byte("input: a.csv\noutput: b.csv\n"), 0644))

	c, err := config.Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "a.csv", c.InputPath)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}
