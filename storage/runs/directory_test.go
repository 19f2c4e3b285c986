package runs_test

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"reduction.dev/csvsort/storage/runs"
)

func writeRun(t *testing.T, dir *runs.Directory, lines ...string) string {
	t.Helper()
	w, err := dir.Create()
	require.NoError(t, err)
	for _, l := range lines {
		require.NoError(t, w.WriteLine(l))
	}
	uri, err := w.Save()
	require.NoError(t, err)
	return uri
}

func readRun(t *testing.T, dir *runs.Directory, uri string) string {
	t.Helper()
	rc, err := dir.Open(uri)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(data)
}

func TestDirectory(t *testing.T) {
	for _, compress := range []bool{false, true} {
		name := "plain"
		if compress {
			name = "snappy"
		}
		t.Run(name, func(t *testing.T) {
			t.Run("WriteThenRead", func(t *testing.T) {
				dir, err := runs.NewDirectory(t.TempDir(), compress)
				require.NoError(t, err)

				uri := writeRun(t, dir, "1, data1", "2, data2")
				assert.Equal(t, "1, data1\n2, data2\n", readRun(t, dir, uri))
			})

			t.Run("RunsNumberedInCreationOrder", func(t *testing.T) {
				dir, err := runs.NewDirectory(t.TempDir(), compress)
				require.NoError(t, err)

				first := writeRun(t, dir, "3")
				second := writeRun(t, dir, "1")
				assert.Equal(t, "000000.run", filepath.Base(first))
				assert.Equal(t, "000001.run", filepath.Base(second))
				assert.Equal(t, dir.Path, filepath.Dir(first))
			})

			t.Run("EmptyRun", func(t *testing.T) {
				dir, err := runs.NewDirectory(t.TempDir(), compress)
				require.NoError(t, err)

				uri := writeRun(t, dir)
				assert.Equal(t, "", readRun(t, dir, uri))
			})
		})
	}
}

func TestDirectory_CompressedRunIsNotPlainText(t *testing.T) {
	dir, err := runs.NewDirectory(t.TempDir(), true)
	require.NoError(t, err)

	uri := writeRun(t, dir, strings.Repeat("1,aaaa", 100))
	raw, err := os.ReadFile(uri)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "1,aaaa1,aaaa1,aaaa")
}

func TestDirectory_SessionDirectoriesAreUnique(t *testing.T) {
	base := t.TempDir()
	a, err := runs.NewDirectory(base, false)
	require.NoError(t, err)
	b, err := runs.NewDirectory(base, false)
	require.NoError(t, err)

	assert.NotEqual(t, a.Path, b.Path)
	assert.True(t, strings.HasPrefix(filepath.Base(a.Path), "csvsort-"))
}

func TestFile_SizeAndDiscard(t *testing.T) {
	dir, err := runs.NewDirectory(t.TempDir(), false)
	require.NoError(t, err)

	w, err := dir.Create()
	require.NoError(t, err)
	require.NoError(t, w.WriteLine("12,ab"))
	assert.Equal(t, int64(6), w.Size())

	require.NoError(t, w.Discard())
	entries, err := os.ReadDir(dir.Path)
	require.NoError(t, err)
	assert.Empty(t, entries, "discarded run leaves no file")

	_, err = w.Save()
	assert.Error(t, err, "save after discard")
}

func TestDirectory_RemoveAndClose(t *testing.T) {
	dir, err := runs.NewDirectory(t.TempDir(), false)
	require.NoError(t, err)

	uris := []string{writeRun(t, dir, "1"), writeRun(t, dir, "2"), writeRun(t, dir, "3")}
	require.NoError(t, dir.Remove(t.Context(), uris...))
	for _, uri := range uris {
		_, err := os.Stat(uri)
		assert.ErrorIs(t, err, os.ErrNotExist)
	}

	assert.NoError(t, dir.Remove(t.Context(), uris[0]), "removing a missing run is not an error")

	require.NoError(t, dir.Close())
	_, err = os.Stat(dir.Path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDirectory_OpenMissingRun(t *testing.T) {
	dir, err := runs.NewDirectory(t.TempDir(), false)
	require.NoError(t, err)

	_, err = dir.Open(filepath.Join(dir.Path, "missing.run"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
