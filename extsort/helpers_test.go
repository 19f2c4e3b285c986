package extsort_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"reduction.dev/csvsort/storage/runs"
)

// writeFile writes lines, each newline terminated, to name in dir.
func writeFile(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	var content string
	if len(lines) > 0 {
		content = strings.Join(lines, "\n") + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "prereq: writing %s", name)
	return path
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func newRunDir(t *testing.T) *runs.Directory {
	t.Helper()
	dir, err := runs.NewDirectory(t.TempDir(), false)
	require.NoError(t, err)
	return dir
}

var errDiskFull = errors.New("disk full")

// failingStore hands out run writers that fail after failAfter lines.
type failingStore struct {
	failAfter int
	writers   []*failingWriter
}

func (s *failingStore) Create() (runs.Writer, error) {
	w := &failingWriter{failAfter: s.failAfter}
	s.writers = append(s.writers, w)
	return w, nil
}

func (s *failingStore) Open(uri string) (io.ReadCloser, error) {
	return nil, errors.New("not readable")
}

type failingWriter struct {
	failAfter int
	lines     int
	discarded bool
}

func (w *failingWriter) WriteLine(line string) error {
	if w.lines >= w.failAfter {
		return errDiskFull
	}
	w.lines++
	return nil
}

func (w *failingWriter) Save() (string, error) { return "saved", nil }

func (w *failingWriter) Discard() error {
	w.discarded = true
	return nil
}

func (w *failingWriter) Size() int64 { return 0 }

// countingStore tracks how many runs are open at once.
type countingStore struct {
	runs.Store
	open int
}

func (s *countingStore) Open(uri string) (io.ReadCloser, error) {
	rc, err := s.Store.Open(uri)
	if err != nil {
		return nil, err
	}
	s.open++
	return &countedReadCloser{ReadCloser: rc, store: s}, nil
}

type countedReadCloser struct {
	io.ReadCloser
	store *countingStore
}

func (c *countedReadCloser) Close() error {
	c.store.open--
	return c.ReadCloser.Close()
}

type failingOutput struct{}

func (failingOutput) Write(p []byte) (int, error) {
	return 0, errDiskFull
}

// checkLimitContext reports cancellation once Err has been asked more than
// limit times.
type checkLimitContext struct {
	context.Context
	limit  int
	checks int
}

func (c *checkLimitContext) Err() error {
	c.checks++
	if c.checks > c.limit {
		return context.Canceled
	}
	return nil
}
