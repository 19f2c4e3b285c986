package runs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/golang/snappy"
	"github.com/segmentio/ksuid"
	"golang.org/x/sync/errgroup"
)

const (
	sessionPrefix     = "csvsort-"
	runFileExt        = ".run"
	writeBufferSize   = 64 * 1024
	removeConcurrency = 8
)

// Directory is a session directory of run files. Runs are numbered in
// creation order.
type Directory struct {
	Path     string
	compress bool
	nextID   int
}

// NewDirectory creates a uniquely named session directory under base, or
// under the system temporary directory when base is empty. With compress set
// run files are written as snappy framed streams.
func NewDirectory(base string, compress bool) (*Directory, error) {
	if base == "" {
		base = os.TempDir()
	}
	path := filepath.Join(base, sessionPrefix+ksuid.New().String())
	if err := os.MkdirAll(path, 0o700); err != nil {
		return nil, fmt.Errorf("creating run directory %s: %w", path, err)
	}
	return &Directory{Path: path, compress: compress}, nil
}

func (d *Directory) Create() (Writer, error) {
	name := fmt.Sprintf("%06d%s", d.nextID, runFileExt)
	d.nextID++

	tmp, err := os.CreateTemp(d.Path, name+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("creating run file %s: %w", name, err)
	}

	f := &File{
		osFile: tmp,
		uri:    filepath.Join(d.Path, name),
	}
	var dest io.Writer = tmp
	if d.compress {
		f.snappyWriter = snappy.NewBufferedWriter(tmp)
		dest = f.snappyWriter
	}
	f.buf = bufio.NewWriterSize(dest, writeBufferSize)
	return f, nil
}

// Open reads back a saved run.
func (d *Directory) Open(uri string) (io.ReadCloser, error) {
	f, err := os.Open(uri)
	if err != nil {
		return nil, fmt.Errorf("opening run %s: %w", uri, err)
	}
	if !d.compress {
		return f, nil
	}
	return &snappyReadCloser{Reader: snappy.NewReader(f), file: f}, nil
}

// Remove deletes the given runs. Runs that are already gone are skipped.
func (d *Directory) Remove(ctx context.Context, uris ...string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(removeConcurrency)
	for _, uri := range uris {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			err := os.Remove(uri)
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("removing run %s: %w", uri, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Close removes the session directory with anything left in it.
func (d *Directory) Close() error {
	if err := os.RemoveAll(d.Path); err != nil {
		return fmt.Errorf("removing run directory %s: %w", d.Path, err)
	}
	slog.Debug("removed run directory", "component", "runs", "path", d.Path)
	return nil
}

var _ Store = (*Directory)(nil)

type snappyReadCloser struct {
	*snappy.Reader
	file *os.File
}

func (s *snappyReadCloser) Close() error {
	return s.file.Close()
}

// File is a run being written. Lines go to a temporary file that is renamed
// to the run's name on Save.
type File struct {
	osFile       *os.File
	snappyWriter *snappy.Writer
	buf          *bufio.Writer
	uri          string
	size         int64
	closed       bool
}

func (f *File) WriteLine(line string) error {
	n, err := f.buf.WriteString(line)
	f.size += int64(n)
	if err != nil {
		return fmt.Errorf("writing run %s: %w", f.uri, err)
	}
	if err := f.buf.WriteByte('\n'); err != nil {
		return fmt.Errorf("writing run %s: %w", f.uri, err)
	}
	f.size++
	return nil
}

func (f *File) Save() (string, error) {
	if f.closed {
		return "", fmt.Errorf("run %s already closed", f.uri)
	}
	if err := f.flush(); err != nil {
		return "", errors.Join(err, f.Discard())
	}
	f.closed = true
	if err := f.osFile.Close(); err != nil {
		return "", errors.Join(fmt.Errorf("closing run %s: %w", f.uri, err), os.Remove(f.osFile.Name()))
	}
	if err := os.Rename(f.osFile.Name(), f.uri); err != nil {
		return "", errors.Join(fmt.Errorf("saving run %s: %w", f.uri, err), os.Remove(f.osFile.Name()))
	}
	return f.uri, nil
}

func (f *File) flush() error {
	if err := f.buf.Flush(); err != nil {
		return fmt.Errorf("flushing run %s: %w", f.uri, err)
	}
	if f.snappyWriter != nil {
		if err := f.snappyWriter.Close(); err != nil {
			return fmt.Errorf("flushing compressed run %s: %w", f.uri, err)
		}
	}
	return nil
}

func (f *File) Discard() error {
	if f.closed {
		return nil
	}
	f.closed = true
	f.osFile.Close()
	if err := os.Remove(f.osFile.Name()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("discarding run %s: %w", f.uri, err)
	}
	return nil
}

// Size is the number of uncompressed bytes written so far.
func (f *File) Size() int64 {
	return f.size
}

var _ Writer = (*File)(nil)
