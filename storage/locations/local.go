package locations

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

func openLocalFile(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("opening file %s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("opening file %s: %w", path, err)
	}
	return file, nil
}

// LocalOutput writes to a temporary file next to the destination and renames
// it into place on Commit.
type LocalOutput struct {
	tmp       *os.File
	path      string
	committed bool
	aborted   bool
}

func newLocalOutput(path string) (*LocalOutput, error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("creating output for %s: %w", path, err)
	}
	return &LocalOutput{tmp: tmp, path: path}, nil
}

func (o *LocalOutput) Write(p []byte) (int, error) {
	return o.tmp.Write(p)
}

func (o *LocalOutput) Commit(ctx context.Context) error {
	if o.committed || o.aborted {
		return fmt.Errorf("output %s already closed", o.path)
	}
	if err := o.tmp.Sync(); err != nil {
		return errors.Join(fmt.Errorf("syncing output %s: %w", o.path, err), o.Abort())
	}
	if err := o.tmp.Close(); err != nil {
		return errors.Join(fmt.Errorf("closing output %s: %w", o.path, err), o.Abort())
	}
	if err := os.Rename(o.tmp.Name(), o.path); err != nil {
		return errors.Join(fmt.Errorf("renaming output into %s: %w", o.path, err), o.Abort())
	}
	o.committed = true
	return nil
}

func (o *LocalOutput) Abort() error {
	if o.committed || o.aborted {
		return nil
	}
	o.aborted = true

	// Close may fail if Commit already closed the file.
	o.tmp.Close()
	if err := os.Remove(o.tmp.Name()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing partial output %s: %w", o.tmp.Name(), err)
	}
	return nil
}

func (o *LocalOutput) URI() string {
	return o.path
}

var _ Output = (*LocalOutput)(nil)
