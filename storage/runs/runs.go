// Package runs stores the sorted run files of one sort in a private session
// directory.
package runs

import (
	"io"
)

// Store creates and reopens run files.
type Store interface {
	Create() (Writer, error)
	Open(uri string) (io.ReadCloser, error)
}

// Writer writes one run. Nothing is visible under the run's final name until
// Save succeeds; Discard drops an unsaved run.
type Writer interface {
	WriteLine(line string) error
	Save() (uri string, err error)
	Discard() error
	// Size is the number of record bytes written so far.
	Size() int64
}
