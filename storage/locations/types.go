package locations

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("path not found")

// Output is a write destination whose content only becomes visible at its
// final path once committed. Abort discards everything written and is a no-op
// after a successful Commit.
type Output interface {
	io.Writer
	Commit(ctx context.Context) error
	Abort() error
	// URI is the final location of the output.
	URI() string
}
