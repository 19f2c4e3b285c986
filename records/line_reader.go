package records

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

const readBufferSize = 64 * 1024

// LineReader reads newline delimited rows of any length.
type LineReader struct {
	r *bufio.Reader
	// Number of lines returned so far.
	count int
}

func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: bufio.NewReaderSize(r, readBufferSize)}
}

// ReadLine returns the next line without its terminator. A final line without
// a newline is still returned. Returns io.EOF when no lines remain.
func (l *LineReader) ReadLine() (string, error) {
	line, err := l.r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if errors.Is(err, io.EOF) && line == "" {
		return "", io.EOF
	}

	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	l.count++
	return line, nil
}

// LineNumber is the 1-based number of the line most recently returned.
func (l *LineReader) LineNumber() int {
	return l.count
}
