package extsort

import (
	"errors"
	"fmt"
	"io"

	"reduction.dev/csvsort/records"
	"reduction.dev/csvsort/storage/runs"
)

// MergeReader is a cursor over one run. It is Active while it holds a current
// record and Exhausted once the run has been read to the end, at which point
// its file is closed.
type MergeReader struct {
	id      int
	uri     string
	rc      io.ReadCloser
	lines   *records.LineReader
	current records.Record
	active  bool
}

// OpenMergeReader opens the run at uri. Advance must be called before the
// first record is available.
func OpenMergeReader(store runs.Store, id int, uri string) (*MergeReader, error) {
	rc, err := store.Open(uri)
	if err != nil {
		return nil, err
	}
	return &MergeReader{
		id:    id,
		uri:   uri,
		rc:    rc,
		lines: records.NewLineReader(rc),
	}, nil
}

// Advance moves to the next record of the run. It returns false once the run
// is exhausted.
func (m *MergeReader) Advance() (bool, error) {
	m.active = false
	if m.rc == nil {
		return false, nil
	}

	line, err := m.lines.ReadLine()
	if errors.Is(err, io.EOF) {
		return false, m.Close()
	}
	if err != nil {
		return false, fmt.Errorf("reading run %s: %w", m.uri, err)
	}

	r, err := records.New(line)
	if err != nil {
		var parseErr *records.ParseError
		if errors.As(err, &parseErr) {
			parseErr.LineNumber = m.lines.LineNumber()
		}
		return false, fmt.Errorf("run %s: %w", m.uri, err)
	}

	m.current = r
	m.active = true
	return true, nil
}

// CurrentKey is the key of the current record. Panics when exhausted.
func (m *MergeReader) CurrentKey() int64 {
	m.mustBeActive()
	return m.current.Key
}

// CurrentRecord is the text of the current record. Panics when exhausted.
func (m *MergeReader) CurrentRecord() string {
	m.mustBeActive()
	return m.current.Line
}

func (m *MergeReader) Exhausted() bool {
	return !m.active
}

// Close releases the run file. It is safe to call more than once.
func (m *MergeReader) Close() error {
	if m.rc == nil {
		return nil
	}
	err := m.rc.Close()
	m.rc = nil
	if err != nil {
		return fmt.Errorf("closing run %s: %w", m.uri, err)
	}
	return nil
}

func (m *MergeReader) mustBeActive() {
	if !m.active {
		panic(fmt.Sprintf("merge reader for %s has no current record", m.uri))
	}
}
