package extsort

import (
	"context"
	"errors"
	"fmt"
	"io"

	"reduction.dev/csvsort/records"
)

// DefaultMaxMemorySize is the number of records held in memory per run when
// no limit is given.
const DefaultMaxMemorySize = 10000

type SplitParams struct {
	// Maximum number of records per run. Values below one use
	// DefaultMaxMemorySize.
	MaxMemorySize int
	// When non-zero, a run is also closed once its lines add up to this many
	// bytes.
	MaxRunBytes uint64
}

func (p SplitParams) maxRecords() int {
	if p.MaxMemorySize < 1 {
		return DefaultMaxMemorySize
	}
	return p.MaxMemorySize
}

// Splitter cuts an input into sorted runs.
type Splitter struct {
	writer *RunWriter
	params SplitParams
}

func NewSplitter(writer *RunWriter, params SplitParams) *Splitter {
	return &Splitter{writer: writer, params: params}
}

// Split skips the header line of input and writes the remaining records as
// sorted runs. It returns the run URIs in creation order. An input without
// data rows produces no runs.
//
// On error the runs created so far are still returned so that they can be
// removed.
func (s *Splitter) Split(ctx context.Context, input io.Reader) ([]string, error) {
	lines := records.NewLineReader(input)
	if _, err := lines.ReadLine(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	var uris []string
	batch := NewBatch(s.params)
	flush := func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		uri, err := s.writer.Write(batch)
		if err != nil {
			return err
		}
		uris = append(uris, uri)
		batch.Clear()
		return nil
	}

	for {
		line, err := lines.ReadLine()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return uris, fmt.Errorf("reading input: %w", err)
		}

		r, err := records.New(line)
		if err != nil {
			var parseErr *records.ParseError
			if errors.As(err, &parseErr) {
				parseErr.LineNumber = lines.LineNumber()
			}
			return uris, err
		}
		batch.Push(r)
		recordsRead.Inc()

		if batch.IsFull() {
			if err := flush(); err != nil {
				return uris, err
			}
		}
	}

	if !batch.IsEmpty() {
		if err := flush(); err != nil {
			return uris, err
		}
	}
	return uris, nil
}
