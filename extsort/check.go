package extsort

import (
	"context"
	"errors"
	"fmt"
	"io"

	"reduction.dev/csvsort/records"
)

type CheckResult struct {
	Header  string
	Records int
}

// Check verifies that every record after the header of r has a valid key and
// that keys never decrease. It returns an *OrderError for the first record out
// of order and a *records.ParseError for the first invalid key.
func Check(ctx context.Context, r io.Reader) (CheckResult, error) {
	var result CheckResult
	lines := records.NewLineReader(r)

	header, err := lines.ReadLine()
	if errors.Is(err, io.EOF) || (err == nil && header == "") {
		return result, ErrEmptyInput
	}
	if err != nil {
		return result, fmt.Errorf("reading header: %w", err)
	}
	result.Header = header

	var prev int64
	for {
		line, err := lines.ReadLine()
		if errors.Is(err, io.EOF) {
			return result, nil
		}
		if err != nil {
			return result, fmt.Errorf("reading input: %w", err)
		}

		key, err := records.ParseKey(line)
		if err != nil {
			var parseErr *records.ParseError
			if errors.As(err, &parseErr) {
				parseErr.LineNumber = lines.LineNumber()
			}
			return result, err
		}
		if result.Records > 0 && key < prev {
			return result, &OrderError{LineNumber: lines.LineNumber(), PrevKey: prev, Key: key}
		}

		prev = key
		result.Records++
		if result.Records%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return result, err
			}
		}
	}
}
