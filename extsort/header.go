package extsort

import (
	"context"
	"errors"
	"fmt"
	"io"

	"reduction.dev/csvsort/records"
	"reduction.dev/csvsort/storage/locations"
)

// ReadHeader returns the first line of r. It returns ErrEmptyInput when there
// is no first line or it is empty.
func ReadHeader(r io.Reader) (string, error) {
	header, err := records.NewLineReader(r).ReadLine()
	if errors.Is(err, io.EOF) {
		return "", ErrEmptyInput
	}
	if err != nil {
		return "", fmt.Errorf("reading header: %w", err)
	}
	if header == "" {
		return "", ErrEmptyInput
	}
	return header, nil
}

// ReadHeaderAt opens path and returns its header.
func ReadHeaderAt(ctx context.Context, loc *locations.Resolver, path string) (string, error) {
	rc, err := loc.Open(ctx, path)
	if err != nil {
		return "", err
	}
	defer rc.Close()
	return ReadHeader(rc)
}
