// Package records parses the delimited text rows handled by the sorter.
package records

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

// Delimiter separates fields in a record. Quoting is not supported, so a
// delimiter inside a field always ends the field.
const Delimiter = ","

// Record is one data row of the input along with its sort key.
type Record struct {
	Key  int64
	Line string
}

// New parses the key of the line and returns the record.
func New(line string) (Record, error) {
	key, err := ParseKey(line)
	if err != nil {
		return Record{}, err
	}
	return Record{Key: key, Line: line}, nil
}

// ParseKey returns the integer in the first field of the line. The field is
// not trimmed.
func ParseKey(line string) (int64, error) {
	field, _, _ := strings.Cut(line, Delimiter)
	key, err := strconv.ParseInt(field, 10, 64)
	if err != nil {
		return 0, &ParseError{Line: line, Err: err}
	}
	return key, nil
}

// Compare orders records by key.
func Compare(a, b Record) int {
	return cmp.Compare(a.Key, b.Key)
}

// ParseError reports a row whose first field is not an integer.
type ParseError struct {
	// 1-based line number in the file being read, zero when unknown.
	LineNumber int
	Line       string
	Err        error
}

func (e *ParseError) Error() string {
	if e.LineNumber > 0 {
		return fmt.Sprintf("line %d: invalid sort key in %q: %v", e.LineNumber, e.Line, e.Err)
	}
	return fmt.Sprintf("invalid sort key in %q: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
