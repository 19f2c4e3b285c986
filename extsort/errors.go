package extsort

import (
	"errors"
	"fmt"
)

// ErrEmptyInput means there is nothing to sort: the input has no header, an
// empty header, or no data rows.
var ErrEmptyInput = errors.New("input is empty")

// OrderError reports a record whose key is smaller than the key before it.
type OrderError struct {
	LineNumber int
	PrevKey    int64
	Key        int64
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("line %d: key %d follows larger key %d", e.LineNumber, e.Key, e.PrevKey)
}
