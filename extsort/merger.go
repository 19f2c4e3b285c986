package extsort

import (
	"bufio"
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"

	"reduction.dev/csvsort/storage/runs"
	"reduction.dev/csvsort/util/ds"
)

const (
	outputBufferSize = 64 * 1024
	// Number of merged records between context checks.
	cancelCheckInterval = 1024
)

// Merger combines sorted runs into one sorted output.
type Merger struct {
	store runs.Store
}

func NewMerger(store runs.Store) *Merger {
	return &Merger{store: store}
}

// Merge writes the header followed by every record of the runs in ascending
// key order and returns the number of records written. Records with equal
// keys from different runs are written in the order the runs are listed.
func (m *Merger) Merge(ctx context.Context, uris []string, header string, out io.Writer) (int, error) {
	readers := make([]*MergeReader, 0, len(uris))
	defer func() {
		for _, r := range readers {
			r.Close()
		}
	}()

	// Order cursors by their current key, then by run position.
	heap := ds.NewHeap(func(a, b *MergeReader) int {
		if c := cmp.Compare(a.CurrentKey(), b.CurrentKey()); c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	}, len(uris))

	for i, uri := range uris {
		r, err := OpenMergeReader(m.store, i, uri)
		if err != nil {
			return 0, err
		}
		readers = append(readers, r)

		ok, err := r.Advance()
		if err != nil {
			return 0, err
		}
		if ok {
			heap.Push(r)
		}
	}

	slog.Debug("opened runs", "component", "extsort", "runs", len(uris), "nonEmpty", heap.Size())

	w := bufio.NewWriterSize(out, outputBufferSize)
	if err := writeLine(w, header); err != nil {
		return 0, err
	}

	count := 0
	for {
		r, ok := heap.Pop()
		if !ok {
			break
		}

		if err := writeLine(w, r.CurrentRecord()); err != nil {
			return count, err
		}
		count++
		if count%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return count, err
			}
		}

		ok, err := r.Advance()
		if err != nil {
			return count, err
		}
		if ok {
			heap.Push(r)
		}
	}

	if err := w.Flush(); err != nil {
		return count, fmt.Errorf("writing output: %w", err)
	}
	recordsMerged.Add(count)
	slog.Debug("merged runs", "component", "extsort", "runs", len(uris), "records", count)
	return count, nil
}

func writeLine(w *bufio.Writer, line string) error {
	if _, err := w.WriteString(line); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if err := w.WriteByte('\n'); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
