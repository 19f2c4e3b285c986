package extsort

import (
	"errors"
	"fmt"
	"log/slog"

	"reduction.dev/csvsort/records"
	"reduction.dev/csvsort/storage/runs"
	"reduction.dev/csvsort/util/ds"
)

// Batch holds the records of one run while it is being filled. Records are
// kept ordered by key, with equal keys in arrival order.
type Batch = ds.SortedBuffer[records.Record]

// NewBatch returns an empty batch bounded by the split parameters.
func NewBatch(params SplitParams) *Batch {
	return ds.NewSortedBuffer(records.Compare, params.maxRecords(), params.MaxRunBytes, recordSize)
}

// Bytes a record occupies in a run file.
func recordSize(r records.Record) int {
	return len(r.Line) + 1
}

// RunWriter persists batches as run files.
type RunWriter struct {
	store runs.Store
}

func NewRunWriter(store runs.Store) *RunWriter {
	return &RunWriter{store: store}
}

// Write stores the batch in a new run, one record per line in ascending key
// order, and returns the run's URI. A failed run is discarded.
func (w *RunWriter) Write(batch *Batch) (string, error) {
	f, err := w.store.Create()
	if err != nil {
		return "", err
	}

	for r := range batch.All() {
		if err := f.WriteLine(r.Line); err != nil {
			return "", errors.Join(err, f.Discard())
		}
	}

	uri, err := f.Save()
	if err != nil {
		return "", fmt.Errorf("saving run: %w", err)
	}

	runsWritten.Inc()
	runBytesWritten.Add(int(f.Size()))
	slog.Debug("wrote run", "component", "extsort", "uri", uri, "records", batch.Len(), "bytes", f.Size())
	return uri, nil
}
