package extsort

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"reduction.dev/csvsort/storage/locations"
	"reduction.dev/csvsort/storage/runs"
	"reduction.dev/csvsort/telemetry"
)

type SortParams struct {
	InputPath  string
	OutputPath string
	Split      SplitParams
	// Parent of the run directory. Empty means the system temporary directory.
	TempDir      string
	CompressRuns bool
	// Resolves input and output paths. A nil resolver only handles local paths.
	Locations *locations.Resolver
}

type Result struct {
	Header  string
	Records int
	Runs    int
}

// Sort sorts the input file into the output file. The output is only created
// once the merge has succeeded. Run files are removed whether or not the sort
// succeeds.
//
// Returns ErrEmptyInput, without creating an output, when the input has no
// header or no data rows.
func Sort(ctx context.Context, params SortParams) (result Result, err error) {
	loc := params.Locations
	if loc == nil {
		loc = locations.NewResolver(nil)
	}

	result.Header, err = ReadHeaderAt(ctx, loc, params.InputPath)
	if err != nil {
		return result, err
	}

	dir, err := runs.NewDirectory(params.TempDir, params.CompressRuns)
	if err != nil {
		return result, err
	}

	var runURIs []string
	defer func() {
		// Cleanup still has to happen when ctx is the reason for failing.
		err = errors.Join(err, cleanup(context.WithoutCancel(ctx), dir, runURIs))
	}()

	start := time.Now()
	runURIs, err = splitInput(ctx, loc, dir, params)
	telemetry.ObservePhase(telemetry.PhaseSplit, start)
	result.Runs = len(runURIs)
	if err != nil {
		return result, err
	}
	slog.Info("split input", "component", "extsort", "input", params.InputPath, "runs", len(runURIs))
	if len(runURIs) == 0 {
		return result, ErrEmptyInput
	}

	start = time.Now()
	result.Records, err = mergeRuns(ctx, loc, dir, runURIs, result.Header, params.OutputPath)
	telemetry.ObservePhase(telemetry.PhaseMerge, start)
	if err != nil {
		return result, err
	}
	slog.Info("merged runs", "component", "extsort", "output", params.OutputPath, "records", result.Records)
	return result, nil
}

func splitInput(ctx context.Context, loc *locations.Resolver, dir *runs.Directory, params SortParams) ([]string, error) {
	input, err := loc.Open(ctx, params.InputPath)
	if err != nil {
		return nil, err
	}
	defer input.Close()

	splitter := NewSplitter(NewRunWriter(dir), params.Split)
	return splitter.Split(ctx, input)
}

func mergeRuns(ctx context.Context, loc *locations.Resolver, dir *runs.Directory, uris []string, header, outputPath string) (int, error) {
	out, err := loc.Create(ctx, outputPath)
	if err != nil {
		return 0, err
	}

	count, err := NewMerger(dir).Merge(ctx, uris, header, out)
	if err != nil {
		return count, errors.Join(err, out.Abort())
	}
	if err := out.Commit(ctx); err != nil {
		return count, fmt.Errorf("committing output: %w", err)
	}
	return count, nil
}

func cleanup(ctx context.Context, dir *runs.Directory, uris []string) error {
	defer telemetry.ObservePhase(telemetry.PhaseCleanup, time.Now())
	return errors.Join(dir.Remove(ctx, uris...), dir.Close())
}
