package extsort

import "github.com/VictoriaMetrics/metrics"

var (
	recordsRead     = metrics.NewCounter("csvsort_records_read_total")
	runsWritten     = metrics.NewCounter("csvsort_runs_written_total")
	runBytesWritten = metrics.NewCounter("csvsort_run_bytes_written_total")
	recordsMerged   = metrics.NewCounter("csvsort_records_merged_total")
)
