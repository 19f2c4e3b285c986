// Package telemetry records how long each phase of a sort takes and writes
// the process metrics in the Prometheus text format.
package telemetry

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const (
	PhaseSplit   = "split"
	PhaseMerge   = "merge"
	PhaseCleanup = "cleanup"
)

var registry = prometheus.NewRegistry()

func init() {
	registry.MustRegister(phaseDuration)
}

var phaseDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "csvsort_phase_duration_seconds",
		Help:    "Time spent in each phase of an external sort",
		Buckets: []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60, 300, 900},
	},
	[]string{"phase"},
)

// ObservePhase records the time since start for the phase.
func ObservePhase(phase string, start time.Time) {
	phaseDuration.WithLabelValues(phase).Observe(time.Since(start).Seconds())
}

// WriteMetrics writes the sort counters followed by the phase histograms.
func WriteMetrics(w io.Writer) error {
	metrics.WritePrometheus(w, false)

	families, err := registry.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("writing metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// WriteTextfile replaces the file at path with the current metrics, for
// collection by a node exporter textfile collector.
func WriteTextfile(path string) error {
	var buf bytes.Buffer
	if err := WriteMetrics(&buf); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating metrics file: %w", err)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing metrics file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing metrics file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("setting metrics file mode: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
