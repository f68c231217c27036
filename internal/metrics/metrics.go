// Package metrics is a small, backend-agnostic facade for the converter's
// operational metrics.
//
// A global, pluggable Backend defaults to a no-op, so instrumentation is
// always safe to call even when no real backend is configured. Concrete
// systems live in subpackages (see prompush).
package metrics

import "time"

// Metric names shared by every backend.
const (
	StepTotal           = "scryfall_sql_step_total"
	StepDurationSeconds = "scryfall_sql_step_duration_seconds"
	RecordsTotal        = "scryfall_sql_records_total"
	BatchesTotal        = "scryfall_sql_batches_total"
)

// Record kinds used with RecordRow.
const (
	KindRead         = "read"
	KindDecodeErrors = "decode_errors"
	KindSkipped      = "skipped"
	KindSets         = "sets"
	KindCards        = "cards"
	KindFaces        = "faces"
	KindEditions     = "editions"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStep counts one execution of a run step (decode, process, commit)
// and records its duration, labelled by outcome.
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	lbls := Labels{
		"job":    job,
		"step":   step,
		"status": status,
	}

	backend.IncCounter(StepTotal, 1, lbls)
	backend.ObserveHistogram(StepDurationSeconds, d.Seconds(), lbls)
}

// RecordRow adds delta to the record counter of the given kind. Non-positive
// deltas are ignored.
func RecordRow(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(RecordsTotal, float64(delta), Labels{
		"job":  job,
		"kind": kind,
	})
}

// RecordBatches adds delta to the processed-batch counter.
func RecordBatches(job string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(BatchesTotal, float64(delta), Labels{
		"job": job,
	})
}
