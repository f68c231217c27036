// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// The converter is a batch job with no long-lived HTTP endpoint to scrape, so
// collected metrics are pushed to a Pushgateway once at the end of a run. All
// Prometheus-specific dependencies stay in this package.
package prompush

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"scryfallsql/internal/metrics"
)

// DefaultJob is the Pushgateway job used when none is given.
const DefaultJob = "scryfall-sql"

const pushTimeout = 10 * time.Second

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string // e.g. http://pushgateway:9091
	jobName    string // Pushgateway "job" group
	grouping   map[string]string
	reg        *prometheus.Registry
	client     *http.Client

	stepCounter   *prometheus.CounterVec // metrics.StepTotal
	stepDuration  *prometheus.SummaryVec // metrics.StepDurationSeconds
	recordCounter *prometheus.CounterVec // metrics.RecordsTotal
	batchCounter  prometheus.Counter     // metrics.BatchesTotal
}

// NewBackend constructs a Pushgateway backend. The job doubles as the
// Pushgateway grouping key, so it is not repeated as a metric label.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = DefaultJob
	}

	reg := prometheus.NewRegistry()

	stepCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metrics.StepTotal,
			Help: "Run step executions (decode, process, commit), partitioned by step and status.",
		},
		[]string{"step", "status"},
	)
	stepDuration := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       metrics.StepDurationSeconds,
			Help:       "Duration of run steps in seconds, partitioned by step and status.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"step", "status"},
	)
	recordCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metrics.RecordsTotal,
			Help: "Record and statement counts per kind (read, skipped, sets, cards, editions, ...).",
		},
		[]string{"kind"},
	)
	batchCounter := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: metrics.BatchesTotal,
			Help: "Batches of printings processed.",
		},
	)

	for _, c := range []struct {
		name string
		col  prometheus.Collector
	}{
		{"step counter", stepCounter},
		{"step summary", stepDuration},
		{"record counter", recordCounter},
		{"batch counter", batchCounter},
	} {
		if err := reg.Register(c.col); err != nil {
			return nil, fmt.Errorf("prompush: register %s: %w", c.name, err)
		}
	}

	return &Backend{
		gatewayURL:    gatewayURL,
		jobName:       jobName,
		reg:           reg,
		client:        &http.Client{Timeout: pushTimeout},
		stepCounter:   stepCounter,
		stepDuration:  stepDuration,
		recordCounter: recordCounter,
		batchCounter:  batchCounter,
	}, nil
}

func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case metrics.StepTotal:
		if b.stepCounter == nil {
			return
		}
		b.stepCounter.WithLabelValues(labels["step"], labels["status"]).Add(delta)

	case metrics.RecordsTotal:
		if b.recordCounter == nil {
			return
		}
		b.recordCounter.WithLabelValues(labels["kind"]).Add(delta)

	case metrics.BatchesTotal:
		if b.batchCounter == nil {
			return
		}
		b.batchCounter.Add(delta)
	}
}

func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name != metrics.StepDurationSeconds || b.stepDuration == nil {
		return
	}
	b.stepDuration.WithLabelValues(labels["step"], labels["status"]).Observe(value)
}

// WithGrouping adds a Pushgateway grouping label, so runs that differ only in
// that label (e.g. the target schema) do not replace each other's metrics.
// It must be called before Flush.
func (b *Backend) WithGrouping(name, value string) *Backend {
	if b.grouping == nil {
		b.grouping = make(map[string]string)
	}
	b.grouping[name] = value
	return b
}

// Flush pushes the registry to the Pushgateway, replacing the job's group.
func (b *Backend) Flush() error {
	p := push.New(b.gatewayURL, b.jobName).Gatherer(b.reg)
	for name, value := range b.grouping {
		p = p.Grouping(name, value)
	}
	if b.client != nil {
		p = p.Client(b.client)
	}
	if err := p.Push(); err != nil {
		return fmt.Errorf("prompush: push to %s: %w", b.gatewayURL, err)
	}
	return nil
}
