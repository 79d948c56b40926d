// Package metrics records engine operation outcomes in Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "oshalog"

// Recorder is safe to use as a nil pointer; every method is then a no-op.
type Recorder struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	importRows *prometheus.CounterVec
	lockWait   prometheus.Histogram
}

func New(registerer prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Engine operations by name and outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Time spent inside the store lock per operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		importRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_rows_total",
			Help:      "CSV import rows by result.",
		}, []string{"result"}),
		lockWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_lock_wait_seconds",
			Help:      "Time spent waiting to acquire the store lock.",
			Buckets:   []float64{0.0001, 0.001, 0.01, 0.1, 0.5, 1, 5},
		}),
	}

	for _, c := range []prometheus.Collector{r.operations, r.duration, r.importRows, r.lockWait} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Recorder) Observe(operation string, err error, elapsed time.Duration) {
	if r == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	r.operations.WithLabelValues(operation, outcome).Inc()
	r.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func (r *Recorder) LockWait(elapsed time.Duration) {
	if r == nil {
		return
	}
	r.lockWait.Observe(elapsed.Seconds())
}

func (r *Recorder) ImportRows(imported, failed int) {
	if r == nil {
		return
	}
	r.importRows.WithLabelValues("imported").Add(float64(imported))
	r.importRows.WithLabelValues("failed").Add(float64(failed))
}
