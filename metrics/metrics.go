// Package metrics exposes Prometheus instrumentation for report runs and
// dataset loads.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Report outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
	defaultNS      = "f1report"
)

// Option configures a Recorder.
type Option func(*Recorder)

// WithNamespace overrides the metric namespace.
func WithNamespace(ns string) Option {
	return func(r *Recorder) { r.namespace = ns }
}

// WithRegistry registers on reg instead of a private registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(r *Recorder) { r.registry = reg }
}

// WithRuntimeCollectors adds the Go runtime and process collectors.
func WithRuntimeCollectors() Option {
	return func(r *Recorder) { r.runtime = true }
}

// Recorder holds the collectors. A nil *Recorder is valid and records nothing.
type Recorder struct {
	namespace string
	registry  *prometheus.Registry
	runtime   bool

	reports      *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	skippedDates prometheus.Counter
	rows         *prometheus.GaugeVec
	loads        *prometheus.CounterVec
	lastLoad     prometheus.Gauge
}

// New builds a Recorder with every collector registered.
func New(opts ...Option) *Recorder {
	r := &Recorder{namespace: defaultNS}
	for _, opt := range opts {
		opt(r)
	}
	if r.registry == nil {
		r.registry = prometheus.NewRegistry()
	}
	if r.runtime {
		r.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	auto := promauto.With(r.registry)
	r.reports = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "reports_total",
		Help:      "Reports computed, by report kind and outcome.",
	}, []string{"report", "outcome"})
	r.duration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Name:      "report_duration_seconds",
		Help:      "Time to compute and render one report.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"report"})
	r.skippedDates = auto.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "skipped_race_dates_total",
		Help:      "Races dropped from the monthly summary because the date did not parse.",
	})
	r.rows = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Subsystem: "dataset",
		Name:      "rows",
		Help:      "Rows in the currently loaded tables.",
	}, []string{"table"})
	r.loads = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "dataset",
		Name:      "loads_total",
		Help:      "Dataset loads, by outcome.",
	}, []string{"outcome"})
	r.lastLoad = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Subsystem: "dataset",
		Name:      "last_load_unixtime",
		Help:      "Unix time of the last successful dataset load.",
	})
	return r
}

// ObserveReport records one report attempt.
func (r *Recorder) ObserveReport(report, outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.reports.WithLabelValues(report, outcome).Inc()
	r.duration.WithLabelValues(report).Observe(d.Seconds())
}

// SkippedDates adds n unparseable race dates.
func (r *Recorder) SkippedDates(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.skippedDates.Add(float64(n))
}

// DatasetLoaded records a successful load and the table sizes.
func (r *Recorder) DatasetLoaded(sizes map[string]int) {
	if r == nil {
		return
	}
	r.loads.WithLabelValues(OutcomeOK).Inc()
	for table, n := range sizes {
		r.rows.WithLabelValues(table).Set(float64(n))
	}
	r.lastLoad.SetToCurrentTime()
}

// DatasetFailed records a failed load.
func (r *Recorder) DatasetFailed() {
	if r == nil {
		return
	}
	r.loads.WithLabelValues(OutcomeFailed).Inc()
}

// Registry returns the registry the collectors live on.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
