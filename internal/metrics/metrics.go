// Package metrics records bootstrapping progress as Prometheus metrics on a
// private registry. A batch run has no scrape endpoint, so the registry is
// written out in text exposition format when the run ends.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kittclouds/yarowsky/pkg/wsd/bootstrap"
)

const namespace = "yarowsky"

// Recorder implements bootstrap.Observer.
type Recorder struct {
	registry *prometheus.Registry
	seeds    []string

	iterations prometheus.Counter
	labeled    *prometheus.GaugeVec
	unlabeled  prometheus.Gauge
	rules      prometheus.Gauge
	converged  prometheus.Gauge
	duration   prometheus.Histogram
}

// NewRecorder registers the run metrics. seeds name the sense label values;
// sense i is reported under seeds[i].
func NewRecorder(seeds []string) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		seeds:    append([]string(nil), seeds...),
		iterations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "iterations_total",
			Help:      "Classify/retrain iterations completed.",
		}),
		labeled: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "labeled_contexts",
			Help:      "Contexts assigned to each sense after the latest iteration.",
		}, []string{"sense"}),
		unlabeled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "unlabeled_contexts",
			Help:      "Contexts left without a sense after the latest iteration.",
		}),
		rules: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rules",
			Help:      "Entries in the current decision list.",
		}),
		converged: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "converged",
			Help:      "1 once the decision list stopped changing.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "iteration_duration_seconds",
			Help:      "Wall time of one classify/retrain iteration.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
	}
	r.registry.MustRegister(r.iterations, r.labeled, r.unlabeled, r.rules, r.converged, r.duration)
	return r
}

// ObserveIteration updates every metric from one iteration's stats.
func (r *Recorder) ObserveIteration(s bootstrap.IterationStats) {
	r.iterations.Inc()
	for sense, n := range s.SenseCounts {
		r.labeled.WithLabelValues(r.senseLabel(sense)).Set(float64(n))
	}
	r.unlabeled.Set(float64(s.Unlabeled))
	r.rules.Set(float64(s.Rules))
	if s.Converged {
		r.converged.Set(1)
	} else {
		r.converged.Set(0)
	}
	r.duration.Observe(s.Duration.Seconds())
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// WriteTextfile writes the current values to path in the node-exporter
// textfile format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

func (r *Recorder) senseLabel(sense int) string {
	if sense < len(r.seeds) {
		return r.seeds[sense]
	}
	return strconv.Itoa(sense)
}

var _ bootstrap.Observer = (*Recorder)(nil)
