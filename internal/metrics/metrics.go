// Package metrics counts what one decomposition run did on a private
// Prometheus registry.
package metrics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "cellml_decompose"

// Recorder holds the counters of one run.
type Recorder struct {
	VariablesTotal      *prometheus.CounterVec
	ElementsDropped     *prometheus.CounterVec
	ConnectionsTotal    prometheus.Counter
	FragmentsWritten    *prometheus.CounterVec
	FragmentWriteFailed *prometheus.CounterVec
	RunDuration         prometheus.Gauge

	registry *prometheus.Registry
}

// NewRecorder creates a Recorder on a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	return &Recorder{
		VariablesTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "variables_total",
				Help:      "Source variables by assigned role",
			},
			[]string{"role"},
		),
		ElementsDropped: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "elements_dropped_total",
				Help:      "Elements rejected by a fragment and dropped",
			},
			[]string{"fragment"},
		),
		ConnectionsTotal: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "connections_total",
				Help:      "Connections materialized in the interface and experiment fragments",
			},
		),
		FragmentsWritten: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fragments_written_total",
				Help:      "Fragments serialized and stored",
			},
			[]string{"kind"},
		),
		FragmentWriteFailed: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fragment_write_failures_total",
				Help:      "Fragments that could not be stored",
			},
			[]string{"kind"},
		),
		RunDuration: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Wall time of the run",
			},
		),
		registry: reg,
	}
}

func (r *Recorder) RoleAssigned(role string) {
	r.VariablesTotal.WithLabelValues(role).Inc()
}

func (r *Recorder) ElementDropped(fragment string) {
	r.ElementsDropped.WithLabelValues(fragment).Inc()
}

func (r *Recorder) ConnectionsMaterialized(n int) {
	r.ConnectionsTotal.Add(float64(n))
}

func (r *Recorder) FragmentWritten(kind string) {
	r.FragmentsWritten.WithLabelValues(kind).Inc()
}

func (r *Recorder) WriteFailed(kind string) {
	r.FragmentWriteFailed.WithLabelValues(kind).Inc()
}

// ObserveDuration records the run's wall time.
func (r *Recorder) ObserveDuration(d time.Duration) {
	r.RunDuration.Set(d.Seconds())
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Snapshot gathers every sample into a map keyed by the series name with its
// labels, e.g. `cellml_decompose_variables_total{role="state"}`.
func (r *Recorder) Snapshot() (map[string]float64, error) {
	families, err := r.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("failed to gather metrics: %w", err)
	}
	out := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			out[seriesName(mf.GetName(), m.GetLabel())] = sampleValue(mf.GetType(), m)
		}
	}
	return out, nil
}

func seriesName(name string, labels []*dto.LabelPair) string {
	if len(labels) == 0 {
		return name
	}
	parts := make([]string, 0, len(labels))
	for _, l := range labels {
		parts = append(parts, fmt.Sprintf("%s=%q", l.GetName(), l.GetValue()))
	}
	sort.Strings(parts)
	return name + "{" + strings.Join(parts, ",") + "}"
}

func sampleValue(t dto.MetricType, m *dto.Metric) float64 {
	switch t {
	case dto.MetricType_COUNTER:
		return m.GetCounter().GetValue()
	case dto.MetricType_GAUGE:
		return m.GetGauge().GetValue()
	default:
		return m.GetUntyped().GetValue()
	}
}
