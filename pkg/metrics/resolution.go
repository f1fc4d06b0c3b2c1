package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ResolutionMetrics records metadata for discount resolution passes.
type ResolutionMetrics struct {
	duration   *prometheus.HistogramVec
	passes     *prometheus.CounterVec
	superseded *prometheus.CounterVec
}

// NewResolutionMetrics registers the resolution metrics on the provided registerer.
func NewResolutionMetrics(reg prometheus.Registerer) *ResolutionMetrics {
	if reg == nil {
		return &ResolutionMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "resolution_pass_duration_seconds",
		Help:    "Duration of discount resolution passes in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"trigger"})
	passes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "resolution_passes_total",
		Help: "Completed discount resolution passes.",
	}, []string{"trigger"})
	superseded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "resolution_passes_superseded_total",
		Help: "Resolution passes discarded because a newer snapshot arrived.",
	}, []string{"trigger"})
	reg.MustRegister(duration, passes, superseded)
	return &ResolutionMetrics{
		duration:   duration,
		passes:     passes,
		superseded: superseded,
	}
}

// ObserveDuration records the duration of a pass for the named trigger.
func (m *ResolutionMetrics) ObserveDuration(trigger string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(trigger)).Observe(duration.Seconds())
}

// IncPass increments the completed pass counter for the named trigger.
func (m *ResolutionMetrics) IncPass(trigger string) {
	if m == nil || m.passes == nil {
		return
	}
	m.passes.WithLabelValues(normalizeLabel(trigger)).Inc()
}

// IncSuperseded increments the superseded pass counter for the named trigger.
func (m *ResolutionMetrics) IncSuperseded(trigger string) {
	if m == nil || m.superseded == nil {
		return
	}
	m.superseded.WithLabelValues(normalizeLabel(trigger)).Inc()
}

func normalizeLabel(trigger string) string {
	if trigger == "" {
		return "unknown"
	}
	return trigger
}
