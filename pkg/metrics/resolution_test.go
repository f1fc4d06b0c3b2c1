package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestResolutionMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewResolutionMetrics(reg)
	trigger := "cart-change"
	metrics.ObserveDuration(trigger, 150*time.Millisecond)
	metrics.IncPass(trigger)
	metrics.IncSuperseded(trigger)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "resolution_passes_total", "trigger", trigger); err != nil {
		t.Fatalf("fetch passes: %v", err)
	} else if got != 1 {
		t.Fatalf("expected passes=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "resolution_passes_superseded_total", "trigger", trigger); err != nil {
		t.Fatalf("fetch superseded: %v", err)
	} else if got != 1 {
		t.Fatalf("expected superseded=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "resolution_pass_duration_seconds", "trigger", trigger); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestResolutionMetricsNilSafe(t *testing.T) {
	var metrics *ResolutionMetrics
	metrics.IncPass("x")
	metrics.IncSuperseded("x")
	metrics.ObserveDuration("x", time.Second)

	empty := NewResolutionMetrics(nil)
	empty.IncPass("x")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q with %s=%s not found", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("metric %q with %s=%s not found", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(pairs []*dto.LabelPair, label, value string) bool {
	for _, pair := range pairs {
		if pair.GetName() == label && pair.GetValue() == value {
			return true
		}
	}
	return false
}
