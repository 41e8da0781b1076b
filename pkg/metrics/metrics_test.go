package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestImportMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewImportMetrics(reg)
	metrics.ObserveRun(OutcomeSuccess, 250*time.Millisecond)
	metrics.AddEntries(5, 3, 2)
	metrics.ObserveRun(OutcomeDenied, time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	expectCounter(t, mfs, "sticker_import_runs_total", "outcome", OutcomeSuccess, 1)
	expectCounter(t, mfs, "sticker_import_runs_total", "outcome", OutcomeDenied, 1)
	expectCounter(t, mfs, "sticker_import_entries_total", "result", "fetched", 5)
	expectCounter(t, mfs, "sticker_import_entries_total", "result", "inserted", 3)
	expectCounter(t, mfs, "sticker_import_entries_total", "result", "skipped", 2)

	if got, err := fetchHistogramSum(mfs, "sticker_import_duration_seconds", "outcome", OutcomeSuccess); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestOwnershipMetricsCountsMutations(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewOwnershipMetrics(reg)
	metrics.Inc(OwnershipAdded)
	metrics.Inc(OwnershipAdded)
	metrics.Inc(OwnershipNoop)
	metrics.AddQuantity(3)
	metrics.AddQuantity(-1)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	expectCounter(t, mfs, "sticker_ownership_mutations_total", "result", OwnershipAdded, 2)
	expectCounter(t, mfs, "sticker_ownership_mutations_total", "result", OwnershipNoop, 1)

	mf := findMetricFamily(mfs, "sticker_ownership_quantity_added_total")
	if mf == nil || len(mf.GetMetric()) != 1 {
		t.Fatalf("quantity counter missing")
	}
	if got := mf.GetMetric()[0].GetCounter().GetValue(); got != 3 {
		t.Fatalf("expected quantity=3, got %f", got)
	}
}

func TestHTTPMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics(reg)
	metrics.Observe("GET", "/api/public/v1/stickers", 200, 10*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if _, err := fetchHistogramSum(mfs, "http_request_duration_seconds", "route", "/api/public/v1/stickers"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	}
}

func TestNilMetricsAreNoops(t *testing.T) {
	var imports *ImportMetrics
	imports.ObserveRun(OutcomeFailure, time.Second)
	imports.AddEntries(1, 1, 0)
	NewImportMetrics(nil).ObserveRun(OutcomeSuccess, time.Second)

	var ownership *OwnershipMetrics
	ownership.Inc(OwnershipRemoved)
	NewOwnershipMetrics(nil).AddQuantity(1)

	var httpMetrics *HTTPMetrics
	httpMetrics.Observe("GET", "/", 200, time.Millisecond)
}

func expectCounter(t *testing.T, mfs []*dto.MetricFamily, name, label, value string, want float64) {
	t.Helper()
	got, err := fetchCounterValue(mfs, name, label, value)
	if err != nil {
		t.Fatalf("fetch %s: %v", name, err)
	}
	if got != want {
		t.Fatalf("expected %s{%s=%q}=%v, got %v", name, label, value, want, got)
	}
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
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
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
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
