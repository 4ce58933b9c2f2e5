package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestSaleMetricsExports(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewSaleMetrics(reg)
	metrics.IncRecorded("kg")
	metrics.IncFailed("insufficient_stock")
	metrics.ObserveTransaction("committed", 125*time.Millisecond)
	metrics.SetDependencyUp("postgres", true)
	metrics.SetDependencyUp("redis", false)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "sales_recorded_total", "unit", "kg"); err != nil {
		t.Fatalf("fetch recorded: %v", err)
	} else if got != 1 {
		t.Fatalf("expected recorded=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "sale_transactions_failed_total", "reason", "insufficient_stock"); err != nil {
		t.Fatalf("fetch failed: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failed=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "sale_transaction_duration_seconds", "outcome", "committed"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}

	if got, err := fetchGaugeValue(mfs, "dependency_up", "dependency", "postgres"); err != nil {
		t.Fatalf("fetch liveness: %v", err)
	} else if got != 1 {
		t.Fatalf("expected postgres up=1, got %f", got)
	}

	if got, err := fetchGaugeValue(mfs, "dependency_up", "dependency", "redis"); err != nil {
		t.Fatalf("fetch liveness: %v", err)
	} else if got != 0 {
		t.Fatalf("expected redis up=0, got %f", got)
	}
}

func TestSaleMetricsNilRegistererIsSafe(t *testing.T) {
	metrics := NewSaleMetrics(nil)
	metrics.IncRecorded("kg")
	metrics.IncFailed("stale")
	metrics.ObserveTransaction("rolled_back", time.Second)
	metrics.SetDependencyUp("postgres", true)
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

func fetchGaugeValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetGauge().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("gauge %q missing label %s=%s", name, label, value)
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
