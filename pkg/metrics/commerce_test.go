package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCommerceMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewCommerceMetrics(reg)

	metrics.ObserveCheckout("free_album", 250*time.Millisecond)
	metrics.IncCheckout("success")
	metrics.IncWebhookEvent("payment_intent.succeeded", "processed")
	metrics.IncWebhookEvent("payment_intent.succeeded", "duplicate")
	metrics.IncRefund("partial")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "checkout_total", map[string]string{"outcome": "success"}); err != nil {
		t.Fatalf("fetch checkout: %v", err)
	} else if got != 1 {
		t.Fatalf("expected checkout_total=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "payment_webhook_events_total", map[string]string{
		"event_type": "payment_intent.succeeded",
		"result":     "processed",
	}); err != nil {
		t.Fatalf("fetch webhook: %v", err)
	} else if got != 1 {
		t.Fatalf("expected processed=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "refunds_total", map[string]string{"kind": "partial"}); err != nil {
		t.Fatalf("fetch refunds: %v", err)
	} else if got != 1 {
		t.Fatalf("expected refunds_total=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "checkout_duration_seconds", map[string]string{"credit_type": "free_album"}); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestCommerceMetricsNilRegistererIsNoop(t *testing.T) {
	metrics := NewCommerceMetrics(nil)
	metrics.ObserveCheckout("none", time.Second)
	metrics.IncCheckout("failure")
	metrics.IncWebhookEvent("charge.refunded", "processed")
	metrics.IncRefund("full")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing labels %v", name, labels)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing labels %v", name, labels)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabels(pairs []*dto.LabelPair, labels map[string]string) bool {
	matched := 0
	for _, pair := range pairs {
		if want, ok := labels[pair.GetName()]; ok {
			if pair.GetValue() != want {
				return false
			}
			matched++
		}
	}
	return matched == len(labels)
}
