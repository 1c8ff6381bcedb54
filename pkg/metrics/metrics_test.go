package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewManagerWithOptions(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewManager(
		WithNamespace("testns"),
		WithSubsystem("testsub"),
		WithPrometheusRegistry(registry),
	)

	if m.namespace != "testns" {
		t.Errorf("expected namespace testns, got %s", m.namespace)
	}
	if m.subsystem != "testsub" {
		t.Errorf("expected subsystem testsub, got %s", m.subsystem)
	}

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if len(families) != 0 {
		// Counters/histograms without observations may not appear until
		// used; a non-empty gather is fine too, just must not error.
		for _, f := range families {
			if !strings.HasPrefix(f.GetName(), "testns_testsub_") {
				t.Errorf("unexpected metric name %s", f.GetName())
			}
		}
	}
}

func TestManagerPrefixAndCustomLabels(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewManager(
		WithPrometheusRegistry(registry),
		WithMetricPrefix("canary_"),
		WithCustomLabels(map[string]string{"region": "eu-west-1"}),
	)
	m.leadsScored.Inc()

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}

	found := false
	for _, f := range families {
		if f.GetName() != "leadrank_scoring_canary_leads_scored_total" {
			continue
		}
		found = true
		labeled := false
		for _, metric := range f.GetMetric() {
			for _, l := range metric.GetLabel() {
				if l.GetName() == "region" && l.GetValue() == "eu-west-1" {
					labeled = true
				}
			}
		}
		if !labeled {
			t.Error("expected region const label on prefixed counter")
		}
	}
	if !found {
		t.Error("expected prefixed leads_scored_total in registry")
	}
}

func TestGlobalHelpersDoNotPanic(t *testing.T) {
	RecordLeadScored()
	RecordDuplicateDetected()
	RecordScoringLatency(12.5)
	RecordTextEmbedLatency(3.2)
	RecordIndexSearchLatency(0.4)
	RecordScoringError()
	RecordContrast(0.42)
	UpdateIndexSizes(100, 25)
	UpdateKnownEmails(10)
	UpdateEmbeddingDim(400)
	MarkArtifactLoaded(time.Now())
	RecordBuildDuration(42)
	RecordHTTPRequest("score", "POST", "200")
	RecordHTTPRequestDuration("score", "POST", "200", 15)
	RecordErrorByEndpoint("score", "POST", "client_error")
	UpdateSystemMemoryUsage(1 << 20)
	UpdateSystemGoroutineCount(12)
}

func TestGlobalRegistryGathers(t *testing.T) {
	RecordLeadScored()

	families, err := GetRegistry().Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}

	found := false
	for _, f := range families {
		if f.GetName() == "leadrank_scoring_leads_scored_total" {
			found = true
		}
	}
	if !found {
		t.Error("expected leads_scored_total in global registry")
	}
}
