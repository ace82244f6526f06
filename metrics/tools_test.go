package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewToolsCollectorRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := NewToolsCollector(Config{}, registry)

	collector.RecordCall("get_weather", 5*time.Millisecond, nil)

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	expected := map[string]bool{
		"cumulo_tools_calls_total":           false,
		"cumulo_tools_call_duration_seconds": false,
	}
	for _, mf := range families {
		if _, ok := expected[mf.GetName()]; ok {
			expected[mf.GetName()] = true
		}
	}
	for name, found := range expected {
		if !found {
			t.Errorf("metric %q not found in registry", name)
		}
	}
}

func TestToolsCollectorRecordsSuccess(t *testing.T) {
	collector := NewToolsCollector(Config{}, prometheus.NewRegistry())

	collector.RecordCall("get_weather", 5*time.Millisecond, nil)
	collector.RecordCall("get_weather", 8*time.Millisecond, nil)

	if got := counterValue(t, collector.callsTotal, "get_weather", "ok"); got != 2 {
		t.Errorf("calls_total{outcome=ok} = %f, want 2", got)
	}
	if got := histogramCount(t, collector.callDuration, "get_weather"); got != 2 {
		t.Errorf("call_duration count = %d, want 2", got)
	}
}

func TestToolsCollectorRecordsErrors(t *testing.T) {
	collector := NewToolsCollector(Config{}, prometheus.NewRegistry())

	collector.RecordCall("lookup", 2*time.Millisecond, errors.New("upstream down"))

	if got := counterValue(t, collector.callsTotal, "lookup", "error"); got != 1 {
		t.Errorf("calls_total{outcome=error} = %f, want 1", got)
	}
	if got := counterValue(t, collector.callsTotal, "lookup", "ok"); got != 0 {
		t.Errorf("calls_total{outcome=ok} = %f, want 0", got)
	}
}

func TestNewToolsCollectorCustomNamespace(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := NewToolsCollector(Config{Namespace: "acme", Subsystem: "agents"}, registry)

	collector.RecordCall("search", time.Millisecond, nil)

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	var found bool
	for _, mf := range families {
		if mf.GetName() == "acme_agents_calls_total" {
			found = true
		}
	}
	if !found {
		t.Error("acme_agents_calls_total not found in registry")
	}
}
