package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ppiankov/factcheck/internal/model"
)

// scrape returns the exposition text served by the metrics handler
func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	return string(body)
}

func assertSample(t *testing.T, exposition, sample string) {
	t.Helper()
	if !strings.Contains(exposition, sample+"\n") {
		t.Errorf("Expected sample %q in exposition:\n%s", sample, exposition)
	}
}

func TestMetrics_ObserveReport(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveReport(&model.Report{
		Source: "text",
		Results: []model.Result{
			{Verdict: model.VerdictSupported},
			{Verdict: model.VerdictContradicted, Correction: "The Earth is round."},
			{Verdict: model.VerdictSupported},
		},
	}, 1500*time.Millisecond)
	m.ObserveFailure("url")

	out := scrape(t, m)
	assertSample(t, out, `factcheck_checks_total{source="text",status="ok"} 1`)
	assertSample(t, out, `factcheck_checks_total{source="url",status="error"} 1`)
	assertSample(t, out, `factcheck_verdicts_total{verdict="supported"} 2`)
	assertSample(t, out, `factcheck_verdicts_total{verdict="contradicted"} 1`)
	assertSample(t, out, `factcheck_corrections_total 1`)
	assertSample(t, out, `factcheck_check_duration_seconds_count{source="text"} 1`)
}

func TestMetrics_LookupAndCache(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveLookup("wikipedia", "found", 120*time.Millisecond)
	m.ObserveLookup("wikipedia", "not_found", 80*time.Millisecond)
	m.ObserveLookup("wikipedia", "found", 90*time.Millisecond)
	m.ObserveCache("wikipedia", true)
	m.ObserveCache("wikipedia", false)

	out := scrape(t, m)
	assertSample(t, out, `factcheck_knowledge_lookups_total{outcome="found",source="wikipedia"} 2`)
	assertSample(t, out, `factcheck_knowledge_lookups_total{outcome="not_found",source="wikipedia"} 1`)
	assertSample(t, out, `factcheck_knowledge_lookup_duration_seconds_count{source="wikipedia"} 3`)
	assertSample(t, out, `factcheck_knowledge_cache_requests_total{result="hit",source="wikipedia"} 1`)
	assertSample(t, out, `factcheck_knowledge_cache_requests_total{result="miss",source="wikipedia"} 1`)
}

func TestMetrics_VerdictSeriesStartAtZero(t *testing.T) {
	m := New(prometheus.NewRegistry())

	out := scrape(t, m)
	for _, v := range model.AllVerdicts() {
		assertSample(t, out, `factcheck_verdicts_total{verdict="`+string(v)+`"} 0`)
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveLookup("wikipedia", "found", time.Second)
	m.ObserveCache("wikipedia", true)
	m.ObserveReport(&model.Report{}, time.Second)
	m.ObserveFailure("text")
}
