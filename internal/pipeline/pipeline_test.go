package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/nli"
)

// MockRetriever returns facts keyed by a substring of the claim
type MockRetriever struct {
	facts map[string]*model.Fact
	err   error
	mu    sync.Mutex
	calls []string
}

func (m *MockRetriever) Retrieve(ctx context.Context, claim string) (*model.Fact, error) {
	m.mu.Lock()
	m.calls = append(m.calls, claim)
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for key, fact := range m.facts {
		if strings.Contains(claim, key) {
			return fact, nil
		}
	}
	return nil, nil
}

// MockVerifier supports claims with a fact and contradicts the rest
type MockVerifier struct{}

func (m *MockVerifier) Verify(ctx context.Context, claim string, fact *model.Fact) nli.Verification {
	if fact != nil {
		return nli.Verification{Verdict: model.VerdictSupported, Label: "entailment", Score: 0.9, Premise: fact.Text}
	}
	return nli.Verification{Verdict: model.VerdictContradicted, Label: "contradiction", Score: 0.8, UsedPlaceholder: true}
}

// MockCorrector records the claims it was asked to rewrite
type MockCorrector struct {
	calls []string
}

func (m *MockCorrector) Correct(ctx context.Context, claim string) string {
	m.calls = append(m.calls, claim)
	return "The Earth is an oblate spheroid."
}

func testConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.Knowledge.RequestsPerSecond = 1000
	cfg.Knowledge.Burst = 100
	return cfg
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPipeline(t *testing.T, retriever FactRetriever, corrector ClaimCorrector) *Pipeline {
	t.Helper()
	p, err := NewPipeline(testConfig(),
		WithLogger(quietLogger()),
		WithRetriever(retriever),
		WithVerifier(&MockVerifier{}),
		WithCorrector(corrector),
	)
	if err != nil {
		t.Fatalf("NewPipeline failed: %v", err)
	}
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestPipeline_CheckText(t *testing.T) {
	retriever := &MockRetriever{facts: map[string]*model.Fact{
		"Eiffel": {Text: "The Eiffel Tower is a wrought-iron lattice tower in Paris, France.", Title: "Eiffel Tower"},
	}}
	corrector := &MockCorrector{}
	p := newTestPipeline(t, retriever, corrector)

	report, err := p.CheckText(context.Background(), "The Eiffel Tower is in Paris. The Earth is flat.")
	if err != nil {
		t.Fatalf("CheckText failed: %v", err)
	}

	if len(report.Results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(report.Results))
	}
	if report.ID == "" || report.Source != "text" || report.CheckedAt.IsZero() {
		t.Errorf("Report metadata not set: %+v", report)
	}

	first, second := report.Results[0], report.Results[1]
	if first.Claim.Text != "The Eiffel Tower is in Paris." || first.Claim.Index != 0 {
		t.Errorf("Unexpected first claim: %+v", first.Claim)
	}
	if first.Verdict != model.VerdictSupported || first.Fact == nil || first.Correction != "" {
		t.Errorf("Unexpected first result: %+v", first)
	}
	if second.Verdict != model.VerdictContradicted || second.Correction != "The Earth is an oblate spheroid." {
		t.Errorf("Unexpected second result: %+v", second)
	}
	if len(corrector.calls) != 1 || corrector.calls[0] != "The Earth is flat." {
		t.Errorf("Expected one correction for the contradicted claim, got %v", corrector.calls)
	}
	if report.Summary.Total != 2 || report.Summary.Supported != 1 || report.Summary.Corrected != 1 {
		t.Errorf("Unexpected summary: %+v", report.Summary)
	}
}

func TestPipeline_CheckText_OneResultPerSentence(t *testing.T) {
	p := newTestPipeline(t, &MockRetriever{}, nil)

	text := "Water boils at 100 degrees. Water boils at 100 degrees.\n\nDr. Smith lives in the U.S. today! Is the Moon made of cheese?"
	report, err := p.CheckText(context.Background(), text)
	if err != nil {
		t.Fatalf("CheckText failed: %v", err)
	}
	if len(report.Results) != 4 {
		t.Fatalf("Expected 4 results, got %d", len(report.Results))
	}
	for i, r := range report.Results {
		if r.Claim.Index != i {
			t.Errorf("Result %d has index %d", i, r.Claim.Index)
		}
		if r.Correction != "" {
			t.Errorf("Expected no correction without a corrector, got %q", r.Correction)
		}
	}
}

func TestPipeline_CheckText_Empty(t *testing.T) {
	p := newTestPipeline(t, &MockRetriever{}, nil)

	report, err := p.CheckText(context.Background(), "   \n  ")
	if err != nil {
		t.Fatalf("CheckText failed: %v", err)
	}
	if len(report.Results) != 0 || report.Summary.Total != 0 {
		t.Errorf("Expected empty report, got %+v", report)
	}
}

func TestPipeline_CheckText_Cancelled(t *testing.T) {
	p := newTestPipeline(t, &MockRetriever{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.CheckText(ctx, "The Moon orbits the Earth."); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestPipeline_CheckURL(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "User-agent: *\nDisallow: /private/\n")
	})
	mux.HandleFunc("/articles/tower", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, `<html><head><title>Tower</title></head><body>
			<nav>Home | About</nav>
			<article>
				<p>The Eiffel Tower is located in Paris and was completed in 1889.</p>
				<p>The Earth is flat according to a few people.</p>
			</article>
			<footer>Copyright notice here for the site</footer>
		</body></html>`)
	})
	mux.HandleFunc("/private/page", func(w http.ResponseWriter, r *http.Request) {
		t.Error("Disallowed page was fetched")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	p := newTestPipeline(t, &MockRetriever{facts: map[string]*model.Fact{"Eiffel": {Text: "A tower in Paris."}}}, nil)

	report, err := p.CheckURL(context.Background(), server.URL+"/articles/tower")
	if err != nil {
		t.Fatalf("CheckURL failed: %v", err)
	}
	if report.Source != "url" || report.SourceURL != server.URL+"/articles/tower" || report.Subject != "tower" {
		t.Errorf("Unexpected report metadata: %+v", report)
	}
	if len(report.Results) != 2 {
		t.Fatalf("Expected 2 results, got %d: %+v", len(report.Results), report.Results)
	}
	if report.Results[0].Verdict != model.VerdictSupported {
		t.Errorf("Expected first claim supported, got %s", report.Results[0].Verdict)
	}

	if _, err := p.CheckURL(context.Background(), server.URL+"/private/page"); !errors.Is(err, ErrDisallowed) {
		t.Errorf("Expected ErrDisallowed, got %v", err)
	}
}

func TestPipeline_CheckURL_Invalid(t *testing.T) {
	p := newTestPipeline(t, &MockRetriever{}, nil)

	for _, raw := range []string{"ftp://example.com/file", "not a url", "/relative"} {
		if _, err := p.CheckURL(context.Background(), raw); err == nil {
			t.Errorf("Expected error for %q", raw)
		}
	}
}

func TestNewPipeline_LLMVerifierRequiresProvider(t *testing.T) {
	cfg := testConfig()
	cfg.Verifier.Backend = "llm"
	cfg.LLM.Provider = ""

	if _, err := NewPipeline(cfg, WithLogger(quietLogger())); err == nil {
		t.Fatal("Expected error when llm verifier has no provider")
	}
}

func TestNewPipeline_KnowledgeHostRate(t *testing.T) {
	cfg := testConfig()
	cfg.Knowledge.BaseURL = "http://wiki.test"
	cfg.HTTP.RequestsPerSecond = 0.001
	cfg.HTTP.Burst = 1

	p, err := NewPipeline(cfg, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("NewPipeline failed: %v", err)
	}
	defer func() { _ = p.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	// The knowledge host runs at knowledge.requests_per_second
	for i := 0; i < 10; i++ {
		if err := p.limiter.Wait(ctx, "http://wiki.test/w/api.php?titles=Paris"); err != nil {
			t.Fatalf("knowledge request %d throttled: %v", i, err)
		}
	}

	// Any other host falls back to http.requests_per_second
	if err := p.limiter.Wait(ctx, "http://news.test/a"); err != nil {
		t.Fatalf("first page request throttled: %v", err)
	}
	if err := p.limiter.Wait(ctx, "http://news.test/b"); err == nil {
		t.Error("Expected second page request to exceed the default rate")
	}
}

func TestPipeline_HealthReportsBuiltProviders(t *testing.T) {
	ollama := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			http.NotFound(w, r)
			return
		}
		_, _ = fmt.Fprint(w, `{"models":[]}`)
	}))
	defer ollama.Close()

	cfg := testConfig()
	cfg.Verifier.Backend = "llm"
	cfg.LLM.Provider = "ollama"
	cfg.LLM.BaseURL = ollama.URL
	cfg.Corrector.Enabled = true

	p, err := NewPipeline(cfg, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("NewPipeline failed: %v", err)
	}
	defer func() { _ = p.Close() }()

	health := p.Health(context.Background())
	for _, role := range []string{"verifier", "corrector"} {
		got, ok := health[role]
		if !ok || got.Provider != "ollama" || !got.Available {
			t.Errorf("Expected available ollama %s, got %+v (present=%v)", role, got, ok)
		}
	}

	ollama.Close()
	if health := p.Health(context.Background()); health["verifier"].Available {
		t.Error("Expected verifier to be unavailable once Ollama is down")
	}
}

func TestPipeline_HealthEmptyWithoutProviders(t *testing.T) {
	p := newTestPipeline(t, &MockRetriever{}, nil)
	if health := p.Health(context.Background()); len(health) != 0 {
		t.Errorf("Expected no providers, got %+v", health)
	}
}

func TestPipeline_EndToEnd(t *testing.T) {
	var wikiQueries []string
	var mu sync.Mutex
	wiki := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		title := r.URL.Query().Get("titles")
		mu.Lock()
		wikiQueries = append(wikiQueries, title)
		mu.Unlock()

		if title == "Paris" {
			_, _ = fmt.Fprint(w, `{"query":{"pages":[{"title":"Paris","extract":"Paris is the capital and largest city of France. The Eiffel Tower is in Paris.","fullurl":"https://en.wikipedia.org/wiki/Paris"}]}}`)
			return
		}
		_, _ = fmt.Fprintf(w, `{"query":{"pages":[{"title":%q,"missing":true}]}}`, title)
	}))
	defer wiki.Close()

	hf := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Inputs struct {
				Text     string `json:"text"`
				TextPair string `json:"text_pair"`
			} `json:"inputs"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		if strings.Contains(req.Inputs.Text, "Eiffel Tower is in Paris") {
			_, _ = fmt.Fprint(w, `[[{"label":"entailment","score":0.96},{"label":"neutral","score":0.03},{"label":"contradiction","score":0.01}]]`)
			return
		}
		_, _ = fmt.Fprint(w, `[[{"label":"contradiction","score":0.7},{"label":"neutral","score":0.2},{"label":"entailment","score":0.1}]]`)
	}))
	defer hf.Close()

	cfg := testConfig()
	cfg.Knowledge.BaseURL = wiki.URL
	cfg.Verifier.BaseURL = hf.URL
	cfg.Cache.Enabled = true
	cfg.Cache.Backend = "memory"

	p, err := NewPipeline(cfg, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("NewPipeline failed: %v", err)
	}
	defer func() { _ = p.Close() }()

	report, err := p.CheckText(context.Background(), "The Eiffel Tower is in Paris. The Earth is flat.")
	if err != nil {
		t.Fatalf("CheckText failed: %v", err)
	}

	if len(report.Results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(report.Results))
	}
	first := report.Results[0]
	if first.Verdict != model.VerdictSupported || first.Fact == nil || first.Fact.Title != "Paris" {
		t.Errorf("Expected supported claim backed by Paris, got %+v", first)
	}
	second := report.Results[1]
	if second.Verdict != model.VerdictContradicted || second.Fact != nil || !second.UsedPlaceholder {
		t.Errorf("Expected contradiction against the placeholder, got %+v", second)
	}

	// The second run is served from the cache
	mu.Lock()
	before := len(wikiQueries)
	mu.Unlock()
	if _, err := p.CheckText(context.Background(), "The Eiffel Tower is in Paris."); err != nil {
		t.Fatalf("CheckText failed: %v", err)
	}
	mu.Lock()
	after := len(wikiQueries)
	mu.Unlock()
	if after != before {
		t.Errorf("Expected cached lookup, got %d new requests", after-before)
	}
}

func TestPipeline_RenderReport(t *testing.T) {
	p := newTestPipeline(t, &MockRetriever{}, &MockCorrector{})

	report, err := p.CheckText(context.Background(), "The Earth is flat.")
	if err != nil {
		t.Fatalf("CheckText failed: %v", err)
	}

	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "out", "report.json")
	mdPath := filepath.Join(dir, "out", "report.md")

	var out bytes.Buffer
	if err := p.RenderReport(&out, report, jsonPath, mdPath, true); err != nil {
		t.Fatalf("RenderReport failed: %v", err)
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("read JSON: %v", err)
	}
	var decoded model.Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.ID != report.ID || decoded.Results[0].Verdict != model.VerdictContradicted {
		t.Errorf("Unexpected decoded report: %+v", decoded)
	}

	md, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatalf("read Markdown: %v", err)
	}
	if !strings.Contains(string(md), "| 1 | The Earth is flat. | Contradicted ❌ | Suggested correction: The Earth is an oblate spheroid. |") {
		t.Errorf("Markdown missing result row:\n%s", md)
	}

	if !strings.Contains(out.String(), "✓ Wrote JSON") || !strings.Contains(out.String(), "Contradicted ❌") {
		t.Errorf("Unexpected stdout summary:\n%s", out.String())
	}
}
