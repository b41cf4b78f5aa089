package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/factcheck/internal/cache"
	"github.com/ppiankov/factcheck/internal/extract"
	"github.com/ppiankov/factcheck/internal/extract/adapters"
	"github.com/ppiankov/factcheck/internal/knowledge"
	"github.com/ppiankov/factcheck/internal/llm"
	"github.com/ppiankov/factcheck/internal/metrics"
	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/nli"
	"github.com/ppiankov/factcheck/internal/score"
	"github.com/ppiankov/factcheck/internal/util"
	"github.com/ppiankov/factcheck/internal/worker"
)

// ErrDisallowed is returned when robots.txt forbids fetching a URL
var ErrDisallowed = errors.New("disallowed by robots.txt")

// ErrNoText is returned when a fetched page yields no checkable text
var ErrNoText = errors.New("no text extracted from page")

// FactRetriever finds a reference fact for a claim; the error is only
// ever a context error
type FactRetriever interface {
	Retrieve(ctx context.Context, claim string) (*model.Fact, error)
}

// ClaimVerifier classifies a claim against an optional fact
type ClaimVerifier interface {
	Verify(ctx context.Context, claim string, fact *model.Fact) nli.Verification
}

// ClaimCorrector rewrites a contradicted claim; "" means no correction
type ClaimCorrector interface {
	Correct(ctx context.Context, claim string) string
}

// Pipeline orchestrates segmentation, retrieval, verification, and correction
type Pipeline struct {
	fetcher   *Fetcher
	robots    *util.RobotsChecker
	limiter   *worker.Limiter
	adapters  *adapters.Registry
	extractor *extract.ClaimExtractor
	retriever FactRetriever
	verifier  ClaimVerifier
	corrector ClaimCorrector
	scorer    *score.Scorer
	renderer  *Renderer
	metrics   *metrics.Metrics
	logger    *slog.Logger
	closers   []io.Closer
	config    *model.Config

	// LLM providers by role, reported by Health
	providers map[string]llm.Provider
}

// ProviderHealth reports whether one configured LLM provider is reachable
type ProviderHealth struct {
	Provider  string `json:"provider"`
	Available bool   `json:"available"`
}

// Option customizes a Pipeline; options override components built from config
type Option func(*Pipeline)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithMetrics records checks and lookups
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithAnalyzer replaces the configured sentence/entity analyzer
func WithAnalyzer(analyzer extract.Analyzer) Option {
	return func(p *Pipeline) { p.extractor = extract.NewClaimExtractor(analyzer) }
}

// WithRetriever replaces the knowledge retriever
func WithRetriever(r FactRetriever) Option {
	return func(p *Pipeline) { p.retriever = r }
}

// WithVerifier replaces the classifier-backed verifier
func WithVerifier(v ClaimVerifier) Option {
	return func(p *Pipeline) { p.verifier = v }
}

// WithCorrector replaces the corrector; nil disables correction
func WithCorrector(c ClaimCorrector) Option {
	return func(p *Pipeline) { p.corrector = c }
}

// NewPipeline builds a pipeline from configuration
func NewPipeline(cfg *model.Config, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		fetcher: NewFetcher(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, cfg.HTTP.MaxBodyBytes,
			cfg.HTTP.InsecureTLS, cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy),
		limiter:  worker.NewLimiter(cfg.HTTP.RequestsPerSecond, cfg.HTTP.Burst),
		adapters: adapters.NewRegistry(),
		scorer:   score.NewScorer(),
		renderer: NewRenderer(cfg.Output.IncludeFooter),
		logger:   slog.Default(),
		config:   cfg,

		providers: make(map[string]llm.Provider),
	}
	p.robots = util.NewRobotsChecker(cfg.HTTP.UserAgent, p.fetcher.HTTPClient())

	// Options go first so defaults are only built for what they leave unset
	for _, opt := range opts {
		opt(p)
	}

	transport := util.NewTransport(cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy)

	if p.extractor == nil {
		p.extractor = extract.NewClaimExtractor(p.buildAnalyzer(transport))
	}

	if p.retriever == nil {
		retriever, err := p.buildRetriever(transport)
		if err != nil {
			p.Close()
			return nil, err
		}
		p.retriever = retriever
	}

	if p.verifier == nil {
		verifier, err := p.buildVerifier(transport)
		if err != nil {
			p.Close()
			return nil, err
		}
		p.verifier = verifier
	}

	if p.corrector == nil && cfg.Corrector.Enabled {
		p.corrector = p.buildCorrector()
	}

	return p, nil
}

func (p *Pipeline) buildAnalyzer(transport http.RoundTripper) extract.Analyzer {
	rules := extract.NewRuleAnalyzer()
	if p.config.NLP.Backend != "service" {
		return rules
	}
	service := extract.NewServiceAnalyzer(p.config.NLP.ServiceURL, p.config.NLP.Timeout, transport)
	return extract.NewFallbackAnalyzer(service, rules, p.logger)
}

func (p *Pipeline) buildRetriever(transport http.RoundTripper) (*knowledge.Retriever, error) {
	kc := p.config.Knowledge

	wiki := knowledge.NewWikipedia(knowledge.WikipediaOptions{
		Language:  kc.Language,
		BaseURL:   kc.BaseURL,
		Sentences: kc.Sentences,
		UserAgent: p.config.HTTP.UserAgent,
		Timeout:   p.config.HTTP.Timeout,
		Transport: transport,
		Limiter:   p.limiter,
	})
	if endpoint, err := url.Parse(wiki.Endpoint()); err == nil {
		p.limiter.SetHostRate(endpoint.Host, kc.RequestsPerSecond, kc.Burst)
	}

	var source knowledge.Source = wiki

	if p.config.Cache.Enabled {
		c, err := cache.New(p.config.Cache)
		if err != nil {
			return nil, fmt.Errorf("init cache: %w", err)
		}
		if closer, ok := c.(io.Closer); ok {
			p.closers = append(p.closers, closer)
		}
		source = knowledge.NewCachedSource(source, c, p.config.Cache.TTL, p.config.Cache.NegativeTTL,
			knowledge.WithNamespace(kc.Language+":"+kc.BaseURL+":"+strconv.Itoa(kc.Sentences)),
			knowledge.WithCacheObserver(p.metrics),
			knowledge.WithCacheLogger(p.logger),
		)
	}

	return knowledge.NewRetriever(p.extractor.Analyzer(), source,
		knowledge.WithLogger(p.logger),
		knowledge.WithLookupObserver(p.metrics),
		knowledge.WithEntityLabels(kc.EntityLabels),
	), nil
}

func (p *Pipeline) buildVerifier(transport http.RoundTripper) (*nli.Verifier, error) {
	vc := p.config.Verifier

	var classifier nli.Classifier
	switch vc.Backend {
	case "llm":
		provider, err := llm.NewProvider(llm.ConfigFromModel(p.config.LLM, p.config.HTTP))
		if err != nil {
			return nil, fmt.Errorf("init classifier provider: %w", err)
		}
		if provider == nil {
			return nil, fmt.Errorf("verifier backend llm requires llm.provider")
		}
		p.providers["verifier"] = provider
		classifier = nli.NewLLMClassifier(provider, vc.MaxPremiseChars)
	default:
		token := vc.APIToken
		if token == "" {
			token = os.Getenv("HF_API_TOKEN")
		}
		classifier = nli.NewHuggingFace(nli.HuggingFaceOptions{
			BaseURL:         vc.BaseURL,
			Model:           vc.Model,
			APIToken:        token,
			Timeout:         vc.Timeout,
			MaxPremiseChars: vc.MaxPremiseChars,
			Transport:       transport,
		})
	}

	opts := []nli.VerifierOption{nli.WithLogger(p.logger)}
	if vc.UsePlaceholder {
		opts = append(opts, nli.WithPlaceholder(vc.PlaceholderPremise))
	}
	return nli.NewVerifier(classifier, opts...), nil
}

// buildCorrector returns nil when no provider is configured; correction
// is optional and never blocks startup
func (p *Pipeline) buildCorrector() ClaimCorrector {
	provider, err := llm.NewProvider(llm.ConfigFromModel(p.config.LLM, p.config.HTTP))
	if err != nil {
		p.logger.Warn("corrector disabled: failed to initialize LLM provider", "error", err)
		return nil
	}
	if provider == nil {
		p.logger.Warn("corrector disabled: llm.provider is not set")
		return nil
	}
	p.providers["corrector"] = provider
	return llm.NewCorrector(provider, p.config.Corrector.MaxTokens, p.logger)
}

// Health checks every LLM provider the pipeline built, keyed by role
func (p *Pipeline) Health(ctx context.Context) map[string]ProviderHealth {
	health := make(map[string]ProviderHealth, len(p.providers))
	for role, provider := range p.providers {
		health[role] = ProviderHealth{
			Provider:  provider.Name(),
			Available: provider.IsAvailable(ctx),
		}
	}
	return health
}

// Close releases cache connections
func (p *Pipeline) Close() error {
	var errs []error
	for _, c := range p.closers {
		errs = append(errs, c.Close())
	}
	p.closers = nil
	return errors.Join(errs...)
}

// CheckText checks every sentence of text and returns one result per claim
func (p *Pipeline) CheckText(ctx context.Context, text string) (*model.Report, error) {
	report, err := p.check(ctx, text, &model.Report{Source: "text"})
	if err != nil {
		p.metrics.ObserveFailure("text")
		return nil, err
	}
	return report, nil
}

// CheckURL fetches a page, extracts its text, and checks it
func (p *Pipeline) CheckURL(ctx context.Context, rawURL string) (*model.Report, error) {
	report, err := p.checkURL(ctx, rawURL)
	if err != nil {
		p.metrics.ObserveFailure("url")
		return nil, err
	}
	return report, nil
}

func (p *Pipeline) checkURL(ctx context.Context, rawURL string) (*model.Report, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, fmt.Errorf("invalid URL %q: must be absolute http(s)", rawURL)
	}

	allowed, crawlDelay, err := p.robots.CanFetch(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("robots.txt: %w", err)
	}
	if !allowed {
		return nil, fmt.Errorf("%s: %w", rawURL, ErrDisallowed)
	}
	if crawlDelay > 0 {
		p.logger.Debug("robots.txt crawl delay", "url", rawURL, "delay", crawlDelay)
	}

	if err := p.limiter.Wait(ctx, rawURL); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	fetched, err := p.fetcher.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	if fetched.Truncated {
		p.logger.Warn("page truncated", "url", fetched.FinalURL, "max_bytes", p.config.HTTP.MaxBodyBytes)
	}

	doc, err := adapters.ParseHTML(fetched.HTML)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	adapter := p.adapters.FindAdapter(fetched.FinalURL, fetched.ContentType)
	if adapter == nil {
		return nil, fmt.Errorf("no adapter for %s", fetched.FinalURL)
	}
	text, err := adapter.ExtractText(doc, fetched.FinalURL)
	if err != nil {
		return nil, fmt.Errorf("extract text (%s): %w", adapter.Name(), err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%s: %w", fetched.FinalURL, ErrNoText)
	}

	p.logger.Debug("extracted page text", "url", fetched.FinalURL, "adapter", adapter.Name(), "chars", len(text))

	return p.check(ctx, text, &model.Report{
		Source:    "url",
		SourceURL: fetched.FinalURL,
		Subject:   fetched.Subject,
	})
}

// check runs the per-claim pipeline sequentially and fills in report
func (p *Pipeline) check(ctx context.Context, text string, report *model.Report) (*model.Report, error) {
	start := time.Now()

	claims, err := p.extractor.Extract(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("extract claims: %w", err)
	}

	results := make([]model.Result, 0, len(claims))
	for _, claim := range claims {
		result, err := p.checkClaim(ctx, claim)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	elapsed := time.Since(start)
	report.ID = uuid.NewString()
	report.CheckedAt = start.UTC()
	report.Duration = elapsed.Round(time.Millisecond).String()
	report.Results = results
	report.Summary = p.scorer.Summarize(results)

	p.metrics.ObserveReport(report, elapsed)
	p.logger.Info("check complete",
		"id", report.ID,
		"source", report.Source,
		"claims", report.Summary.Total,
		"supported", report.Summary.Supported,
		"contradicted", report.Summary.Contradicted,
		"duration", report.Duration,
	)

	return report, nil
}

// checkClaim retrieves, verifies, and optionally corrects one claim.
// Collaborator failures degrade the result; only cancellation is returned.
func (p *Pipeline) checkClaim(ctx context.Context, claim model.Claim) (model.Result, error) {
	if err := ctx.Err(); err != nil {
		return model.Result{}, err
	}

	fact, err := p.retriever.Retrieve(ctx, claim.Text)
	if err != nil {
		return model.Result{}, err
	}

	v := p.verifier.Verify(ctx, claim.Text, fact)
	result := model.Result{
		Claim:           claim,
		Verdict:         v.Verdict,
		Fact:            fact,
		Label:           v.Label,
		Score:           v.Score,
		UsedPlaceholder: v.UsedPlaceholder,
	}

	if p.corrector != nil && fact == nil && v.Verdict == model.VerdictContradicted {
		result.Correction = p.corrector.Correct(ctx, claim.Text)
	}

	if err := ctx.Err(); err != nil {
		return model.Result{}, err
	}

	p.logger.Debug("claim checked",
		"index", claim.Index,
		"verdict", result.Verdict,
		"support", result.SupportKind(),
		"label", result.Label,
	)
	return result, nil
}

// RenderReport writes the requested report files and prints a summary
func (p *Pipeline) RenderReport(w io.Writer, report *model.Report, jsonPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			_, _ = fmt.Fprintf(w, "✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			_, _ = fmt.Fprintf(w, "✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	p.renderer.RenderSummary(w, report)
	return nil
}

// Renderer returns the pipeline's report renderer
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}
