package knowledge

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/ppiankov/factcheck/internal/extract"
	"github.com/ppiankov/factcheck/internal/model"
)

// Lookup outcomes reported to a LookupObserver
const (
	OutcomeFound          = "found"
	OutcomeNotFound       = "not_found"
	OutcomeDisambiguation = "disambiguation"
	OutcomeError          = "error"
)

// LookupObserver is notified after every candidate lookup
type LookupObserver interface {
	ObserveLookup(source, outcome string, elapsed time.Duration)
}

// Retriever finds a reference fact for a claim by trying lookup candidates
// in order: named entities of the configured types first, then the first
// noun chunk.
type Retriever struct {
	analyzer extract.Analyzer
	source   Source
	labels   map[model.EntityLabel]bool
	logger   *slog.Logger
	observer LookupObserver
}

// RetrieverOption configures a Retriever
type RetrieverOption func(*Retriever)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) RetrieverOption {
	return func(r *Retriever) { r.logger = logger }
}

// WithLookupObserver reports every lookup outcome
func WithLookupObserver(observer LookupObserver) RetrieverOption {
	return func(r *Retriever) { r.observer = observer }
}

// WithEntityLabels restricts which entity types become candidates
func WithEntityLabels(labels []string) RetrieverOption {
	return func(r *Retriever) {
		r.labels = make(map[model.EntityLabel]bool, len(labels))
		for _, l := range labels {
			r.labels[model.EntityLabel(strings.ToUpper(strings.TrimSpace(l)))] = true
		}
	}
}

// NewRetriever creates a new fact retriever
func NewRetriever(analyzer extract.Analyzer, source Source, opts ...RetrieverOption) *Retriever {
	r := &Retriever{
		analyzer: analyzer,
		source:   source,
		logger:   slog.Default(),
	}
	WithEntityLabels(model.DefaultEntityLabels())(r)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Candidates returns lookup queries for an analysis in the order they are tried
func (r *Retriever) Candidates(analysis model.Analysis) []string {
	var candidates []string
	seen := make(map[string]bool)

	for _, entity := range analysis.Entities {
		text := strings.TrimSpace(entity.Text)
		if text == "" || !r.labels[entity.Label] || seen[text] {
			continue
		}
		seen[text] = true
		candidates = append(candidates, text)
	}

	if len(candidates) == 0 {
		for _, chunk := range analysis.NounChunks {
			if chunk = strings.TrimSpace(chunk); chunk != "" {
				candidates = append(candidates, chunk)
				break
			}
		}
	}

	return candidates
}

// Retrieve returns the first fact found for the claim's candidates, or nil.
// Lookup failures move on to the next candidate; only context cancellation
// is returned as an error.
func (r *Retriever) Retrieve(ctx context.Context, claim string) (*model.Fact, error) {
	analysis, err := r.analyzer.Analyze(ctx, claim)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		r.logger.Warn("claim analysis failed", "analyzer", r.analyzer.Name(), "error", err)
		return nil, nil
	}

	for _, candidate := range r.Candidates(analysis) {
		start := time.Now()
		fact, err := r.source.Lookup(ctx, candidate)
		if err == nil && fact == nil {
			err = ErrNotFound
		}
		r.observe(err, time.Since(start))

		if err == nil {
			r.logger.Debug("fact found", "candidate", candidate, "title", fact.Title)
			return fact, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if IsMiss(err) {
			r.logger.Debug("candidate miss", "candidate", candidate, "error", err)
		} else {
			r.logger.Warn("knowledge lookup failed", "source", r.source.Name(), "candidate", candidate, "error", err)
		}
	}

	return nil, nil
}

func (r *Retriever) observe(err error, elapsed time.Duration) {
	if r.observer == nil {
		return
	}
	outcome := OutcomeFound
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		outcome = OutcomeNotFound
	case errors.Is(err, ErrDisambiguation):
		outcome = OutcomeDisambiguation
	default:
		outcome = OutcomeError
	}
	r.observer.ObserveLookup(r.source.Name(), outcome, elapsed)
}
