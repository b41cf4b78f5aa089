package extract

import (
	"context"
	"log/slog"

	"github.com/ppiankov/factcheck/internal/model"
)

// Analyzer splits text into sentences and annotates single claims
type Analyzer interface {
	// Name returns the analyzer name
	Name() string

	// Sentences splits raw text into ordered, trimmed, non-empty sentences
	Sentences(ctx context.Context, text string) ([]string, error)

	// Analyze detects named entities and noun chunks in a claim
	Analyze(ctx context.Context, claim string) (model.Analysis, error)
}

// FallbackAnalyzer tries a primary analyzer and degrades to a secondary one
// when the primary fails. The secondary is expected to never fail.
type FallbackAnalyzer struct {
	primary   Analyzer
	secondary Analyzer
	logger    *slog.Logger
}

// NewFallbackAnalyzer creates a new fallback analyzer
func NewFallbackAnalyzer(primary, secondary Analyzer, logger *slog.Logger) *FallbackAnalyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &FallbackAnalyzer{primary: primary, secondary: secondary, logger: logger}
}

// Name returns the primary analyzer name
func (a *FallbackAnalyzer) Name() string {
	return a.primary.Name()
}

// Sentences splits text with the primary analyzer, falling back on error
func (a *FallbackAnalyzer) Sentences(ctx context.Context, text string) ([]string, error) {
	sentences, err := a.primary.Sentences(ctx, text)
	if err == nil {
		return sentences, nil
	}
	a.logger.Warn("sentence segmentation failed, using fallback",
		"analyzer", a.primary.Name(), "fallback", a.secondary.Name(), "error", err)
	return a.secondary.Sentences(ctx, text)
}

// Analyze annotates a claim with the primary analyzer, falling back on error
func (a *FallbackAnalyzer) Analyze(ctx context.Context, claim string) (model.Analysis, error) {
	analysis, err := a.primary.Analyze(ctx, claim)
	if err == nil {
		return analysis, nil
	}
	a.logger.Warn("claim analysis failed, using fallback",
		"analyzer", a.primary.Name(), "fallback", a.secondary.Name(), "error", err)
	return a.secondary.Analyze(ctx, claim)
}
