package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/factcheck/internal/model"
)

// ClaimExtractor turns raw text into ordered claims, one per sentence
type ClaimExtractor struct {
	analyzer Analyzer
}

// NewClaimExtractor creates a new claim extractor
func NewClaimExtractor(analyzer Analyzer) *ClaimExtractor {
	if analyzer == nil {
		analyzer = NewRuleAnalyzer()
	}
	return &ClaimExtractor{analyzer: analyzer}
}

// Analyzer returns the underlying analyzer
func (e *ClaimExtractor) Analyzer() Analyzer {
	return e.analyzer
}

// Extract splits text into claims. Every sentence becomes a claim, in order;
// duplicates are kept so results line up with the input.
func (e *ClaimExtractor) Extract(ctx context.Context, text string) ([]model.Claim, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	sentences, err := e.analyzer.Sentences(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("segment text: %w", err)
	}

	claims := make([]model.Claim, 0, len(sentences))
	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		claims = append(claims, model.Claim{
			Text:  sentence,
			Index: len(claims),
		})
	}

	return claims, nil
}
