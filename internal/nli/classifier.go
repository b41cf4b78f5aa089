package nli

import (
	"context"
	"strings"
	"unicode/utf8"
)

// Prediction is the top label returned by an inference classifier
type Prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classifier scores whether a premise entails, contradicts, or is neutral
// towards a hypothesis
type Classifier interface {
	// Name returns the classifier backend name
	Name() string

	// Classify returns the highest-scoring label for the pair
	Classify(ctx context.Context, premise, hypothesis string) (Prediction, error)
}

// truncatePremise cuts the premise to at most max bytes on a word boundary
func truncatePremise(premise string, max int) string {
	if max <= 0 || len(premise) <= max {
		return premise
	}
	// Never split a multi-byte rune
	end := max
	for end > 0 && !utf8.RuneStart(premise[end]) {
		end--
	}
	cut := premise[:end]
	if i := strings.LastIndexByte(cut, ' '); i > max/2 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut)
}
