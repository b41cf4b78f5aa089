package nli

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/factcheck/internal/llm"
)

const llmClassifierSystem = "You are a natural language inference classifier. " +
	"Answer with exactly one word: ENTAILMENT, CONTRADICTION, or NEUTRAL."

// LLMClassifier asks a text-generation provider for a three-way label
type LLMClassifier struct {
	provider        llm.Provider
	maxPremiseChars int
}

// NewLLMClassifier creates a classifier backed by a generation provider
func NewLLMClassifier(provider llm.Provider, maxPremiseChars int) *LLMClassifier {
	return &LLMClassifier{provider: provider, maxPremiseChars: maxPremiseChars}
}

// Name returns the classifier name
func (c *LLMClassifier) Name() string {
	return "llm/" + c.provider.Name()
}

// Classify prompts the provider and parses the first recognized label
func (c *LLMClassifier) Classify(ctx context.Context, premise, hypothesis string) (Prediction, error) {
	resp, err := c.provider.Generate(ctx, llm.GenerateRequest{
		System:    llmClassifierSystem,
		Prompt:    BuildClassificationPrompt(truncatePremise(premise, c.maxPremiseChars), hypothesis),
		MaxTokens: 5,
	})
	if err != nil {
		return Prediction{}, fmt.Errorf("%s: %w", c.provider.Name(), err)
	}

	label := parseLabel(resp.Text)
	if label == "" {
		return Prediction{}, fmt.Errorf("%s: unrecognized label %q", c.provider.Name(), resp.Text)
	}
	return Prediction{Label: label, Score: 1}, nil
}

// BuildClassificationPrompt lays out the premise and hypothesis for the model
func BuildClassificationPrompt(premise, hypothesis string) string {
	return fmt.Sprintf("Premise: %s\nHypothesis: %s\nDoes the premise entail the hypothesis, contradict it, or neither?\nLabel:", premise, hypothesis)
}

func parseLabel(text string) string {
	upper := strings.ToUpper(text)
	for _, label := range []string{"CONTRADICTION", "ENTAILMENT", "NEUTRAL"} {
		if strings.Contains(upper, label) {
			return label
		}
	}
	return ""
}
