package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Corrector asks a generation provider for a corrected version of a claim
type Corrector struct {
	provider  Provider
	maxTokens int
	logger    *slog.Logger
}

// NewCorrector creates a new corrector; maxTokens bounds the rewrite length
func NewCorrector(provider Provider, maxTokens int, logger *slog.Logger) *Corrector {
	if maxTokens <= 0 {
		maxTokens = 60
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Corrector{provider: provider, maxTokens: maxTokens, logger: logger}
}

// BuildCorrectionPrompt frames the claim as known-incorrect and asks for a continuation
func BuildCorrectionPrompt(claim string) string {
	return fmt.Sprintf("The statement \"%s\" is factually incorrect. A more correct version of the statement is:", claim)
}

// Correct returns a rewrite of the claim, or "" when generation fails or
// yields nothing usable
func (c *Corrector) Correct(ctx context.Context, claim string) string {
	if c == nil || c.provider == nil {
		return ""
	}

	resp, err := c.provider.Generate(ctx, GenerateRequest{
		Prompt:    BuildCorrectionPrompt(claim),
		System:    "Reply with a single corrected sentence and nothing else.",
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		c.logger.Warn("correction failed", "provider", c.provider.Name(), "error", err)
		return ""
	}

	correction := cleanCorrection(resp.Text)
	if strings.EqualFold(correction, strings.TrimSpace(claim)) {
		return ""
	}
	return correction
}

// cleanCorrection keeps the first line and strips wrapping quotes
func cleanCorrection(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = strings.TrimSpace(text[:i])
	}
	for {
		trimmed := strings.TrimSpace(strings.Trim(text, `"'“”‘’`))
		if trimmed == text {
			break
		}
		text = trimmed
	}
	return text
}
