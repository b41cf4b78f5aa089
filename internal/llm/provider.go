package llm

import (
	"context"
)

// Provider defines the interface for text-generation providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate produces a completion for the prompt
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// GenerateRequest contains the input for a completion
type GenerateRequest struct {
	// Prompt is the user prompt
	Prompt string

	// System is an optional system instruction
	System string

	// Model overrides the configured model (provider-specific)
	Model string

	// MaxTokens limits the response length; zero uses the configured value
	MaxTokens int

	// Temperature controls sampling; zero keeps output near-deterministic
	Temperature float64
}

// GenerateResponse contains the provider output
type GenerateResponse struct {
	// Text is the generated text, trimmed
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", "cohere", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for hosted providers
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Timeout:   30,
		MaxTokens: 256,
	}
}

// resolveModel picks the request model, then the configured one, then a fallback
func resolveModel(reqModel, configModel, fallback string) string {
	if reqModel != "" {
		return reqModel
	}
	if configModel != "" {
		return configModel
	}
	return fallback
}

// resolveMaxTokens picks the request limit, then the configured one, then a fallback
func resolveMaxTokens(reqMax, configMax, fallback int) int {
	if reqMax > 0 {
		return reqMax
	}
	if configMax > 0 {
		return configMax
	}
	return fallback
}
