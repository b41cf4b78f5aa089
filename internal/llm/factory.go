package llm

import (
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/factcheck/internal/model"
)

// NewProvider creates a new provider based on configuration
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "cohere":
		return NewCohereProvider(config)

	case "":
		// No provider configured - generation disabled
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, anthropic, ollama, cohere)", config.Provider)
	}
}

// ConfigFromModel converts model configuration to a provider Config.
// Missing API keys and base URLs are filled from the provider's
// conventional environment variables.
func ConfigFromModel(llmConfig model.LLMConfig, httpConfig model.HTTPConfig) Config {
	config := DefaultConfig()
	config.Provider = llmConfig.Provider
	config.Model = llmConfig.Model
	config.APIKey = llmConfig.APIKey
	config.BaseURL = llmConfig.BaseURL
	config.HTTPProxy = httpConfig.HTTPProxy
	config.HTTPSProxy = httpConfig.HTTPSProxy
	config.NoProxy = httpConfig.NoProxy
	if llmConfig.Timeout > 0 {
		config.Timeout = llmConfig.Timeout
	}
	if llmConfig.MaxTokens > 0 {
		config.MaxTokens = llmConfig.MaxTokens
	}
	if config.APIKey == "" {
		config.APIKey = APIKeyFromEnv(config.Provider)
	}
	if config.BaseURL == "" && strings.EqualFold(config.Provider, "ollama") {
		config.BaseURL = os.Getenv("OLLAMA_BASE_URL")
	}
	return config
}

// APIKeyFromEnv returns the conventional API key variable for a provider
func APIKeyFromEnv(provider string) string {
	switch strings.ToLower(provider) {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "anthropic", "claude":
		return os.Getenv("ANTHROPIC_API_KEY")
	case "cohere":
		return os.Getenv("COHERE_API_KEY")
	}
	return ""
}
