package model

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var configValidate = validator.New()

// Config is the complete runtime configuration
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	NLP         NLPConfig         `yaml:"nlp" mapstructure:"nlp"`
	Knowledge   KnowledgeConfig   `yaml:"knowledge" mapstructure:"knowledge"`
	Verifier    VerifierConfig    `yaml:"verifier" mapstructure:"verifier"`
	Corrector   CorrectorConfig   `yaml:"corrector" mapstructure:"corrector"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// HTTPConfig controls outbound HTTP (page fetches, knowledge lookups)
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent" validate:"required"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes" validate:"gt=0"`
	InsecureTLS  bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`

	// Page fetch rate per host; the knowledge host uses KnowledgeConfig's rate
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second" validate:"gt=0"`
	Burst             int     `yaml:"burst" mapstructure:"burst" validate:"gte=1"`
}

// NLPConfig selects the sentence/entity analyzer
type NLPConfig struct {
	Backend    string        `yaml:"backend" mapstructure:"backend" validate:"oneof=rules service"`
	ServiceURL string        `yaml:"service_url,omitempty" mapstructure:"service_url" validate:"required_if=Backend service,omitempty,url"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`
}

// KnowledgeConfig controls the encyclopedia lookup
type KnowledgeConfig struct {
	Language          string   `yaml:"language" mapstructure:"language" validate:"required,min=2,max=12"`
	BaseURL           string   `yaml:"base_url,omitempty" mapstructure:"base_url" validate:"omitempty,url"`
	Sentences         int      `yaml:"sentences" mapstructure:"sentences" validate:"gte=1,lte=10"`
	EntityLabels      []string `yaml:"entity_labels" mapstructure:"entity_labels" validate:"required,min=1"`
	RequestsPerSecond float64  `yaml:"requests_per_second" mapstructure:"requests_per_second" validate:"gt=0"`
	Burst             int      `yaml:"burst" mapstructure:"burst" validate:"gte=1"`
}

// VerifierConfig controls the inference classifier
type VerifierConfig struct {
	Backend            string        `yaml:"backend" mapstructure:"backend" validate:"oneof=huggingface llm"`
	Model              string        `yaml:"model" mapstructure:"model" validate:"required"`
	BaseURL            string        `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`
	APIToken           string        `yaml:"api_token,omitempty" mapstructure:"api_token"`
	Timeout            time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`
	MaxPremiseChars    int           `yaml:"max_premise_chars" mapstructure:"max_premise_chars" validate:"gte=0"`
	UsePlaceholder     bool          `yaml:"use_placeholder" mapstructure:"use_placeholder"`
	PlaceholderPremise string        `yaml:"placeholder_premise" mapstructure:"placeholder_premise" validate:"required_if=UsePlaceholder true"`
}

// CorrectorConfig controls generated rewrites of contradicted claims
type CorrectorConfig struct {
	Enabled   bool `yaml:"enabled" mapstructure:"enabled"`
	MaxTokens int  `yaml:"max_tokens" mapstructure:"max_tokens" validate:"gte=1,lte=1024"`
}

// LLMConfig holds text-generation provider configuration
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider" validate:"omitempty,oneof=openai anthropic claude ollama cohere"`
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens" validate:"gte=0"`
}

// CacheConfig controls caching of knowledge lookups
type CacheConfig struct {
	Enabled       bool          `yaml:"enabled" mapstructure:"enabled"`
	Backend       string        `yaml:"backend" mapstructure:"backend" validate:"oneof=memory layered redis"`
	Dir           string        `yaml:"dir" mapstructure:"dir"`
	TTL           time.Duration `yaml:"ttl" mapstructure:"ttl" validate:"gt=0"`
	NegativeTTL   time.Duration `yaml:"negative_ttl" mapstructure:"negative_ttl" validate:"gte=0"`
	RedisAddr     string        `yaml:"redis_addr,omitempty" mapstructure:"redis_addr"`
	RedisPassword string        `yaml:"redis_password,omitempty" mapstructure:"redis_password"`
	RedisDB       int           `yaml:"redis_db" mapstructure:"redis_db" validate:"gte=0"`
}

// ServerConfig controls the web form
type ServerConfig struct {
	Addr            string        `yaml:"addr" mapstructure:"addr" validate:"required"`
	MaxInputBytes   int           `yaml:"max_input_bytes" mapstructure:"max_input_bytes" validate:"gt=0"`
	RequestTimeout  time.Duration `yaml:"request_timeout" mapstructure:"request_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// ConcurrencyConfig controls batch processing
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers" validate:"gte=1"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// LogConfig controls structured logging
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" mapstructure:"format" validate:"oneof=text json"`
}

// DefaultPlaceholderPremise stands in for a missing fact so the classifier
// can still flag claims that contradict common knowledge
const DefaultPlaceholderPremise = "The statement is checked against general, widely accepted scientific and historical knowledge."

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:           20 * time.Second,
			UserAgent:         "FactCheck/0.1 (+https://github.com/ppiankov/factcheck)",
			MaxBodyBytes:      2_000_000,
			RequestsPerSecond: 2,
			Burst:             2,
		},
		NLP: NLPConfig{
			Backend: "rules",
			Timeout: 10 * time.Second,
		},
		Knowledge: KnowledgeConfig{
			Language:          "en",
			Sentences:         2,
			EntityLabels:      DefaultEntityLabels(),
			RequestsPerSecond: 5,
			Burst:             5,
		},
		Verifier: VerifierConfig{
			Backend:            "huggingface",
			Model:              "facebook/bart-large-mnli",
			BaseURL:            "https://router.huggingface.co/hf-inference",
			Timeout:            30 * time.Second,
			MaxPremiseChars:    2000,
			UsePlaceholder:     true,
			PlaceholderPremise: DefaultPlaceholderPremise,
		},
		Corrector: CorrectorConfig{
			Enabled:   false,
			MaxTokens: 60,
		},
		LLM: LLMConfig{
			Timeout:   30,
			MaxTokens: 256,
		},
		Cache: CacheConfig{
			Enabled:     true,
			Backend:     "memory",
			Dir:         defaultCacheDir(),
			TTL:         24 * time.Hour,
			NegativeTTL: time.Hour,
			RedisAddr:   "localhost:6379",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			MaxInputBytes:   20_000,
			RequestTimeout:  2 * time.Minute,
			ShutdownTimeout: 10 * time.Second,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func defaultCacheDir() string {
	return ".factcheck-cache"
}
