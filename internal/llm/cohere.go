package llm

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
	"github.com/cohere-ai/cohere-go/v2/option"

	"github.com/ppiankov/factcheck/internal/util"
)

const cohereDefaultModel = "command-r"

// CohereProvider implements the Provider interface for Cohere chat models
type CohereProvider struct {
	client *cohereclient.Client
	config Config
}

// NewCohereProvider creates a new Cohere provider
func NewCohereProvider(config Config) (*CohereProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Cohere API key is required")
	}

	timeout := time.Duration(config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	// HTTP/1.1 only; the Cohere endpoint has produced HTTP/2 stream errors
	transport := util.NewTransport(config.HTTPProxy, config.HTTPSProxy, config.NoProxy)
	transport.ForceAttemptHTTP2 = false
	transport.TLSNextProto = make(map[string]func(authority string, c *tls.Conn) http.RoundTripper)

	opts := []option.RequestOption{
		cohereclient.WithToken(config.APIKey),
		cohereclient.WithHTTPClient(&http.Client{Timeout: timeout, Transport: transport}),
	}
	if config.BaseURL != "" {
		opts = append(opts, cohereclient.WithBaseURL(strings.TrimSuffix(config.BaseURL, "/")))
	}

	return &CohereProvider{
		client: cohereclient.NewClient(opts...),
		config: config,
	}, nil
}

// Name returns the provider name
func (p *CohereProvider) Name() string {
	return "cohere"
}

// IsAvailable checks if the provider accepts a minimal chat request
func (p *CohereProvider) IsAvailable(ctx context.Context) bool {
	if _, err := p.Generate(ctx, GenerateRequest{Prompt: "Hi", MaxTokens: 1}); err != nil {
		slog.Debug("Cohere API check failed", "error", err)
		return false
	}
	return true
}

// Generate produces a completion using the Chat API
func (p *CohereProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	model := resolveModel(req.Model, p.config.Model, cohereDefaultModel)
	maxTokens := resolveMaxTokens(req.MaxTokens, p.config.MaxTokens, 256)
	temperature := req.Temperature

	chatReq := &cohere.ChatRequest{
		Message:     req.Prompt,
		Model:       &model,
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
	}
	if req.System != "" {
		system := req.System
		chatReq.Preamble = &system
	}

	resp, err := p.client.Chat(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("cohere API error: %w", err)
	}
	if resp == nil {
		return nil, fmt.Errorf("no response from Cohere")
	}

	tokens := 0
	if resp.Meta != nil && resp.Meta.BilledUnits != nil {
		if resp.Meta.BilledUnits.InputTokens != nil {
			tokens += int(*resp.Meta.BilledUnits.InputTokens)
		}
		if resp.Meta.BilledUnits.OutputTokens != nil {
			tokens += int(*resp.Meta.BilledUnits.OutputTokens)
		}
	}

	return &GenerateResponse{
		Text:       strings.TrimSpace(resp.Text),
		Model:      model,
		TokensUsed: tokens,
	}, nil
}
