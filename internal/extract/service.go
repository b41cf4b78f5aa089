package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/factcheck/internal/model"
)

// ServiceAnalyzer delegates segmentation and entity recognition to an
// external NLP service exposing POST /analyze.
type ServiceAnalyzer struct {
	baseURL    string
	httpClient *http.Client
}

type serviceRequest struct {
	Text string `json:"text"`
}

type serviceResponse struct {
	Sentences []string `json:"sentences"`
	Entities  []struct {
		Text  string `json:"text"`
		Label string `json:"label"`
	} `json:"entities"`
	NounChunks []string `json:"noun_chunks"`
}

// NewServiceAnalyzer creates an analyzer backed by an NLP service
func NewServiceAnalyzer(baseURL string, timeout time.Duration, transport http.RoundTripper) *ServiceAnalyzer {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &ServiceAnalyzer{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// Name returns the analyzer name
func (a *ServiceAnalyzer) Name() string {
	return "service"
}

// Sentences asks the service to split text into sentences
func (a *ServiceAnalyzer) Sentences(ctx context.Context, text string) ([]string, error) {
	resp, err := a.analyze(ctx, text)
	if err != nil {
		return nil, err
	}

	sentences := make([]string, 0, len(resp.Sentences))
	for _, s := range resp.Sentences {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences, nil
}

// Analyze asks the service for the entities and noun chunks of a claim
func (a *ServiceAnalyzer) Analyze(ctx context.Context, claim string) (model.Analysis, error) {
	resp, err := a.analyze(ctx, claim)
	if err != nil {
		return model.Analysis{}, err
	}

	var analysis model.Analysis
	for _, e := range resp.Entities {
		text := strings.TrimSpace(e.Text)
		if text == "" {
			continue
		}
		analysis.Entities = append(analysis.Entities, model.Entity{
			Text:  text,
			Label: model.EntityLabel(strings.ToUpper(e.Label)),
		})
	}
	for _, chunk := range resp.NounChunks {
		if chunk = strings.TrimSpace(chunk); chunk != "" {
			analysis.NounChunks = append(analysis.NounChunks, chunk)
		}
	}
	return analysis, nil
}

func (a *ServiceAnalyzer) analyze(ctx context.Context, text string) (*serviceResponse, error) {
	body, err := json.Marshal(serviceRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nlp service error (%d): %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var out serviceResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &out, nil
}
