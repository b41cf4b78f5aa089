package nli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultHFBaseURL = "https://router.huggingface.co/hf-inference"

// HuggingFaceOptions configures the hosted inference client
type HuggingFaceOptions struct {
	BaseURL         string
	Model           string
	APIToken        string
	Timeout         time.Duration
	MaxPremiseChars int
	Transport       http.RoundTripper
}

// HuggingFace classifies premise/hypothesis pairs with a hosted
// sequence-pair model such as facebook/bart-large-mnli
type HuggingFace struct {
	endpoint        string
	model           string
	token           string
	maxPremiseChars int
	httpClient      *http.Client
}

type hfRequest struct {
	Inputs hfPair `json:"inputs"`
}

type hfPair struct {
	Text     string `json:"text"`
	TextPair string `json:"text_pair"`
}

type hfError struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time,omitempty"`
}

// NewHuggingFace creates a new Hugging Face inference classifier
func NewHuggingFace(opts HuggingFaceOptions) *HuggingFace {
	baseURL := strings.TrimSuffix(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultHFBaseURL
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &HuggingFace{
		endpoint:        fmt.Sprintf("%s/models/%s", baseURL, opts.Model),
		model:           opts.Model,
		token:           opts.APIToken,
		maxPremiseChars: opts.MaxPremiseChars,
		httpClient:      &http.Client{Timeout: timeout, Transport: opts.Transport},
	}
}

// Name returns the classifier name
func (h *HuggingFace) Name() string {
	return "huggingface"
}

// Classify posts the pair to the model endpoint and returns the top label
func (h *HuggingFace) Classify(ctx context.Context, premise, hypothesis string) (Prediction, error) {
	body, err := json.Marshal(hfRequest{Inputs: hfPair{
		Text:     truncatePremise(premise, h.maxPremiseChars),
		TextPair: hypothesis,
	}})
	if err != nil {
		return Prediction{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return Prediction{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return Prediction{}, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Prediction{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr hfError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error != "" {
			return Prediction{}, fmt.Errorf("inference API error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return Prediction{}, fmt.Errorf("inference API error (%d): %s", resp.StatusCode, string(respBody))
	}

	predictions, err := parsePredictions(respBody)
	if err != nil {
		return Prediction{}, err
	}
	return topPrediction(predictions)
}

// parsePredictions accepts both the flat [{label,score}] shape and the
// batched [[{label,score}]] shape
func parsePredictions(body []byte) ([]Prediction, error) {
	var flat []Prediction
	if err := json.Unmarshal(body, &flat); err == nil {
		return flat, nil
	}

	var nested [][]Prediction
	if err := json.Unmarshal(body, &nested); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	var all []Prediction
	for _, group := range nested {
		all = append(all, group...)
	}
	return all, nil
}

func topPrediction(predictions []Prediction) (Prediction, error) {
	if len(predictions) == 0 {
		return Prediction{}, fmt.Errorf("no predictions in response")
	}
	best := predictions[0]
	for _, p := range predictions[1:] {
		if p.Score > best.Score {
			best = p
		}
	}
	return best, nil
}
