// Package gemini implements llm.Provider against the Gemini generateContent API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shubhamranswal/TechGuru/internal/llm"
)

const providerName = "gemini"

// Provider issues one generateContent call per Generate invocation. It never
// retries internally; failures come back classified for the orchestrator.
type Provider struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewProvider constructs a Provider with sane defaults.
func NewProvider(baseURL, apiKey string, timeout time.Duration) *Provider {
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &Provider{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return providerName
}

// Generate executes a non-streaming content generation call.
func (p *Provider) Generate(ctx context.Context, req llm.GenerateRequest) (llm.GenerateResponse, error) {
	if strings.TrimSpace(req.Model) == "" {
		return llm.GenerateResponse{}, llm.NewInvalidRequestError(providerName, "model is required")
	}
	if p.apiKey == "" {
		return llm.GenerateResponse{}, llm.NewInvalidRequestError(providerName, "api key is not configured")
	}

	body := generateContentRequest{
		Contents: []content{{Parts: []part{{Text: req.Prompt}}}},
	}
	if req.MaxTokens > 0 || req.Temperature > 0 {
		body.GenerationConfig = &generationConfig{
			MaxOutputTokens: req.MaxTokens,
			Temperature:     req.Temperature,
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return llm.GenerateResponse{}, llm.NewInvalidRequestError(providerName, fmt.Sprintf("marshal request: %v", err))
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", p.baseURL, req.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return llm.GenerateResponse{}, llm.NewInvalidRequestError(providerName, fmt.Sprintf("build request: %v", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", p.apiKey)

	res, err := p.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return llm.GenerateResponse{}, err
		}
		return llm.GenerateResponse{}, fmt.Errorf("send request: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return llm.GenerateResponse{}, fmt.Errorf("read response: %w", err)
	}

	if res.StatusCode >= 300 {
		return llm.GenerateResponse{}, llm.ErrorFromHTTPStatus(providerName, res.StatusCode, errorMessage(raw))
	}

	var resp generateContentResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		// Unparseable 2xx payload still has to surface as text.
		return llm.GenerateResponse{
			Text:         string(raw),
			ProviderName: providerName,
			Model:        req.Model,
		}, nil
	}

	return llm.GenerateResponse{
		Text:         resp.text(raw),
		FinishReason: resp.finishReason(),
		Usage: llm.Usage{
			PromptTokens:     resp.UsageMetadata.PromptTokenCount,
			CompletionTokens: resp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      resp.UsageMetadata.TotalTokenCount,
		},
		ProviderName: providerName,
		Model:        req.Model,
	}, nil
}

type generateContentRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type generationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float64 `json:"temperature,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text,omitempty"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

// text joins the first candidate's text parts. When the expected field is
// absent it falls back to the compacted raw payload so a non-error response
// always yields some text.
func (r *generateContentResponse) text(raw []byte) string {
	if len(r.Candidates) > 0 {
		var b strings.Builder
		for _, p := range r.Candidates[0].Content.Parts {
			b.WriteString(p.Text)
		}
		if b.Len() > 0 {
			return b.String()
		}
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err == nil {
		return compact.String()
	}
	return string(raw)
}

func (r *generateContentResponse) finishReason() string {
	if len(r.Candidates) > 0 {
		return r.Candidates[0].FinishReason
	}
	return ""
}

// errorMessage pulls the provider's error message out of a failure payload,
// falling back to the raw body.
func errorMessage(raw []byte) string {
	var body struct {
		Error struct {
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Error.Message != "" {
		if body.Error.Status != "" {
			return body.Error.Status + ": " + body.Error.Message
		}
		return body.Error.Message
	}
	return strings.TrimSpace(string(raw))
}
