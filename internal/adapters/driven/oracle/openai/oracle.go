// Package openai provides an oracle service adapter using OpenAI API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/custodia-labs/coursa-cli/internal/adapters/driven/oracle"
	"github.com/custodia-labs/coursa-cli/internal/core/domain"
	"github.com/custodia-labs/coursa-cli/internal/core/ports/driven"
)

// Ensure Oracle implements the interface.
var _ driven.Oracle = (*Oracle)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 120 * time.Second

	// maxResponseTokens bounds one classification response.
	maxResponseTokens = 1024
)

// Config holds configuration for the OpenAI oracle service.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	// Can be changed for Azure OpenAI or compatible APIs.
	BaseURL string

	// Model is the model to use (default: gpt-4o-mini).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration

	// RateLimit paces requests; zero values use the shared defaults.
	RateLimit oracle.RateLimitConfig
}

// Oracle classifies folders and files using the OpenAI API.
type Oracle struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
	limiter *oracle.RateLimiter
}

// chatCompletionRequest is the OpenAI /chat/completions request format.
type chatCompletionRequest struct {
	Model          string              `json:"model"`
	Messages       []chatCompletionMsg `json:"messages"`
	MaxTokens      int                 `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat     `json:"response_format,omitempty"`
}

// responseFormat requests strict JSON output from the model.
type responseFormat struct {
	Type string `json:"type"`
}

// chatCompletionMsg is the OpenAI chat message format.
type chatCompletionMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionResponse is the OpenAI /chat/completions response format.
type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewOracle creates a new OpenAI oracle service.
func NewOracle(cfg Config) (*Oracle, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Oracle{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		limiter: oracle.NewRateLimiter(cfg.RateLimit),
	}, nil
}

// ClassifyFolder judges one directory from its bounded summary.
func (o *Oracle) ClassifyFolder(ctx context.Context, query driven.FolderQuery) (driven.Verdict, error) {
	return o.classify(ctx, oracle.FolderSystemPrompt, oracle.BuildFolderPrompt(query))
}

// ClassifyFile judges one file from its name, description and context.
func (o *Oracle) ClassifyFile(ctx context.Context, query driven.FileQuery) (driven.Verdict, error) {
	return o.classify(ctx, oracle.FileSystemPrompt, oracle.BuildFilePrompt(query))
}

// classify is the internal implementation for both query kinds.
func (o *Oracle) classify(ctx context.Context, systemPrompt, userPrompt string) (driven.Verdict, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return driven.Verdict{}, err
	}

	reqBody := chatCompletionRequest{
		Model: o.model,
		Messages: []chatCompletionMsg{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens:      maxResponseTokens,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return driven.Verdict{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		o.baseURL+"/chat/completions",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return driven.Verdict{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return driven.Verdict{}, fmt.Errorf("%w: %v", domain.ErrOracleUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return driven.Verdict{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		o.limiter.RecordRateLimitError(retryAfter)
		return driven.Verdict{}, fmt.Errorf("%w: openai status 429", domain.ErrOracleRateLimited)
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return driven.Verdict{}, fmt.Errorf("decode response: %w", err)
	}

	if chatResp.Error != nil {
		return driven.Verdict{}, fmt.Errorf("openai error: %s", chatResp.Error.Message)
	}

	if resp.StatusCode != http.StatusOK {
		return driven.Verdict{}, fmt.Errorf("openai error (status %d): %s", resp.StatusCode, string(body))
	}

	if len(chatResp.Choices) == 0 {
		return driven.Verdict{}, fmt.Errorf("openai: no response choices returned")
	}

	return oracle.ParseVerdict(chatResp.Choices[0].Message.Content)
}

// ModelName returns the name of the model being used.
func (o *Oracle) ModelName() string {
	return o.model
}

// Ping validates the service is reachable by checking the /models endpoint.
// This is a lightweight check that validates the API key without running inference.
func (o *Oracle) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("openai: failed to create ping request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return fmt.Errorf("openai: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("openai: API returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return fmt.Errorf("openai: API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Close releases resources.
func (o *Oracle) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
