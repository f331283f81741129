// Package anthropic provides an oracle service adapter using Anthropic API.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/coursa-cli/internal/adapters/driven/oracle"
	"github.com/custodia-labs/coursa-cli/internal/core/domain"
	"github.com/custodia-labs/coursa-cli/internal/core/ports/driven"
)

// Ensure Oracle implements the interface.
var _ driven.Oracle = (*Oracle)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.anthropic.com"
	DefaultModel   = "claude-3-5-sonnet-latest"
	DefaultTimeout = 120 * time.Second

	// anthropicVersion is the required API version header.
	anthropicVersion = "2023-06-01"

	// maxResponseTokens bounds one classification response.
	maxResponseTokens = 1024
)

// Config holds configuration for the Anthropic oracle service.
type Config struct {
	// APIKey is the Anthropic API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.anthropic.com).
	BaseURL string

	// Model is the model to use (default: claude-3-5-sonnet-latest).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration

	// RateLimit paces requests; zero values use the shared defaults.
	RateLimit oracle.RateLimitConfig
}

// Oracle classifies folders and files using the Anthropic API.
type Oracle struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
	limiter *oracle.RateLimiter
}

// messagesRequest is the Anthropic /v1/messages request format.
type messagesRequest struct {
	Model     string            `json:"model"`
	Messages  []messagesMessage `json:"messages"`
	MaxTokens int               `json:"max_tokens"`
	System    string            `json:"system,omitempty"`
}

// messagesMessage is the Anthropic message format.
type messagesMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// messagesResponse is the Anthropic /v1/messages response format.
type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Error      *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewOracle creates a new Anthropic oracle service.
func NewOracle(cfg Config) (*Oracle, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic: API key is required")
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

	reqBody := messagesRequest{
		Model: o.model,
		Messages: []messagesMessage{
			{Role: "user", Content: userPrompt},
		},
		MaxTokens: maxResponseTokens,
		System:    systemPrompt,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return driven.Verdict{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		o.baseURL+"/v1/messages",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return driven.Verdict{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", o.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

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
		return driven.Verdict{}, fmt.Errorf("%w: anthropic status 429", domain.ErrOracleRateLimited)
	}

	var msgResp messagesResponse
	if err := json.Unmarshal(body, &msgResp); err != nil {
		return driven.Verdict{}, fmt.Errorf("decode response: %w", err)
	}

	if msgResp.Error != nil {
		return driven.Verdict{}, fmt.Errorf("anthropic error: %s", msgResp.Error.Message)
	}

	if resp.StatusCode != http.StatusOK {
		return driven.Verdict{}, fmt.Errorf("anthropic error (status %d): %s", resp.StatusCode, string(body))
	}

	if len(msgResp.Content) == 0 {
		return driven.Verdict{}, fmt.Errorf("anthropic: no response content returned")
	}

	// Concatenate all text content blocks
	var result strings.Builder
	for _, block := range msgResp.Content {
		if block.Type == "text" {
			result.WriteString(block.Text)
		}
	}

	return oracle.ParseVerdict(result.String())
}

// ModelName returns the name of the model being used.
func (o *Oracle) ModelName() string {
	return o.model
}

// Ping validates the service is reachable by checking the /v1/models endpoint.
// This is a lightweight check that validates the API key without running inference.
func (o *Oracle) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/v1/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("anthropic: failed to create ping request: %w", err)
	}
	req.Header.Set("x-api-key", o.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := o.client.Do(req)
	if err != nil {
		return fmt.Errorf("anthropic: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("anthropic: API returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return fmt.Errorf("anthropic: API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Close releases resources.
func (o *Oracle) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
