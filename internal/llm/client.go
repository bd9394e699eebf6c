package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultAPIURL    = "https://api.anthropic.com/v1/messages"
	defaultModel     = "claude-sonnet-4-20250514"
	defaultMaxTokens = 1024
	anthropicVersion = "2023-06-01"

	// userInputHeader delimits the raw user message from the rendered
	// template instructions inside the composed prompt.
	userInputHeader = "User input:"
)

// ErrEmptyResponse is returned when the model answers with a blank string.
var ErrEmptyResponse = errors.New("empty response from model")

// ProviderError reports a transport failure, a non-2xx status, or a
// malformed provider response. It is never downgraded inside the gateway.
type ProviderError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("llm provider error (status %d): %s", e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("llm provider error: %v", e.Err)
	}
	return fmt.Sprintf("llm provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Client is an Anthropic Messages API client used as the pipeline's LLM gateway.
type Client struct {
	apiKey      string
	model       string
	apiURL      string
	httpClient  *http.Client
	temperature float64
	maxTokens   int
}

// NewClient creates a new gateway client.
func NewClient(apiKey, model string, temperature float64, maxTokens int) *Client {
	if model == "" {
		model = defaultModel
	}
	if temperature <= 0 {
		temperature = 0.1
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &Client{
		apiKey:      apiKey,
		model:       model,
		apiURL:      defaultAPIURL,
		temperature: temperature,
		maxTokens:   maxTokens,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// anthropicRequest represents the API request structure
type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// anthropicResponse represents the API response structure
type anthropicResponse struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Role    string `json:"role"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete sends the rendered template as the system prompt and the raw user
// message in a delimited "User input:" section, and returns the model's text.
// An empty instructions string sends the user message unmodified (the
// template-not-found fallback).
func (c *Client) Complete(ctx context.Context, instructions, input string) (string, error) {
	userContent := input
	if instructions != "" {
		userContent = userInputHeader + "\n" + input
	}

	req := anthropicRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		System:      instructions,
		Messages: []anthropicMessage{
			{Role: "user", Content: userContent},
		},
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return "", &ProviderError{Message: "failed to marshal request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.apiURL, bytes.NewReader(reqBody))
	if err != nil {
		return "", &ProviderError{Message: "failed to create request", Err: err}
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &ProviderError{Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ProviderError{Message: "failed to read response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &ProviderError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	var apiResp anthropicResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", &ProviderError{Message: "failed to unmarshal response", Err: err}
	}

	if apiResp.Error != nil {
		return "", &ProviderError{Message: fmt.Sprintf("%s - %s", apiResp.Error.Type, apiResp.Error.Message)}
	}

	if len(apiResp.Content) == 0 || apiResp.Content[0].Text == "" {
		return "", ErrEmptyResponse
	}

	return apiResp.Content[0].Text, nil
}

// IsConfigured returns true if the client has an API key
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}
