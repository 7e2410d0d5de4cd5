// Package model is a client for OpenAI-compatible chat completion endpoints
// such as LM Studio, vLLM or llama.cpp servers.
package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// maxResponseBytes bounds the decoded response body.
const maxResponseBytes = 64 << 20

// chatRequest is the chat completions request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse keeps only the fields the client reads.
type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Usage   struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

type chatChoice struct {
	Message      *chatMessage `json:"message"`
	FinishReason string       `json:"finish_reason"`
}

// Client sends prompts to a chat completions endpoint.
// A Client is safe for concurrent use.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Client. The configuration should already be validated.
func New(cfg Config, opts ...Option) *Client {
	c := &Client{
		cfg:    cfg,
		http:   &http.Client{},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate sends prompt as a single user message and returns the content of
// the first choice. Every failure is a *RequestError. Retries happen only
// when Config.MaxRetries is positive.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	})
	if err != nil {
		return "", &RequestError{Endpoint: c.cfg.Endpoint, Err: fmt.Errorf("marshal request: %w", err)}
	}

	return withRetry(ctx, c.cfg.MaxRetries, c.cfg.Backoff, c.logger, func(ctx context.Context) (string, error) {
		return c.send(ctx, body)
	})
}

// send performs one attempt bounded by Config.Timeout.
func (c *Client) send(ctx context.Context, body []byte) (string, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &RequestError{Endpoint: c.cfg.Endpoint, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	c.logger.DebugContext(ctx, "sending completion request",
		"endpoint", c.cfg.Endpoint,
		"model", c.cfg.Model,
		"payload_size", len(body))

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", &RequestError{Endpoint: c.cfg.Endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.WarnContext(ctx, "completion request rejected",
			"status", resp.StatusCode,
			"duration", time.Since(start))
		return "", &RequestError{
			Endpoint:   c.cfg.Endpoint,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(excerpt)),
			Err:        ErrStatus,
		}
	}

	var decoded chatResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&decoded); err != nil {
		return "", &RequestError{
			Endpoint:   c.cfg.Endpoint,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: %v", ErrMalformedResponse, err),
		}
	}

	if len(decoded.Choices) == 0 || decoded.Choices[0].Message == nil {
		return "", &RequestError{
			Endpoint:   c.cfg.Endpoint,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: no choices", ErrMalformedResponse),
		}
	}

	choice := decoded.Choices[0]
	if strings.TrimSpace(choice.Message.Content) == "" {
		return "", &RequestError{
			Endpoint:   c.cfg.Endpoint,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w (finish reason %q)", ErrEmptyCompletion, choice.FinishReason),
		}
	}

	c.logger.DebugContext(ctx, "completion received",
		"duration", time.Since(start),
		"prompt_tokens", decoded.Usage.PromptTokens,
		"completion_tokens", decoded.Usage.CompletionTokens,
		"finish_reason", choice.FinishReason)

	return choice.Message.Content, nil
}
