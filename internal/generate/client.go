// Package generate wraps an OpenAI-compatible chat-completion endpoint behind
// a single-prompt Generator capability. DeepSeek is the default provider; any
// endpoint speaking the same protocol works through the base URL knob.
package generate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/yhzhou/feedsum/internal/apierr"
)

// Generator issues one synchronous text-generation request. The prompt is
// sent as a single user-role message, non-streaming.
type Generator interface {
	Generate(ctx context.Context, prompt string, temperature float32) (string, error)
}

// ErrEmptyAPIKey indicates that no API key was provided.
var ErrEmptyAPIKey = errors.New("API key is required")

// chatCompleter is the slice of *openai.Client this package needs.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Default client configuration.
const (
	defaultMaxRetries = 3
	defaultBaseDelay  = 1 * time.Second
	defaultMaxDelay   = 30 * time.Second
)

// Compile-time interface compliance check.
var _ Generator = (*Client)(nil)

// Client is a Generator backed by an OpenAI-compatible chat completion API.
// Transient failures (rate limits, timeouts, 5xx) are retried with
// exponential backoff.
type Client struct {
	client     chatCompleter
	model      string
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithMaxRetries sets the maximum number of retry attempts.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithRetryDelays sets the base and max delays for exponential backoff.
func WithRetryDelays(base, max time.Duration) Option {
	return func(c *Client) {
		if base > 0 {
			c.baseDelay = base
		}
		if max > 0 {
			c.maxDelay = max
		}
	}
}

// NewClient creates a Client for the given endpoint and model.
// baseURL may be empty to use the provider default of the openai SDK.
// Returns ErrEmptyAPIKey if apiKey is empty.
func NewClient(apiKey, baseURL, model string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrEmptyAPIKey
	}

	c := &Client{
		model:      model,
		maxRetries: defaultMaxRetries,
		baseDelay:  defaultBaseDelay,
		maxDelay:   defaultMaxDelay,
	}
	for _, opt := range opts {
		opt(c)
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
	c.client = openai.NewClientWithConfig(cfg)
	return c, nil
}

// Generate sends prompt as one user message and returns the generated text
// with surrounding whitespace trimmed. The response is untrusted: any length
// or format the prompt requested still needs validation by the caller.
func (c *Client) Generate(ctx context.Context, prompt string, temperature float32) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: temperature,
	}

	cfg := apierr.RetryConfig{
		MaxRetries: c.maxRetries,
		BaseDelay:  c.baseDelay,
		MaxDelay:   c.maxDelay,
	}

	return apierr.RetryWithBackoff(ctx, cfg, func() (string, error) {
		resp, err := c.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", classifyError(err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("empty response from completion API")
		}
		return strings.TrimSpace(resp.Choices[0].Message.Content), nil
	}, isRetryable)
}

// classifyError maps provider errors to apierr sentinels.
// Typed API errors are checked first; the status code is authoritative.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrRateLimit)
		case http.StatusUnauthorized:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrAuthFailed)
		case http.StatusPaymentRequired: // DeepSeek: insufficient balance
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrQuotaExceeded)
		case http.StatusRequestTimeout, http.StatusGatewayTimeout:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrTimeout)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", apierr.ErrTimeout)
	}

	return err
}

// isRetryable reports whether an error is transient.
func isRetryable(err error) bool {
	if errors.Is(err, apierr.ErrRateLimit) || errors.Is(err, apierr.ErrTimeout) {
		return true
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	return false
}
