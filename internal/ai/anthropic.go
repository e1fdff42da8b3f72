package ai

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/pkg/errors"

	"github.com/CodexForgeBR/mock-interviewer/internal/ratelimit"
)

// AnthropicCompleter calls the Anthropic Messages API through the official SDK.
type AnthropicCompleter struct {
	client anthropic.Client
	model  string
}

// NewAnthropicCompleter builds a completer. baseURL may be empty.
// SDK-level retries are disabled; wrap the completer in RetryCompleter instead.
func NewAnthropicCompleter(apiKey, model, baseURL string) *AnthropicCompleter {
	if model == "" {
		model = DefaultModel(BackendAnthropic)
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &AnthropicCompleter{
		client: anthropic.NewClient(opts...),
		model:  model,
	}
}

// Complete sends a single user message and returns the concatenated text blocks.
func (c *AnthropicCompleter) Complete(ctx context.Context, req Request) (text string, err error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 400
	}
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   int64(maxTokens),
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt))},
		Temperature: anthropic.Float(req.Temperature),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
			retryAfter := ""
			if apiErr.Response != nil {
				retryAfter = apiErr.Response.Header.Get("Retry-After")
			}
			return "", &RateLimitError{
				Info:          ratelimit.FromRetryAfter(retryAfter, time.Now()),
				UnderlyingErr: err,
			}
		}
		return "", errors.Wrap(err, "anthropic messages request failed")
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", errors.New("anthropic response contained no text")
	}
	return b.String(), nil
}
