package ai

import (
	"fmt"
	"time"

	"github.com/CodexForgeBR/mock-interviewer/internal/logging"
	"github.com/CodexForgeBR/mock-interviewer/internal/ratelimit"
)

// Options selects and configures a backend.
type Options struct {
	Backend        string
	Model          string
	APIKey         string
	BaseURL        string
	MaxRetries     int
	RetryBaseDelay time.Duration
}

// New builds the configured backend wrapped with retry and logging hooks.
func New(opts Options) (Completer, error) {
	var inner Completer
	switch opts.Backend {
	case BackendAnthropic:
		if opts.APIKey == "" {
			return nil, fmt.Errorf("backend %s requires an api key", opts.Backend)
		}
		inner = NewAnthropicCompleter(opts.APIKey, opts.Model, opts.BaseURL)
	case BackendGemini:
		if opts.APIKey == "" {
			return nil, fmt.Errorf("backend %s requires an api key", opts.Backend)
		}
		inner = NewGeminiCompleter(opts.APIKey, opts.Model, opts.BaseURL)
	case BackendClaudeCLI:
		if !CheckAvailability("claude")["claude"] {
			return nil, fmt.Errorf("backend %s requires the claude CLI in PATH", opts.Backend)
		}
		inner = &ClaudeCLICompleter{Model: opts.Model}
	case BackendNone, "":
		return DisabledCompleter{}, nil
	default:
		return nil, fmt.Errorf("unknown ai backend %q", opts.Backend)
	}

	return &RetryCompleter{
		Inner: inner,
		RetryCfg: RetryConfig{
			MaxRetries: opts.MaxRetries,
			BaseDelay:  opts.RetryBaseDelay,
			OnRetry: func(attempt int, delay time.Duration) {
				logging.Debug(fmt.Sprintf("%s request failed, retry %d in %s", opts.Backend, attempt+1, delay))
			},
			OnRateLimit: func(info *ratelimit.RateLimitInfo) {
				if info != nil && info.Parseable {
					logging.Warn(fmt.Sprintf("%s rate limited until %s", opts.Backend, info.ResetHuman))
					return
				}
				logging.Warn(fmt.Sprintf("%s rate limited", opts.Backend))
			},
		},
	}, nil
}
