// Package ai provides language-model completion backends used to grade answers
// and generate interview questions.
package ai

import (
	"context"
	"errors"
)

// Backend identifiers accepted by New.
const (
	BackendAnthropic = "anthropic"
	BackendGemini    = "gemini"
	BackendClaudeCLI = "claude-cli"
	BackendNone      = "none"
)

// Backends lists every supported backend name.
var Backends = []string{BackendAnthropic, BackendGemini, BackendClaudeCLI, BackendNone}

// ErrDisabled is returned by the "none" backend so callers fall back immediately.
var ErrDisabled = errors.New("language model backend disabled")

// Request is a single-turn completion request.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
	// JSON asks the backend for a JSON-only response where it supports that.
	JSON bool
}

// Completer returns the model's text reply to a request.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, req Request) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// DisabledCompleter always fails with ErrDisabled.
type DisabledCompleter struct{}

// Complete returns ErrDisabled.
func (DisabledCompleter) Complete(context.Context, Request) (string, error) {
	return "", ErrDisabled
}

// DefaultModel returns the model used for a backend when none is configured.
func DefaultModel(backend string) string {
	switch backend {
	case BackendAnthropic:
		return "claude-sonnet-4-5"
	case BackendGemini:
		return "gemini-2.5-flash"
	case BackendClaudeCLI:
		return "sonnet"
	}
	return ""
}
