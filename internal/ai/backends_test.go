package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledCompleter(t *testing.T) {
	_, err := DisabledCompleter{}.Complete(context.Background(), Request{Prompt: "x"})
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestDefaultModel(t *testing.T) {
	for _, b := range []string{BackendAnthropic, BackendGemini, BackendClaudeCLI} {
		assert.NotEmpty(t, DefaultModel(b), b)
	}
	assert.Empty(t, DefaultModel(BackendNone))
}

func TestNew(t *testing.T) {
	c, err := New(Options{Backend: BackendNone})
	require.NoError(t, err)
	assert.IsType(t, DisabledCompleter{}, c)

	c, err = New(Options{Backend: BackendGemini, APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &RetryCompleter{}, c)

	_, err = New(Options{Backend: BackendAnthropic})
	assert.Error(t, err)

	_, err = New(Options{Backend: "openai"})
	assert.Error(t, err)
}

func TestGeminiCompleter(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-goog-api-key"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"score\": 4}"}]}}]}`))
	}))
	defer srv.Close()

	c := NewGeminiCompleter("secret", "gemini-test", srv.URL)
	out, err := c.Complete(context.Background(), Request{System: "be neutral", Prompt: "grade this", JSON: true, MaxTokens: 100})
	require.NoError(t, err)
	assert.Equal(t, `{"score": 4}`, out)

	cfg := got["generationConfig"].(map[string]interface{})
	assert.Equal(t, "application/json", cfg["responseMimeType"])
	assert.Equal(t, float64(100), cfg["maxOutputTokens"])
	assert.NotNil(t, got["systemInstruction"])
}

func TestGeminiCompleterErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{"rate limited", http.StatusTooManyRequests, `{}`, func(t *testing.T, err error) {
			var rl *RateLimitError
			require.True(t, errors.As(err, &rl))
			assert.True(t, rl.Info.Parseable)
		}},
		{"server error", http.StatusInternalServerError, `oops`, func(t *testing.T, err error) {
			var se *StatusError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, 500, se.StatusCode)
		}},
		{"no candidates", http.StatusOK, `{"candidates":[]}`, func(t *testing.T, err error) {
			assert.Contains(t, err.Error(), "empty response")
		}},
		{"garbage", http.StatusOK, `not json`, func(t *testing.T, err error) {
			assert.Contains(t, err.Error(), "failed to parse gemini response")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.status == http.StatusTooManyRequests {
					w.Header().Set("Retry-After", "1")
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewGeminiCompleter("k", "m", srv.URL).Complete(context.Background(), Request{Prompt: "p"})
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestAnthropicCompleter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1", "type": "message", "role": "assistant", "model": "claude-test",
			"content": [{"type": "text", "text": "{\"score\": 5}"}],
			"stop_reason": "end_turn", "stop_sequence": null,
			"usage": {"input_tokens": 10, "output_tokens": 5}
		}`))
	}))
	defer srv.Close()

	c := NewAnthropicCompleter("test-key", "claude-test", srv.URL)
	out, err := c.Complete(context.Background(), Request{System: "neutral", Prompt: "grade"})
	require.NoError(t, err)
	assert.Equal(t, `{"score": 5}`, out)
}

func TestAnthropicCompleterRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Retry-After", "2")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`))
	}))
	defer srv.Close()

	_, err := NewAnthropicCompleter("k", "m", srv.URL).Complete(context.Background(), Request{Prompt: "p"})
	var rl *RateLimitError
	require.True(t, errors.As(err, &rl), "got %v", err)
	assert.True(t, rl.Info.Parseable)
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on windows")
	}
	path := filepath.Join(t.TempDir(), "fake-claude")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755))
	return path
}

func TestClaudeCLICompleter_BuildArgs(t *testing.T) {
	c := &ClaudeCLICompleter{Model: "opus"}
	args := c.BuildArgs(Request{System: "be neutral"})
	assert.Equal(t, []string{
		"--print", "--output-format", "json", "--model", "opus", "--max-turns", "1",
		"--append-system-prompt", "be neutral",
	}, args)

	args = (&ClaudeCLICompleter{}).BuildArgs(Request{})
	assert.Contains(t, args, DefaultModel(BackendClaudeCLI))
	assert.NotContains(t, args, "--append-system-prompt")
}

func TestClaudeCLICompleter_Complete(t *testing.T) {
	c := &ClaudeCLICompleter{Binary: writeScript(t, "cat")}
	out, err := c.Complete(context.Background(), Request{Prompt: "echo me back"})
	require.NoError(t, err)
	assert.Equal(t, "echo me back", out)
}

func TestClaudeCLICompleter_JSONResult(t *testing.T) {
	c := &ClaudeCLICompleter{Binary: writeScript(t, `printf '%s\n' '{"type":"result","subtype":"success","result":"{\"score\": 2}"}'`)}
	out, err := c.Complete(context.Background(), Request{Prompt: "x"})
	require.NoError(t, err)
	assert.Equal(t, `{"score": 2}`, out)
}

func TestClaudeCLICompleter_RateLimit(t *testing.T) {
	c := &ClaudeCLICompleter{Binary: writeScript(t, `echo "You've hit your limit · resets 6pm (UTC)"; exit 1`)}
	_, err := c.Complete(context.Background(), Request{Prompt: "x"})
	var rl *RateLimitError
	require.True(t, errors.As(err, &rl))
	assert.True(t, rl.Info.Parseable)
}

func TestClaudeCLICompleter_Failure(t *testing.T) {
	c := &ClaudeCLICompleter{Binary: writeScript(t, `echo "bad flag" >&2; exit 2`)}
	_, err := c.Complete(context.Background(), Request{Prompt: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad flag")
}

func TestCheckAvailability(t *testing.T) {
	result := CheckAvailability("sh", "this-tool-definitely-does-not-exist-12345")
	assert.True(t, result["sh"])
	assert.False(t, result["this-tool-definitely-does-not-exist-12345"])
}
