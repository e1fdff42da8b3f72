package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/CodexForgeBR/mock-interviewer/internal/ratelimit"
)

// GeminiEndpoint is the default Generative Language API base URL.
const GeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta"

// GeminiCompleter calls the Gemini generateContent REST endpoint.
type GeminiCompleter struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewGeminiCompleter builds a completer. baseURL may be empty.
func NewGeminiCompleter(apiKey, model, baseURL string) *GeminiCompleter {
	if model == "" {
		model = DefaultModel(BackendGemini)
	}
	if baseURL == "" {
		baseURL = GeminiEndpoint
	}
	return &GeminiCompleter{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  map[string]interface{} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Complete posts the prompt and returns the first candidate's text.
func (c *GeminiCompleter) Complete(ctx context.Context, req Request) (text string, err error) {
	body := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: req.Prompt}}}},
		GenerationConfig: map[string]interface{}{
			"temperature": req.Temperature,
		},
	}
	if req.MaxTokens > 0 {
		body.GenerationConfig["maxOutputTokens"] = req.MaxTokens
	}
	if req.JSON {
		body.GenerationConfig["responseMimeType"] = "application/json"
	}
	if req.System != "" {
		body.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.System}}}
	}

	var reqBody []byte
	reqBody, err = json.Marshal(body)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal request")
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return "", errors.Wrap(err, "failed to create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", errors.Wrap(err, "gemini request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", &RateLimitError{
			Info:          ratelimit.FromRetryAfter(resp.Header.Get("Retry-After"), time.Now()),
			UnderlyingErr: &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)},
		}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", errors.Wrapf(err, "failed to parse gemini response: %s", respBody)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty response from Gemini")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
