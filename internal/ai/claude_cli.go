package ai

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/CodexForgeBR/mock-interviewer/internal/parser"
	"github.com/CodexForgeBR/mock-interviewer/internal/ratelimit"
)

// ClaudeCLICompleter shells out to the claude CLI in print mode.
type ClaudeCLICompleter struct {
	Binary string
	Model  string
}

// BuildArgs constructs the argument list for the claude CLI command.
// The prompt itself is passed on stdin.
func (c *ClaudeCLICompleter) BuildArgs(req Request) []string {
	model := c.Model
	if model == "" {
		model = DefaultModel(BackendClaudeCLI)
	}
	args := []string{
		"--print",
		"--output-format", "json",
		"--model", model,
		"--max-turns", "1",
	}
	if req.System != "" {
		args = append(args, "--append-system-prompt", req.System)
	}
	return args
}

// Complete runs the CLI and returns its stdout.
// Rate limit messages are detected in either output stream.
func (c *ClaudeCLICompleter) Complete(ctx context.Context, req Request) (string, error) {
	binary := c.Binary
	if binary == "" {
		binary = "claude"
	}
	cmd := exec.CommandContext(ctx, binary, c.BuildArgs(req)...)
	cmd.Stdin = strings.NewReader(req.Prompt)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	if info := ratelimit.Detect(stdout.String()+stderr.String(), time.Now()); info != nil {
		return "", &RateLimitError{Info: info, UnderlyingErr: runErr}
	}
	if runErr != nil {
		return "", fmt.Errorf("claude command failed: %w: %s", runErr, strings.TrimSpace(stderr.String()))
	}

	out := strings.TrimSpace(parser.ParseCLIOutput(stdout.String()))
	if out == "" {
		return "", fmt.Errorf("claude command produced no output")
	}
	return out, nil
}
