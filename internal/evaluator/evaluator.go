// Package evaluator grades candidate answers.
package evaluator

import (
	"context"
	"fmt"

	"github.com/CodexForgeBR/mock-interviewer/internal/ai"
	"github.com/CodexForgeBR/mock-interviewer/internal/parser"
	"github.com/CodexForgeBR/mock-interviewer/internal/prompt"
	"github.com/CodexForgeBR/mock-interviewer/internal/state"
)

// Request is one answer to grade.
type Request struct {
	Question state.Question
	Answer   string
	// History is the transcript so far, oldest first, for conversational context.
	History []state.TranscriptEntry
}

// Evaluator grades a single answer. Implementations may fail; callers
// substitute state.NeutralEvaluation on any error.
type Evaluator interface {
	Evaluate(ctx context.Context, req Request) (state.Evaluation, error)
}

// Func adapts a plain function to Evaluator.
type Func func(ctx context.Context, req Request) (state.Evaluation, error)

// Evaluate calls f.
func (f Func) Evaluate(ctx context.Context, req Request) (state.Evaluation, error) {
	return f(ctx, req)
}

// Neutral scores every answer at the neutral midpoint. It is used when no
// language model is configured.
type Neutral struct{}

// Evaluate returns state.NeutralEvaluation.
func (Neutral) Evaluate(context.Context, Request) (state.Evaluation, error) {
	return state.NeutralEvaluation(), nil
}

// LLM grades answers with a language model.
type LLM struct {
	Completer ai.Completer
	// MaxTokens bounds the grading reply.
	MaxTokens int
	// HistoryBudget bounds the conversation history in tokens; zero sends everything.
	HistoryBudget int
}

// Evaluate builds the grading prompt, calls the model at temperature 0 and
// parses the reply with explicit defaults.
func (e *LLM) Evaluate(ctx context.Context, req Request) (state.Evaluation, error) {
	history := prompt.Summarize(req.History, e.HistoryBudget)
	reply, err := e.Completer.Complete(ctx, ai.Request{
		System:      prompt.EvaluationSystem,
		Prompt:      prompt.BuildEvaluationPrompt(req.Question, req.Answer, history),
		MaxTokens:   e.MaxTokens,
		Temperature: 0,
		JSON:        true,
	})
	if err != nil {
		return state.Evaluation{}, fmt.Errorf("grade answer: %w", err)
	}
	ev, err := parser.ParseEvaluation(reply)
	if err != nil {
		return state.Evaluation{}, fmt.Errorf("grade answer: %w", err)
	}
	return ev, nil
}

// Validate reports whether ev satisfies the Evaluation schema:
// every rating within 1..5 and every criterion present.
func Validate(ev state.Evaluation) error {
	ratings := map[string]int{
		"score":           ev.Score,
		"clarity":         ev.Clarity,
		"confidence":      ev.Confidence,
		"problem_solving": ev.ProblemSolving,
	}
	for _, c := range state.Criteria {
		v, ok := ev.Breakdown[c]
		if !ok {
			return fmt.Errorf("breakdown missing %s", c)
		}
		ratings[c] = v
	}
	for name, v := range ratings {
		if v < state.MinScore || v > state.MaxScore {
			return fmt.Errorf("%s %d outside %d..%d", name, v, state.MinScore, state.MaxScore)
		}
	}
	return nil
}
