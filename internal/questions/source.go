// Package questions supplies interview questions from a language model, with a
// static pool as the deterministic fallback.
package questions

import (
	"context"
	"fmt"
	"strings"

	"github.com/CodexForgeBR/mock-interviewer/internal/ai"
	"github.com/CodexForgeBR/mock-interviewer/internal/parser"
	"github.com/CodexForgeBR/mock-interviewer/internal/prompt"
	"github.com/CodexForgeBR/mock-interviewer/internal/state"
)

// Request describes the question wanted next.
type Request struct {
	History    []state.TranscriptEntry
	Avoid      []state.SkillArea
	AvgScore   *float64
	Difficulty state.Difficulty
}

// Source produces the next question. Implementations may fail; callers
// substitute Fallback on any error.
type Source interface {
	Next(ctx context.Context, req Request) (state.Question, error)
}

// Func adapts a plain function to Source.
type Func func(ctx context.Context, req Request) (state.Question, error)

// Next calls f.
func (f Func) Next(ctx context.Context, req Request) (state.Question, error) {
	return f(ctx, req)
}

// LLM generates questions with a language model.
type LLM struct {
	Completer     ai.Completer
	MaxTokens     int
	Temperature   float64
	HistoryBudget int
}

// Next asks the model for one question at the requested difficulty.
// The returned question is always tagged with req.Difficulty.
func (s *LLM) Next(ctx context.Context, req Request) (state.Question, error) {
	history := prompt.Summarize(req.History, s.HistoryBudget)
	reply, err := s.Completer.Complete(ctx, ai.Request{
		System:      prompt.QuestionSystem,
		Prompt:      prompt.BuildQuestionPrompt(req.Difficulty, req.Avoid, req.AvgScore, history),
		MaxTokens:   s.MaxTokens,
		Temperature: s.Temperature,
		JSON:        true,
	})
	if err != nil {
		return state.Question{}, fmt.Errorf("generate question: %w", err)
	}
	q, err := parser.ParseQuestion(reply, req.Difficulty)
	if err != nil {
		return state.Question{}, fmt.Errorf("generate question: %w", err)
	}
	q.Difficulty = req.Difficulty
	return q, nil
}

// Validate reports whether q can be issued.
func Validate(q state.Question) error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("question has no text")
	}
	if !q.Difficulty.Valid() {
		return fmt.Errorf("question has unknown difficulty %q", q.Difficulty)
	}
	for _, area := range state.SkillRegistry {
		if q.SkillArea == area {
			return nil
		}
	}
	return fmt.Errorf("question has unregistered skill area %q", q.SkillArea)
}
