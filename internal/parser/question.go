package parser

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/CodexForgeBR/mock-interviewer/internal/state"
)

// Defaults for generated questions that omit optional fields.
const (
	DefaultReferenceAnswer = "Refer to Excel docs."
	DefaultSkillArea       = state.SkillFormulas
)

// ParseQuestion parses a generated question. The question text is required;
// difficulty defaults to want, skill area to Formulas and the id to a fresh UUID.
func ParseQuestion(text string, want state.Difficulty) (state.Question, error) {
	raw, err := ExtractJSON(text, `"question"`)
	if err != nil {
		return state.Question{}, fmt.Errorf("question: %w", err)
	}

	q := state.Question{Difficulty: want, SkillArea: DefaultSkillArea, ReferenceAnswer: DefaultReferenceAnswer}

	q.Text, _ = stringField(raw, "question", "text")
	if q.Text == "" {
		return state.Question{}, fmt.Errorf("question: reply has no question text")
	}

	if id, ok := stringField(raw, "id"); ok && id != "" {
		q.ID = id
	} else {
		q.ID = uuid.NewString()
	}
	if level, ok := stringField(raw, "level", "difficulty"); ok {
		if d, ok := state.ParseDifficulty(level); ok {
			q.Difficulty = d
		}
	}
	if tag, ok := stringField(raw, "skill_area", "skill"); ok {
		if area, ok := state.ParseSkillArea(tag); ok {
			q.SkillArea = area
		}
	}
	if ideal, ok := stringField(raw, "ideal", "reference_answer"); ok && ideal != "" {
		q.ReferenceAnswer = ideal
	}

	return q, nil
}
