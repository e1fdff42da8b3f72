package prompt

import (
	"fmt"
	"strings"

	"github.com/CodexForgeBR/mock-interviewer/internal/state"
)

// BuildEvaluationPrompt constructs the grading prompt for one answer.
// history is an already budgeted transcript summary and may be empty.
func BuildEvaluationPrompt(q state.Question, answer, history string) string {
	prompt := EvaluationTemplate
	prompt = strings.ReplaceAll(prompt, "{{SKILL_AREA}}", string(q.SkillArea))
	prompt = strings.ReplaceAll(prompt, "{{DIFFICULTY}}", string(q.Difficulty))
	prompt = strings.ReplaceAll(prompt, "{{QUESTION}}", q.Text)
	prompt = strings.ReplaceAll(prompt, "{{REFERENCE}}", q.ReferenceAnswer)
	prompt = strings.ReplaceAll(prompt, "{{ANSWER}}", answer)
	return withHistory(prompt, history)
}

// BuildQuestionPrompt constructs the prompt asking for the next question.
// A nil avg means no answers have been graded yet.
func BuildQuestionPrompt(difficulty state.Difficulty, avoid []state.SkillArea, avg *float64, history string) string {
	areas := make([]string, len(state.SkillRegistry))
	for i, a := range state.SkillRegistry {
		areas[i] = string(a)
	}
	avoided := "none"
	if len(avoid) > 0 {
		names := make([]string, len(avoid))
		for i, a := range avoid {
			names[i] = string(a)
		}
		avoided = strings.Join(names, ", ")
	}
	performance := "no answers yet"
	if avg != nil {
		performance = fmt.Sprintf("average score %.1f/5", *avg)
	}

	prompt := QuestionTemplate
	prompt = strings.ReplaceAll(prompt, "{{SKILL_AREAS}}", strings.Join(areas, ", "))
	prompt = strings.ReplaceAll(prompt, "{{DIFFICULTY}}", string(difficulty))
	prompt = strings.ReplaceAll(prompt, "{{AVOID}}", avoided)
	prompt = strings.ReplaceAll(prompt, "{{PERFORMANCE}}", performance)
	return withHistory(prompt, history)
}

func withHistory(prompt, history string) string {
	section := ""
	if strings.TrimSpace(history) != "" {
		section = strings.ReplaceAll(HistorySection, "{{HISTORY}}", history)
	}
	return strings.ReplaceAll(prompt, "{{HISTORY_SECTION}}", section)
}
