package prompt

import _ "embed"

// Template files embedded at compile time
var (
	//go:embed templates/evaluation.txt
	EvaluationTemplate string

	//go:embed templates/question.txt
	QuestionTemplate string

	//go:embed templates/history-section.txt
	HistorySection string
)

// System prompts sent alongside the templates.
const (
	EvaluationSystem = "You are a neutral, professional interviewer."
	QuestionSystem   = "You are a concise and practical Excel question generator."
)
