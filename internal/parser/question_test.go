package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/mock-interviewer/internal/state"
)

func TestParseQuestion_Complete(t *testing.T) {
	text := `{"id": 4711, "question": "Build a pivot of sales by region.", "level": "Advanced",
	          "skill_area": "Pivot Tables", "ideal": "Insert PivotTable; Region in Rows."}`

	q, err := ParseQuestion(text, state.DifficultyBasic)
	require.NoError(t, err)
	assert.Equal(t, state.Question{
		ID:              "4711",
		Text:            "Build a pivot of sales by region.",
		Difficulty:      state.DifficultyAdvanced,
		SkillArea:       state.SkillPivotTables,
		ReferenceAnswer: "Insert PivotTable; Region in Rows.",
	}, q)
}

func TestParseQuestion_Defaults(t *testing.T) {
	q, err := ParseQuestion(`Here you go: {"question": "What does CTRL+SHIFT+L do?", "skill_area": "Macros"}`, state.DifficultyIntermediate)
	require.NoError(t, err)
	assert.NotEmpty(t, q.ID)
	assert.Equal(t, state.DifficultyIntermediate, q.Difficulty)
	assert.Equal(t, DefaultSkillArea, q.SkillArea)
	assert.Equal(t, DefaultReferenceAnswer, q.ReferenceAnswer)
}

func TestParseQuestion_UnknownLevelKeepsRequested(t *testing.T) {
	q, err := ParseQuestion(`{"question": "q", "level": "legendary"}`, state.DifficultyBasic)
	require.NoError(t, err)
	assert.Equal(t, state.DifficultyBasic, q.Difficulty)
}

func TestParseQuestion_Rejects(t *testing.T) {
	for _, text := range []string{"", "nothing", `{"question": "   "}`, `{"ideal": "x"}`} {
		_, err := ParseQuestion(text, state.DifficultyBasic)
		assert.Error(t, err, text)
	}
}
