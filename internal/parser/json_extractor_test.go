package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON_CodeBlock(t *testing.T) {
	text := "Here is the grade:\n```json\n{\"score\": 4, \"feedback\": \"covers the basics\"}\n```\nDone."

	result, err := ExtractJSON(text, `"score"`)
	require.NoError(t, err)
	assert.Equal(t, float64(4), result["score"])
	assert.Equal(t, "covers the basics", result["feedback"])
}

func TestExtractJSON_BareFence(t *testing.T) {
	text := "```\n{\"question\": \"What is XLOOKUP?\"}\n```"

	result, err := ExtractJSON(text, "")
	require.NoError(t, err)
	assert.Equal(t, "What is XLOOKUP?", result["question"])
}

func TestExtractJSON_SkipsUnrelatedBlocks(t *testing.T) {
	text := "```python\nprint('x')\n```\nthen\n```json\n{\"score\": 2}\n```"

	result, err := ExtractJSON(text, `"score"`)
	require.NoError(t, err)
	assert.Equal(t, float64(2), result["score"])
}

func TestExtractJSON_BracketMatching(t *testing.T) {
	text := `Sure! {"score": 3, "feedback": "uses {braces} in a string"} Hope that helps.`

	result, err := ExtractJSON(text, `"score"`)
	require.NoError(t, err)
	assert.Equal(t, "uses {braces} in a string", result["feedback"])
}

func TestExtractJSON_NestedObjects(t *testing.T) {
	text := `Output:
{
  "score": 4,
  "breakdown": {"Correctness": 4, "Clarity": 5},
  "tags": ["a", "b"]
}
End.`

	result, err := ExtractJSON(text, `"breakdown"`)
	require.NoError(t, err)
	assert.Equal(t, float64(4), result["score"])
	breakdown, ok := result["breakdown"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(5), breakdown["Clarity"])
}

func TestExtractJSON_EscapedQuotes(t *testing.T) {
	text := `{"feedback": "said \"use $A$1\" {ok}", "score": 5}`

	result, err := ExtractJSON(text, `"score"`)
	require.NoError(t, err)
	assert.Equal(t, `said "use $A$1" {ok}`, result["feedback"])
}

func TestExtractJSON_FirstToLastSpan(t *testing.T) {
	text := `prefix {"score": 1} suffix`

	result, err := ExtractJSON(text, `"missing"`)
	require.NoError(t, err)
	assert.Equal(t, float64(1), result["score"])
}

func TestExtractJSON_Failures(t *testing.T) {
	_, err := ExtractJSON("", "")
	assert.ErrorIs(t, err, ErrNoJSON)

	_, err = ExtractJSON("no braces here", "")
	assert.ErrorIs(t, err, ErrNoJSON)

	_, err = ExtractJSON(`{"score": }`, `"score"`)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoJSON)
}

func TestMatchBraces(t *testing.T) {
	tests := []struct {
		in    string
		end   int
		found bool
	}{
		{`{}`, 1, true},
		{`{"a":{"b":1}}x`, 12, true},
		{`{"a":"}"}`, 8, true},
		{`{"a":"\"}"}`, 10, true},
		{`{"a":1`, 0, false},
		{`x{}`, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			end, ok := matchBraces(tt.in)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.end, end)
		})
	}
}
