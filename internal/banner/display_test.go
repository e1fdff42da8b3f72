package banner

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/CodexForgeBR/mock-interviewer/internal/scorecard"
	"github.com/CodexForgeBR/mock-interviewer/internal/state"
)

func init() {
	color.NoColor = true
}

// capture collects banner output produced by fn.
func capture(t *testing.T, fn func()) string {
	t.Helper()
	var buf bytes.Buffer
	old := Out
	Out = &buf
	defer func() { Out = old }()
	fn()
	return buf.String()
}

func TestPrintStartupBanner(t *testing.T) {
	tests := []struct {
		name         string
		candidate    string
		backend      string
		model        string
		expectedText []string
	}{
		{
			name:         "with model",
			candidate:    "Ada",
			backend:      "anthropic",
			model:        "claude-sonnet-4-5",
			expectedText: []string{"Adaptive Excel Mock Interview", "Session:    s-1", "Candidate:  Ada", "anthropic (claude-sonnet-4-5)", "Questions:  4-7"},
		},
		{
			name:         "no model, no name",
			backend:      "none",
			expectedText: []string{"Candidate:  candidate", "Grader:     none\n"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := capture(t, func() { PrintStartupBanner("s-1", tt.candidate, tt.backend, tt.model, 4, 7) })
			for _, want := range tt.expectedText {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestPrintQuestionAndFollowup(t *testing.T) {
	out := capture(t, func() {
		PrintPhaseIntro(state.PhaseBasic, "Hello Ada.")
		PrintQuestion(2, state.Question{Text: "What is XLOOKUP?", SkillArea: state.SkillFormulas, Difficulty: state.DifficultyIntermediate})
		PrintEvaluation(state.Evaluation{Score: 3, Feedback: "Mention the default exact match."})
		PrintFollowup("When would it return #N/A?")
	})
	assert.Contains(t, out, "▶ BASIC round")
	assert.Contains(t, out, "Hello Ada.")
	assert.Contains(t, out, "Q2. What is XLOOKUP?")
	assert.Contains(t, out, "[Formulas · intermediate]")
	assert.Contains(t, out, "Score: 3/5")
	assert.Contains(t, out, "Mention the default exact match.")
	assert.Contains(t, out, "Follow-up: When would it return #N/A?")
}

func TestPrintScorecard(t *testing.T) {
	card := scorecard.Scorecard{
		Candidate:     "Ada",
		QuestionCount: 4,
		OverallScore:  3.75,
		SkillBreakdown: map[state.SkillArea]float64{
			state.SkillFormulas:    4.5,
			state.SkillPivotTables: 2,
		},
		Strengths:       []state.SkillArea{state.SkillFormulas},
		Weaknesses:      []state.SkillArea{state.SkillPivotTables},
		Behavioral:      scorecard.Behavioral{Clarity: 4, Confidence: 3.5, ProblemSolving: 3},
		Consistency:     0.25,
		Timing:          scorecard.TimingSummary{AverageSeconds: 30, MinSeconds: 10, MaxSeconds: 50, TotalSeconds: 150},
		TabViolations:   2,
		Recommendations: []string{"Focus on: Pivot Tables."},
	}
	out := capture(t, func() { PrintScorecard(card) })

	assert.Contains(t, out, "Interview complete: Ada")
	assert.Contains(t, out, "3.8/5 over 4 questions")
	assert.Contains(t, out, "Formulas")
	assert.Contains(t, out, "4.5")
	assert.Contains(t, out, "Strengths:    Formulas")
	assert.Contains(t, out, "Weaknesses:   Pivot Tables")
	assert.Contains(t, out, "Consistency:  0.25")
	assert.Contains(t, out, "avg 30s, min 10s, max 50s, total 2m 30s")
	assert.Contains(t, out, "Tab switches: 2")
	assert.Contains(t, out, "- Focus on: Pivot Tables.")
	assert.NotContains(t, out, "Reporting", "skills never asked are not listed")
}

func TestPrintScorecardEmpty(t *testing.T) {
	out := capture(t, func() { PrintScorecard(scorecard.Scorecard{}) })
	assert.Contains(t, out, "Interview complete: candidate")
	assert.Contains(t, out, "Strengths:    none")
	assert.Contains(t, out, "Tab switches: 0")
}

func TestPrintTranscript(t *testing.T) {
	answer := "Use an example."
	out := capture(t, func() {
		PrintTranscript([]state.TranscriptEntry{{
			Question:         state.Question{Text: "Explain $A$1.", SkillArea: state.SkillFormulas, Difficulty: state.DifficultyBasic},
			Answer:           "It is absolute.",
			Evaluation:       state.Evaluation{Score: 4, Feedback: "Good."},
			FollowupPrompt:   "Give an example.",
			FollowupAnswer:   &answer,
			TimeTakenSeconds: 75,
		}})
	})
	assert.Contains(t, out, "Q1. Explain $A$1.")
	assert.Contains(t, out, "1m 15s")
	assert.Contains(t, out, "A: It is absolute.")
	assert.Contains(t, out, "Score 4/5: Good.")
	assert.Contains(t, out, "Follow-up: Give an example.")
	assert.Contains(t, out, "A: Use an example.")
}

func TestPrintInterruptedAndResumeFailed(t *testing.T) {
	out := capture(t, func() { PrintInterruptedBanner("s-9", 2) })
	assert.Contains(t, out, "Session interrupted")
	assert.Contains(t, out, "Answered: 2")
	assert.Contains(t, out, "--resume s-9")

	out = capture(t, func() { PrintResumeFailedBanner("s-9", errors.New("digest mismatch")) })
	assert.Contains(t, out, "Session could not be resumed")
	assert.Contains(t, out, "digest mismatch")
}

func TestPrintStatusBanner(t *testing.T) {
	s := state.SessionState{
		ID:                "s-1",
		Candidate:         "Ada",
		Phase:             state.PhaseIntermediate,
		PendingFollowup:   "Why?",
		TabViolationCount: 1,
		Transcript: []state.TranscriptEntry{
			{Evaluation: state.Evaluation{Score: 4}},
			{Evaluation: state.Evaluation{Score: 3}},
		},
		LastUpdated: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
	}
	out := capture(t, func() { PrintStatusBanner(s) })
	assert.Contains(t, out, "Status:    IN_PROGRESS")
	assert.Contains(t, out, "Phase:     intermediate")
	assert.Contains(t, out, "Answered:  2")
	assert.Contains(t, out, "Average:   3.5")
	assert.Contains(t, out, "Pending:   Why?")
	assert.Contains(t, out, "Tab switches: 1")
	assert.Contains(t, out, "2026-03-01 09:30:00 UTC")
}
