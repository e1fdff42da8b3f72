package parser

import (
	"fmt"
	"math"

	"github.com/CodexForgeBR/mock-interviewer/internal/state"
)

// ParseEvaluation parses a grading reply into a complete Evaluation.
//
// Defaults, applied in order:
//   - missing breakdown criteria take the overall score, or 3 without one
//   - a missing score is the rounded mean of the breakdown
//   - clarity defaults to the Clarity criterion
//   - problem_solving defaults to the Correctness criterion
//   - confidence defaults to 3
//
// Every rating is clamped to 1..5. A reply with neither a score nor a
// breakdown is rejected.
func ParseEvaluation(text string) (state.Evaluation, error) {
	raw, err := ExtractJSON(text, `"score"`)
	if err != nil {
		raw, err = ExtractJSON(text, `"breakdown"`)
	}
	if err != nil {
		return state.Evaluation{}, fmt.Errorf("evaluation: %w", err)
	}

	score, hasScore := intField(raw, "score", "overall_score")
	rawBreakdown, hasBreakdown := objectField(raw, "breakdown", "scores")
	if !hasScore && !hasBreakdown {
		return state.Evaluation{}, fmt.Errorf("evaluation: reply has neither score nor breakdown")
	}

	fill := state.NeutralScore
	if hasScore {
		fill = clamp(score, state.MinScore, state.MaxScore)
	}
	breakdown := make(map[string]int, len(state.Criteria))
	total := 0
	for _, c := range state.Criteria {
		v, ok := intField(rawBreakdown, c)
		if !ok {
			v = fill
		}
		breakdown[c] = clamp(v, state.MinScore, state.MaxScore)
		total += breakdown[c]
	}
	if !hasScore {
		score = int(math.Round(float64(total) / float64(len(state.Criteria))))
	}

	ev := state.Evaluation{
		Score:     clamp(score, state.MinScore, state.MaxScore),
		Breakdown: breakdown,
	}
	ev.Feedback, _ = stringField(raw, "feedback")
	ev.FollowupPrompt, _ = stringField(raw, "followup", "followup_prompt", "follow_up")

	if v, ok := intField(raw, "clarity"); ok {
		ev.Clarity = clamp(v, state.MinScore, state.MaxScore)
	} else {
		ev.Clarity = breakdown[state.CriterionClarity]
	}
	if v, ok := intField(raw, "confidence"); ok {
		ev.Confidence = clamp(v, state.MinScore, state.MaxScore)
	} else {
		ev.Confidence = state.NeutralScore
	}
	if v, ok := intField(raw, "problem_solving"); ok {
		ev.ProblemSolving = clamp(v, state.MinScore, state.MaxScore)
	} else {
		ev.ProblemSolving = breakdown[state.CriterionCorrectness]
	}

	return ev, nil
}
