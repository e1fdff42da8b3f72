package scorecard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/mock-interviewer/internal/state"
)

var start = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

func entry(skill state.SkillArea, score int, answer string, secs float64) state.TranscriptEntry {
	return state.TranscriptEntry{
		Question: state.Question{ID: string(skill), SkillArea: skill},
		Answer:   answer,
		Evaluation: state.Evaluation{
			Score:          score,
			Clarity:        score,
			Confidence:     3,
			ProblemSolving: 5,
		},
		TimeTakenSeconds: secs,
	}
}

func finished(entries ...state.TranscriptEntry) state.SessionState {
	s := state.NewSessionState("card-1")
	s.Candidate = "Grace"
	s.Phase = state.PhaseDone
	s.Timing.SessionStart = start
	s.Timing.SessionEnd = start.Add(10 * time.Minute)
	s.TabViolationCount = 2
	s.Transcript = entries
	for _, e := range entries {
		s.Timing.Samples = append(s.Timing.Samples, e.TimeTakenSeconds)
		s.AskedSkillAreas = append(s.AskedSkillAreas, e.Question.SkillArea)
	}
	return *s
}

func TestAggregateEmptyTranscript(t *testing.T) {
	s := state.NewSessionState("empty")
	card := Aggregate(*s, DefaultThresholds())

	assert.Equal(t, 0.0, card.OverallScore)
	assert.Empty(t, card.SkillBreakdown)
	assert.Empty(t, card.Strengths)
	assert.Empty(t, card.Weaknesses)
	assert.Equal(t, 1.0, card.Consistency)
	assert.Equal(t, TimingSummary{}, card.Timing)
	assert.Equal(t, Behavioral{}, card.Behavioral)
}

func TestAggregateScores(t *testing.T) {
	s := finished(
		entry(state.SkillFormulas, 5, "use absolute references with dollar signs", 20),
		entry(state.SkillFormulas, 4, "absolute references keep dollar signs fixed", 40),
		entry(state.SkillPivotTables, 2, "not sure", 90),
		entry(state.SkillDataCleaning, 3, "remove duplicates then filter blanks", 50),
	)
	card := Aggregate(s, DefaultThresholds())

	assert.Equal(t, "card-1", card.SessionID)
	assert.Equal(t, "Grace", card.Candidate)
	assert.Equal(t, 4, card.QuestionCount)
	assert.InDelta(t, 3.5, card.OverallScore, 1e-9)
	assert.Equal(t, map[state.SkillArea]float64{
		state.SkillFormulas:     4.5,
		state.SkillPivotTables:  2,
		state.SkillDataCleaning: 3,
	}, card.SkillBreakdown)
	assert.Equal(t, []state.SkillArea{state.SkillFormulas}, card.Strengths)
	assert.Equal(t, []state.SkillArea{state.SkillPivotTables}, card.Weaknesses)

	assert.InDelta(t, 3.5, card.Behavioral.Clarity, 1e-9)
	assert.InDelta(t, 3.0, card.Behavioral.Confidence, 1e-9)
	assert.InDelta(t, 5.0, card.Behavioral.ProblemSolving, 1e-9)

	assert.InDelta(t, 50.0, card.Timing.AverageSeconds, 1e-9)
	assert.Equal(t, 20.0, card.Timing.MinSeconds)
	assert.Equal(t, 90.0, card.Timing.MaxSeconds)
	assert.Equal(t, 600.0, card.Timing.TotalSeconds)
	assert.Equal(t, 2, card.TabViolations)
	assert.Equal(t, start, card.StartedAt)

	require.NotEmpty(t, card.Recommendations)
	assert.Equal(t, "Focus on: Pivot Tables.", card.Recommendations[0])
}

func TestAggregateThresholdsAreInclusive(t *testing.T) {
	s := finished(
		entry(state.SkillFormulas, 4, "a", 1),
		entry(state.SkillReporting, 2, "b", 1),
		entry(state.SkillReporting, 3, "c", 1),
	)
	card := Aggregate(s, Thresholds{Strength: 4.0, Weakness: 2.5})
	assert.Equal(t, []state.SkillArea{state.SkillFormulas}, card.Strengths)
	assert.Equal(t, []state.SkillArea{state.SkillReporting}, card.Weaknesses)
}

func TestAggregateBalancedHasNoStrengthsOrWeaknesses(t *testing.T) {
	s := finished(
		entry(state.SkillFormulas, 3, "a", 1),
		entry(state.SkillPivotTables, 3, "b", 1),
	)
	card := Aggregate(s, DefaultThresholds())
	assert.Empty(t, card.Strengths)
	assert.Empty(t, card.Weaknesses)
	assert.Contains(t, card.Recommendations[0], "advanced")
}

func TestAggregateIsIdempotent(t *testing.T) {
	s := finished(
		entry(state.SkillFormulas, 5, "alpha beta gamma", 12),
		entry(state.SkillProtection, 1, "gamma delta", 30),
		entry(state.SkillReporting, 3, "delta epsilon alpha", 44),
	)
	before := s.Clone()

	first := Aggregate(s, DefaultThresholds())
	second := Aggregate(s, DefaultThresholds())

	assert.Equal(t, first, second)
	assert.Equal(t, before, s.Clone())
}

func TestTotalDurationFallsBackToLastAnswer(t *testing.T) {
	s := finished(entry(state.SkillFormulas, 3, "a", 5))
	s.Timing.SessionEnd = time.Time{}
	s.Transcript[0].AnsweredAt = start.Add(90 * time.Second)

	card := Aggregate(s, DefaultThresholds())
	assert.Equal(t, 90.0, card.Timing.TotalSeconds)
	assert.True(t, card.CompletedAt.IsZero())
}
