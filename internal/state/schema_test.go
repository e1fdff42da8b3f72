package state

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stringPtr(s string) *string { return &s }

// sampleSession builds a consistent two-answer session in the intermediate phase.
func sampleSession() *SessionState {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s := NewSessionState("sess-1")
	s.Candidate = "Ada"
	s.Phase = PhaseIntermediate
	s.PhaseHistory = []Phase{PhaseIdle, PhaseBasic, PhaseIntermediate}
	s.FollowupBudget = 0
	s.FollowupsAsked = 1
	s.Timing.SessionStart = start
	s.Transcript = []TranscriptEntry{
		{
			Question:         Question{ID: "1", Text: "What does VLOOKUP do?", Difficulty: DifficultyBasic, SkillArea: SkillFormulas},
			Answer:           "It looks up a value",
			Evaluation:       NeutralEvaluation(),
			FollowupPrompt:   "Which column does it return?",
			FollowupAnswer:   stringPtr("the index column"),
			TimeTakenSeconds: 30,
			AnsweredAt:       start.Add(30 * time.Second),
		},
		{
			Question:         Question{ID: "3", Text: "Remove duplicates?", Difficulty: DifficultyIntermediate, SkillArea: SkillDataCleaning},
			Answer:           "Data tab, remove duplicates",
			Evaluation:       Evaluation{Score: 4, Breakdown: map[string]int{CriterionCorrectness: 4}, Clarity: 4, Confidence: 4, ProblemSolving: 4},
			TimeTakenSeconds: 45,
			AnsweredAt:       start.Add(2 * time.Minute),
		},
	}
	s.AskedSkillAreas = []SkillArea{SkillFormulas, SkillDataCleaning}
	s.Timing.Samples = []float64{30, 45}
	return s
}

func TestPhaseRank(t *testing.T) {
	tests := []struct {
		phase Phase
		rank  int
	}{
		{PhaseIdle, 0},
		{PhaseBasic, 1},
		{PhaseIntermediate, 2},
		{PhaseAdvanced, 3},
		{PhaseDone, 4},
		{Phase("bogus"), -1},
	}
	for _, tt := range tests {
		t.Run(string(tt.phase), func(t *testing.T) {
			assert.Equal(t, tt.rank, tt.phase.Rank())
			assert.Equal(t, tt.rank >= 0, tt.phase.Valid())
		})
	}
}

func TestPhaseQuestioningAndDifficulty(t *testing.T) {
	assert.False(t, PhaseIdle.Questioning())
	assert.True(t, PhaseBasic.Questioning())
	assert.True(t, PhaseIntermediate.Questioning())
	assert.True(t, PhaseAdvanced.Questioning())
	assert.False(t, PhaseDone.Questioning())

	assert.Equal(t, DifficultyBasic, PhaseBasic.Difficulty())
	assert.Equal(t, DifficultyIntermediate, PhaseIntermediate.Difficulty())
	assert.Equal(t, DifficultyAdvanced, PhaseAdvanced.Difficulty())
}

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		in   string
		want Difficulty
		ok   bool
	}{
		{"basic", DifficultyBasic, true},
		{" Intermediate ", DifficultyIntermediate, true},
		{"HARD", DifficultyAdvanced, true},
		{"", "", false},
		{"impossible", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDifficulty(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDifficultyValid(t *testing.T) {
	for _, d := range []Difficulty{DifficultyBasic, DifficultyIntermediate, DifficultyAdvanced} {
		assert.True(t, d.Valid(), d)
	}
	for _, d := range []Difficulty{"expert", "easy", "Basic", ""} {
		assert.False(t, d.Valid(), d)
	}
}

func TestParseSkillArea(t *testing.T) {
	tests := []struct {
		in   string
		want SkillArea
		ok   bool
	}{
		{"Formulas", SkillFormulas, true},
		{"pivot tables", SkillPivotTables, true},
		{"PivotTables", SkillPivotTables, true},
		{"Data-Cleaning", SkillDataCleaning, true},
		{"Productivity/Protection", SkillProtection, true},
		{"protection", SkillProtection, true},
		{"reporting", SkillReporting, true},
		{"Macros", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseSkillArea(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSkillRegistryRoundTripsThroughParse(t *testing.T) {
	for _, area := range SkillRegistry {
		got, ok := ParseSkillArea(string(area))
		assert.True(t, ok, area)
		assert.Equal(t, area, got)
	}
}

func TestNeutralEvaluation(t *testing.T) {
	e := NeutralEvaluation()
	assert.Equal(t, 3, e.Score)
	assert.Equal(t, 3, e.Clarity)
	assert.Equal(t, 3, e.Confidence)
	assert.Equal(t, 3, e.ProblemSolving)
	assert.Empty(t, e.Feedback)
	assert.Empty(t, e.FollowupPrompt)
	require.Len(t, e.Breakdown, len(Criteria))
	for _, c := range Criteria {
		assert.Equal(t, 3, e.Breakdown[c], c)
	}
}

func TestStatus(t *testing.T) {
	s := NewSessionState("x")
	assert.Equal(t, StatusNotStarted, s.Status())
	s.Phase = PhaseAdvanced
	assert.Equal(t, StatusInProgress, s.Status())
	s.Phase = PhaseDone
	assert.Equal(t, StatusComplete, s.Status())
}

func TestAverageScore(t *testing.T) {
	s := NewSessionState("x")
	_, ok := s.AverageScore()
	assert.False(t, ok)

	s = sampleSession()
	avg, ok := s.AverageScore()
	assert.True(t, ok)
	assert.InDelta(t, 3.5, avg, 1e-9)
	assert.Equal(t, 2, s.Answered())
}

func TestCloneIsDeep(t *testing.T) {
	s := sampleSession()
	q := Question{ID: "9", SkillArea: SkillReporting}
	s.CurrentQuestion = &q

	c := s.Clone()
	c.Transcript[0].Evaluation.Breakdown[CriterionCorrectness] = 1
	*c.Transcript[0].FollowupAnswer = "changed"
	c.AskedSkillAreas[0] = SkillReporting
	c.Timing.Samples[0] = 999
	c.CurrentQuestion.Text = "changed"
	c.PhaseHistory[0] = PhaseDone

	assert.Equal(t, 3, s.Transcript[0].Evaluation.Breakdown[CriterionCorrectness])
	assert.Equal(t, "the index column", *s.Transcript[0].FollowupAnswer)
	assert.Equal(t, SkillFormulas, s.AskedSkillAreas[0])
	assert.Equal(t, 30.0, s.Timing.Samples[0])
	assert.Empty(t, s.CurrentQuestion.Text)
	assert.Equal(t, PhaseIdle, s.PhaseHistory[0])
}

func TestQueriesOnClonedValue(t *testing.T) {
	s := sampleSession()
	s.PendingFollowup = "Why that column?"

	// Queries must work directly on the value a snapshot returns.
	assert.Equal(t, 2, s.Clone().Answered())
	assert.True(t, s.Clone().HasPendingFollowup())
	assert.Equal(t, StatusInProgress, s.Clone().Status())
	avg, ok := s.Clone().AverageScore()
	require.True(t, ok)
	assert.InDelta(t, 3.5, avg, 1e-9)
}

func TestSessionStateJSONRoundTrip(t *testing.T) {
	s := sampleSession()
	data, err := json.Marshal(s)
	require.NoError(t, err)

	var got SessionState
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, s.Transcript, got.Transcript)
	assert.Equal(t, s.Phase, got.Phase)
	assert.Nil(t, got.Transcript[1].FollowupAnswer)
	assert.NotContains(t, string(data), "session_end")
}
