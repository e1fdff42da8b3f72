package state

import (
	"strings"
	"time"
	"unicode"
)

// SchemaVersion is bumped whenever the persisted session layout changes.
const SchemaVersion = 1

// Phase is a position in the interview state machine.
type Phase string

// Phase constants, in the only order a session may visit them.
const (
	PhaseIdle         Phase = "idle"
	PhaseBasic        Phase = "basic"
	PhaseIntermediate Phase = "intermediate"
	PhaseAdvanced     Phase = "advanced"
	PhaseDone         Phase = "done"
)

var phaseOrder = []Phase{PhaseIdle, PhaseBasic, PhaseIntermediate, PhaseAdvanced, PhaseDone}

// Rank returns the position of p in the forward order, or -1 for an unknown phase.
func (p Phase) Rank() int {
	for i, candidate := range phaseOrder {
		if candidate == p {
			return i
		}
	}
	return -1
}

// Valid reports whether p is a known phase.
func (p Phase) Valid() bool {
	return p.Rank() >= 0
}

// Questioning reports whether questions may be issued and answered in p.
func (p Phase) Questioning() bool {
	return p == PhaseBasic || p == PhaseIntermediate || p == PhaseAdvanced
}

// Difficulty returns the question tier targeted while in p.
func (p Phase) Difficulty() Difficulty {
	switch p {
	case PhaseIntermediate:
		return DifficultyIntermediate
	case PhaseAdvanced:
		return DifficultyAdvanced
	default:
		return DifficultyBasic
	}
}

// Difficulty is a question tier.
type Difficulty string

const (
	DifficultyBasic        Difficulty = "basic"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Valid reports whether d is one of the three tiers exactly as spelled.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBasic, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// ParseDifficulty maps free text onto a Difficulty, case-insensitively.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "basic", "easy", "beginner":
		return DifficultyBasic, true
	case "intermediate", "medium":
		return DifficultyIntermediate, true
	case "advanced", "hard", "expert":
		return DifficultyAdvanced, true
	}
	return "", false
}

// SkillArea tags the subject matter of a question.
type SkillArea string

const (
	SkillFormulas     SkillArea = "Formulas"
	SkillPivotTables  SkillArea = "Pivot Tables"
	SkillDataCleaning SkillArea = "Data Cleaning"
	SkillProtection   SkillArea = "Productivity/Protection"
	SkillReporting    SkillArea = "Reporting"
)

// SkillRegistry is the fixed set of skill areas questions are drawn from.
var SkillRegistry = []SkillArea{
	SkillFormulas,
	SkillPivotTables,
	SkillDataCleaning,
	SkillProtection,
	SkillReporting,
}

var skillAliases = map[string]SkillArea{
	"formulas":               SkillFormulas,
	"formula":                SkillFormulas,
	"pivottables":            SkillPivotTables,
	"pivottable":             SkillPivotTables,
	"pivots":                 SkillPivotTables,
	"datacleaning":           SkillDataCleaning,
	"cleaning":               SkillDataCleaning,
	"productivityprotection": SkillProtection,
	"protection":             SkillProtection,
	"productivity":           SkillProtection,
	"reporting":              SkillReporting,
	"reports":                SkillReporting,
}

// ParseSkillArea resolves a loosely formatted skill tag to a registered area.
func ParseSkillArea(s string) (SkillArea, bool) {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	area, ok := skillAliases[b.String()]
	return area, ok
}

// Question is issued by a question source and never mutated afterwards.
type Question struct {
	ID              string     `json:"id"`
	Text            string     `json:"text"`
	Difficulty      Difficulty `json:"difficulty"`
	SkillArea       SkillArea  `json:"skill_area"`
	ReferenceAnswer string     `json:"reference_answer"`
}

// Breakdown criteria.
const (
	CriterionCorrectness  = "Correctness"
	CriterionEfficiency   = "Efficiency"
	CriterionClarity      = "Clarity"
	CriterionCompleteness = "Completeness"
)

// Criteria lists the breakdown keys every Evaluation carries.
var Criteria = []string{CriterionCorrectness, CriterionEfficiency, CriterionClarity, CriterionCompleteness}

// Score bounds shared by every rating in an Evaluation.
const (
	MinScore     = 1
	MaxScore     = 5
	NeutralScore = 3
)

// Evaluation is the graded result of one main answer.
type Evaluation struct {
	Score          int            `json:"score"`
	Breakdown      map[string]int `json:"breakdown"`
	Feedback       string         `json:"feedback"`
	FollowupPrompt string         `json:"followup_prompt,omitempty"`
	Clarity        int            `json:"clarity"`
	Confidence     int            `json:"confidence"`
	ProblemSolving int            `json:"problem_solving"`
}

// NeutralEvaluation is substituted whenever grading fails or times out.
func NeutralEvaluation() Evaluation {
	breakdown := make(map[string]int, len(Criteria))
	for _, c := range Criteria {
		breakdown[c] = NeutralScore
	}
	return Evaluation{
		Score:          NeutralScore,
		Breakdown:      breakdown,
		Clarity:        NeutralScore,
		Confidence:     NeutralScore,
		ProblemSolving: NeutralScore,
	}
}

// TranscriptEntry is one completed question/answer pair.
type TranscriptEntry struct {
	Question         Question   `json:"question"`
	Answer           string     `json:"answer"`
	Evaluation       Evaluation `json:"evaluation"`
	FollowupPrompt   string     `json:"followup_prompt,omitempty"`
	FollowupAnswer   *string    `json:"followup_answer,omitempty"`
	TimeTakenSeconds float64    `json:"time_taken_seconds"`
	AnsweredAt       time.Time  `json:"answered_at"`
}

// Timing holds per-question samples and the session wall clock.
type Timing struct {
	SessionStart     time.Time `json:"session_start"`
	SessionEnd       time.Time `json:"session_end,omitzero"`
	QuestionIssuedAt time.Time `json:"question_issued_at,omitzero"`
	Samples          []float64 `json:"samples"`
}

// Violation is a single focus-loss event reported by the UI.
type Violation struct {
	Kind string    `json:"kind"`
	At   time.Time `json:"at"`
}

// SessionState is the complete mutable state of one interview.
// Only the interview controller writes to it.
type SessionState struct {
	SchemaVersion     int               `json:"schema_version"`
	ID                string            `json:"id"`
	Candidate         string            `json:"candidate"`
	Phase             Phase             `json:"phase"`
	PhaseHistory      []Phase           `json:"phase_history"`
	Transcript        []TranscriptEntry `json:"transcript"`
	AskedSkillAreas   []SkillArea       `json:"asked_skill_areas"`
	CurrentQuestion   *Question         `json:"current_question,omitempty"`
	PendingFollowup   string            `json:"pending_followup,omitempty"`
	FollowupBudget    int               `json:"followup_budget"`
	FollowupsAsked    int               `json:"followups_asked"`
	Timing            Timing            `json:"timing"`
	TabViolationCount int               `json:"tab_violation_count"`
	Violations        []Violation       `json:"violations,omitempty"`
	IntroShown        Phase             `json:"intro_shown,omitempty"`
	TranscriptDigest  string            `json:"transcript_digest"`
	LastUpdated       time.Time         `json:"last_updated"`
}

// Status constants
const (
	StatusNotStarted = "NOT_STARTED"
	StatusInProgress = "IN_PROGRESS"
	StatusComplete   = "COMPLETE"
)

// NewSessionState returns a fresh idle session.
func NewSessionState(id string) *SessionState {
	return &SessionState{
		SchemaVersion: SchemaVersion,
		ID:            id,
		Phase:         PhaseIdle,
		PhaseHistory:  []Phase{PhaseIdle},
	}
}

// Status summarizes the lifecycle position of the session.
func (s SessionState) Status() string {
	switch s.Phase {
	case PhaseIdle:
		return StatusNotStarted
	case PhaseDone:
		return StatusComplete
	default:
		return StatusInProgress
	}
}

// Answered is the number of completed question/answer pairs.
func (s SessionState) Answered() int {
	return len(s.Transcript)
}

// HasPendingFollowup reports whether a follow-up is awaiting its answer.
func (s SessionState) HasPendingFollowup() bool {
	return s.PendingFollowup != ""
}

// AverageScore returns the mean evaluation score, and false when nothing has been answered.
func (s SessionState) AverageScore() (float64, bool) {
	if len(s.Transcript) == 0 {
		return 0, false
	}
	total := 0
	for _, e := range s.Transcript {
		total += e.Evaluation.Score
	}
	return float64(total) / float64(len(s.Transcript)), true
}

// Clone returns a deep copy safe to hand to read-only consumers.
func (s *SessionState) Clone() SessionState {
	c := *s
	c.PhaseHistory = append([]Phase(nil), s.PhaseHistory...)
	c.AskedSkillAreas = append([]SkillArea(nil), s.AskedSkillAreas...)
	c.Timing.Samples = append([]float64(nil), s.Timing.Samples...)
	c.Violations = append([]Violation(nil), s.Violations...)
	if s.CurrentQuestion != nil {
		q := *s.CurrentQuestion
		c.CurrentQuestion = &q
	}
	if s.Transcript != nil {
		c.Transcript = make([]TranscriptEntry, len(s.Transcript))
		for i, e := range s.Transcript {
			c.Transcript[i] = e.clone()
		}
	}
	return c
}

func (e TranscriptEntry) clone() TranscriptEntry {
	c := e
	if e.Evaluation.Breakdown != nil {
		c.Evaluation.Breakdown = make(map[string]int, len(e.Evaluation.Breakdown))
		for k, v := range e.Evaluation.Breakdown {
			c.Evaluation.Breakdown[k] = v
		}
	}
	if e.FollowupAnswer != nil {
		a := *e.FollowupAnswer
		c.FollowupAnswer = &a
	}
	return c
}
