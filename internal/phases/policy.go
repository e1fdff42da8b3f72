package phases

import (
	"fmt"

	"github.com/CodexForgeBR/mock-interviewer/internal/state"
)

// Plan is the number of questions allotted to each questioning phase.
type Plan struct {
	Basic        int `json:"basic" koanf:"basic"`
	Intermediate int `json:"intermediate" koanf:"intermediate"`
	Advanced     int `json:"advanced" koanf:"advanced"`
}

// Count returns the allotment for phase p. Non-questioning phases have none.
func (pl Plan) Count(p state.Phase) int {
	switch p {
	case state.PhaseBasic:
		return pl.Basic
	case state.PhaseIntermediate:
		return pl.Intermediate
	case state.PhaseAdvanced:
		return pl.Advanced
	}
	return 0
}

// End is the cumulative number of answers after which phase p is complete.
func (pl Plan) End(p state.Phase) int {
	switch p {
	case state.PhaseBasic:
		return pl.Basic
	case state.PhaseIntermediate:
		return pl.Basic + pl.Intermediate
	case state.PhaseAdvanced:
		return pl.Basic + pl.Intermediate + pl.Advanced
	}
	return 0
}

// Total is the number of questions the plan asks for.
func (pl Plan) Total() int {
	return pl.End(state.PhaseAdvanced)
}

// NextPhase returns the first phase after p with a non-zero allotment,
// or PhaseDone when every later phase is empty.
func (pl Plan) NextPhase(p state.Phase) state.Phase {
	for _, candidate := range []state.Phase{state.PhaseBasic, state.PhaseIntermediate, state.PhaseAdvanced} {
		if candidate.Rank() > p.Rank() && pl.Count(candidate) > 0 {
			return candidate
		}
	}
	return state.PhaseDone
}

func (pl Plan) validate() error {
	if pl.Basic < 0 || pl.Intermediate < 0 || pl.Advanced < 0 {
		return fmt.Errorf("plan %+v has a negative count", pl)
	}
	return nil
}

// Bracket maps an inclusive average-score range to a plan.
type Bracket struct {
	MinAvg float64 `json:"min_avg" koanf:"min_avg"`
	MaxAvg float64 `json:"max_avg" koanf:"max_avg"`
	Plan   Plan    `json:"plan" koanf:"plan"`
}

// Contains reports whether avg falls inside the bracket.
func (b Bracket) Contains(avg float64) bool {
	return avg >= b.MinAvg && avg <= b.MaxAvg
}

// Policy is the complete, configurable progression policy for one session.
type Policy struct {
	Default             Plan
	Brackets            []Bracket
	MinQuestions        int
	MaxQuestions        int
	FollowupProbability float64
	FollowupBudget      int
}

// DefaultPolicy reproduces the single-page adaptive interview:
// strong candidates (avg >= 4.0) get 1/2/1, weak ones (avg <= 2.5) get 3/1/0,
// everyone else 2/2/0, bounded to exactly four questions.
func DefaultPolicy() Policy {
	return Policy{
		Default: Plan{Basic: 2, Intermediate: 2, Advanced: 0},
		Brackets: []Bracket{
			{MinAvg: 4.0, MaxAvg: 5.0, Plan: Plan{Basic: 1, Intermediate: 2, Advanced: 1}},
			{MinAvg: 0, MaxAvg: 2.5, Plan: Plan{Basic: 3, Intermediate: 1, Advanced: 0}},
		},
		MinQuestions:        4,
		MaxQuestions:        4,
		FollowupProbability: 0.35,
		FollowupBudget:      1,
	}
}

// PlanFor returns the plan for the running average. ok=false means no answers yet.
func (p Policy) PlanFor(avg float64, ok bool) Plan {
	if !ok {
		return p.Default
	}
	for _, b := range p.Brackets {
		if b.Contains(avg) {
			return b.Plan
		}
	}
	return p.Default
}

// Validate rejects policies that could never terminate or would violate the bounds.
func (p Policy) Validate() error {
	if p.MinQuestions < 1 {
		return fmt.Errorf("min questions must be at least 1, got %d", p.MinQuestions)
	}
	if p.MaxQuestions < p.MinQuestions {
		return fmt.Errorf("max questions (%d) must not be below min questions (%d)", p.MaxQuestions, p.MinQuestions)
	}
	if p.FollowupProbability < 0 || p.FollowupProbability > 1 {
		return fmt.Errorf("follow-up probability must be within [0,1], got %g", p.FollowupProbability)
	}
	if p.FollowupBudget < 0 {
		return fmt.Errorf("follow-up budget must not be negative, got %d", p.FollowupBudget)
	}
	if err := p.Default.validate(); err != nil {
		return fmt.Errorf("default %w", err)
	}
	for i, b := range p.Brackets {
		if b.MinAvg > b.MaxAvg {
			return fmt.Errorf("bracket %d: min_avg %g exceeds max_avg %g", i, b.MinAvg, b.MaxAvg)
		}
		if err := b.Plan.validate(); err != nil {
			return fmt.Errorf("bracket %d: %w", i, err)
		}
	}
	return nil
}
