package phases

import "github.com/CodexForgeBR/mock-interviewer/internal/state"

// ProgressionInput contains the data needed to decide what follows a completed answer.
type ProgressionInput struct {
	Phase    state.Phase
	Answered int
	AvgScore float64
	HasAvg   bool
	Policy   Policy
}

// ProgressionResult contains the outcome of the progression decision.
type ProgressionResult struct {
	Next   state.Phase
	Plan   Plan
	Reason string
}

// Advanced reports whether the decision leaves the current phase.
func (r ProgressionResult) Advanced(from state.Phase) bool {
	return r.Next != from
}

// Decide applies the phase-length plan and the question bounds. It never moves backward.
func Decide(in ProgressionInput) ProgressionResult {
	plan := in.Policy.PlanFor(in.AvgScore, in.HasAvg)

	if in.Answered >= in.Policy.MaxQuestions {
		return ProgressionResult{Next: state.PhaseDone, Plan: plan, Reason: "question ceiling reached"}
	}

	if in.Answered < plan.End(in.Phase) {
		return ProgressionResult{Next: in.Phase, Plan: plan, Reason: "phase allotment not used"}
	}

	next := plan.NextPhase(in.Phase)
	if next == state.PhaseDone && in.Answered < in.Policy.MinQuestions {
		// Plan is exhausted but the floor is not: keep asking at the current tier.
		return ProgressionResult{Next: in.Phase, Plan: plan, Reason: "question floor not reached"}
	}
	if next == state.PhaseDone {
		return ProgressionResult{Next: next, Plan: plan, Reason: "plan complete"}
	}
	return ProgressionResult{Next: next, Plan: plan, Reason: "phase allotment used"}
}
