// Package scorecard derives the report-ready summary of a finished interview.
//
// Aggregate is a pure function of a session snapshot: it performs no I/O,
// draws no random numbers and never mutates its input, so it may be called
// any number of times with identical results.
package scorecard

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/CodexForgeBR/mock-interviewer/internal/state"
)

// Thresholds classify per-skill averages into strengths and weaknesses.
type Thresholds struct {
	Strength float64 `json:"strength"`
	Weakness float64 `json:"weakness"`
}

// DefaultThresholds returns 4.0 for strengths and 2.5 for weaknesses.
func DefaultThresholds() Thresholds {
	return Thresholds{Strength: 4.0, Weakness: 2.5}
}

// Behavioral holds the mean soft-skill ratings across all answers.
type Behavioral struct {
	Clarity        float64 `json:"clarity"`
	Confidence     float64 `json:"confidence"`
	ProblemSolving float64 `json:"problem_solving"`
}

// TimingSummary describes per-question elapsed times and the session wall clock.
type TimingSummary struct {
	AverageSeconds float64 `json:"average_seconds"`
	MinSeconds     float64 `json:"min_seconds"`
	MaxSeconds     float64 `json:"max_seconds"`
	TotalSeconds   float64 `json:"total_seconds"`
}

// Scorecard is the final summary handed to report and persistence sinks.
type Scorecard struct {
	SessionID       string                      `json:"session_id"`
	Candidate       string                      `json:"candidate"`
	QuestionCount   int                         `json:"question_count"`
	OverallScore    float64                     `json:"overall_score"`
	SkillBreakdown  map[state.SkillArea]float64 `json:"skill_breakdown"`
	Strengths       []state.SkillArea           `json:"strengths"`
	Weaknesses      []state.SkillArea           `json:"weaknesses"`
	Behavioral      Behavioral                  `json:"behavioral_averages"`
	Consistency     float64                     `json:"consistency"`
	Timing          TimingSummary               `json:"timing_summary"`
	TabViolations   int                         `json:"tab_violations"`
	Recommendations []string                    `json:"recommendations"`
	StartedAt       time.Time                   `json:"started_at"`
	CompletedAt     time.Time                   `json:"completed_at,omitzero"`
}

// Aggregate computes the scorecard for session s.
func Aggregate(s state.SessionState, th Thresholds) Scorecard {
	card := Scorecard{
		SessionID:      s.ID,
		Candidate:      s.Candidate,
		QuestionCount:  len(s.Transcript),
		SkillBreakdown: make(map[state.SkillArea]float64),
		Strengths:      []state.SkillArea{},
		Weaknesses:     []state.SkillArea{},
		TabViolations:  s.TabViolationCount,
		StartedAt:      s.Timing.SessionStart,
		CompletedAt:    s.Timing.SessionEnd,
	}

	n := len(s.Transcript)
	if n > 0 {
		var total, clarity, confidence, solving float64
		for _, e := range s.Transcript {
			total += float64(e.Evaluation.Score)
			clarity += float64(e.Evaluation.Clarity)
			confidence += float64(e.Evaluation.Confidence)
			solving += float64(e.Evaluation.ProblemSolving)
		}
		card.OverallScore = total / float64(n)
		card.Behavioral = Behavioral{
			Clarity:        clarity / float64(n),
			Confidence:     confidence / float64(n),
			ProblemSolving: solving / float64(n),
		}
	}

	// Skill order follows first appearance so output is stable.
	var order []state.SkillArea
	sums := make(map[state.SkillArea]float64)
	counts := make(map[state.SkillArea]int)
	for _, e := range s.Transcript {
		area := e.Question.SkillArea
		if counts[area] == 0 {
			order = append(order, area)
		}
		sums[area] += float64(e.Evaluation.Score)
		counts[area]++
	}
	for _, area := range order {
		avg := sums[area] / float64(counts[area])
		card.SkillBreakdown[area] = avg
		if avg >= th.Strength {
			card.Strengths = append(card.Strengths, area)
		}
		if avg <= th.Weakness {
			card.Weaknesses = append(card.Weaknesses, area)
		}
	}

	answers := make([]string, n)
	for i, e := range s.Transcript {
		answers[i] = e.Answer
	}
	card.Consistency = ComputeConsistency(answers)
	card.Timing = summarizeTiming(s)
	card.Recommendations = Recommendations(card.Weaknesses)

	return card
}

func summarizeTiming(s state.SessionState) TimingSummary {
	var ts TimingSummary
	if len(s.Timing.Samples) > 0 {
		ts.MinSeconds = math.Inf(1)
		ts.MaxSeconds = math.Inf(-1)
		var sum float64
		for _, v := range s.Timing.Samples {
			sum += v
			ts.MinSeconds = math.Min(ts.MinSeconds, v)
			ts.MaxSeconds = math.Max(ts.MaxSeconds, v)
		}
		ts.AverageSeconds = sum / float64(len(s.Timing.Samples))
	}

	end := s.Timing.SessionEnd
	if end.IsZero() && len(s.Transcript) > 0 {
		end = s.Transcript[len(s.Transcript)-1].AnsweredAt
	}
	if !s.Timing.SessionStart.IsZero() && end.After(s.Timing.SessionStart) {
		ts.TotalSeconds = end.Sub(s.Timing.SessionStart).Seconds()
	}
	return ts
}

// Recommendations returns the next-step advice shown at the end of the report.
func Recommendations(weaknesses []state.SkillArea) []string {
	var out []string
	if len(weaknesses) > 0 {
		names := make([]string, len(weaknesses))
		for i, w := range weaknesses {
			names[i] = string(w)
		}
		out = append(out, fmt.Sprintf("Focus on: %s.", strings.Join(names, ", ")))
	} else {
		out = append(out, "Keep building depth with advanced, scenario-based exercises.")
	}
	return append(out,
		"Practice pivot table scenarios and Power Query for ETL tasks.",
		"Review INDEX/MATCH and dynamic ranges for robust lookups.",
	)
}
