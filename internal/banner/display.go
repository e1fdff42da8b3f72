// Package banner provides colored terminal display for the interviewer CLI.
//
// Banner functions write to Out (stdout by default) with color-coded headers
// and separators: the startup banner, phase intros, questions, follow-ups,
// per-answer feedback, the final scorecard and session status.
package banner

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/CodexForgeBR/mock-interviewer/internal/logging"
	"github.com/CodexForgeBR/mock-interviewer/internal/scorecard"
	"github.com/CodexForgeBR/mock-interviewer/internal/state"
)

// Out receives all banner output.
var Out io.Writer = os.Stdout

var (
	headerColor  = color.New(color.FgCyan, color.Bold).SprintFunc()
	successColor = color.New(color.FgGreen, color.Bold).SprintFunc()
	errorColor   = color.New(color.FgRed, color.Bold).SprintFunc()
	warnColor    = color.New(color.FgYellow, color.Bold).SprintFunc()
	dimColor     = color.New(color.Faint).SprintFunc()
)

const rule = "═══════════════════════════════════════════════════"

func line(a ...any)                 { fmt.Fprintln(Out, a...) }
func linef(format string, a ...any) { fmt.Fprintf(Out, format, a...) }

// PrintStartupBanner displays the startup banner with session info.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  interviewer - Adaptive Excel Mock Interview
//	═══════════════════════════════════════════════════
//	  Session:    5f0c...
//	  Candidate:  Ada
//	  Grader:     anthropic (claude-sonnet-4-5)
//	  Questions:  4-4
//	═══════════════════════════════════════════════════
func PrintStartupBanner(sessionID, candidate, backend, model string, minQ, maxQ int) {
	sep := headerColor(rule)
	line(sep)
	line(headerColor("  interviewer - Adaptive Excel Mock Interview"))
	line(sep)
	linef("  Session:    %s\n", sessionID)
	linef("  Candidate:  %s\n", displayName(candidate))
	if model != "" {
		linef("  Grader:     %s (%s)\n", backend, model)
	} else {
		linef("  Grader:     %s\n", backend)
	}
	linef("  Questions:  %d-%d\n", minQ, maxQ)
	line(sep)
}

// PrintPhaseIntro announces a newly entered phase.
func PrintPhaseIntro(phase state.Phase, text string) {
	line()
	line(headerColor(fmt.Sprintf("▶ %s round", strings.ToUpper(string(phase)))))
	line("  " + text)
}

// PrintQuestion displays a main question.
func PrintQuestion(n int, q state.Question) {
	line()
	linef("%s %s\n", headerColor(fmt.Sprintf("Q%d.", n)), q.Text)
	line(dimColor(fmt.Sprintf("    [%s · %s]", q.SkillArea, q.Difficulty)))
}

// PrintFollowup displays a follow-up question.
func PrintFollowup(text string) {
	linef("%s %s\n", warnColor("Follow-up:"), text)
}

// PrintEvaluation displays the feedback for one graded answer.
func PrintEvaluation(ev state.Evaluation) {
	linef("  Score: %s\n", scoreColor(float64(ev.Score))(fmt.Sprintf("%d/5", ev.Score)))
	if ev.Feedback != "" {
		linef("  %s\n", ev.Feedback)
	}
}

// PrintScorecard displays the final scorecard.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  ✓ Interview complete: Ada
//	═══════════════════════════════════════════════════
//	  Overall:      4.2/5 over 4 questions
//	  Formulas      4.5
//	  ...
func PrintScorecard(card scorecard.Scorecard) {
	sep := successColor(rule)
	line(sep)
	line(successColor("  ✓ Interview complete: " + displayName(card.Candidate)))
	line(sep)
	linef("  Overall:      %s over %d questions\n",
		scoreColor(card.OverallScore)(fmt.Sprintf("%.1f/5", card.OverallScore)), card.QuestionCount)

	line("  Skills:")
	for _, area := range state.SkillRegistry {
		if avg, ok := card.SkillBreakdown[area]; ok {
			linef("    %-26s %s\n", area, scoreColor(avg)(fmt.Sprintf("%.1f", avg)))
		}
	}
	linef("  Strengths:    %s\n", joinAreas(card.Strengths))
	linef("  Weaknesses:   %s\n", joinAreas(card.Weaknesses))
	linef("  Behavioral:   clarity %.1f, confidence %.1f, problem solving %.1f\n",
		card.Behavioral.Clarity, card.Behavioral.Confidence, card.Behavioral.ProblemSolving)
	linef("  Consistency:  %.2f\n", card.Consistency)
	linef("  Timing:       avg %s, min %s, max %s, total %s\n",
		logging.FormatSeconds(card.Timing.AverageSeconds),
		logging.FormatSeconds(card.Timing.MinSeconds),
		logging.FormatSeconds(card.Timing.MaxSeconds),
		logging.FormatSeconds(card.Timing.TotalSeconds))
	if card.TabViolations > 0 {
		linef("  Tab switches: %s\n", warnColor(fmt.Sprint(card.TabViolations)))
	} else {
		line("  Tab switches: 0")
	}
	line("  Recommendations:")
	for _, r := range card.Recommendations {
		linef("    - %s\n", r)
	}
	line(sep)
}

// PrintTranscript lists every question with its answer, score and follow-up.
func PrintTranscript(entries []state.TranscriptEntry) {
	for i, e := range entries {
		line()
		linef("%s %s\n", headerColor(fmt.Sprintf("Q%d.", i+1)), e.Question.Text)
		line(dimColor(fmt.Sprintf("    [%s · %s · %s]", e.Question.SkillArea, e.Question.Difficulty,
			logging.FormatSeconds(e.TimeTakenSeconds))))
		linef("  A: %s\n", e.Answer)
		linef("  Score %d/5", e.Evaluation.Score)
		if e.Evaluation.Feedback != "" {
			linef(": %s", e.Evaluation.Feedback)
		}
		line()
		if e.FollowupPrompt != "" {
			linef("  Follow-up: %s\n", e.FollowupPrompt)
			if e.FollowupAnswer != nil {
				linef("  A: %s\n", *e.FollowupAnswer)
			}
		}
	}
}

// PrintInterruptedBanner displays when a session is interrupted.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  ⚠ Session interrupted
//	  Session:  5f0c...
//	  Answered: 2
//	  Use --resume 5f0c... to continue from this point
//	═══════════════════════════════════════════════════
func PrintInterruptedBanner(sessionID string, answered int) {
	sep := warnColor(rule)
	line(sep)
	line(warnColor("  ⚠ Session interrupted"))
	linef("  Session:  %s\n", sessionID)
	linef("  Answered: %d\n", answered)
	linef("  Use --resume %s to continue from this point\n", sessionID)
	line(sep)
}

// PrintResumeFailedBanner reports a session that failed its continuity check.
func PrintResumeFailedBanner(sessionID string, cause error) {
	sep := errorColor(rule)
	line(sep)
	line(errorColor("  ✗ Session could not be resumed"))
	linef("  Session: %s\n", sessionID)
	if cause != nil {
		linef("  Reason:  %v\n", cause)
	}
	line("  Start a new interview to try again.")
	line(sep)
}

// PrintStatusBanner displays current session status.
//
// Example output:
//
//	──────────────────────────────────────────────────
//	  Session:   5f0c...
//	  Candidate: Ada
//	  Status:    IN_PROGRESS
//	  Phase:     intermediate
//	  Answered:  3
//	  Average:   3.7
//	──────────────────────────────────────────────────
func PrintStatusBanner(s state.SessionState) {
	sep := strings.Repeat("─", 50)
	line(sep)
	linef("  Session:   %s\n", s.ID)
	linef("  Candidate: %s\n", displayName(s.Candidate))
	linef("  Status:    %s\n", s.Status())
	linef("  Phase:     %s\n", s.Phase)
	linef("  Answered:  %d\n", s.Answered())
	if avg, ok := s.AverageScore(); ok {
		linef("  Average:   %.1f\n", avg)
	}
	if s.HasPendingFollowup() {
		linef("  Pending:   %s\n", s.PendingFollowup)
	}
	if s.TabViolationCount > 0 {
		linef("  Tab switches: %d\n", s.TabViolationCount)
	}
	linef("  Updated:   %s\n", s.LastUpdated.Format("2006-01-02 15:04:05 MST"))
	line(sep)
}

func scoreColor(v float64) func(a ...interface{}) string {
	switch {
	case v >= 4:
		return successColor
	case v <= 2.5:
		return errorColor
	default:
		return warnColor
	}
}

func joinAreas(areas []state.SkillArea) string {
	if len(areas) == 0 {
		return "none"
	}
	names := make([]string, len(areas))
	for i, a := range areas {
		names[i] = string(a)
	}
	return strings.Join(names, ", ")
}

func displayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "candidate"
	}
	return name
}
