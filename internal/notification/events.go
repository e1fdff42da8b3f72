package notification

import (
	"fmt"

	"github.com/CodexForgeBR/mock-interviewer/internal/scorecard"
	"github.com/CodexForgeBR/mock-interviewer/internal/state"
)

// Event types sent to the recruiter webhook.
const (
	EventCompleted   = "interview_completed"
	EventAbandoned   = "interview_abandoned"
	EventInterrupted = "interview_interrupted"
	EventResumeFail  = "resume_failed"
)

// Payload is the JSON body posted to the webhook.
type Payload struct {
	Event         string  `json:"event"`
	SessionID     string  `json:"session_id"`
	Candidate     string  `json:"candidate"`
	QuestionCount int     `json:"question_count"`
	OverallScore  float64 `json:"overall_score"`
	TabViolations int     `json:"tab_violations"`
	Message       string  `json:"message"`
}

// Completed builds the payload for a finished interview.
func Completed(card scorecard.Scorecard) Payload {
	p := Payload{
		Event:         EventCompleted,
		SessionID:     card.SessionID,
		Candidate:     card.Candidate,
		QuestionCount: card.QuestionCount,
		OverallScore:  card.OverallScore,
		TabViolations: card.TabViolations,
	}
	p.Message = FormatEvent(p)
	return p
}

// ForSession builds the payload for an interview that ended without a scorecard.
func ForSession(event string, s state.SessionState) Payload {
	p := Payload{
		Event:         event,
		SessionID:     s.ID,
		Candidate:     s.Candidate,
		QuestionCount: s.Answered(),
		TabViolations: s.TabViolationCount,
	}
	if avg, ok := s.AverageScore(); ok {
		p.OverallScore = avg
	}
	p.Message = FormatEvent(p)
	return p
}

// FormatEvent creates the human-readable message for a payload.
func FormatEvent(p Payload) string {
	name := p.Candidate
	if name == "" {
		name = "candidate"
	}
	switch p.Event {
	case EventCompleted:
		return fmt.Sprintf("✅ %s [%s] finished the interview: %.1f/5 over %d questions, %d tab violations",
			name, p.SessionID, p.OverallScore, p.QuestionCount, p.TabViolations)
	case EventAbandoned:
		return fmt.Sprintf("⚠️ %s [%s] left the interview after %d questions", name, p.SessionID, p.QuestionCount)
	case EventInterrupted:
		return fmt.Sprintf("⏸️ %s [%s] interview interrupted after %d questions. Use --resume", name, p.SessionID, p.QuestionCount)
	case EventResumeFail:
		return fmt.Sprintf("❌ %s [%s] session could not be resumed", name, p.SessionID)
	default:
		return fmt.Sprintf("ℹ️ %s [%s] event: %s", name, p.SessionID, p.Event)
	}
}
