package state

import (
	"errors"
	"fmt"
)

// ErrCorruptSession marks a persisted session whose history can no longer be trusted.
var ErrCorruptSession = errors.New("session could not be resumed")

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorruptSession, fmt.Sprintf(format, args...))
}

// ValidateState checks that a persisted session still has transcript continuity:
//   - the phase is known and the recorded history only moves forward
//   - the transcript matches its sealed digest
//   - timing samples and asked skill areas line up one-to-one with the transcript
//   - a pending follow-up belongs to the last entry and has not been answered
func ValidateState(s *SessionState) error {
	if s == nil {
		return corrupt("no session state")
	}
	if s.ID == "" {
		return corrupt("missing session id")
	}
	if !s.Phase.Valid() {
		return corrupt("unknown phase %q", s.Phase)
	}
	if s.SchemaVersion > SchemaVersion {
		return corrupt("schema version %d is newer than supported %d", s.SchemaVersion, SchemaVersion)
	}

	prev := -1
	for _, p := range s.PhaseHistory {
		r := p.Rank()
		if r <= prev {
			return corrupt("phase history %v is not strictly forward", s.PhaseHistory)
		}
		prev = r
	}
	if len(s.PhaseHistory) > 0 && s.PhaseHistory[len(s.PhaseHistory)-1] != s.Phase {
		return corrupt("phase %s does not match history %v", s.Phase, s.PhaseHistory)
	}

	digest, err := TranscriptDigest(s.Transcript)
	if err != nil {
		return corrupt("%v", err)
	}
	if s.TranscriptDigest != "" && s.TranscriptDigest != digest {
		return corrupt("transcript digest mismatch: expected %s, got %s", s.TranscriptDigest, digest)
	}

	n := len(s.Transcript)
	if len(s.Timing.Samples) != n {
		return corrupt("%d timing samples for %d transcript entries", len(s.Timing.Samples), n)
	}
	if len(s.AskedSkillAreas) != n {
		return corrupt("%d asked skill areas for %d transcript entries", len(s.AskedSkillAreas), n)
	}
	for i, e := range s.Transcript {
		if s.AskedSkillAreas[i] != e.Question.SkillArea {
			return corrupt("entry %d skill %q not recorded as asked", i, e.Question.SkillArea)
		}
	}

	if s.Phase == PhaseIdle && n > 0 {
		return corrupt("idle session has %d transcript entries", n)
	}
	if s.Phase.Rank() > PhaseBasic.Rank() && n == 0 {
		return corrupt("phase %s reached with an empty transcript", s.Phase)
	}
	if s.FollowupBudget < 0 {
		return corrupt("negative follow-up budget %d", s.FollowupBudget)
	}
	if s.FollowupsAsked > n {
		return corrupt("%d follow-ups asked for %d answers", s.FollowupsAsked, n)
	}

	if s.HasPendingFollowup() {
		if n == 0 || !s.Phase.Questioning() {
			return corrupt("pending follow-up without an answered question")
		}
		last := s.Transcript[n-1]
		if last.FollowupPrompt != s.PendingFollowup || last.FollowupAnswer != nil {
			return corrupt("pending follow-up does not belong to the last entry")
		}
		if s.CurrentQuestion != nil {
			return corrupt("question issued while a follow-up is pending")
		}
	}

	return nil
}

// ResumeFromState validates a persisted session before a controller takes it over.
// A failure always wraps ErrCorruptSession and must be surfaced to the candidate.
func ResumeFromState(existing *SessionState) error {
	if err := ValidateState(existing); err != nil {
		return fmt.Errorf("state validation failed: %w", err)
	}
	if existing.Transcript == nil {
		existing.Transcript = []TranscriptEntry{}
	}
	return nil
}
