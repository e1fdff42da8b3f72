package phases

import "errors"

// Invariant violations. They mean the caller and the controller disagree about
// where the session is, and are always returned rather than ignored.
var (
	ErrAgreementRequired = errors.New("candidate must accept the interview rules before starting")
	ErrAlreadyStarted    = errors.New("session already started")
	ErrNotStarted        = errors.New("session not started")
	ErrSessionDone       = errors.New("session is complete")
	ErrFollowupPending   = errors.New("a follow-up answer is pending")
	ErrNoFollowupPending = errors.New("no follow-up is pending")
	ErrNoCurrentQuestion = errors.New("no question has been issued")
	ErrNotFinished       = errors.New("session has not finished")
)
