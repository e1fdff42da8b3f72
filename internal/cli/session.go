package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/CodexForgeBR/mock-interviewer/internal/banner"
	"github.com/CodexForgeBR/mock-interviewer/internal/exitcode"
	"github.com/CodexForgeBR/mock-interviewer/internal/logging"
	"github.com/CodexForgeBR/mock-interviewer/internal/phases"
	"github.com/CodexForgeBR/mock-interviewer/internal/state"
	"github.com/CodexForgeBR/mock-interviewer/internal/store"
)

// Rules is shown before the candidate agrees to start.
const Rules = `Interview rules:
  - Answer each question in your own words; press Enter to submit.
  - Switching away from the interview is recorded.
  - Your answers are scored and summarized in a final scorecard.`

// Session drives one interview over a line-oriented terminal.
type Session struct {
	Controller *phases.Controller
	Store      store.Store
	In         io.Reader
	Out        io.Writer
	// Name and Agreed are used when the controller is still idle.
	Name   string
	Agreed bool

	lines   chan string
	done    chan struct{}
	scanErr error
}

// Run plays the interview to completion and returns the process exit code.
// Progress is saved after every step so an interrupted run can be resumed.
func (s *Session) Run(ctx context.Context) int {
	s.lines = make(chan string)
	s.done = make(chan struct{})
	defer close(s.done)
	go s.scan()

	if s.Controller.Phase() == state.PhaseIdle {
		if code, ok := s.start(ctx); !ok {
			return code
		}
	}

	n := s.Controller.Snapshot().Answered()
	for {
		snap := s.Controller.Snapshot()
		if snap.Phase == state.PhaseDone {
			return s.finish(ctx)
		}
		if intro, ok := s.Controller.PendingIntro(); ok {
			banner.PrintPhaseIntro(snap.Phase, intro)
			s.Controller.AcknowledgeIntro()
		}

		var (
			out phases.Outcome
			err error
		)
		if snap.HasPendingFollowup() {
			banner.PrintFollowup(snap.PendingFollowup)
			answer, code, ok := s.read(ctx)
			if !ok {
				return code
			}
			out, err = s.Controller.SubmitFollowupAnswer(ctx, answer)
		} else {
			q, qerr := s.Controller.NextQuestion(ctx)
			if qerr != nil {
				return s.fail(qerr)
			}
			s.save()
			banner.PrintQuestion(n+1, q)
			answer, code, ok := s.read(ctx)
			if !ok {
				return code
			}
			out, err = s.Controller.SubmitAnswer(ctx, answer)
			if err == nil {
				n++
				banner.PrintEvaluation(out.Evaluation)
			}
		}
		if err != nil {
			return s.fail(err)
		}
		s.save()
		logging.Debug(fmt.Sprintf("action=%s phase=%s %s", out.Action, out.Phase, out.Reason))
	}
}

func (s *Session) start(ctx context.Context) (int, bool) {
	if !s.Agreed {
		fmt.Fprintln(s.Out, Rules)
		fmt.Fprint(s.Out, "Do you agree? [y/N] ")
		reply, code, ok := s.read(ctx)
		if !ok {
			return code, false
		}
		reply = strings.ToLower(strings.TrimSpace(reply))
		s.Agreed = reply == "y" || reply == "yes"
	}
	if strings.TrimSpace(s.Name) == "" && s.Agreed {
		fmt.Fprint(s.Out, "Your name: ")
		name, code, ok := s.read(ctx)
		if !ok {
			return code, false
		}
		s.Name = name
	}
	if err := s.Controller.Start(ctx, s.Name, s.Agreed); err != nil {
		logging.Error(err.Error())
		return exitcode.Error, false
	}
	s.save()
	return 0, true
}

func (s *Session) finish(ctx context.Context) int {
	card, err := s.Controller.Scorecard()
	if err != nil {
		return s.fail(err)
	}
	if s.Store != nil {
		if err := s.Store.SaveScorecard(ctx, card); err != nil {
			logging.Warn(fmt.Sprintf("scorecard %s not saved: %v", card.SessionID, err))
		}
	}
	banner.PrintScorecard(card)
	banner.PrintTranscript(s.Controller.Snapshot().Transcript)
	return exitcode.Success
}

func (s *Session) fail(err error) int {
	s.save()
	logging.Error(err.Error())
	return exitcode.Error
}

// save persists a snapshot. It uses a background context so the save after
// an interrupt still happens.
func (s *Session) save() {
	if s.Store == nil {
		return
	}
	snap := s.Controller.Snapshot()
	if err := s.Store.SaveSession(context.Background(), snap); err != nil {
		logging.Warn(fmt.Sprintf("session %s not saved: %v", snap.ID, err))
	}
}

func (s *Session) scan() {
	sc := bufio.NewScanner(s.In)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		select {
		case s.lines <- sc.Text():
		case <-s.done:
			return
		}
	}
	s.scanErr = sc.Err()
	close(s.lines)
}

// read waits for one line of input. It reports the exit code to use when the
// input ends or the context is cancelled first.
func (s *Session) read(ctx context.Context) (string, int, bool) {
	select {
	case line, ok := <-s.lines:
		if ok {
			return line, 0, true
		}
		if s.scanErr != nil {
			return "", s.fail(fmt.Errorf("read input: %w", s.scanErr)), false
		}
		s.save()
		snap := s.Controller.Snapshot()
		banner.PrintInterruptedBanner(snap.ID, snap.Answered())
		return "", exitcode.Abandoned, false
	case <-ctx.Done():
		s.save()
		snap := s.Controller.Snapshot()
		banner.PrintInterruptedBanner(snap.ID, snap.Answered())
		return "", exitcode.Interrupted, false
	}
}

// ResumeExitCode maps a resume failure to its exit code.
func ResumeExitCode(err error) int {
	if errors.Is(err, state.ErrCorruptSession) {
		return exitcode.ResumeFailed
	}
	return exitcode.Error
}
