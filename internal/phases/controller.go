package phases

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/CodexForgeBR/mock-interviewer/internal/evaluator"
	"github.com/CodexForgeBR/mock-interviewer/internal/logging"
	"github.com/CodexForgeBR/mock-interviewer/internal/questions"
	"github.com/CodexForgeBR/mock-interviewer/internal/scorecard"
	"github.com/CodexForgeBR/mock-interviewer/internal/state"
)

var tracer = otel.Tracer("github.com/CodexForgeBR/mock-interviewer/internal/phases")

// DefaultTimeout bounds each evaluator and question-source call when Options leaves it unset.
const DefaultTimeout = 30 * time.Second

// DefaultViolationKind is recorded when the UI reports a focus loss without naming it.
const DefaultViolationKind = "tab_switch"

// Options configures a Controller.
type Options struct {
	Policy           Policy
	Thresholds       scorecard.Thresholds
	EvaluatorTimeout time.Duration
	QuestionTimeout  time.Duration
	// Seed feeds the default follow-up gate. Zero seeds from the clock.
	Seed int64
}

// DefaultOptions returns the default policy and thresholds with 30s call timeouts.
func DefaultOptions() Options {
	return Options{
		Policy:           DefaultPolicy(),
		Thresholds:       scorecard.DefaultThresholds(),
		EvaluatorTimeout: DefaultTimeout,
		QuestionTimeout:  DefaultTimeout,
	}
}

// Deps are the collaborators a Controller calls out to. Nil fields get defaults:
// an evaluator that always fails (so every answer is scored neutrally), the
// static question pool, a random gate at the policy probability, the wall clock
// and UUID session ids.
type Deps struct {
	Evaluator evaluator.Evaluator
	Questions questions.Source
	Gate      Gate
	Now       func() time.Time
	NewID     func() string
	// OnDone runs once, under the controller lock, when the session enters done.
	// It must not call back into the Controller.
	OnDone func(state.SessionState, scorecard.Scorecard)
}

// Action tells the UI what to do after an answer.
type Action string

const (
	// ActionFollowup means a follow-up question is pending.
	ActionFollowup Action = "followup"
	// ActionNext means another main question should be fetched.
	ActionNext Action = "next"
	// ActionDone means the interview is over and the scorecard is ready.
	ActionDone Action = "done"
)

// Outcome is the result of submitting a main or follow-up answer.
type Outcome struct {
	Action       Action           `json:"action"`
	Evaluation   state.Evaluation `json:"evaluation"`
	Followup     string           `json:"followup,omitempty"`
	Phase        state.Phase      `json:"phase"`
	PhaseChanged bool             `json:"phase_changed"`
	Reason       string           `json:"reason,omitempty"`
}

// Controller owns one interview session. It is the only writer of its
// SessionState; collaborators receive deep copies through Snapshot.
type Controller struct {
	mu   sync.Mutex
	opts Options
	deps Deps
	s    *state.SessionState
	card *scorecard.Scorecard
}

// New returns a controller holding a fresh idle session.
func New(opts Options, deps Deps) (*Controller, error) {
	c, err := newController(opts, deps)
	if err != nil {
		return nil, err
	}
	c.s = state.NewSessionState(c.deps.NewID())
	return c, nil
}

// Resume takes over a persisted session after validating its continuity.
// A session that fails validation is returned as an error wrapping
// state.ErrCorruptSession and is never silently reset.
func Resume(s state.SessionState, opts Options, deps Deps) (*Controller, error) {
	c, err := newController(opts, deps)
	if err != nil {
		return nil, err
	}
	owned := s.Clone()
	if err := state.ResumeFromState(&owned); err != nil {
		return nil, err
	}
	c.s = &owned
	if owned.Phase == state.PhaseDone {
		card := scorecard.Aggregate(owned.Clone(), c.opts.Thresholds)
		c.card = &card
	}
	return c, nil
}

func newController(opts Options, deps Deps) (*Controller, error) {
	if err := opts.Policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid policy: %w", err)
	}
	if opts.Thresholds.Weakness > opts.Thresholds.Strength {
		return nil, fmt.Errorf("weakness threshold %g exceeds strength threshold %g",
			opts.Thresholds.Weakness, opts.Thresholds.Strength)
	}
	if opts.EvaluatorTimeout <= 0 {
		opts.EvaluatorTimeout = DefaultTimeout
	}
	if opts.QuestionTimeout <= 0 {
		opts.QuestionTimeout = DefaultTimeout
	}
	if deps.Evaluator == nil {
		deps.Evaluator = evaluator.Func(func(context.Context, evaluator.Request) (state.Evaluation, error) {
			return state.Evaluation{}, fmt.Errorf("no evaluator configured")
		})
	}
	if deps.Questions == nil {
		deps.Questions = questions.Static{}
	}
	if deps.Gate == nil {
		deps.Gate = NewRandomGate(opts.Policy.FollowupProbability, opts.Seed)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}
	return &Controller{opts: opts, deps: deps}, nil
}

// ID returns the session id.
func (c *Controller) ID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s.ID
}

// Phase returns the current phase.
func (c *Controller) Phase() state.Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s.Phase
}

// Snapshot returns a deep copy of the session.
func (c *Controller) Snapshot() state.SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s.Clone()
}

// Scorecard returns the aggregate computed on entering done.
func (c *Controller) Scorecard() (scorecard.Scorecard, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.card == nil {
		return scorecard.Scorecard{}, ErrNotFinished
	}
	return *c.card, nil
}

// Start moves an idle session into the basic phase with every counter zeroed.
func (c *Controller) Start(ctx context.Context, candidate string, agreed bool) error {
	_, span := tracer.Start(ctx, "interview.start")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()
	if !agreed {
		return ErrAgreementRequired
	}
	if c.s.Phase != state.PhaseIdle {
		return ErrAlreadyStarted
	}

	now := c.deps.Now()
	s := c.s
	s.Candidate = strings.TrimSpace(candidate)
	s.Transcript = []state.TranscriptEntry{}
	s.AskedSkillAreas = []state.SkillArea{}
	s.CurrentQuestion = nil
	s.PendingFollowup = ""
	s.FollowupBudget = c.opts.Policy.FollowupBudget
	s.FollowupsAsked = 0
	s.Timing = state.Timing{SessionStart: now, Samples: []float64{}}
	s.TabViolationCount = 0
	s.Violations = nil
	s.IntroShown = ""
	c.enter(state.PhaseBasic)
	s.LastUpdated = now

	span.SetAttributes(attribute.String("session.id", s.ID))
	logging.Debug(fmt.Sprintf("session %s started for %q", s.ID, s.Candidate))
	return nil
}

// Restart discards the session wholesale and replaces it with a fresh idle one
// under a new id.
func (c *Controller) Restart() state.SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	old := c.s.ID
	c.s = state.NewSessionState(c.deps.NewID())
	c.card = nil
	logging.Debug(fmt.Sprintf("session %s restarted as %s", old, c.s.ID))
	return c.s.Clone()
}

// NextQuestion issues the next main question and starts its timer. While a
// question is outstanding it is returned again unchanged. A failing or
// invalid question source is replaced by the static fallback pool.
func (c *Controller) NextQuestion(ctx context.Context) (state.Question, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkQuestioning(); err != nil {
		return state.Question{}, err
	}
	if c.s.HasPendingFollowup() {
		return state.Question{}, ErrFollowupPending
	}
	if c.s.CurrentQuestion != nil {
		return *c.s.CurrentQuestion, nil
	}

	req := questions.Request{
		History:    c.s.Clone().Transcript,
		Avoid:      append([]state.SkillArea(nil), c.s.AskedSkillAreas...),
		Difficulty: c.s.Phase.Difficulty(),
	}
	if avg, ok := c.s.AverageScore(); ok {
		req.AvgScore = &avg
	}

	q, err := c.askSource(ctx, req)
	if err != nil {
		logging.Warn(fmt.Sprintf("session %s: question source failed, using fallback pool: %v", c.s.ID, err))
		q = questions.Fallback(req)
	}

	now := c.deps.Now()
	c.s.CurrentQuestion = &q
	c.s.Timing.QuestionIssuedAt = now
	c.s.LastUpdated = now
	return q, nil
}

func (c *Controller) askSource(ctx context.Context, req questions.Request) (state.Question, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.QuestionTimeout)
	defer cancel()
	ctx, span := tracer.Start(ctx, "questions.next")
	defer span.End()
	span.SetAttributes(
		attribute.String("session.id", c.s.ID),
		attribute.String("difficulty", string(req.Difficulty)),
	)

	q, err := within(ctx, func(ctx context.Context) (state.Question, error) {
		return c.deps.Questions.Next(ctx, req)
	})
	if err == nil {
		err = questions.Validate(q)
	}
	if err == nil && q.Difficulty != req.Difficulty {
		err = fmt.Errorf("question tagged %s, requested %s", q.Difficulty, req.Difficulty)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "question source failed")
		return state.Question{}, err
	}
	return q, nil
}

// SubmitAnswer records the answer to the current main question, grades it,
// and decides between a follow-up, another question and the end of the session.
// Grading failures never surface: the answer is scored neutrally instead.
func (c *Controller) SubmitAnswer(ctx context.Context, answer string) (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkQuestioning(); err != nil {
		return Outcome{}, err
	}
	if c.s.HasPendingFollowup() {
		return Outcome{}, ErrFollowupPending
	}
	if c.s.CurrentQuestion == nil {
		return Outcome{}, ErrNoCurrentQuestion
	}

	q := *c.s.CurrentQuestion
	now := c.deps.Now()
	elapsed := now.Sub(c.s.Timing.QuestionIssuedAt).Seconds()
	if c.s.Timing.QuestionIssuedAt.IsZero() || elapsed < 0 {
		elapsed = 0
	}

	ev, err := c.grade(ctx, evaluator.Request{Question: q, Answer: answer, History: c.s.Clone().Transcript})
	if err != nil {
		logging.Warn(fmt.Sprintf("session %s: evaluator failed, scoring neutrally: %v", c.s.ID, err))
		ev = state.NeutralEvaluation()
	}

	s := c.s
	s.Transcript = append(s.Transcript, state.TranscriptEntry{
		Question:         q,
		Answer:           answer,
		Evaluation:       ev,
		TimeTakenSeconds: elapsed,
		AnsweredAt:       now,
	})
	s.AskedSkillAreas = append(s.AskedSkillAreas, q.SkillArea)
	s.Timing.Samples = append(s.Timing.Samples, elapsed)
	s.CurrentQuestion = nil
	s.Timing.QuestionIssuedAt = time.Time{}
	s.LastUpdated = now

	if prompt, ok := c.followupFor(ev); ok {
		s.PendingFollowup = prompt
		s.Transcript[len(s.Transcript)-1].FollowupPrompt = prompt
		s.FollowupBudget--
		s.FollowupsAsked++
		return Outcome{Action: ActionFollowup, Evaluation: ev, Followup: prompt, Phase: s.Phase}, nil
	}

	out := c.progress()
	out.Evaluation = ev
	return out, nil
}

// SubmitFollowupAnswer attaches the answer to the pending follow-up and runs
// the progression decision. Follow-up answers are not graded and never trigger
// another follow-up.
func (c *Controller) SubmitFollowupAnswer(ctx context.Context, answer string) (Outcome, error) {
	_, span := tracer.Start(ctx, "interview.followup_answer")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkQuestioning(); err != nil {
		return Outcome{}, err
	}
	if !c.s.HasPendingFollowup() {
		return Outcome{}, ErrNoFollowupPending
	}

	last := len(c.s.Transcript) - 1
	a := answer
	c.s.Transcript[last].FollowupAnswer = &a
	c.s.PendingFollowup = ""
	c.s.LastUpdated = c.deps.Now()

	out := c.progress()
	out.Evaluation = c.s.Transcript[last].Evaluation
	return out, nil
}

// RecordTabViolation counts a focus-loss event reported by the UI and returns
// the running total. The counter only ever grows.
func (c *Controller) RecordTabViolation(kind string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.s.Phase == state.PhaseDone {
		return c.s.TabViolationCount, ErrSessionDone
	}
	kind = strings.TrimSpace(kind)
	if kind == "" {
		kind = DefaultViolationKind
	}
	now := c.deps.Now()
	c.s.TabViolationCount++
	c.s.Violations = append(c.s.Violations, state.Violation{Kind: kind, At: now})
	c.s.LastUpdated = now
	return c.s.TabViolationCount, nil
}

func (c *Controller) grade(ctx context.Context, req evaluator.Request) (state.Evaluation, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.EvaluatorTimeout)
	defer cancel()
	ctx, span := tracer.Start(ctx, "evaluator.evaluate")
	defer span.End()
	span.SetAttributes(
		attribute.String("session.id", c.s.ID),
		attribute.String("question.id", req.Question.ID),
	)

	ev, err := within(ctx, func(ctx context.Context) (state.Evaluation, error) {
		return c.deps.Evaluator.Evaluate(ctx, req)
	})
	if err == nil {
		err = evaluator.Validate(ev)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "evaluation failed")
		return state.Evaluation{}, err
	}
	span.SetAttributes(attribute.Int("score", ev.Score))
	return ev, nil
}

// within runs fn and gives up when ctx ends, even if fn ignores ctx. A late
// result is dropped.
func within[T any](ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		done <- result{v, err}
	}()
	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// followupFor applies the eligibility rule and, only when eligible, the gate.
func (c *Controller) followupFor(ev state.Evaluation) (string, bool) {
	prompt := strings.TrimSpace(ev.FollowupPrompt)
	if ev.Score < 2 || ev.Score > 4 || c.s.FollowupBudget <= 0 || prompt == "" {
		return "", false
	}
	if !c.deps.Gate.Fire() {
		return "", false
	}
	return prompt, true
}

// progress runs the phase decision after a completed exchange.
func (c *Controller) progress() Outcome {
	from := c.s.Phase
	avg, ok := c.s.AverageScore()
	res := Decide(ProgressionInput{
		Phase:    from,
		Answered: c.s.Answered(),
		AvgScore: avg,
		HasAvg:   ok,
		Policy:   c.opts.Policy,
	})

	out := Outcome{Action: ActionNext, Phase: res.Next, PhaseChanged: res.Advanced(from), Reason: res.Reason}
	if res.Advanced(from) {
		c.enter(res.Next)
		logging.Debug(fmt.Sprintf("session %s: %s -> %s after %d answers (avg %.2f, plan %d/%d/%d): %s",
			c.s.ID, from, res.Next, c.s.Answered(), avg,
			res.Plan.Basic, res.Plan.Intermediate, res.Plan.Advanced, res.Reason))
	}
	if res.Next == state.PhaseDone {
		out.Action = ActionDone
		c.finish()
	}
	return out
}

// enter appends p to the phase history. Callers guarantee p is later than the current phase.
func (c *Controller) enter(p state.Phase) {
	c.s.Phase = p
	c.s.PhaseHistory = append(c.s.PhaseHistory, p)
}

func (c *Controller) finish() {
	c.s.Timing.SessionEnd = c.deps.Now()
	c.s.CurrentQuestion = nil
	card := scorecard.Aggregate(c.s.Clone(), c.opts.Thresholds)
	c.card = &card
	if c.deps.OnDone != nil {
		c.deps.OnDone(c.s.Clone(), card)
	}
}

func (c *Controller) checkQuestioning() error {
	switch {
	case c.s.Phase == state.PhaseIdle:
		return ErrNotStarted
	case c.s.Phase == state.PhaseDone:
		return ErrSessionDone
	}
	return nil
}
