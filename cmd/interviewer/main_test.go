package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/mock-interviewer/internal/ai"
	"github.com/CodexForgeBR/mock-interviewer/internal/config"
	"github.com/CodexForgeBR/mock-interviewer/internal/evaluator"
	"github.com/CodexForgeBR/mock-interviewer/internal/exitcode"
	"github.com/CodexForgeBR/mock-interviewer/internal/phases"
	"github.com/CodexForgeBR/mock-interviewer/internal/questions"
	"github.com/CodexForgeBR/mock-interviewer/internal/state"
	"github.com/CodexForgeBR/mock-interviewer/internal/store"
)

func TestDepsFactory_NoBackend(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.AI.Backend = ai.BackendNone

	newDeps, err := depsFactory(cfg)
	require.NoError(t, err)
	deps := newDeps()
	assert.IsType(t, evaluator.Neutral{}, deps.Evaluator)
	assert.Nil(t, deps.Questions)
}

func TestDepsFactory_LLMBackend(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.AI.Backend = ai.BackendGemini
	cfg.AI.APIKey = "test-key"

	newDeps, err := depsFactory(cfg)
	require.NoError(t, err)
	a, b := newDeps(), newDeps()
	assert.IsType(t, &evaluator.LLM{}, a.Evaluator)
	assert.IsType(t, &questions.LLM{}, a.Questions)
	assert.NotSame(t, a.Evaluator, b.Evaluator, "each session gets its own collaborators")
}

func TestDepsFactory_MissingKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	cfg := config.NewDefaultConfig()
	cfg.AI.Backend = ai.BackendAnthropic
	cfg.AI.APIKey = ""

	_, err := depsFactory(cfg)
	assert.ErrorContains(t, err, "requires an api key")
}

func TestModelName(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.AI.Backend = ai.BackendNone
	assert.Empty(t, modelName(cfg))

	cfg.AI.Backend = ai.BackendAnthropic
	assert.Equal(t, ai.DefaultModel(ai.BackendAnthropic), modelName(cfg))

	cfg.AI.Model = "claude-haiku-4-5"
	assert.Equal(t, "claude-haiku-4-5", modelName(cfg))
}

func finishedSession(t *testing.T) state.SessionState {
	t.Helper()
	c, err := phases.New(phases.DefaultOptions(), phases.Deps{Evaluator: evaluator.Neutral{}, Gate: phases.Never})
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, c.Start(ctx, "Ada", true))
	for c.Phase() != state.PhaseDone {
		_, err := c.NextQuestion(ctx)
		require.NoError(t, err)
		_, err = c.SubmitAnswer(ctx, "answer")
		require.NoError(t, err)
	}
	return c.Snapshot()
}

func TestReport(t *testing.T) {
	ctx := context.Background()
	cfg := config.NewDefaultConfig()
	st := store.NewFileStore(filepath.Join(t.TempDir(), "sessions"))

	done := finishedSession(t)
	require.NoError(t, st.SaveSession(ctx, done))
	// No scorecard was saved; report recomputes it.
	assert.NoError(t, report(ctx, cfg, st, done.ID))

	err := report(ctx, cfg, st, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	open := *state.NewSessionState("open")
	require.NoError(t, st.SaveSession(ctx, open))
	var ee *exitError
	require.ErrorAs(t, report(ctx, cfg, st, "open"), &ee)
	assert.Equal(t, exitcode.Error, ee.code)
}

func TestStatus(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	assert.NoError(t, status(ctx, st, nil))

	require.NoError(t, st.SaveSession(ctx, finishedSession(t)))
	ids, err := st.ListSessions(ctx)
	require.NoError(t, err)
	assert.NoError(t, status(ctx, st, ids))

	broken := *state.NewSessionState("broken")
	broken.Phase = state.PhaseAdvanced
	broken.PhaseHistory = []state.Phase{state.PhaseIdle, state.PhaseBasic, state.PhaseAdvanced}
	require.NoError(t, st.SaveSession(ctx, broken))
	var ee *exitError
	require.ErrorAs(t, status(ctx, st, []string{"broken"}), &ee)
	assert.Equal(t, exitcode.ResumeFailed, ee.code)
}
