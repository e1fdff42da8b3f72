package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/mock-interviewer/internal/ai"
	"github.com/CodexForgeBR/mock-interviewer/internal/banner"
	"github.com/CodexForgeBR/mock-interviewer/internal/cli"
	"github.com/CodexForgeBR/mock-interviewer/internal/config"
	"github.com/CodexForgeBR/mock-interviewer/internal/evaluator"
	"github.com/CodexForgeBR/mock-interviewer/internal/exitcode"
	"github.com/CodexForgeBR/mock-interviewer/internal/logging"
	"github.com/CodexForgeBR/mock-interviewer/internal/notification"
	"github.com/CodexForgeBR/mock-interviewer/internal/phases"
	"github.com/CodexForgeBR/mock-interviewer/internal/questions"
	"github.com/CodexForgeBR/mock-interviewer/internal/schedule"
	"github.com/CodexForgeBR/mock-interviewer/internal/scorecard"
	"github.com/CodexForgeBR/mock-interviewer/internal/server"
	sighandler "github.com/CodexForgeBR/mock-interviewer/internal/signal"
	"github.com/CodexForgeBR/mock-interviewer/internal/state"
	"github.com/CodexForgeBR/mock-interviewer/internal/store"
	"github.com/CodexForgeBR/mock-interviewer/internal/telemetry"
)

// version vars injected via ldflags at build time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// questionTemperature keeps generated questions varied between sessions.
const questionTemperature = 0.7

// exitError carries a specific exit code out of a cobra RunE.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return exitcode.Name(e.code)
	}
	return e.err.Error()
}

func main() {
	f := &cli.Flags{}

	rootCmd := &cobra.Command{
		Use:           "interviewer",
		Short:         "Adaptive mock interviewer for spreadsheet skills",
		Long:          "interviewer runs adaptive mock interviews, grades answers with a language model and produces a scorecard.",
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cli.BindGlobalFlags(rootCmd, f)
	cli.SetCustomHelp(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run an interview in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConfig(cmd, f, func(ctx context.Context, cfg *config.Config, st store.Store) error {
				return runInterview(ctx, cfg, st, f)
			})
		},
	}
	cli.BindRunFlags(runCmd, f)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConfig(cmd, f, serve)
		},
	}
	cli.BindServeFlags(serveCmd, f)

	reportCmd := &cobra.Command{
		Use:   "report <id>",
		Short: "Print the scorecard and transcript of a finished session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConfig(cmd, f, func(ctx context.Context, cfg *config.Config, st store.Store) error {
				return report(ctx, cfg, st, args[0])
			})
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status [id]",
		Short: "Print the progress of a stored session, or list sessions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConfig(cmd, f, func(ctx context.Context, cfg *config.Config, st store.Store) error {
				return status(ctx, st, args)
			})
		},
	}

	rootCmd.AddCommand(runCmd, serveCmd, reportCmd, statusCmd)

	if err := rootCmd.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			if ee.err != nil {
				logging.Error(ee.err.Error())
			}
			os.Exit(ee.code)
		}
		logging.Error(err.Error())
		os.Exit(exitcode.Error)
	}
}

// withConfig resolves configuration, telemetry and the store, then calls fn.
func withConfig(cmd *cobra.Command, f *cli.Flags, fn func(context.Context, *config.Config, store.Store) error) error {
	if err := cli.ValidateFlags(cmd, f); err != nil {
		return err
	}
	cfg, err := cli.LoadConfig(cmd, f)
	if err != nil {
		return err
	}
	logging.SetVerbose(cfg.Verbose)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown, err := telemetry.InitTracer(cfg.Telemetry.Enabled, os.Stderr)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer shutdown(context.Background())

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}
	defer st.Close()

	return fn(ctx, cfg, st)
}

// depsFactory wires the configured language model into the evaluator and
// question source. With the none backend answers are scored neutrally and
// questions come from the controller's static pool.
func depsFactory(cfg *config.Config) (func() phases.Deps, error) {
	if cfg.AI.Backend == ai.BackendNone {
		return func() phases.Deps { return phases.Deps{Evaluator: evaluator.Neutral{}} }, nil
	}
	completer, err := ai.New(cfg.AIOptions())
	if err != nil {
		return nil, err
	}
	return func() phases.Deps {
		return phases.Deps{
			Evaluator: &evaluator.LLM{
				Completer:     completer,
				MaxTokens:     cfg.AI.MaxTokens,
				HistoryBudget: cfg.AI.SummaryTokenBudget,
			},
			Questions: &questions.LLM{
				Completer:     completer,
				MaxTokens:     cfg.AI.MaxTokens,
				Temperature:   questionTemperature,
				HistoryBudget: cfg.AI.SummaryTokenBudget,
			},
		}
	}, nil
}

func runInterview(ctx context.Context, cfg *config.Config, st store.Store, f *cli.Flags) error {
	newDeps, err := depsFactory(cfg)
	if err != nil {
		return err
	}
	deps := newDeps()
	webhook := cfg.Notify.Webhook

	var c *phases.Controller
	if f.Resume != "" {
		saved, err := st.LoadSession(ctx, f.Resume)
		if err != nil {
			return &exitError{code: exitcode.Error, err: fmt.Errorf("load session %s: %w", f.Resume, err)}
		}
		c, err = phases.Resume(saved, cfg.ControllerOptions(), deps)
		if err != nil {
			banner.PrintResumeFailedBanner(f.Resume, err)
			notification.SendNotification(webhook, notification.ForSession(notification.EventResumeFail, saved))
			return &exitError{code: cli.ResumeExitCode(err)}
		}
		logging.Info(fmt.Sprintf("Resuming session %s at %s", f.Resume, c.Phase()))
	} else {
		c, err = phases.New(cfg.ControllerOptions(), deps)
		if err != nil {
			return err
		}
	}

	name := f.Name
	if name == "" {
		name = c.Snapshot().Candidate
	}
	banner.PrintStartupBanner(c.ID(), name, cfg.AI.Backend, modelName(cfg), cfg.Interview.MinQuestions, cfg.Interview.MaxQuestions)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := sighandler.SetupSignalHandler(ctx, cancel, func() {
		logging.Warn("Interrupted, saving session...")
	})
	defer stop()

	if f.StartAt != "" {
		slot, err := schedule.ParseSlot(f.StartAt, time.Now())
		if err != nil {
			return err
		}
		logging.Info(fmt.Sprintf("Interview opens at %s", slot.Format("2006-01-02 15:04")))
		waiter := schedule.Waiter{Tick: func(remaining time.Duration) {
			logging.Info(fmt.Sprintf("  ... %s until the interview starts", remaining))
		}}
		if err := waiter.Wait(ctx, slot); err != nil {
			return &exitError{code: exitcode.Interrupted}
		}
	}

	sess := &cli.Session{
		Controller: c,
		Store:      st,
		In:         os.Stdin,
		Out:        os.Stdout,
		Name:       f.Name,
		Agreed:     f.Yes,
	}
	code := sess.Run(ctx)
	switch code {
	case exitcode.Success:
		if card, err := c.Scorecard(); err == nil {
			notification.SendNotification(webhook, notification.Completed(card))
		}
		return nil
	case exitcode.Abandoned:
		notification.SendNotification(webhook, notification.ForSession(notification.EventAbandoned, c.Snapshot()))
	case exitcode.Interrupted:
		notification.SendNotification(webhook, notification.ForSession(notification.EventInterrupted, c.Snapshot()))
	}
	return &exitError{code: code}
}

func modelName(cfg *config.Config) string {
	if cfg.AI.Backend == ai.BackendNone {
		return ""
	}
	if cfg.AI.Model != "" {
		return cfg.AI.Model
	}
	return ai.DefaultModel(cfg.AI.Backend)
}

func serve(ctx context.Context, cfg *config.Config, st store.Store) error {
	newDeps, err := depsFactory(cfg)
	if err != nil {
		return err
	}
	srv := server.New(server.Config{
		Options:     cfg.ControllerOptions(),
		NewDeps:     newDeps,
		Store:       st,
		Webhook:     cfg.Notify.Webhook,
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := sighandler.SetupSignalHandler(ctx, cancel, func() {
		logging.Warn("Shutting down API server...")
	})
	defer stop()

	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}

func report(ctx context.Context, cfg *config.Config, st store.Store, id string) error {
	saved, err := st.LoadSession(ctx, id)
	if err != nil {
		return fmt.Errorf("load session %s: %w", id, err)
	}
	if err := state.ValidateState(&saved); err != nil {
		banner.PrintResumeFailedBanner(id, err)
		return &exitError{code: exitcode.ResumeFailed}
	}
	if saved.Phase != state.PhaseDone {
		banner.PrintStatusBanner(saved)
		return &exitError{code: exitcode.Error, err: fmt.Errorf("session %s has not finished", id)}
	}

	card, err := st.LoadScorecard(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		// Older runs may have saved the session but not the scorecard.
		card = scorecard.Aggregate(saved, cfg.Thresholds())
	} else if err != nil {
		return fmt.Errorf("load scorecard %s: %w", id, err)
	}
	banner.PrintScorecard(card)
	banner.PrintTranscript(saved.Transcript)
	return nil
}

func status(ctx context.Context, st store.Store, args []string) error {
	if len(args) == 0 {
		ids, err := st.ListSessions(ctx)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			logging.Info("No stored sessions")
			return nil
		}
		for _, id := range ids {
			fmt.Println(id)
		}
		return nil
	}

	saved, err := st.LoadSession(ctx, args[0])
	if err != nil {
		return fmt.Errorf("load session %s: %w", args[0], err)
	}
	banner.PrintStatusBanner(saved)
	if err := state.ValidateState(&saved); err != nil {
		banner.PrintResumeFailedBanner(saved.ID, err)
		return &exitError{code: exitcode.ResumeFailed}
	}
	return nil
}
