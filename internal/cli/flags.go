// Package cli provides flag binding, validation and the terminal interview loop
// for the interviewer command.
package cli

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/mock-interviewer/internal/ai"
	"github.com/CodexForgeBR/mock-interviewer/internal/config"
	"github.com/CodexForgeBR/mock-interviewer/internal/schedule"
)

// Flags holds every value the command line can set. Fields that mirror a
// config key only take effect when the flag was explicitly changed.
type Flags struct {
	ConfigFile string

	// Config overrides
	Preset              string
	Backend             string
	Model               string
	Driver              string
	MinQuestions        int
	MaxQuestions        int
	FollowupProbability float64
	FollowupBudget      int
	Seed                int64
	Webhook             string
	Telemetry           bool
	Verbose             bool

	// run
	Name    string
	Yes     bool
	Resume  string
	StartAt string

	// serve
	Addr string
}

// overrideFlags maps flag names to their config keys.
var overrideFlags = map[string]string{
	"preset":               "interview.preset",
	"ai":                   "ai.backend",
	"model":                "ai.model",
	"store":                "store.driver",
	"min-questions":        "interview.min_questions",
	"max-questions":        "interview.max_questions",
	"followup-probability": "interview.followup_probability",
	"followup-budget":      "interview.followup_budget",
	"seed":                 "interview.seed",
	"notify-webhook":       "notify.webhook",
	"telemetry":            "telemetry.enabled",
	"verbose":              "verbose",
	"addr":                 "server.addr",
}

// BindGlobalFlags registers the configuration flags shared by every subcommand.
func BindGlobalFlags(cmd *cobra.Command, f *Flags) {
	flags := cmd.PersistentFlags()

	flags.StringVar(&f.ConfigFile, "config", "", "Path to additional config file")
	flags.StringVar(&f.Preset, "preset", "adaptive", "Interview preset: adaptive or extended")

	// AI
	flags.StringVar(&f.Backend, "ai", ai.BackendNone, "Language model backend: anthropic, gemini, claude-cli or none")
	flags.StringVar(&f.Model, "model", "", "Model name (default: backend specific)")

	// Persistence
	flags.StringVar(&f.Driver, "store", config.DriverFile, "Session store: file, memory, sqlite, mongo or redis")

	// Interview bounds
	flags.IntVar(&f.MinQuestions, "min-questions", 4, "Minimum main questions before the interview may end")
	flags.IntVar(&f.MaxQuestions, "max-questions", 4, "Maximum main questions")
	flags.Float64Var(&f.FollowupProbability, "followup-probability", 0.35, "Chance of asking an eligible follow-up")
	flags.IntVar(&f.FollowupBudget, "followup-budget", 1, "Maximum follow-ups per session")
	flags.Int64Var(&f.Seed, "seed", 0, "Follow-up sampling seed (0 seeds from the clock)")

	// Notifications & telemetry
	flags.StringVar(&f.Webhook, "notify-webhook", "", "Recruiter webhook URL notified when an interview ends")
	flags.BoolVar(&f.Telemetry, "telemetry", false, "Export trace spans to stderr")
	flags.BoolVarP(&f.Verbose, "verbose", "v", false, "Enable debug logging")
}

// BindRunFlags registers the flags of the run subcommand.
func BindRunFlags(cmd *cobra.Command, f *Flags) {
	flags := cmd.Flags()
	flags.StringVar(&f.Name, "name", "", "Candidate name")
	flags.BoolVarP(&f.Yes, "yes", "y", false, "Accept the interview rules without prompting")
	flags.StringVar(&f.Resume, "resume", "", "Resume the stored session with this id")
	flags.StringVar(&f.StartAt, "start-at", "", "Wait until this slot before starting (HH:MM, YYYY-MM-DD, \"YYYY-MM-DD HH:MM\", YYYY-MM-DDTHH:MM)")
}

// BindServeFlags registers the flags of the serve subcommand.
func BindServeFlags(cmd *cobra.Command, f *Flags) {
	cmd.Flags().StringVar(&f.Addr, "addr", ":8080", "Listen address")
}

// ValidateFlags checks explicitly set flags for values the config layer would
// reject anyway, so the user gets a flag-shaped error message.
func ValidateFlags(cmd *cobra.Command, f *Flags) error {
	changed := cmd.Flags().Changed

	if f.ConfigFile != "" {
		if _, err := os.Stat(f.ConfigFile); err != nil {
			return fmt.Errorf("--config: %w", err)
		}
	}
	if f.StartAt != "" {
		if _, err := schedule.ParseSlot(f.StartAt, time.Now()); err != nil {
			return fmt.Errorf("--start-at: %w", err)
		}
	}
	if changed("preset") && !slices.Contains(config.Presets, f.Preset) {
		return fmt.Errorf("--preset must be one of %v, got: %s", config.Presets, f.Preset)
	}
	if changed("ai") && !slices.Contains(ai.Backends, f.Backend) {
		return fmt.Errorf("--ai must be one of %v, got: %s", ai.Backends, f.Backend)
	}
	if changed("store") && !slices.Contains(config.Drivers, f.Driver) {
		return fmt.Errorf("--store must be one of %v, got: %s", config.Drivers, f.Driver)
	}
	if changed("followup-probability") && (f.FollowupProbability < 0 || f.FollowupProbability > 1) {
		return fmt.Errorf("--followup-probability must be between 0 and 1, got: %g", f.FollowupProbability)
	}
	if changed("followup-budget") && f.FollowupBudget < 0 {
		return fmt.Errorf("--followup-budget must not be negative, got: %d", f.FollowupBudget)
	}
	if changed("min-questions") && f.MinQuestions < 1 {
		return fmt.Errorf("--min-questions must be at least 1, got: %d", f.MinQuestions)
	}
	if changed("min-questions") && changed("max-questions") && f.MaxQuestions < f.MinQuestions {
		return fmt.Errorf("--max-questions (%d) must not be below --min-questions (%d)", f.MaxQuestions, f.MinQuestions)
	}
	return nil
}

// BuildOverrides returns the config overrides for flags explicitly set on the
// command line, keyed by dotted config path. Flags left at their defaults are
// omitted so config files and the environment still apply.
func BuildOverrides(cmd *cobra.Command, f *Flags) map[string]string {
	values := map[string]string{
		"preset":               f.Preset,
		"ai":                   f.Backend,
		"model":                f.Model,
		"store":                f.Driver,
		"min-questions":        strconv.Itoa(f.MinQuestions),
		"max-questions":        strconv.Itoa(f.MaxQuestions),
		"followup-probability": strconv.FormatFloat(f.FollowupProbability, 'g', -1, 64),
		"followup-budget":      strconv.Itoa(f.FollowupBudget),
		"seed":                 strconv.FormatInt(f.Seed, 10),
		"notify-webhook":       f.Webhook,
		"telemetry":            strconv.FormatBool(f.Telemetry),
		"verbose":              strconv.FormatBool(f.Verbose),
		"addr":                 f.Addr,
	}

	overrides := make(map[string]string)
	for flag, key := range overrideFlags {
		if cmd.Flags().Changed(flag) {
			overrides[key] = values[flag]
		}
	}
	return overrides
}

// LoadConfig resolves the full precedence chain for cmd and validates the result.
func LoadConfig(cmd *cobra.Command, f *Flags) (*config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	cfg, err := config.LoadWithPrecedence(config.DefaultGlobalPath(), config.ProjectFile, f.ConfigFile, BuildOverrides(cmd, f))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
