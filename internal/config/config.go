// Package config defines the interviewer configuration model and default values.
//
// Configuration is assembled from multiple sources with a strict precedence
// chain: built-in defaults < named preset < global config file < project
// config file < explicit config file < environment < CLI flag overrides.
package config

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/CodexForgeBR/mock-interviewer/internal/ai"
	"github.com/CodexForgeBR/mock-interviewer/internal/phases"
	"github.com/CodexForgeBR/mock-interviewer/internal/scorecard"
)

// Store drivers.
const (
	DriverFile   = "file"
	DriverMemory = "memory"
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Drivers lists every recognized store driver.
var Drivers = []string{DriverFile, DriverMemory, DriverMongo, DriverSQLite, DriverRedis}

// Config holds every configuration field for the interviewer.
type Config struct {
	Interview InterviewConfig `koanf:"interview"`
	Plan      PlanConfig      `koanf:"plan"`
	AI        AIConfig        `koanf:"ai"`
	Store     StoreConfig     `koanf:"store"`
	Server    ServerConfig    `koanf:"server"`
	Notify    NotifyConfig    `koanf:"notify"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Verbose   bool            `koanf:"verbose"`
}

// InterviewConfig holds the session bounds, follow-up policy and score thresholds.
type InterviewConfig struct {
	Preset              string        `koanf:"preset"`
	MinQuestions        int           `koanf:"min_questions"`
	MaxQuestions        int           `koanf:"max_questions"`
	FollowupProbability float64       `koanf:"followup_probability"`
	FollowupBudget      int           `koanf:"followup_budget"`
	StrengthThreshold   float64       `koanf:"strength_threshold"`
	WeaknessThreshold   float64       `koanf:"weakness_threshold"`
	Seed                int64         `koanf:"seed"`
	EvaluatorTimeout    time.Duration `koanf:"evaluator_timeout"`
	QuestionTimeout     time.Duration `koanf:"question_timeout"`
}

// PlanConfig is the phase-length table.
type PlanConfig struct {
	Default  phases.Plan     `koanf:"default"`
	Brackets []BracketConfig `koanf:"brackets"`
}

// BracketConfig is one row of the phase-length table, flattened for config files.
type BracketConfig struct {
	MinAvg       float64 `koanf:"min_avg"`
	MaxAvg       float64 `koanf:"max_avg"`
	Basic        int     `koanf:"basic"`
	Intermediate int     `koanf:"intermediate"`
	Advanced     int     `koanf:"advanced"`
}

// AIConfig selects the language-model backend.
type AIConfig struct {
	Backend            string        `koanf:"backend"`
	Model              string        `koanf:"model"`
	APIKey             string        `koanf:"api_key"`
	BaseURL            string        `koanf:"base_url"`
	MaxRetries         int           `koanf:"max_retries"`
	RetryBaseDelay     time.Duration `koanf:"retry_base_delay"`
	MaxTokens          int           `koanf:"max_tokens"`
	SummaryTokenBudget int           `koanf:"summary_token_budget"`
}

// StoreConfig selects where sessions and scorecards are persisted.
type StoreConfig struct {
	Driver        string        `koanf:"driver"`
	Dir           string        `koanf:"dir"`
	MongoURI      string        `koanf:"mongo_uri"`
	MongoDatabase string        `koanf:"mongo_database"`
	SQLitePath    string        `koanf:"sqlite_path"`
	RedisAddr     string        `koanf:"redis_addr"`
	RedisTTL      time.Duration `koanf:"redis_ttl"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr        string   `koanf:"addr"`
	CORSOrigins []string `koanf:"cors_origins"`
}

// NotifyConfig configures the recruiter webhook. An empty webhook disables it.
type NotifyConfig struct {
	Webhook string `koanf:"webhook"`
}

// TelemetryConfig toggles span export.
type TelemetryConfig struct {
	Enabled bool `koanf:"enabled"`
}

// NewDefaultConfig returns a Config populated with all built-in default values.
func NewDefaultConfig() *Config {
	cfg, err := LoadWithPrecedence("", "", "", nil)
	if err != nil {
		// Only reachable if the embedded YAML is malformed.
		panic(fmt.Sprintf("embedded defaults: %v", err))
	}
	return cfg
}

// Policy converts the interview and plan sections into a progression policy.
func (c *Config) Policy() phases.Policy {
	p := phases.Policy{
		Default:             c.Plan.Default,
		MinQuestions:        c.Interview.MinQuestions,
		MaxQuestions:        c.Interview.MaxQuestions,
		FollowupProbability: c.Interview.FollowupProbability,
		FollowupBudget:      c.Interview.FollowupBudget,
	}
	for _, b := range c.Plan.Brackets {
		p.Brackets = append(p.Brackets, phases.Bracket{
			MinAvg: b.MinAvg,
			MaxAvg: b.MaxAvg,
			Plan:   phases.Plan{Basic: b.Basic, Intermediate: b.Intermediate, Advanced: b.Advanced},
		})
	}
	return p
}

// Thresholds returns the scorecard classification thresholds.
func (c *Config) Thresholds() scorecard.Thresholds {
	return scorecard.Thresholds{
		Strength: c.Interview.StrengthThreshold,
		Weakness: c.Interview.WeaknessThreshold,
	}
}

// ControllerOptions returns everything a phases.Controller needs from the config.
func (c *Config) ControllerOptions() phases.Options {
	return phases.Options{
		Policy:           c.Policy(),
		Thresholds:       c.Thresholds(),
		EvaluatorTimeout: c.Interview.EvaluatorTimeout,
		QuestionTimeout:  c.Interview.QuestionTimeout,
		Seed:             c.Interview.Seed,
	}
}

// AIOptions returns the backend options. An empty api key falls back to the
// provider's conventional environment variable.
func (c *Config) AIOptions() ai.Options {
	key := c.AI.APIKey
	if key == "" {
		switch c.AI.Backend {
		case ai.BackendAnthropic:
			key = os.Getenv("ANTHROPIC_API_KEY")
		case ai.BackendGemini:
			key = os.Getenv("GEMINI_API_KEY")
		}
	}
	return ai.Options{
		Backend:        c.AI.Backend,
		Model:          c.AI.Model,
		APIKey:         key,
		BaseURL:        c.AI.BaseURL,
		MaxRetries:     c.AI.MaxRetries,
		RetryBaseDelay: c.AI.RetryBaseDelay,
	}
}

// Validate rejects configurations the controller could not run with.
func (c *Config) Validate() error {
	if err := c.Policy().Validate(); err != nil {
		return err
	}
	if c.Interview.WeaknessThreshold > c.Interview.StrengthThreshold {
		return fmt.Errorf("weakness threshold %g exceeds strength threshold %g",
			c.Interview.WeaknessThreshold, c.Interview.StrengthThreshold)
	}
	if c.Interview.EvaluatorTimeout <= 0 || c.Interview.QuestionTimeout <= 0 {
		return fmt.Errorf("evaluator and question timeouts must be positive")
	}
	if !slices.Contains(ai.Backends, c.AI.Backend) {
		return fmt.Errorf("unknown ai backend %q (want one of %v)", c.AI.Backend, ai.Backends)
	}
	if c.AI.MaxRetries < 0 {
		return fmt.Errorf("ai max retries must not be negative, got %d", c.AI.MaxRetries)
	}
	if !slices.Contains(Drivers, c.Store.Driver) {
		return fmt.Errorf("unknown store driver %q (want one of %v)", c.Store.Driver, Drivers)
	}
	return nil
}
