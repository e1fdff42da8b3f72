package config

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks environment variables read as configuration. A double
// underscore separates nesting levels: INTERVIEWER_INTERVIEW__MAX_QUESTIONS.
const EnvPrefix = "INTERVIEWER_"

// ProjectFile is the per-directory config file name.
const ProjectFile = ".interviewer.yaml"

// Presets lists the built-in preset names.
var Presets = []string{"adaptive", "extended"}

//go:embed defaults.yaml
var defaultsYAML []byte

//go:embed presets/*.yaml
var presetFS embed.FS

// rawYAML serves an in-memory YAML document to koanf.
type rawYAML []byte

func (r rawYAML) ReadBytes() ([]byte, error) { return r, nil }

func (r rawYAML) Read() (map[string]interface{}, error) {
	return nil, errors.New("rawYAML provider does not support Read")
}

// DefaultGlobalPath returns the per-user config file location.
func DefaultGlobalPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "interviewer", "config.yaml")
}

// LoadDotEnv loads KEY=VALUE pairs from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// LoadWithPrecedence assembles a Config by merging sources in order of
// increasing priority:
//
//  1. Built-in defaults
//  2. Preset named by interview.preset (resolved from every other layer)
//  3. Global config file (globalPath)
//  4. Project config file (projectPath)
//  5. Explicit config file (explicitPath)
//  6. Environment variables with EnvPrefix
//  7. CLI overrides (cliOverrides map, dotted keys such as "interview.max_questions")
//
// Empty paths are skipped, and so are missing global or project files. An
// explicit file that cannot be loaded is an error.
func LoadWithPrecedence(globalPath, projectPath, explicitPath string, cliOverrides map[string]string) (*Config, error) {
	// First pass: find out which preset the user asked for.
	probe, err := merge("", globalPath, projectPath, explicitPath, cliOverrides)
	if err != nil {
		return nil, err
	}
	preset := probe.String("interview.preset")

	k, err := merge(preset, globalPath, projectPath, explicitPath, cliOverrides)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

func merge(preset, globalPath, projectPath, explicitPath string, cliOverrides map[string]string) (*koanf.Koanf, error) {
	k := koanf.New(".")
	parser := yaml.Parser()

	if err := k.Load(rawYAML(defaultsYAML), parser); err != nil {
		return nil, fmt.Errorf("defaults: %w", err)
	}

	if preset != "" {
		b, err := presetFS.ReadFile("presets/" + preset + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("unknown preset %q (want one of %v)", preset, Presets)
		}
		if err := k.Load(rawYAML(b), parser); err != nil {
			return nil, fmt.Errorf("preset %s: %w", preset, err)
		}
	}

	for _, layer := range []struct {
		name     string
		path     string
		optional bool
	}{
		{"global config", globalPath, true},
		{"project config", projectPath, true},
		{"explicit config", explicitPath, false},
	} {
		if layer.path == "" {
			continue
		}
		if err := k.Load(file.Provider(layer.path), parser); err != nil {
			if layer.optional && errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("%s: %w", layer.name, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}

	for key, value := range cliOverrides {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("override %s: %w", key, err)
		}
	}
	return k, nil
}

// envKey maps INTERVIEWER_AI__API_KEY to ai.api_key.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}
