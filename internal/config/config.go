// Package config loads evalcard settings from a YAML file, a .env file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when --config is not given.
const DefaultPath = ".evalcard.yaml"

// Environment variables that override file settings.
const (
	EnvRoot        = "EVALCARD_ROOT"
	EnvEvaluator   = "EVALCARD_EVALUATOR"
	EnvProvider    = "EVALCARD_LLM_PROVIDER"
	EnvModel       = "EVALCARD_LLM_MODEL"
	EnvTemperature = "EVALCARD_LLM_TEMPERATURE"
	EnvProfile     = "EVALCARD_LLM_PROFILE"
)

// Config holds all settings.
type Config struct {
	// Root is the project root the record directories are resolved against.
	Root string `yaml:"root"`
	// Dirs are the record directories relative to Root.
	Dirs      []string  `yaml:"dirs"`
	Evaluator string    `yaml:"evaluator"`
	LLM       LLMConfig `yaml:"llm"`
}

// LLMConfig configures the assisted review.
type LLMConfig struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	// Profile names the review profile; see internal/profile.
	Profile string `yaml:"profile"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Root:      ".",
		Dirs:      []string{"public/evaluations", "data/evaluations"},
		Evaluator: "Current User",
		LLM: LLMConfig{
			Provider:    "anthropic",
			MaxTokens:   4096,
			Temperature: 0.2,
			Profile:     "general",
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment without overwriting variables that are already set. Missing
// files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("config: load %s: %w", p, err)
		}
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(EnvRoot); v != "" {
		c.Root = v
	}
	if v := os.Getenv(EnvEvaluator); v != "" {
		c.Evaluator = v
	}
	if v := os.Getenv(EnvProvider); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv(EnvModel); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv(EnvProfile); v != "" {
		c.LLM.Profile = v
	}
	if v := os.Getenv(EnvTemperature); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvTemperature, err)
		}
		c.LLM.Temperature = t
	}
	return nil
}
