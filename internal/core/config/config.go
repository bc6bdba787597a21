// Package config handles project configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Filename is the project configuration file, found at the project root.
const Filename = "aipm.yaml"

// ErrNoProject indicates no aipm.yaml was found in the working directory or
// any of its parents. This is the only unrecoverable setup failure.
var ErrNoProject = errors.New("no aipm project found")

// Config holds the project configuration.
type Config struct {
	Project   Project        `yaml:"project"`
	OutputDir string         `yaml:"output_dir"`
	GitPath   string         `yaml:"git_path"`
	Assistant Assistant      `yaml:"assistant"`
	Check     Check          `yaml:"check"`
	Sources   []SourceConfig `yaml:"sources"`

	// Root is the directory containing aipm.yaml, set by the loader.
	Root string `yaml:"-"`
}

// Project describes the managed project.
type Project struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Assistant configures the AI assistant command.
type Assistant struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

// Check configures the completion-inference engine.
type Check struct {
	// LogLimit bounds how many recent commits are scanned per repository.
	LogLimit int `yaml:"log_limit"`
	// DiffBudget caps the assembled diff text handed to the assistant, in
	// characters.
	DiffBudget int `yaml:"diff_budget"`
	// Workers bounds how many ticket pipelines run concurrently.
	Workers int `yaml:"workers"`
}

// SourceConfig describes one external issue source.
type SourceConfig struct {
	Type       string `yaml:"type"` // "github" or "jira"
	URL        string `yaml:"url"`
	Name       string `yaml:"name,omitempty"`
	ProjectKey string `yaml:"project_key,omitempty"`
	Filter     string `yaml:"filter,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		OutputDir: "generated",
		GitPath:   "git",
		Assistant: Assistant{
			Command: "claude",
			Args:    []string{"--print"},
		},
		Check: Check{
			LogLimit:   50,
			DiffBudget: 12000,
			Workers:    1,
		},
	}
}

// FindRoot searches upward from start for a directory containing aipm.yaml.
func FindRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, Filename)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: run 'aipm init' first", ErrNoProject)
		}
		dir = parent
	}
}

// Load finds the project root starting at start, reads aipm.yaml, applies
// defaults, and validates the result.
func Load(start string) (*Config, error) {
	root, err := FindRoot(start)
	if err != nil {
		return nil, err
	}
	return LoadFrom(root)
}

// LoadFrom reads aipm.yaml from a known project root.
func LoadFrom(root string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filepath.Join(root, Filename))
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg.Root = root
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Save writes the configuration to aipm.yaml under root.
func (c *Config) Save(root string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(root, Filename), data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.OutputDir == "" {
		c.OutputDir = defaults.OutputDir
	}
	if c.GitPath == "" {
		c.GitPath = defaults.GitPath
	}
	if c.Assistant.Command == "" {
		c.Assistant = defaults.Assistant
	}
	if c.Check.LogLimit == 0 {
		c.Check.LogLimit = defaults.Check.LogLimit
	}
	if c.Check.DiffBudget == 0 {
		c.Check.DiffBudget = defaults.Check.DiffBudget
	}
	if c.Check.Workers == 0 {
		c.Check.Workers = defaults.Check.Workers
	}
}
