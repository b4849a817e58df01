// Package config loads astropipe settings from a YAML file.
// A missing file yields the defaults; command-line flags override both.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gaurav-prasanna/astropipe/core"
	"github.com/gaurav-prasanna/astropipe/core/embed"
	"github.com/gaurav-prasanna/astropipe/core/highlight"
	"github.com/gaurav-prasanna/astropipe/core/pipeline"
)

// EnvLogLevel overrides logging.level when set.
const EnvLogLevel = "ASTROPIPE_LOG_LEVEL"

// Config holds all settings.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Highlight HighlightConfig `yaml:"highlight"`
	Embed     embed.Rules     `yaml:"embed"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
	Mode  string `yaml:"mode"` // "dev" or "prod"
}

// PipelineConfig configures narrative rendering.
type PipelineConfig struct {
	PlainTextPolicy string `yaml:"plain_text_policy"`
}

// HighlightConfig configures the phrase table.
type HighlightConfig struct {
	// Extend appends Rules to the built-in table instead of replacing it.
	Extend bool                 `yaml:"extend"`
	Rules  []core.HighlightRule `yaml:"rules"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level: "info",
			Mode:  "dev",
		},
		Pipeline: PipelineConfig{
			PlainTextPolicy: string(pipeline.PolicyNarrative),
		},
		Highlight: HighlightConfig{
			Extend: true,
		},
		Embed: embed.DefaultRules(),
	}
}

// Load loads configuration from a YAML file. An empty path or a missing
// file returns the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		c.Logging.Level = lvl
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if _, err := pipeline.ParsePolicy(c.Pipeline.PlainTextPolicy); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	for i, r := range c.Highlight.Rules {
		cat, err := core.ParseCategory(string(r.Category))
		if err != nil {
			return fmt.Errorf("highlight rule %d: %w", i, err)
		}
		c.Highlight.Rules[i].Category = cat
		if strings.TrimSpace(r.Phrase) == "" {
			return fmt.Errorf("highlight rule %d: empty phrase", i)
		}
	}
	if err := c.Embed.Validate(); err != nil {
		return fmt.Errorf("embed: %w", err)
	}
	return nil
}

// HighlightRules returns the effective rule table.
func (c *Config) HighlightRules() []core.HighlightRule {
	if !c.Highlight.Extend && len(c.Highlight.Rules) > 0 {
		return c.Highlight.Rules
	}
	return append(highlight.DefaultRules(), c.Highlight.Rules...)
}

// NewPipeline builds a Pipeline from the configuration.
func (c *Config) NewPipeline(opts ...pipeline.Option) (*pipeline.Pipeline, error) {
	policy, err := pipeline.ParsePolicy(c.Pipeline.PlainTextPolicy)
	if err != nil {
		return nil, err
	}
	h, err := highlight.New(c.HighlightRules())
	if err != nil {
		return nil, fmt.Errorf("building highlighter: %w", err)
	}
	base := []pipeline.Option{
		pipeline.WithHighlighter(h),
		pipeline.WithPlainTextPolicy(policy),
	}
	return pipeline.New(append(base, opts...)...), nil
}

// NewEmbedNormalizer builds the embed normalizer from the configuration.
func (c *Config) NewEmbedNormalizer() (*embed.Normalizer, error) {
	return embed.New(c.Embed)
}
