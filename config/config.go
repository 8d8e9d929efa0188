package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/citadelmro/capplan/core/factory"
)

// Config is the root configuration of the planning service.
type Config struct {
	Repository factory.ModuleConfig `json:"repository"`
	Planner    PlannerConfig        `json:"planner"`
	Metrics    MetricsConfig        `json:"metrics"`
	Sentry     SentryConfig         `json:"sentry"`
}

// MetricsConfig selects the plan sinks to record to.
type MetricsConfig struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
}

// SentryConfig enables error reporting when a DSN is set.
type SentryConfig struct {
	DSN              string  `json:"dsn"`
	Environment      string  `json:"environment"`
	TracesSampleRate float64 `json:"traces_sample_rate"`
	Release          string  `json:"release"`
}

// Load reads the configuration file (yaml or json by extension) with
// optional CAP_ environment overrides.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("CAP_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "cap_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies sane defaults to every section.
func (c *Config) SetDefaults() {
	if c.Repository.Type == "" {
		c.Repository.Type = "memory"
	}
	c.Planner.SetDefaults()
}

// Validate checks every section.
func (c *Config) Validate() error {
	return c.Planner.Validate()
}
