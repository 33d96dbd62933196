// Package config loads the generator settings from a JSON or YAML file and
// lets OFFERS_* environment variables override them.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	StrategyLocal  = "local"
	StrategyRemote = "remote"
	StrategyTool   = "tool"
)

const (
	DefaultModel          = "gpt-4o-mini"
	DefaultTemperature    = float32(0.7)
	DefaultMaxTokens      = 1024
	DefaultTimeoutSeconds = 30
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	APIKey         string   `json:"api_key" yaml:"api_key" env:"OFFERS_API_KEY"`
	BaseURL        string   `json:"base_url" yaml:"base_url" env:"OFFERS_BASE_URL"`
	Model          string   `json:"model" yaml:"model" env:"OFFERS_MODEL"`
	Strategy       string   `json:"strategy,omitempty" yaml:"strategy,omitempty" env:"OFFERS_STRATEGY"`
	Temperature    *float32 `json:"temperature,omitempty" yaml:"temperature,omitempty" env:"OFFERS_TEMPERATURE"`
	MaxTokens      int      `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty" env:"OFFERS_MAX_TOKENS"`
	TimeoutSeconds int      `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty" env:"OFFERS_TIMEOUT_SECONDS"`
}

// Load reads path (skipped when empty), applies environment overrides and
// defaults, and validates the result.
func Load(path string) (*Config, error) {
	conf := &Config{}
	if path != "" {
		if err := readFile(path, conf); err != nil {
			return nil, err
		}
	}
	if err := env.Parse(conf); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	conf.applyDefaults()
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func readFile(path string, conf *Config) error {
	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(file, conf)
	case ".json", "":
		err = sonic.Unmarshal(file, conf)
	default:
		return fmt.Errorf("%w: unsupported config format %q", ErrInvalidConfig, filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

func normalizeStrategy(strategy string) string {
	return strings.ToLower(strings.TrimSpace(strategy))
}

// OverrideStrategy replaces the loaded strategy, normalized the same way, and
// validates the result.
func (c *Config) OverrideStrategy(strategy string) error {
	c.Strategy = normalizeStrategy(strategy)
	return c.Validate()
}

func (c *Config) applyDefaults() {
	c.Strategy = normalizeStrategy(c.Strategy)
	if c.Strategy == "" {
		if c.APIKey != "" {
			c.Strategy = StrategyRemote
		} else {
			c.Strategy = StrategyLocal
		}
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Temperature == nil {
		t := DefaultTemperature
		c.Temperature = &t
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = DefaultTimeoutSeconds
	}
}

func (c *Config) Validate() error {
	switch c.Strategy {
	case StrategyLocal:
	case StrategyRemote, StrategyTool:
		if c.APIKey == "" {
			return fmt.Errorf("%w: strategy %q needs an api key", ErrInvalidConfig, c.Strategy)
		}
	default:
		return fmt.Errorf("%w: unknown strategy %q", ErrInvalidConfig, c.Strategy)
	}
	if t := c.TemperatureValue(); t < 0 || t > 2 {
		return fmt.Errorf("%w: temperature %.2f out of range [0, 2]", ErrInvalidConfig, t)
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("%w: max_tokens must not be negative", ErrInvalidConfig)
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: timeout_seconds must not be negative", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) TemperatureValue() float32 {
	if c.Temperature == nil {
		return DefaultTemperature
	}
	return *c.Temperature
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// String never includes the API key.
func (c *Config) String() string {
	key := "<empty>"
	if c.APIKey != "" {
		key = "<redacted>"
	}
	return fmt.Sprintf("strategy=%s model=%s base_url=%s api_key=%s temperature=%.2f max_tokens=%d timeout=%s",
		c.Strategy, c.Model, c.BaseURL, key, c.TemperatureValue(), c.MaxTokens, c.Timeout())
}
