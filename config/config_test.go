package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{"api_key":"sk-test","base_url":"https://llm.example.com/v1","model":"gpt-4.1","temperature":0}`)
	conf, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if conf.APIKey != "sk-test" || conf.BaseURL != "https://llm.example.com/v1" || conf.Model != "gpt-4.1" {
		t.Errorf("unexpected config %+v", conf)
	}
	if conf.Strategy != StrategyRemote {
		t.Errorf("strategy = %q, want remote when an api key is set", conf.Strategy)
	}
	if conf.TemperatureValue() != 0 {
		t.Errorf("explicit zero temperature lost: %v", conf.TemperatureValue())
	}
	if conf.MaxTokens != DefaultMaxTokens || conf.Timeout() != 30*time.Second {
		t.Errorf("defaults not applied: %+v", conf)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", "strategy: Tool\napi_key: sk-yaml\nmax_tokens: 256\ntimeout_seconds: 5\n")
	conf, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if conf.Strategy != StrategyTool || conf.MaxTokens != 256 || conf.Timeout() != 5*time.Second {
		t.Errorf("unexpected config %+v", conf)
	}
	if conf.Model != DefaultModel || conf.TemperatureValue() != DefaultTemperature {
		t.Errorf("defaults not applied: %s", conf)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeFile(t, "config.json", `{"api_key":"sk-file","model":"file-model"}`)
	t.Setenv("OFFERS_MODEL", "env-model")
	t.Setenv("OFFERS_STRATEGY", "local")
	t.Setenv("OFFERS_TEMPERATURE", "1.5")
	conf, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if conf.APIKey != "sk-file" || conf.Model != "env-model" || conf.Strategy != StrategyLocal || conf.TemperatureValue() != 1.5 {
		t.Errorf("unexpected config %s", conf)
	}
}

func TestLoadWithoutFile(t *testing.T) {
	conf, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if conf.Strategy != StrategyLocal {
		t.Errorf("strategy = %q, want local without an api key", conf.Strategy)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]string{
		"unknown strategy":   writeFile(t, "a.json", `{"strategy":"magic"}`),
		"remote without key": writeFile(t, "b.json", `{"strategy":"remote"}`),
		"temperature":        writeFile(t, "c.yaml", "temperature: 3\n"),
		"negative tokens":    writeFile(t, "d.yml", "max_tokens: -1\n"),
		"format":             writeFile(t, "e.toml", "model = 'x'\n"),
	}
	for name, path := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(path); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestStringRedactsKey(t *testing.T) {
	conf := &Config{APIKey: "sk-secret", Strategy: StrategyRemote, Model: DefaultModel}
	out := conf.String()
	if strings.Contains(out, "sk-secret") || !strings.Contains(out, "<redacted>") {
		t.Errorf("api key leaked or not redacted: %s", out)
	}
}

func TestOverrideStrategy(t *testing.T) {
	conf := &Config{APIKey: "sk-test", Strategy: StrategyLocal, Model: DefaultModel}
	for in, want := range map[string]string{" Tool ": StrategyTool, "REMOTE": StrategyRemote, "local\n": StrategyLocal} {
		if err := conf.OverrideStrategy(in); err != nil {
			t.Fatalf("override %q: %v", in, err)
		}
		if conf.Strategy != want {
			t.Errorf("override %q: strategy = %q, want %q", in, conf.Strategy, want)
		}
	}

	conf.APIKey = ""
	if err := conf.OverrideStrategy(" Remote"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig without api key, got %v", err)
	}
	if err := conf.OverrideStrategy("cloud"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for unknown strategy, got %v", err)
	}
}
