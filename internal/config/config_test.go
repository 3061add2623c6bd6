package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/suykerbuyk/examnotes/internal/notes"
)

// isolate points every config source at empty temp dirs and clears the
// environment overrides.
func isolate(t *testing.T) (xdg string) {
	t.Helper()
	xdg = t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvModel, "")
	t.Setenv(EnvBaseURL, "")
	t.Setenv("OPENROUTER_API_KEY", "")
	return xdg
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LLM.Model != "openai/gpt-oss-120b:free" {
		t.Errorf("LLM.Model = %q", cfg.LLM.Model)
	}
	if cfg.LLM.BaseURL != "https://openrouter.ai/api/v1" {
		t.Errorf("LLM.BaseURL = %q", cfg.LLM.BaseURL)
	}
	if cfg.LLM.APIKeyEnv != "OPENROUTER_API_KEY" {
		t.Errorf("LLM.APIKeyEnv = %q", cfg.LLM.APIKeyEnv)
	}
	if cfg.LLM.TimeoutSeconds != 0 {
		t.Errorf("LLM.TimeoutSeconds = %d", cfg.LLM.TimeoutSeconds)
	}
	if cfg.LLM.ResponseFormat != "none" {
		t.Errorf("LLM.ResponseFormat = %q", cfg.LLM.ResponseFormat)
	}
	if len(cfg.Retry.On) != 3 {
		t.Errorf("Retry.On = %v, want all three kinds", cfg.Retry.On)
	}
	if cfg.Server.RequestTimeoutSeconds != 60 {
		t.Errorf("Server.RequestTimeoutSeconds = %d", cfg.Server.RequestTimeoutSeconds)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_NoConfig(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.Model != DefaultConfig().LLM.Model {
		t.Errorf("LLM.Model = %q", cfg.LLM.Model)
	}
	if cfg.APIKey != "" {
		t.Errorf("APIKey = %q, want empty", cfg.APIKey)
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	xdg := isolate(t)

	writeConfig(t, filepath.Join(xdg, "examnotes"), `[llm]
model = "custom/model"
base_url = "http://localhost:9999/v1"
api_key_env = "EXAMNOTES_TEST_KEY"
timeout_seconds = 30
response_format = "json_schema"
temperature = 0.2

[retry]
on = ["transport"]

[log]
level = "debug"
format = "json"
`)
	t.Setenv("EXAMNOTES_TEST_KEY", "sk-test")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.LLM.Model != "custom/model" {
		t.Errorf("LLM.Model = %q", cfg.LLM.Model)
	}
	if cfg.LLM.BaseURL != "http://localhost:9999/v1" {
		t.Errorf("LLM.BaseURL = %q", cfg.LLM.BaseURL)
	}
	if cfg.APIKey != "sk-test" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
	if cfg.LLM.Temperature == nil || *cfg.LLM.Temperature != 0.2 {
		t.Errorf("LLM.Temperature = %v", cfg.LLM.Temperature)
	}
	if kinds := cfg.RetryKinds(); len(kinds) != 1 || kinds[0] != notes.KindTransport {
		t.Errorf("RetryKinds = %v", kinds)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}

	cc := cfg.LLMClientConfig()
	if cc.Timeout != 30*time.Second {
		t.Errorf("client Timeout = %s", cc.Timeout)
	}
	if cc.APIKey != "sk-test" || cc.ResponseFormat != "json_schema" {
		t.Errorf("client config = %+v", cc)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	xdg := isolate(t)
	writeConfig(t, filepath.Join(xdg, "examnotes"), "[llm]\nmodel = \"from/file\"\n")

	t.Setenv(EnvModel, "from/env")
	t.Setenv(EnvBaseURL, "https://example.test/v1")
	t.Setenv("OPENROUTER_API_KEY", "sk-env")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.Model != "from/env" {
		t.Errorf("LLM.Model = %q, want env override", cfg.LLM.Model)
	}
	if cfg.LLM.BaseURL != "https://example.test/v1" {
		t.Errorf("LLM.BaseURL = %q", cfg.LLM.BaseURL)
	}
	if cfg.APIKey != "sk-env" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
}

func TestLoad_ExplicitPath(t *testing.T) {
	isolate(t)
	path := writeConfig(t, t.TempDir(), "[llm]\nmodel = \"explicit/model\"\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.Model != "explicit/model" {
		t.Errorf("LLM.Model = %q", cfg.LLM.Model)
	}
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestLoad_XDGPriority(t *testing.T) {
	xdg := isolate(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	writeConfig(t, filepath.Join(xdg, "examnotes"), "[llm]\nmodel = \"from/xdg\"\n")
	writeConfig(t, filepath.Join(home, ".config", "examnotes"), "[llm]\nmodel = \"from/home\"\n")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.Model != "from/xdg" {
		t.Errorf("LLM.Model = %q, want from/xdg (XDG should take priority)", cfg.LLM.Model)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	xdg := isolate(t)
	writeConfig(t, filepath.Join(xdg, "examnotes"), `[llm
model = [broken`)

	_, err := Load("")
	if err == nil {
		t.Fatal("expected error for invalid TOML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errSub string
	}{
		{"empty model", func(c *Config) { c.LLM.Model = " " }, "llm.model"},
		{"bad format", func(c *Config) { c.LLM.ResponseFormat = "xml" }, "response_format"},
		{"negative timeout", func(c *Config) { c.LLM.TimeoutSeconds = -1 }, "timeout_seconds"},
		{"bad retry kind", func(c *Config) { c.Retry.On = []string{"network"} }, "retry.on"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.errSub) {
				t.Errorf("error %q should mention %q", err, tt.errSub)
			}
		})
	}
}

func TestValidate_EmptyRetryAllowed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Retry.On = nil
	if err := cfg.Validate(); err != nil {
		t.Errorf("empty retry.on should be valid: %v", err)
	}
	if len(cfg.RetryKinds()) != 0 {
		t.Errorf("RetryKinds = %v", cfg.RetryKinds())
	}
}

func TestRequestTimeout(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.RequestTimeout() != 60*time.Second {
		t.Errorf("RequestTimeout = %s", cfg.RequestTimeout())
	}
	cfg.Server.RequestTimeoutSeconds = 0
	if cfg.RequestTimeout() != 60*time.Second {
		t.Errorf("zero should fall back to 60s, got %s", cfg.RequestTimeout())
	}
	cfg.Server.RequestTimeoutSeconds = 5
	if cfg.RequestTimeout() != 5*time.Second {
		t.Errorf("RequestTimeout = %s", cfg.RequestTimeout())
	}
}

func TestFilePath(t *testing.T) {
	xdg := isolate(t)

	if p, ok := FilePath(""); ok {
		t.Errorf("FilePath with no config = %q, want none", p)
	}

	want := writeConfig(t, filepath.Join(xdg, "examnotes"), "[llm]\n")
	if p, ok := FilePath(""); !ok || p != want {
		t.Errorf("FilePath = %q, %v; want %q", p, ok, want)
	}

	if p, ok := FilePath("/explicit/config.toml"); !ok || p != "/explicit/config.toml" {
		t.Errorf("explicit FilePath = %q, %v", p, ok)
	}
}
