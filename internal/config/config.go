package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/suykerbuyk/examnotes/internal/llm"
	"github.com/suykerbuyk/examnotes/internal/logger"
	"github.com/suykerbuyk/examnotes/internal/notes"
)

// Environment variables read by Load.
const (
	EnvModel   = "MODEL_NAME"
	EnvBaseURL = "OPENAI_BASE_URL"
)

// Config holds all examnotes configuration.
type Config struct {
	LLM    LLMConfig    `toml:"llm"`
	Retry  RetryConfig  `toml:"retry"`
	Log    LogConfig    `toml:"log"`
	Server ServerConfig `toml:"server"`

	// APIKey is resolved from the variable named by LLM.APIKeyEnv.
	APIKey string `toml:"-"`
}

type LLMConfig struct {
	Model          string   `toml:"model"`
	BaseURL        string   `toml:"base_url"`
	APIKeyEnv      string   `toml:"api_key_env"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
	ResponseFormat string   `toml:"response_format"`
	Temperature    *float64 `toml:"temperature"`
	MaxTokens      int      `toml:"max_tokens"`
}

type RetryConfig struct {
	// On lists the error kinds that earn a second attempt.
	On []string `toml:"on"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type ServerConfig struct {
	Addr                  string `toml:"addr"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LLM: LLMConfig{
			Model:          "openai/gpt-oss-120b:free",
			BaseURL:        "https://openrouter.ai/api/v1",
			APIKeyEnv:      "OPENROUTER_API_KEY",
			TimeoutSeconds: 0,
			ResponseFormat: llm.FormatNone,
		},
		Retry: RetryConfig{
			On: []string{
				notes.KindTransport.String(),
				notes.KindSchema.String(),
				notes.KindUpstreamContent.String(),
			},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{
			Addr:                  ":8080",
			RequestTimeoutSeconds: 60,
		},
	}
}

// Load reads config from path, or from the standard locations when path is
// empty, then applies environment overrides. A missing file at a standard
// location is not an error; a missing explicit path is.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if p, ok := FilePath(path); ok {
		if _, err := toml.DecodeFile(p, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", p, err)
		}
	}

	cfg.applyEnv()
	return cfg, cfg.Validate()
}

// FilePath resolves the config file Load reads. An explicit path is
// returned as-is; otherwise the first existing standard location wins.
// ok is false when no file will be read.
func FilePath(explicit string) (path string, ok bool) {
	if explicit != "" {
		return explicit, true
	}
	for _, p := range configPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	return "", false
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvModel); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.LLM.BaseURL = v
	}
	if c.LLM.APIKeyEnv != "" {
		c.APIKey = os.Getenv(c.LLM.APIKeyEnv)
	}
}

// Validate rejects values the rest of the program cannot act on.
func (c Config) Validate() error {
	if strings.TrimSpace(c.LLM.Model) == "" {
		return fmt.Errorf("llm.model is required")
	}
	switch c.LLM.ResponseFormat {
	case "", llm.FormatNone, llm.FormatJSONObject, llm.FormatJSONSchema:
	default:
		return fmt.Errorf("llm.response_format %q: want one of none, json_object, json_schema", c.LLM.ResponseFormat)
	}
	if c.LLM.TimeoutSeconds < 0 {
		return fmt.Errorf("llm.timeout_seconds must not be negative")
	}
	for _, k := range c.Retry.On {
		if _, err := notes.ParseKind(k); err != nil {
			return fmt.Errorf("retry.on: %w", err)
		}
	}
	if _, ok := logger.ParseLevel(c.Log.Level); !ok {
		return fmt.Errorf("log.level %q: want one of %s", c.Log.Level, strings.Join(logger.Levels, ", "))
	}
	if f := strings.ToLower(c.Log.Format); f != "" && !slices.Contains([]string{"console", "json"}, f) {
		return fmt.Errorf("log.format %q: want console or json", c.Log.Format)
	}
	return nil
}

// LLMClientConfig converts the [llm] section into client settings.
func (c Config) LLMClientConfig() llm.Config {
	return llm.Config{
		Model:          c.LLM.Model,
		BaseURL:        c.LLM.BaseURL,
		APIKey:         c.APIKey,
		Timeout:        time.Duration(c.LLM.TimeoutSeconds) * time.Second,
		ResponseFormat: c.LLM.ResponseFormat,
		Temperature:    c.LLM.Temperature,
		MaxTokens:      c.LLM.MaxTokens,
	}
}

// RetryKinds returns the parsed retry.on kinds. Call after Validate.
func (c Config) RetryKinds() []notes.Kind {
	kinds := make([]notes.Kind, 0, len(c.Retry.On))
	for _, s := range c.Retry.On {
		if k, err := notes.ParseKind(s); err == nil {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// RequestTimeout is the per-request deadline in serve mode.
func (c Config) RequestTimeout() time.Duration {
	if c.Server.RequestTimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.Server.RequestTimeoutSeconds) * time.Second
}

func configPaths() []string {
	var paths []string

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "examnotes", "config.toml"))
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		paths = append(paths, filepath.Join(home, ".config", "examnotes", "config.toml"))
	}

	return paths
}
