package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConfigDir returns the examnotes config directory path.
// Uses $XDG_CONFIG_HOME/examnotes if set, otherwise ~/.config/examnotes.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "examnotes")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "examnotes")
}

const defaultFile = `[llm]
model = "openai/gpt-oss-120b:free"
base_url = "https://openrouter.ai/api/v1"
api_key_env = "OPENROUTER_API_KEY"
# 0 keeps the HTTP transport default.
timeout_seconds = 0
# none, json_object or json_schema
response_format = "none"
# temperature = 0.3
# max_tokens = 2048

[retry]
# Error kinds that earn a second attempt: transport, schema, upstream_content.
on = ["transport", "schema", "upstream_content"]

[log]
level = "info"
format = "console"

[server]
addr = ":8080"
request_timeout_seconds = 60
`

// WriteDefault writes a default config.toml to ConfigDir.
// Returns the config file path and whether it was created. Skips if
// config.toml already exists.
func WriteDefault() (string, bool, error) {
	dir := ConfigDir()
	path := filepath.Join(dir, "config.toml")

	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", false, fmt.Errorf("create config dir: %w", err)
	}

	if err := os.WriteFile(path, []byte(defaultFile), 0o644); err != nil {
		return "", false, fmt.Errorf("write config: %w", err)
	}

	return path, true, nil
}

// CompressHome replaces the user's home directory prefix with ~.
func CompressHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if strings.HasPrefix(path, home+"/") {
		return "~/" + path[len(home)+1:]
	}
	if path == home {
		return "~"
	}
	return path
}
