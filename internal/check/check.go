package check

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/suykerbuyk/examnotes/internal/config"
	"github.com/suykerbuyk/examnotes/internal/llm"
	"github.com/suykerbuyk/examnotes/internal/notes"
)

// Status represents the outcome of a single check.
type Status int

const (
	Pass Status = iota
	Warn
	Fail
)

func (s Status) String() string {
	switch s {
	case Pass:
		return "pass"
	case Warn:
		return "warn"
	case Fail:
		return "FAIL"
	default:
		return "unknown"
	}
}

// Result holds the outcome of a single check.
type Result struct {
	Name   string
	Status Status
	Detail string
}

// Report aggregates all check results.
type Report struct {
	Results []Result
}

// HasFailures returns true if any result has Fail status.
func (r Report) HasFailures() bool {
	for _, res := range r.Results {
		if res.Status == Fail {
			return true
		}
	}
	return false
}

// Format returns the human-readable report string.
func (r Report) Format() string {
	if len(r.Results) == 0 {
		return "examnotes check\n\n  no checks ran\n"
	}

	maxName := 0
	for _, res := range r.Results {
		if len(res.Name) > maxName {
			maxName = len(res.Name)
		}
	}

	var b strings.Builder
	b.WriteString("examnotes check\n\n")

	var passed, warnings, failures int
	for _, res := range r.Results {
		switch res.Status {
		case Pass:
			passed++
		case Warn:
			warnings++
		case Fail:
			failures++
		}
		fmt.Fprintf(&b, "  %-4s  %-*s  %s\n", res.Status, maxName, res.Name, res.Detail)
	}

	fmt.Fprintf(&b, "\n%d passed, %d warning, %d failure\n", passed, warnings, failures)
	return b.String()
}

// CheckConfigFile reports which config file is in effect. Running on
// defaults is fine; broken TOML fails Load before we get here.
func CheckConfigFile(explicit string) Result {
	path, ok := config.FilePath(explicit)
	if !ok {
		return Result{Name: "config", Status: Pass, Detail: "defaults (no config.toml)"}
	}
	return Result{Name: "config", Status: Pass, Detail: config.CompressHome(path)}
}

// CheckModel reports the model identifier and where it came from.
func CheckModel(model string) Result {
	if strings.TrimSpace(model) == "" {
		return Result{Name: "model", Status: Fail, Detail: "no model configured"}
	}
	detail := model
	if os.Getenv(config.EnvModel) != "" {
		detail += " (from " + config.EnvModel + ")"
	}
	return Result{Name: "model", Status: Pass, Detail: detail}
}

// CheckBaseURL checks that the endpoint is an absolute http(s) URL.
func CheckBaseURL(raw string) Result {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return Result{Name: "base_url", Status: Fail, Detail: fmt.Sprintf("%q is not an absolute URL", raw)}
	}
	switch u.Scheme {
	case "https":
		return Result{Name: "base_url", Status: Pass, Detail: raw}
	case "http":
		return Result{Name: "base_url", Status: Warn, Detail: raw + " (plain http)"}
	default:
		return Result{Name: "base_url", Status: Fail, Detail: "unsupported scheme " + u.Scheme}
	}
}

// CheckAPIKey checks that the configured key variable is set. The value
// itself is never shown.
func CheckAPIKey(envName, key string) Result {
	if envName == "" {
		return Result{Name: "api_key", Status: Fail, Detail: "llm.api_key_env is empty"}
	}
	if key == "" {
		return Result{Name: "api_key", Status: Fail, Detail: envName + " not set"}
	}
	return Result{Name: "api_key", Status: Pass, Detail: envName + " set"}
}

// CheckResponseFormat reports the structured output mode sent upstream.
func CheckResponseFormat(format string) Result {
	switch format {
	case "", llm.FormatNone:
		return Result{Name: "response_format", Status: Pass, Detail: "none (prompt-only JSON)"}
	case llm.FormatJSONObject, llm.FormatJSONSchema:
		return Result{Name: "response_format", Status: Pass, Detail: format}
	default:
		return Result{Name: "response_format", Status: Fail, Detail: "unknown format " + format}
	}
}

// CheckRetry lists the failure kinds that earn a second attempt.
func CheckRetry(kinds []notes.Kind) Result {
	if len(kinds) == 0 {
		return Result{Name: "retry", Status: Warn, Detail: "disabled (single attempt)"}
	}
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return Result{Name: "retry", Status: Pass, Detail: strings.Join(names, ", ")}
}

// Run executes all checks against the given config and returns a report.
func Run(cfg config.Config, explicitPath string) Report {
	return Report{Results: []Result{
		CheckConfigFile(explicitPath),
		CheckModel(cfg.LLM.Model),
		CheckBaseURL(cfg.LLM.BaseURL),
		CheckAPIKey(cfg.LLM.APIKeyEnv, cfg.APIKey),
		CheckResponseFormat(cfg.LLM.ResponseFormat),
		CheckRetry(cfg.RetryKinds()),
	}}
}
