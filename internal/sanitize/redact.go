package sanitize

import "regexp"

// Placeholder replaces every redacted secret.
const Placeholder = "[REDACTED]"

var secretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bBearer\s+[A-Za-z0-9._~+/=-]{8,}`),
	regexp.MustCompile(`\bsk-(?:or-v1-|proj-)?[A-Za-z0-9_-]{16,}`),
	regexp.MustCompile(`(?i)(["']?(?:api[_-]?key|authorization)["']?\s*[:=]\s*["']?)[^\s"',}]{8,}`),
}

// Secrets masks API keys and bearer tokens in text. Provider error bodies
// sometimes echo the credential they rejected.
func Secrets(text string) string {
	for i, p := range secretPatterns {
		if i == len(secretPatterns)-1 {
			text = p.ReplaceAllString(text, "${1}"+Placeholder)
			continue
		}
		text = p.ReplaceAllString(text, Placeholder)
	}
	return text
}
