package notes

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrContentTooShort is returned by the length gate that runs after
// structural validation.
var ErrContentTooShort = errors.New("Content too short. Provide at least 20 characters.")

// InputParseError means the request body was not valid JSON.
type InputParseError struct {
	Err error
}

func (e *InputParseError) Error() string { return e.Err.Error() }
func (e *InputParseError) Unwrap() error { return e.Err }

// FieldIssue is one failed check on a request field.
type FieldIssue struct {
	Field  string
	Reason string
}

// ValidationError lists every request field that failed validation.
type ValidationError struct {
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		parts[i] = is.Field + ": " + is.Reason
	}
	if len(parts) == 1 {
		return "1 validation error: " + parts[0]
	}
	return fmt.Sprintf("%d validation errors: %s", len(parts), strings.Join(parts, "; "))
}

func (e *ValidationError) add(field, reason string) {
	e.Issues = append(e.Issues, FieldIssue{Field: field, Reason: reason})
}

// SchemaError means the model reply does not match the Notes shape.
type SchemaError struct {
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return "invalid notes: " + e.Reason
	}
	return fmt.Sprintf("invalid notes: %s: %s", e.Field, e.Reason)
}

// Kind classifies a failed generation attempt.
type Kind int

const (
	KindTransport Kind = iota
	KindSchema
	KindUpstreamContent
)

var kindNames = map[Kind]string{
	KindTransport:       "transport",
	KindSchema:          "schema",
	KindUpstreamContent: "upstream_content",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind maps a config name back to its Kind.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, errors.Errorf("unknown error kind %q", s)
}

// GenerationError wraps the failure of one generation attempt. Its message
// is the wrapped error's message.
type GenerationError struct {
	Kind Kind
	Err  error
}

func (e *GenerationError) Error() string { return e.Err.Error() }
func (e *GenerationError) Unwrap() error { return e.Err }

// KindOf reports the kind of a generation failure. Errors that were never
// classified count as transport failures.
func KindOf(err error) Kind {
	var ge *GenerationError
	if errors.As(err, &ge) {
		return ge.Kind
	}
	var se *SchemaError
	if errors.As(err, &se) {
		return KindSchema
	}
	return KindTransport
}
