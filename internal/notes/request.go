package notes

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// MinContentChars is the shortest content accepted, in characters.
const MinContentChars = 20

// ExamType contextualizes the requested notes.
type ExamType string

const (
	ExamMidterm ExamType = "midterm"
	ExamFinal   ExamType = "final"
	ExamViva    ExamType = "viva"
)

// Depth controls how verbose the generated notes are.
type Depth string

const (
	DepthShort    Depth = "short"
	DepthMedium   Depth = "medium"
	DepthDetailed Depth = "detailed"
)

var (
	examTypes = []ExamType{ExamMidterm, ExamFinal, ExamViva}
	depths    = []Depth{DepthShort, DepthMedium, DepthDetailed}
)

// Request is a validated notes request.
type Request struct {
	Content  string   `json:"content"`
	ExamType ExamType `json:"exam_type"`
	Depth    Depth    `json:"depth"`
}

// DecodeRequest parses a raw request body. Any JSON value is accepted here;
// shape checks belong to ValidateRequest.
func DecodeRequest(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, &InputParseError{Err: err}
	}
	return v, nil
}

// ValidateRequest checks a decoded JSON value against the request schema and
// reports every failing field at once.
func ValidateRequest(v any) (Request, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return Request{}, &ValidationError{Issues: []FieldIssue{{
			Field:  "body",
			Reason: fmt.Sprintf("input should be an object, got %s", jsonTypeName(v)),
		}}}
	}

	var (
		req  Request
		verr ValidationError
	)

	if content, ok := stringField(obj, "content", &verr); ok {
		if n := utf8.RuneCountInString(content); n < MinContentChars {
			verr.add("content", fmt.Sprintf("string should have at least %d characters, got %d", MinContentChars, n))
		}
		req.Content = content
	}
	if s, ok := stringField(obj, "exam_type", &verr); ok {
		req.ExamType = ExamType(s)
		if !slices.Contains(examTypes, req.ExamType) {
			verr.add("exam_type", fmt.Sprintf("input should be one of %s, got %q", quoteAll(examTypes), s))
		}
	}
	if s, ok := stringField(obj, "depth", &verr); ok {
		req.Depth = Depth(s)
		if !slices.Contains(depths, req.Depth) {
			verr.add("depth", fmt.Sprintf("input should be one of %s, got %q", quoteAll(depths), s))
		}
	}

	if len(verr.Issues) > 0 {
		return Request{}, &verr
	}
	return req, nil
}

// CheckContentLength is the second length gate, applied to trimmed content.
func (r Request) CheckContentLength() error {
	if utf8.RuneCountInString(strings.TrimSpace(r.Content)) < MinContentChars {
		return ErrContentTooShort
	}
	return nil
}

func stringField(obj map[string]any, key string, verr *ValidationError) (string, bool) {
	raw, ok := obj[key]
	if !ok {
		verr.add(key, "field required")
		return "", false
	}
	s, ok := raw.(string)
	if !ok {
		verr.add(key, fmt.Sprintf("input should be a string, got %s", jsonTypeName(raw)))
		return "", false
	}
	return s, true
}

func quoteAll[T ~string](vals []T) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprintf("%q", string(v))
	}
	return strings.Join(parts, ", ")
}

func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64, json.Number:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
