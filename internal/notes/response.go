package notes

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Notes is the structured reply expected from the model.
type Notes struct {
	Title           string   `json:"title" jsonschema:"description=Short title for the notes"`
	KeyConcepts     []string `json:"key_concepts" jsonschema:"description=Core concepts as concise bullets"`
	ImportantPoints []string `json:"important_points" jsonschema:"description=Facts worth memorising as bullets"`
	ExamTips        []string `json:"exam_tips" jsonschema:"description=Exam-oriented advice as bullets"`
}

// StripCodeFence removes a surrounding ``` or ```json fence from a model
// reply. Unfenced text comes back trimmed.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = s[3:]
	if len(s) >= 4 && strings.EqualFold(s[:4], "json") {
		s = s[4:]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ParseNotes decodes a raw model reply into Notes. All four keys are required
// and must have the right JSON types; unknown keys are ignored.
func ParseNotes(raw string) (Notes, error) {
	body := StripCodeFence(raw)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return Notes{}, &SchemaError{Reason: "reply is not a JSON object: " + err.Error()}
	}
	if fields == nil {
		return Notes{}, &SchemaError{Reason: "reply is not a JSON object: got null"}
	}

	var (
		n   Notes
		err error
	)
	if n.Title, err = decodeString(fields, "title"); err != nil {
		return Notes{}, err
	}
	if n.KeyConcepts, err = decodeStringList(fields, "key_concepts"); err != nil {
		return Notes{}, err
	}
	if n.ImportantPoints, err = decodeStringList(fields, "important_points"); err != nil {
		return Notes{}, err
	}
	if n.ExamTips, err = decodeStringList(fields, "exam_tips"); err != nil {
		return Notes{}, err
	}
	return n, nil
}

func decodeString(fields map[string]json.RawMessage, key string) (string, error) {
	raw, ok := fields[key]
	if !ok {
		return "", &SchemaError{Field: key, Reason: "field required"}
	}
	s, ok := asString(raw)
	if !ok {
		return "", &SchemaError{Field: key, Reason: "input should be a string"}
	}
	return s, nil
}

func decodeStringList(fields map[string]json.RawMessage, key string) ([]string, error) {
	raw, ok := fields[key]
	if !ok {
		return nil, &SchemaError{Field: key, Reason: "field required"}
	}
	var items []json.RawMessage
	if isNull(raw) || json.Unmarshal(raw, &items) != nil {
		return nil, &SchemaError{Field: key, Reason: "input should be a list of strings"}
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := asString(item)
		if !ok {
			return nil, &SchemaError{Field: key + "." + strconv.Itoa(i), Reason: "input should be a string"}
		}
		out = append(out, s)
	}
	return out, nil
}

// asString rejects null, which encoding/json would otherwise decode as "".
func asString(raw json.RawMessage) (string, bool) {
	if isNull(raw) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}
