package notes

import (
	"fmt"
	"strings"
)

// Prompt is the two-message conversation sent to the model.
type Prompt struct {
	System string
	User   string
}

// SystemPrompt fixes the output contract for every request.
const SystemPrompt = `You are an expert study-notes generator. Produce structured, exam-ready notes that follow this schema exactly: title, key_concepts[], important_points[], exam_tips[].

Rules:
- Every list item is a single concise bullet. Do not add extra sections.
- Adapt depth to the requested level: short (very concise bullets), medium (balanced detail), detailed (deeper bullets, still bullets).
- Return ONLY a valid JSON object with these exact keys: title, key_concepts, important_points, exam_tips. No markdown, no code fences, no extra text.`

// BuildPrompt composes the system and user messages for a request.
func BuildPrompt(req Request) Prompt {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate study notes for exam type '%s' with depth '%s'. ", req.ExamType, req.Depth)
	b.WriteString("Use only bullets. Content:\n\n")
	b.WriteString(req.Content)
	b.WriteString("\n\nReturn a JSON object with: title (string), key_concepts (array of strings), ")
	b.WriteString("important_points (array of strings), exam_tips (array of strings).")

	return Prompt{
		System: SystemPrompt,
		User:   b.String(),
	}
}
