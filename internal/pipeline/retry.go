package pipeline

import "github.com/suykerbuyk/examnotes/internal/notes"

// MaxAttempts bounds generation attempts per request.
const MaxAttempts = 2

// RetryPolicy decides whether a failed attempt of the given kind earns
// another one. A nil policy retries every kind.
type RetryPolicy func(kind notes.Kind) bool

// RetryAll retries every failure kind.
func RetryAll() RetryPolicy {
	return func(notes.Kind) bool { return true }
}

// RetryOn retries only the listed kinds.
func RetryOn(kinds ...notes.Kind) RetryPolicy {
	set := make(map[notes.Kind]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}
	return func(k notes.Kind) bool { return set[k] }
}

func (p RetryPolicy) allows(k notes.Kind) bool {
	if p == nil {
		return true
	}
	return p(k)
}
