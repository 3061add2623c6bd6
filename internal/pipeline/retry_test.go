package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/suykerbuyk/examnotes/internal/notes"
)

func TestRetryPolicies(t *testing.T) {
	kinds := []notes.Kind{notes.KindTransport, notes.KindSchema, notes.KindUpstreamContent}

	var nilPolicy RetryPolicy
	for _, k := range kinds {
		assert.True(t, nilPolicy.allows(k), "nil policy should retry %s", k)
		assert.True(t, RetryAll().allows(k), "RetryAll should retry %s", k)
		assert.False(t, RetryOn().allows(k), "empty RetryOn should not retry %s", k)
	}

	p := RetryOn(notes.KindTransport, notes.KindUpstreamContent)
	assert.True(t, p.allows(notes.KindTransport))
	assert.True(t, p.allows(notes.KindUpstreamContent))
	assert.False(t, p.allows(notes.KindSchema))
}
