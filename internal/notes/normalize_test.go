package notes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeBullets(t *testing.T) {
	in := []string{
		"light reactions",
		"  - already dashed  ",
		"• dotted bullet",
		"",
		"   ",
		"\tcalvin cycle\n",
		"-no space after dash",
		"* star bullet",
	}
	want := []string{
		"- light reactions",
		"- already dashed",
		"• dotted bullet",
		"- calvin cycle",
		"- -no space after dash",
		"- * star bullet",
	}
	assert.Equal(t, want, NormalizeBullets(in))
}

func TestNormalizeBullets_Idempotent(t *testing.T) {
	inputs := [][]string{
		{"a", "b", "- c", "• d"},
		{"  spaced  ", "", "x"},
		{},
		nil,
	}
	for _, in := range inputs {
		once := NormalizeBullets(in)
		assert.Equal(t, once, NormalizeBullets(once))
	}
}

func TestNormalizeBullets_PrefixIsExact(t *testing.T) {
	for _, s := range []string{"alpha", "  beta gamma ", "42 is the answer"} {
		got := NormalizeBullets([]string{s})
		if assert.Len(t, got, 1) {
			assert.Equal(t, "- "+strings.TrimSpace(s), got[0])
		}
	}
}

func TestNormalizeBullets_NeverNil(t *testing.T) {
	got := NormalizeBullets([]string{" ", ""})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestNotesNormalize_LeavesTitle(t *testing.T) {
	n := Notes{
		Title:           "  Photosynthesis ",
		KeyConcepts:     []string{"a"},
		ImportantPoints: []string{"", "b"},
		ExamTips:        []string{"- c"},
	}
	n.Normalize()
	assert.Equal(t, "  Photosynthesis ", n.Title)
	assert.Equal(t, []string{"- a"}, n.KeyConcepts)
	assert.Equal(t, []string{"- b"}, n.ImportantPoints)
	assert.Equal(t, []string{"- c"}, n.ExamTips)
}
