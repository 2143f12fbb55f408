package summarize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFitIdentityWhenDraftFits(t *testing.T) {
	t.Parallel()

	f := Fitter{MaxLength: 280}
	draft := "Short draft that easily fits."
	assert.Equal(t, draft, f.Fit(draft, " https://example.com"))
}

func TestFitAccumulatesWholeSentences(t *testing.T) {
	t.Parallel()

	f := Fitter{MaxLength: 40}
	draft := "One two three. Four five six. Seven eight nine ten eleven."

	got := f.Fit(draft, "")
	assert.Equal(t, "One two three. Four five six.", got)
	assert.LessOrEqual(t, len(got), 40)
}

func TestFitWordTruncationFallback(t *testing.T) {
	t.Parallel()

	f := Fitter{MaxLength: 40}
	suffix := " (via X) http://y"
	draft := "A very long sentence that exceeds budget entirely by itself"

	got := f.Fit(draft, suffix)
	budget := 40 - len(suffix)

	assert.True(t, strings.HasSuffix(got, "..."), "word-level truncation must end in an ellipsis")
	assert.LessOrEqual(t, len(got), budget)
	assert.LessOrEqual(t, len(got+suffix), 40)
	assert.False(t, strings.HasSuffix(strings.TrimSuffix(got, "..."), " "), "no dangling space before the ellipsis")
}

func TestFitNeverExceedsBudget(t *testing.T) {
	t.Parallel()

	drafts := []string{
		"Word " + strings.Repeat("repeated ", 50) + "end.",
		strings.Repeat("x", 500),
		"Tiny.",
		"",
	}

	for _, maxLength := range []int{20, 60, 280} {
		f := Fitter{MaxLength: maxLength}
		for _, draft := range drafts {
			suffix := " https://example.com/article"
			budget := maxLength - len(suffix)
			got := f.Fit(draft, suffix)
			if budget < 0 {
				budget = 0
			}
			assert.LessOrEqual(t, len(got), budget, "maxLength=%d draft=%q", maxLength, draft)
		}
	}
}

func TestFitZeroBudget(t *testing.T) {
	t.Parallel()

	f := Fitter{MaxLength: 10}
	assert.Empty(t, f.Fit("anything at all", " a suffix longer than max"))
}
