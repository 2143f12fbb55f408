package summarize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a b c d", cleanText("a\n\nb\t c   d"))
	assert.Equal(t, "rates at 5", cleanText("rates at 5€"))
}

func TestCleanTextStripsDisallowed(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "price up 5, analysts say!", cleanText("price up 5%, analysts say!"))
	assert.Equal(t, "keep .,;:!?'\"- these", cleanText("keep .,;:!?'\"- these"))
}

func TestSplitSentences(t *testing.T) {
	t.Parallel()

	got := splitSentences("Stocks rose today. Investors cheered.")
	assert.Equal(t, []string{"Stocks rose today.", "Investors cheered."}, got)
}

func TestSplitSentencesNoTerminalPunctuation(t *testing.T) {
	t.Parallel()

	got := splitSentences("a fragment without an ending")
	assert.Equal(t, []string{"a fragment without an ending"}, got)
}

func TestSplitSentencesMixedPunctuation(t *testing.T) {
	t.Parallel()

	got := splitSentences("Really? Yes! It is done.")
	assert.Equal(t, []string{"Really?", "Yes!", "It is done."}, got)
}

func TestSplitSentencesEmpty(t *testing.T) {
	t.Parallel()

	assert.Nil(t, splitSentences("   "))
}

func TestSentenceSimilarity(t *testing.T) {
	t.Parallel()

	// Identical content words give similarity 1.
	assert.InDelta(t, 1.0, sentenceSimilarity("markets rally strongly", "markets rally strongly"), 1e-9)

	// Disjoint vocabularies give 0.
	assert.Zero(t, sentenceSimilarity("markets rally", "bananas ripen"))

	// Stopword-only sentences carry no signal.
	assert.Zero(t, sentenceSimilarity("it is the and", "markets rally"))
}

func TestBuildSimilarityMatrixDiagonalZero(t *testing.T) {
	t.Parallel()

	matrix := buildSimilarityMatrix([]string{"markets rally today", "markets rally today", "unrelated words"})
	for i := range matrix {
		assert.Zero(t, matrix[i][i], "self-similarity must be 0")
	}
	assert.InDelta(t, 1.0, matrix[0][1], 1e-9)
}
