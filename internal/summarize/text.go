package summarize

import (
	"math"
	"regexp"
	"strings"
)

var (
	newlineRuns      = regexp.MustCompile(`[\n\t]+`)
	spaceRuns        = regexp.MustCompile(` +`)
	disallowedChars  = regexp.MustCompile(`[^\p{L}\p{N}_\s.,;:!?'"-]`)
	sentenceBoundary = regexp.MustCompile(`[.!?]+['"]?(\s+|$)`)
	wordExpr         = regexp.MustCompile(`[\p{L}\p{N}_']+`)
)

// cleanText collapses newline/tab and space runs to single spaces and strips
// characters outside a conservative allow-list of word characters, whitespace
// and basic sentence punctuation.
func cleanText(text string) string {
	text = newlineRuns.ReplaceAllString(text, " ")
	text = spaceRuns.ReplaceAllString(text, " ")
	text = disallowedChars.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// splitSentences segments text at terminal punctuation followed by
// whitespace or end of input. Each sentence keeps its punctuation.
func splitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var sentences []string
	start := 0
	for _, loc := range sentenceBoundary.FindAllStringIndex(text, -1) {
		if sentence := strings.TrimSpace(text[start:loc[1]]); sentence != "" {
			sentences = append(sentences, sentence)
		}
		start = loc[1]
	}
	if start < len(text) {
		if rest := strings.TrimSpace(text[start:]); rest != "" {
			sentences = append(sentences, rest)
		}
	}
	return sentences
}

// contentTerms lowercases a sentence and returns its distinct non-stopword
// terms.
func contentTerms(sentence string) map[string]struct{} {
	terms := map[string]struct{}{}
	for _, word := range wordExpr.FindAllString(strings.ToLower(sentence), -1) {
		if _, stop := stopwords[word]; stop {
			continue
		}
		terms[word] = struct{}{}
	}
	return terms
}

// sentenceSimilarity is the cosine similarity of binary term-presence
// vectors over the two sentences' shared vocabulary. Sentences reduced to
// nothing by stopword removal score 0 against everything.
func sentenceSimilarity(a, b string) float64 {
	termsA := contentTerms(a)
	termsB := contentTerms(b)
	if len(termsA) == 0 || len(termsB) == 0 {
		return 0
	}

	shared := 0
	for term := range termsA {
		if _, ok := termsB[term]; ok {
			shared++
		}
	}
	return float64(shared) / (math.Sqrt(float64(len(termsA))) * math.Sqrt(float64(len(termsB))))
}

// buildSimilarityMatrix fills the dense pairwise matrix; self-similarity is
// left at 0 so row sums act as a degree-centrality score.
func buildSimilarityMatrix(sentences []string) [][]float64 {
	matrix := make([][]float64, len(sentences))
	for i := range sentences {
		matrix[i] = make([]float64, len(sentences))
		for j := range sentences {
			if i == j {
				continue
			}
			matrix[i][j] = sentenceSimilarity(sentences[i], sentences[j])
		}
	}
	return matrix
}

// stopwords is the usual English function-word list; terms present here carry
// no weight in sentence similarity.
var stopwords = func() map[string]struct{} {
	words := []string{
		"i", "me", "my", "myself", "we", "our", "ours", "ourselves", "you",
		"your", "yours", "yourself", "yourselves", "he", "him", "his",
		"himself", "she", "her", "hers", "herself", "it", "its", "itself",
		"they", "them", "their", "theirs", "themselves", "what", "which",
		"who", "whom", "this", "that", "these", "those", "am", "is", "are",
		"was", "were", "be", "been", "being", "have", "has", "had", "having",
		"do", "does", "did", "doing", "a", "an", "the", "and", "but", "if",
		"or", "because", "as", "until", "while", "of", "at", "by", "for",
		"with", "about", "against", "between", "into", "through", "during",
		"before", "after", "above", "below", "to", "from", "up", "down",
		"in", "out", "on", "off", "over", "under", "again", "further",
		"then", "once", "here", "there", "when", "where", "why", "how",
		"all", "any", "both", "each", "few", "more", "most", "other",
		"some", "such", "no", "nor", "not", "only", "own", "same", "so",
		"than", "too", "very", "s", "t", "can", "will", "just", "don",
		"should", "now",
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}()
