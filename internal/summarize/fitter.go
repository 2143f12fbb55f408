package summarize

import "strings"

// ellipsis marks word-level truncation.
const ellipsis = "..."

// Fitter trims draft text into a fixed character budget, preferring whole
// sentence boundaries over mid-sentence cuts.
type Fitter struct {
	MaxLength int
}

// Fit returns the draft reduced to maxLength minus the suffix length. The
// suffix itself is not appended; that is the caller's job. When the draft
// already fits it is returned unchanged. Otherwise whole sentences are
// accumulated in order until the next one would overflow; if not even the
// first sentence fits, the draft is cut at the word level and marked with an
// ellipsis. The result never exceeds the budget.
func (f Fitter) Fit(draft, suffix string) string {
	budget := f.MaxLength - len(suffix)
	if budget <= 0 {
		return ""
	}
	if len(draft) <= budget {
		return draft
	}

	var kept strings.Builder
	for _, sentence := range splitSentences(draft) {
		needed := len(sentence)
		if kept.Len() > 0 {
			needed++
		}
		if kept.Len()+needed > budget {
			break
		}
		if kept.Len() > 0 {
			kept.WriteByte(' ')
		}
		kept.WriteString(sentence)
	}
	if kept.Len() > 0 {
		return kept.String()
	}

	return truncateWords(draft, budget)
}

// truncateWords takes the first budget characters, drops the trailing
// partial word, and appends an ellipsis when the result is strictly shorter
// than the original.
func truncateWords(draft string, budget int) string {
	words := strings.Fields(draft[:budget])
	if len(words) > 0 {
		words = words[:len(words)-1]
	}

	truncated := strings.Join(words, " ")
	for truncated != "" && len(truncated)+len(ellipsis) > budget {
		words = words[:len(words)-1]
		truncated = strings.Join(words, " ")
	}

	if truncated != "" && len(truncated) < len(draft) {
		truncated += ellipsis
	}
	return truncated
}
