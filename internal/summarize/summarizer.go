package summarize

import (
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"

	"NewsPoster/internal/domain"
	"NewsPoster/internal/ports"
)

const (
	// defaultSentenceTarget is how many sentences a full extraction keeps.
	defaultSentenceTarget = 3
	// fallbackSentenceTarget is used when extraction backs up a thin
	// headline+lead draft.
	fallbackSentenceTarget = 2
)

// TextSummarizer reduces articles to attributed post texts within a hard
// character budget, using extractive techniques only.
type TextSummarizer struct {
	fitter         Fitter
	minInformative int
	includeSource  bool
	logger         *slog.Logger
}

var _ ports.Summarizer = (*TextSummarizer)(nil)

// NewTextSummarizer wires budgets and attribution behavior.
func NewTextSummarizer(maxLength, minInformative int, includeSource bool, logger *slog.Logger) *TextSummarizer {
	return &TextSummarizer{
		fitter:         Fitter{MaxLength: maxLength},
		minInformative: minInformative,
		includeSource:  includeSource,
		logger:         logger,
	}
}

// Summarize builds the post text for one article: a headline+lead draft
// first, backed by a similarity-ranked extraction when that draft comes out
// too thin, the longer fitted draft winning. The attribution suffix is
// appended last and counted against the budget throughout.
func (t *TextSummarizer) Summarize(article domain.Article) (string, error) {
	if strings.TrimSpace(article.Title) == "" && strings.TrimSpace(article.Description) == "" {
		return "", fmt.Errorf("article %q has no usable text", article.Link)
	}

	suffix := t.suffix(article)

	draft := headlineLead(article)
	fitted := t.fitter.Fit(draft, suffix)

	if len(fitted) < t.minInformative && strings.TrimSpace(article.Description) != "" {
		extracted := ExtractSentences(article.Description, fallbackSentenceTarget)
		if alt := t.fitter.Fit(extracted, suffix); len(alt) > len(fitted) {
			fitted = alt
		}
	}

	return fitted + suffix, nil
}

// BatchSummarize summarizes every article, skipping and logging the ones
// that fail rather than aborting the batch. Output order follows input
// order.
func (t *TextSummarizer) BatchSummarize(articles []domain.Article) []domain.Summarized {
	results := make([]domain.Summarized, 0, len(articles))
	for _, article := range articles {
		text, err := t.Summarize(article)
		if err != nil {
			t.logger.Warn("skipping article, summarization failed", "title", article.Title, "error", err)
			continue
		}
		results = append(results, domain.Summarized{Article: article, Text: text})
	}
	return results
}

// suffix builds the attribution/link tail, deriving the source from the feed
// URL host when none was given.
func (t *TextSummarizer) suffix(article domain.Article) string {
	source := article.Source
	if source == "" && article.SourceFeed != "" {
		if parsed, err := url.Parse(article.SourceFeed); err == nil && parsed.Host != "" {
			source = strings.TrimPrefix(parsed.Host, "www.")
		}
	}

	var b strings.Builder
	if t.includeSource && source != "" {
		b.WriteString(" (via ")
		b.WriteString(source)
		b.WriteString(")")
	}
	if article.Link != "" {
		b.WriteString(" ")
		b.WriteString(article.Link)
	}
	return b.String()
}

// headlineLead combines the title with the first body sentence. A title
// ending in a colon flows straight into the sentence; any other title gets
// terminal punctuation first.
func headlineLead(article domain.Article) string {
	headline := strings.TrimSpace(article.Title)

	first := ""
	if sentences := splitSentences(cleanText(article.Description)); len(sentences) > 0 {
		first = sentences[0]
	}

	if strings.HasSuffix(headline, ":") {
		if first == "" {
			return headline
		}
		return headline + " " + first
	}

	if headline != "" && !strings.HasSuffix(headline, ".") &&
		!strings.HasSuffix(headline, "!") && !strings.HasSuffix(headline, "?") {
		headline += "."
	}

	if first == "" {
		return headline
	}
	return headline + " " + first
}

// ExtractSentences returns the target most central sentences of the text in
// their original order. Texts at or below the target come back whole. A
// non-positive target falls back to the full-extraction default.
func ExtractSentences(text string, target int) string {
	if target <= 0 {
		target = defaultSentenceTarget
	}

	sentences := splitSentences(cleanText(text))
	if len(sentences) <= target {
		return strings.Join(sentences, " ")
	}

	matrix := buildSimilarityMatrix(sentences)
	scores := make([]float64, len(sentences))
	for i, row := range matrix {
		for _, v := range row {
			scores[i] += v
		}
	}

	order := make([]int, len(sentences))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	top := append([]int(nil), order[:target]...)
	sort.Ints(top)

	picked := make([]string, 0, target)
	for _, i := range top {
		picked = append(picked, sentences[i])
	}
	return strings.Join(picked, " ")
}
