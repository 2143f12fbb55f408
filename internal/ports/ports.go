package ports

import (
	"context"
	"time"

	"NewsPoster/internal/domain"
)

// ArticleSource pulls fresh articles from upstream feeds.
type ArticleSource interface {
	FetchRecent(ctx context.Context, maxAge time.Duration) ([]domain.Article, error)
}

// DedupStore tracks article fingerprints across runs. FilterDuplicates marks
// each kept article as processed before evaluating the next one, so duplicates
// inside a single batch collapse to their first occurrence.
type DedupStore interface {
	FilterDuplicates(articles []domain.Article) []domain.Article
	CleanupOldEntries(maxAgeDays int)
}

// Summarizer turns articles into bounded post texts. Items whose
// summarization fails are skipped, not fatal to the batch.
type Summarizer interface {
	BatchSummarize(articles []domain.Article) []domain.Summarized
}

// Publisher posts finished texts to the external service, one at a time and
// in input order, pausing interPostDelay after every post except the last.
type Publisher interface {
	BatchPost(ctx context.Context, texts []string, interPostDelay time.Duration) []domain.PublishOutcome
}

// PostArchive persists publish outcomes and run statistics for audit.
type PostArchive interface {
	RecordOutcome(ctx context.Context, article domain.Article, outcome domain.PublishOutcome) error
	RecordRun(ctx context.Context, stats domain.RunStats) error
}

// Scheduler controls when pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
