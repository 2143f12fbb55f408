package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"NewsPoster/internal/domain"
	"NewsPoster/internal/ports"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source     ports.ArticleSource
	Dedup      ports.DedupStore
	Summarizer ports.Summarizer
	Publisher  ports.Publisher
	Archive    ports.PostArchive
	Logger     *slog.Logger
}

// Options carries the per-run knobs the orchestrator applies around the
// core components.
type Options struct {
	MaxArticleAge  time.Duration
	MaxHistoryDays int
	MaxPosts       int
	PostDelay      time.Duration
}

// Pipeline composes fetch, dedup, summarize and publish over one batch of
// articles per invocation. It never aborts a batch because a single item
// failed; outcomes are always reported per item.
type Pipeline struct {
	source     ports.ArticleSource
	dedup      ports.DedupStore
	summarizer ports.Summarizer
	publisher  ports.Publisher
	archive    ports.PostArchive
	logger     *slog.Logger
	opts       Options
	now        func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps, opts Options) *Pipeline {
	return &Pipeline{
		source:     deps.Source,
		dedup:      deps.Dedup,
		summarizer: deps.Summarizer,
		publisher:  deps.Publisher,
		archive:    deps.Archive,
		logger:     deps.Logger,
		opts:       opts,
		now:        time.Now,
	}
}

// Run executes one pass: fetch recent articles, drop already-seen ones,
// summarize the rest, publish up to MaxPosts of them, and archive what
// happened.
func (p *Pipeline) Run(ctx context.Context) (domain.RunStats, error) {
	stats := domain.RunStats{StartedAt: p.now()}

	articles, err := p.source.FetchRecent(ctx, p.opts.MaxArticleAge)
	if err != nil {
		return stats, fmt.Errorf("fetch articles: %w", err)
	}
	stats.Fetched = len(articles)
	p.logger.Info("fetched articles", "count", stats.Fetched)

	unique := p.dedup.FilterDuplicates(articles)
	stats.Unique = len(unique)
	p.logger.Info("new articles after deduplication", "count", stats.Unique)

	p.dedup.CleanupOldEntries(p.opts.MaxHistoryDays)

	summaries := p.summarizer.BatchSummarize(unique)
	stats.Summarized = len(summaries)

	if p.opts.MaxPosts > 0 && len(summaries) > p.opts.MaxPosts {
		p.logger.Info("limiting posts this run", "max", p.opts.MaxPosts, "summarized", len(summaries))
		summaries = summaries[:p.opts.MaxPosts]
	}

	if len(summaries) == 0 {
		p.logger.Info("no new articles to post")
		stats.FinishedAt = p.now()
		p.archiveRun(ctx, stats)
		return stats, nil
	}

	texts := make([]string, len(summaries))
	for i, summary := range summaries {
		texts[i] = summary.Text
	}

	outcomes := p.publisher.BatchPost(ctx, texts, p.opts.PostDelay)
	stats.Posted = len(outcomes)
	for i, outcome := range outcomes {
		if outcome.Posted {
			stats.Succeeded++
		}
		if p.archive != nil {
			if err := p.archive.RecordOutcome(ctx, summaries[i].Article, outcome); err != nil {
				p.logger.Warn("cannot archive outcome", "title", summaries[i].Article.Title, "error", err)
			}
		}
	}

	stats.FinishedAt = p.now()
	p.archiveRun(ctx, stats)
	p.logger.Info("pipeline completed",
		"duration", stats.FinishedAt.Sub(stats.StartedAt),
		"fetched", stats.Fetched,
		"unique", stats.Unique,
		"summarized", stats.Summarized,
		"posted", stats.Posted,
		"succeeded", stats.Succeeded)

	return stats, nil
}

func (p *Pipeline) archiveRun(ctx context.Context, stats domain.RunStats) {
	if p.archive == nil {
		return
	}
	if err := p.archive.RecordRun(ctx, stats); err != nil {
		p.logger.Warn("cannot archive run stats", "error", err)
	}
}
