package feed

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"NewsPoster/internal/domain"
	"NewsPoster/internal/ports"
)

const defaultWorkers = 10

// Fetcher retrieves RSS/Atom feeds grouped by category and maps their items
// to articles. Individual feed failures are logged and absorbed; the core
// never sees them.
type Fetcher struct {
	feeds   map[string][]string
	workers int
	logger  *slog.Logger
	now     func() time.Time
}

var _ ports.ArticleSource = (*Fetcher)(nil)

// NewFetcher wires the category-to-URL map and the worker-pool bound.
func NewFetcher(feeds map[string][]string, workers int, logger *slog.Logger) *Fetcher {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Fetcher{
		feeds:   feeds,
		workers: workers,
		logger:  logger,
		now:     time.Now,
	}
}

type fetchJob struct {
	idx      int
	category string
	url      string
}

// FetchRecent pulls every configured feed with a bounded worker pool and
// returns the articles not older than maxAge. Items without a publication
// date are kept. Output order is stable: categories alphabetically, then
// feed order from config, then item order within the feed.
func (f *Fetcher) FetchRecent(ctx context.Context, maxAge time.Duration) ([]domain.Article, error) {
	categories := make([]string, 0, len(f.feeds))
	for category := range f.feeds {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var jobs []fetchJob
	for _, category := range categories {
		for _, url := range f.feeds[category] {
			jobs = append(jobs, fetchJob{idx: len(jobs), category: category, url: url})
		}
	}

	results := make([][]domain.Article, len(jobs))
	jobCh := make(chan fetchJob)

	var wg sync.WaitGroup
	for i := 0; i < f.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				results[job.idx] = f.fetchFeed(ctx, job.category, job.url)
			}
		}()
	}
	for _, job := range jobs {
		jobCh <- job
	}
	close(jobCh)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cutoff := f.now().Add(-maxAge)
	var articles []domain.Article
	for _, batch := range results {
		for _, article := range batch {
			if maxAge > 0 && article.HasTimestamp() && !article.PublishedAt.After(cutoff) {
				continue
			}
			articles = append(articles, article)
		}
	}

	f.logger.Debug("fetched feeds", "feeds", len(jobs), "articles", len(articles))
	return articles, nil
}

func (f *Fetcher) fetchFeed(ctx context.Context, category, feedURL string) []domain.Article {
	parsed, err := gofeed.NewParser().ParseURLWithContext(feedURL, ctx)
	if err != nil {
		f.logger.Warn("feed fetch failed", "url", feedURL, "error", err)
		return nil
	}

	articles := make([]domain.Article, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		articles = append(articles, itemToArticle(item, category, feedURL))
	}
	return articles
}

func itemToArticle(item *gofeed.Item, category, feedURL string) domain.Article {
	var publishedAt time.Time
	if item.PublishedParsed != nil {
		publishedAt = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		publishedAt = *item.UpdatedParsed
	}

	return domain.Article{
		Title:       strings.TrimSpace(item.Title),
		Link:        strings.TrimSpace(item.Link),
		Description: stripHTML(item.Description),
		SourceFeed:  feedURL,
		Category:    category,
		PublishedAt: publishedAt,
	}
}

// stripHTML flattens HTML-bearing feed descriptions to plain text.
func stripHTML(fragment string) string {
	if !strings.Contains(fragment, "<") {
		return strings.TrimSpace(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.TrimSpace(doc.Text())
}
