package archive

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"NewsPoster/internal/dedup"
	"NewsPoster/internal/domain"
	"NewsPoster/internal/ports"
)

// SQLiteArchive persists publish outcomes and run statistics for audit.
type SQLiteArchive struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.PostArchive = (*SQLiteArchive)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS posts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	fingerprint TEXT,
	title TEXT,
	link TEXT,
	category TEXT,
	text TEXT,
	posted INTEGER,
	post_id TEXT,
	error TEXT,
	created_at INTEGER
);

CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at INTEGER,
	finished_at INTEGER,
	fetched INTEGER,
	unique_count INTEGER,
	summarized INTEGER,
	posted INTEGER,
	succeeded INTEGER
);
`

// NewSQLiteArchive opens (or creates) the archive database at path.
func NewSQLiteArchive(path string) (*SQLiteArchive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create archive schema: %w", err)
	}

	return &SQLiteArchive{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}, nil
}

// Close releases the underlying database handle.
func (a *SQLiteArchive) Close() error {
	return a.db.Close()
}

// RecordOutcome appends one publish outcome for the given article.
func (a *SQLiteArchive) RecordOutcome(ctx context.Context, article domain.Article, outcome domain.PublishOutcome) error {
	posted := 0
	if outcome.Posted {
		posted = 1
	}

	query, args, err := a.builder.
		Insert("posts").
		Columns("fingerprint", "title", "link", "category", "text", "posted", "post_id", "error", "created_at").
		Values(dedup.Fingerprint(article), article.Title, article.Link, article.Category,
			outcome.Text, posted, outcome.PostID, outcome.Err, time.Now().Unix()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build outcome insert: %w", err)
	}

	if _, err := a.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert outcome: %w", err)
	}
	return nil
}

// RecordRun appends the statistics of one pipeline invocation.
func (a *SQLiteArchive) RecordRun(ctx context.Context, stats domain.RunStats) error {
	query, args, err := a.builder.
		Insert("runs").
		Columns("started_at", "finished_at", "fetched", "unique_count", "summarized", "posted", "succeeded").
		Values(stats.StartedAt.Unix(), stats.FinishedAt.Unix(),
			stats.Fetched, stats.Unique, stats.Summarized, stats.Posted, stats.Succeeded).
		ToSql()
	if err != nil {
		return fmt.Errorf("build run insert: %w", err)
	}

	if _, err := a.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// RecentOutcomes returns the newest publish outcomes, most recent first.
func (a *SQLiteArchive) RecentOutcomes(ctx context.Context, limit int) ([]domain.PublishOutcome, error) {
	query, args, err := a.builder.
		Select("text", "posted", "post_id", "error").
		From("posts").
		OrderBy("id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build outcomes select: %w", err)
	}

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []domain.PublishOutcome
	for rows.Next() {
		var (
			outcome domain.PublishOutcome
			posted  int
		)
		if err := rows.Scan(&outcome.Text, &posted, &outcome.PostID, &outcome.Err); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		outcome.Posted = posted != 0
		outcomes = append(outcomes, outcome)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return outcomes, nil
}
