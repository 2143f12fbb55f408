package app

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"NewsPoster/internal/config"
	"NewsPoster/internal/dedup"
	"NewsPoster/internal/infrastructure/archive"
	"NewsPoster/internal/infrastructure/feed"
	"NewsPoster/internal/infrastructure/scheduler"
	"NewsPoster/internal/infrastructure/x"
	"NewsPoster/internal/logging"
	"NewsPoster/internal/ports"
	"NewsPoster/internal/summarize"
	"NewsPoster/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
	archive  *archive.SQLiteArchive
}

// New builds a runnable application instance. With dryRun set the publisher
// gets empty credentials and therefore simulates every post.
func New(cfg config.Config, baseLogger *slog.Logger, dryRun bool) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	source := feed.NewFetcher(cfg.Feeds, cfg.Fetch.Workers, baseLogger.With("component", "fetcher"))
	store := dedup.NewStore(cfg.Dedup.StateFile, baseLogger.With("component", "dedup"))
	summarizer := summarize.NewTextSummarizer(
		cfg.Summary.MaxLength,
		cfg.Summary.MinInformative,
		cfg.Summary.IncludeSource,
		baseLogger.With("component", "summarizer"),
	)

	var creds x.Credentials
	if dryRun {
		baseLogger.Info("dry-run mode, posts will be simulated")
	} else {
		creds = x.LoadCredentials(cfg.Publisher.CredentialsFile, baseLogger.With("component", "publisher"))
	}
	publisher := x.NewPoster(
		creds,
		cfg.Summary.MaxLength,
		cfg.Publisher.MaxRetries,
		x.FixedDelayPolicy{RetryDelay: cfg.Publisher.RetryDelay()},
		baseLogger.With("component", "publisher"),
	)

	var (
		postArchive ports.PostArchive
		sqlArchive  *archive.SQLiteArchive
	)
	if cfg.Archive.Path != "" {
		if dir := filepath.Dir(cfg.Archive.Path); dir != "." {
			_ = os.MkdirAll(dir, 0o755)
		}
		opened, err := archive.NewSQLiteArchive(cfg.Archive.Path)
		if err != nil {
			baseLogger.Warn("post archive disabled", "path", cfg.Archive.Path, "error", err)
		} else {
			sqlArchive = opened
			postArchive = opened
		}
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:     source,
		Dedup:      store,
		Summarizer: summarizer,
		Publisher:  publisher,
		Archive:    postArchive,
		Logger:     baseLogger.With("component", "pipeline"),
	}, usecase.Options{
		MaxArticleAge:  cfg.Fetch.MaxArticleAge(),
		MaxHistoryDays: cfg.Dedup.MaxHistoryDays,
		MaxPosts:       cfg.Publisher.MaxPosts,
		PostDelay:      cfg.Publisher.PostDelay(),
	})

	return &Application{cfg: cfg, logger: baseLogger, pipeline: pipeline, archive: sqlArchive}
}

// RunOnce performs a single pipeline execution.
func (a *Application) RunOnce(ctx context.Context) error {
	_, err := a.pipeline.Run(ctx)
	return err
}

// RunScheduled fires the pipeline on the configured cron schedule until the
// context is canceled.
func (a *Application) RunScheduled(ctx context.Context) error {
	driver := scheduler.NewCronScheduler(a.cfg.Scheduler.CronExpression, a.cfg.Scheduler.Location())
	sched := usecase.NewScheduler(driver, a.pipeline)

	if err := sched.Start(ctx); err != nil {
		return err
	}
	a.logger.Info("scheduler started", "cron", a.cfg.Scheduler.CronExpression)

	<-ctx.Done()
	return sched.Stop(context.Background())
}

// Close releases resources held by the application.
func (a *Application) Close() error {
	if a.archive != nil {
		return a.archive.Close()
	}
	return nil
}
