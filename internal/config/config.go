package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone    = "UTC"
	configPathEnv      = "NEWSPOSTER_CONFIG"
	stateFileEnv       = "NEWSPOSTER_STATE_FILE"
	credentialsFileEnv = "NEWSPOSTER_CREDENTIALS_FILE"
	archivePathEnv     = "NEWSPOSTER_ARCHIVE_PATH"
	logLevelEnv        = "NEWSPOSTER_LOG_LEVEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging   LoggingConfig       `yaml:"logging"`
	Feeds     map[string][]string `yaml:"feeds"`
	Fetch     FetchConfig         `yaml:"fetch"`
	Dedup     DedupConfig         `yaml:"dedup"`
	Summary   SummaryConfig       `yaml:"summary"`
	Publisher PublisherConfig     `yaml:"publisher"`
	Archive   ArchiveConfig       `yaml:"archive"`
	Scheduler SchedulerConfig     `yaml:"scheduler"`
}

// LoggingConfig selects the slog level for the whole process.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// FetchConfig bounds feed retrieval.
type FetchConfig struct {
	MaxArticleAgeHours int `yaml:"maxArticleAgeHours"`
	Workers            int `yaml:"workers"`
}

// DedupConfig describes the fingerprint state file and its retention.
type DedupConfig struct {
	StateFile      string `yaml:"stateFile"`
	MaxHistoryDays int    `yaml:"maxHistoryDays"`
}

// SummaryConfig tunes the extractive summarizer and fitter.
type SummaryConfig struct {
	MaxLength      int  `yaml:"maxLength"`
	MinInformative int  `yaml:"minInformative"`
	IncludeSource  bool `yaml:"includeSource"`
}

// PublisherConfig wires the X API client and batch pacing.
type PublisherConfig struct {
	CredentialsFile   string `yaml:"credentialsFile"`
	MaxRetries        int    `yaml:"maxRetries"`
	RetryDelaySeconds int    `yaml:"retryDelaySeconds"`
	PostDelaySeconds  int    `yaml:"postDelaySeconds"`
	MaxPosts          int    `yaml:"maxPosts"`
}

// ArchiveConfig points at the SQLite post archive; empty path disables it.
type ArchiveConfig struct {
	Path string `yaml:"path"`
}

// SchedulerConfig defines when recurring runs execute.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// RetryDelay converts the configured seconds into a duration.
func (p PublisherConfig) RetryDelay() time.Duration {
	return time.Duration(p.RetryDelaySeconds) * time.Second
}

// PostDelay converts the configured seconds into a duration.
func (p PublisherConfig) PostDelay() time.Duration {
	return time.Duration(p.PostDelaySeconds) * time.Second
}

// MaxArticleAge converts the configured hours into a duration.
func (f FetchConfig) MaxArticleAge() time.Duration {
	return time.Duration(f.MaxArticleAgeHours) * time.Hour
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	if len(cfg.Feeds) == 0 {
		cfg.Feeds = defaultConfig().Feeds
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(stateFileEnv); v != "" {
		c.Dedup.StateFile = v
	}

	if v := os.Getenv(credentialsFileEnv); v != "" {
		c.Publisher.CredentialsFile = v
	}

	if v := os.Getenv(archivePathEnv); v != "" {
		c.Archive.Path = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if len(override.Feeds) > 0 {
		base.Feeds = override.Feeds
	}

	if override.Fetch.MaxArticleAgeHours > 0 {
		base.Fetch.MaxArticleAgeHours = override.Fetch.MaxArticleAgeHours
	}
	if override.Fetch.Workers > 0 {
		base.Fetch.Workers = override.Fetch.Workers
	}

	if override.Dedup.StateFile != "" {
		base.Dedup.StateFile = override.Dedup.StateFile
	}
	if override.Dedup.MaxHistoryDays > 0 {
		base.Dedup.MaxHistoryDays = override.Dedup.MaxHistoryDays
	}

	if override.Summary.MaxLength > 0 {
		base.Summary.MaxLength = override.Summary.MaxLength
	}
	if override.Summary.MinInformative > 0 {
		base.Summary.MinInformative = override.Summary.MinInformative
	}
	base.Summary.IncludeSource = base.Summary.IncludeSource || override.Summary.IncludeSource

	if override.Publisher.CredentialsFile != "" {
		base.Publisher.CredentialsFile = override.Publisher.CredentialsFile
	}
	if override.Publisher.MaxRetries > 0 {
		base.Publisher.MaxRetries = override.Publisher.MaxRetries
	}
	if override.Publisher.RetryDelaySeconds > 0 {
		base.Publisher.RetryDelaySeconds = override.Publisher.RetryDelaySeconds
	}
	if override.Publisher.PostDelaySeconds > 0 {
		base.Publisher.PostDelaySeconds = override.Publisher.PostDelaySeconds
	}
	if override.Publisher.MaxPosts > 0 {
		base.Publisher.MaxPosts = override.Publisher.MaxPosts
	}

	if override.Archive.Path != "" {
		base.Archive = override.Archive
	}

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Feeds: map[string][]string{
			"politics": {
				"http://feeds.bbci.co.uk/news/politics/rss.xml",
			},
			"finance": {
				"http://feeds.bbci.co.uk/news/business/rss.xml",
				"https://ir.thomsonreuters.com/rss/news-releases.xml",
			},
			"stock_market": {
				"http://feeds.bbci.co.uk/news/business/economy/rss.xml",
			},
			"world": {
				"http://feeds.bbci.co.uk/news/world/rss.xml",
			},
		},
		Fetch: FetchConfig{MaxArticleAgeHours: 24, Workers: 10},
		Dedup: DedupConfig{
			StateFile:      "data/processed_articles.json",
			MaxHistoryDays: 7,
		},
		Summary: SummaryConfig{MaxLength: 280, MinInformative: 100, IncludeSource: true},
		Publisher: PublisherConfig{
			CredentialsFile:   "credentials.json",
			MaxRetries:        3,
			RetryDelaySeconds: 5,
			PostDelaySeconds:  60,
			MaxPosts:          5,
		},
		Archive:   ArchiveConfig{Path: "data/posts.db"},
		Scheduler: SchedulerConfig{CronExpression: "0 * * * *", Timezone: defaultTimezone, location: tz},
	}
}
