package dedup

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"NewsPoster/internal/domain"
	"NewsPoster/internal/ports"
)

// Store keeps fingerprints of already-processed articles across runs, backed
// by a JSON state file mapping fingerprint to first-seen timestamp. The store
// is the exclusive owner of that file; it is loaded once at construction and
// flushed after every mutating batch.
type Store struct {
	path    string
	entries map[string]time.Time
	logger  *slog.Logger
	now     func() time.Time
}

var _ ports.DedupStore = (*Store)(nil)

// NewStore loads the state file at path. A missing or corrupt file is not an
// error: the store starts empty and the condition is logged.
func NewStore(path string, logger *slog.Logger) *Store {
	s := &Store{
		path:    path,
		entries: map[string]time.Time{},
		logger:  logger,
		now:     time.Now,
	}
	s.load()
	return s
}

func (s *Store) load() {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("cannot read state file, starting empty", "path", s.path, "error", err)
		}
		return
	}

	var persisted map[string]string
	if err := json.Unmarshal(raw, &persisted); err != nil {
		s.logger.Warn("corrupt state file, starting empty", "path", s.path, "error", err)
		return
	}

	for fp, stamp := range persisted {
		ts, err := time.Parse(time.RFC3339, stamp)
		if err != nil {
			s.logger.Warn("skipping state entry with bad timestamp", "fingerprint", fp, "value", stamp)
			continue
		}
		s.entries[fp] = ts
	}
}

func (s *Store) save() {
	persisted := make(map[string]string, len(s.entries))
	for fp, ts := range s.entries {
		persisted[fp] = ts.Format(time.RFC3339)
	}

	raw, err := json.Marshal(persisted)
	if err != nil {
		s.logger.Error("cannot marshal state", "error", err)
		return
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			s.logger.Error("cannot create state directory", "dir", dir, "error", err)
			return
		}
	}

	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		s.logger.Error("cannot write state file", "path", s.path, "error", err)
	}
}

// Fingerprint derives a stable identity key from the article link, falling
// back to the title when the link is absent. Identity key only, not a
// security boundary.
func Fingerprint(article domain.Article) string {
	identifier := article.Link
	if identifier == "" {
		identifier = article.Title
	}
	sum := md5.Sum([]byte(identifier))
	return hex.EncodeToString(sum[:])
}

// IsDuplicate reports whether the article's fingerprint is already known.
func (s *Store) IsDuplicate(article domain.Article) bool {
	_, ok := s.entries[Fingerprint(article)]
	return ok
}

// MarkProcessed records the article's fingerprint with the current time and
// flushes the store. Re-marking refreshes the timestamp.
func (s *Store) MarkProcessed(article domain.Article) {
	s.entries[Fingerprint(article)] = s.now()
	s.save()
}

// FilterDuplicates returns the articles not seen before, preserving input
// order. Each kept article is marked processed before the next one is
// evaluated, so a batch containing the same fingerprint twice keeps only the
// first occurrence. The state file is flushed once at the end.
func (s *Store) FilterDuplicates(articles []domain.Article) []domain.Article {
	unique := make([]domain.Article, 0, len(articles))
	changed := false

	for _, article := range articles {
		fp := Fingerprint(article)
		if _, seen := s.entries[fp]; seen {
			s.logger.Debug("skipping duplicate", "title", article.Title, "fingerprint", fp)
			continue
		}
		s.entries[fp] = s.now()
		changed = true
		unique = append(unique, article)
	}

	if changed {
		s.save()
	}
	return unique
}

// CleanupOldEntries drops entries strictly older than now minus maxAgeDays.
// Entries exactly at the boundary are retained. The file is rewritten only
// when something was removed.
func (s *Store) CleanupOldEntries(maxAgeDays int) {
	cutoff := s.now().AddDate(0, 0, -maxAgeDays)
	removed := 0

	for fp, ts := range s.entries {
		if ts.Before(cutoff) {
			delete(s.entries, fp)
			removed++
		}
	}

	if removed > 0 {
		s.logger.Info("cleaned up old state entries", "removed", removed, "remaining", len(s.entries))
		s.save()
	}
}

// Len reports how many fingerprints are currently tracked.
func (s *Store) Len() int {
	return len(s.entries)
}
