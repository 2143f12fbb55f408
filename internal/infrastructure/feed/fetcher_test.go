package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsPoster/internal/logging"
)

const rssTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Test Feed</title>
<item>
<title>Fresh story</title>
<link>https://example.com/fresh</link>
<description><![CDATA[<p>Body <b>text</b>.</p>]]></description>
<pubDate>%s</pubDate>
</item>
<item>
<title>Stale story</title>
<link>https://example.com/stale</link>
<description>Old body.</description>
<pubDate>%s</pubDate>
</item>
<item>
<title>Undated story</title>
<link>https://example.com/undated</link>
<description>No date at all.</description>
</item>
</channel>
</rss>`

func newFeedServer(t *testing.T) *httptest.Server {
	t.Helper()

	fresh := time.Now().Add(-time.Hour).Format(time.RFC1123Z)
	stale := time.Now().Add(-72 * time.Hour).Format(time.RFC1123Z)
	body := fmt.Sprintf(rssTemplate, fresh, stale)

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, body)
	}))
}

func TestFetchRecentFiltersByAge(t *testing.T) {
	t.Parallel()

	server := newFeedServer(t)
	defer server.Close()

	fetcher := NewFetcher(map[string][]string{"finance": {server.URL}}, 2, logging.Discard())

	articles, err := fetcher.FetchRecent(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	require.Len(t, articles, 2, "the stale item is dropped, the undated one kept")

	assert.Equal(t, "Fresh story", articles[0].Title)
	assert.Equal(t, "Body text.", articles[0].Description, "HTML markup is stripped")
	assert.Equal(t, "finance", articles[0].Category)
	assert.Equal(t, server.URL, articles[0].SourceFeed)
	assert.True(t, articles[0].HasTimestamp())

	assert.Equal(t, "Undated story", articles[1].Title)
	assert.False(t, articles[1].HasTimestamp())
}

func TestFetchRecentZeroMaxAgeKeepsEverything(t *testing.T) {
	t.Parallel()

	server := newFeedServer(t)
	defer server.Close()

	fetcher := NewFetcher(map[string][]string{"world": {server.URL}}, 1, logging.Discard())

	articles, err := fetcher.FetchRecent(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, articles, 3)
}

func TestFetchRecentStableOrderAcrossCategories(t *testing.T) {
	t.Parallel()

	server := newFeedServer(t)
	defer server.Close()

	feeds := map[string][]string{
		"world":   {server.URL},
		"finance": {server.URL},
	}
	fetcher := NewFetcher(feeds, 4, logging.Discard())

	articles, err := fetcher.FetchRecent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, articles, 6)

	// Categories are emitted alphabetically regardless of map iteration.
	for _, article := range articles[:3] {
		assert.Equal(t, "finance", article.Category)
	}
	for _, article := range articles[3:] {
		assert.Equal(t, "world", article.Category)
	}
}

func TestFetchRecentAbsorbsFeedFailures(t *testing.T) {
	t.Parallel()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer broken.Close()

	server := newFeedServer(t)
	defer server.Close()

	fetcher := NewFetcher(map[string][]string{"finance": {broken.URL, server.URL}}, 2, logging.Discard())

	articles, err := fetcher.FetchRecent(context.Background(), 0)
	require.NoError(t, err, "a failing feed must not fail the whole fetch")
	assert.Len(t, articles, 3)
}

func TestFetchRecentCancelledContext(t *testing.T) {
	t.Parallel()

	server := newFeedServer(t)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := NewFetcher(map[string][]string{"finance": {server.URL}}, 1, logging.Discard())

	_, err := fetcher.FetchRecent(ctx, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStripHTML(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "plain text stays", stripHTML("plain text stays"))
	assert.Equal(t, "nested markup", stripHTML("<div><p>nested <em>markup</em></p></div>"))
	assert.Equal(t, "padded", stripHTML("  padded  "))
}
