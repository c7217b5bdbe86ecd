package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func rssFixture(pubDate string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Example Tech Blog</title>
    <language>en</language>
    <item>
      <title>Launch day</title>
      <link>https://example.com/launch</link>
      <guid>post-1</guid>
      <description>&lt;p&gt;A &lt;b&gt;big&lt;/b&gt; release.&lt;/p&gt;</description>
      <category>ai</category>
      <pubDate>%s</pubDate>
    </item>
    <item>
      <title>Old news</title>
      <link>https://example.com/old</link>
      <guid>post-2</guid>
      <description>Stale entry.</description>
      <pubDate>Mon, 01 Jan 2024 00:00:00 GMT</pubDate>
    </item>
  </channel>
</rss>`, pubDate)
}

func newTestRSS(t *testing.T, handler http.HandlerFunc) *RSS {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewRSS([]string{srv.URL}, 5*time.Second, 50, testPolicy())
}

func TestRSSFetchItems(t *testing.T) {
	recent := time.Now().UTC().Add(-time.Hour).Format(time.RFC1123Z)
	rss := newTestRSS(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssFixture(recent))
	})

	items, err := rss.FetchItems(context.Background(), 24)
	if err != nil {
		t.Fatalf("FetchItems returned error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1 (stale entry filtered)", len(items))
	}

	item := items[0]
	if item.Source != "rss" || item.ExternalID != "post-1" {
		t.Errorf("unexpected identity: %+v", item)
	}
	if item.Summary != "A big release." {
		t.Errorf("HTML not stripped from summary: %q", item.Summary)
	}
	if item.Language != "en" {
		t.Errorf("got language %q", item.Language)
	}
	if feed, ok := item.Metadata["feed"].(string); !ok || feed != "Example Tech Blog" {
		t.Errorf("got feed metadata %v", item.Metadata["feed"])
	}
}

func TestRSSSkipsBrokenFeed(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(broken.Close)

	recent := time.Now().UTC().Add(-time.Hour).Format(time.RFC1123Z)
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssFixture(recent))
	}))
	t.Cleanup(healthy.Close)

	rss := NewRSS([]string{broken.URL, healthy.URL}, 5*time.Second, 50, testPolicy())
	items, err := rss.FetchItems(context.Background(), 24)
	if err != nil {
		t.Fatalf("FetchItems returned error: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("got %d items, want 1 from the healthy feed", len(items))
	}
}

func TestStripHTML(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"plain text", "plain text"},
		{"<p>Hello <b>world</b></p>", "Hello world"},
		{"  spaced  ", "spaced"},
	}
	for _, tc := range cases {
		if got := stripHTML(tc.in); got != tc.want {
			t.Errorf("stripHTML(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
