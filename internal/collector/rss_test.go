package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const rssTwoItems = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Lab Blog</title>
  <item>
    <title>First post</title>
    <link>https://lab.example.com/first</link>
    <description><![CDATA[<p>Hello <b>world</b></p>]]></description>
    <pubDate>Tue, 02 Jan 2024 00:00:00 GMT</pubDate>
  </item>
  <item>
    <title>Second post</title>
    <link>https://lab.example.com/second</link>
    <description>Plain text</description>
  </item>
</channel>
</rss>`

const atomWithContent = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Atom Lab</title>
  <entry>
    <title>Atom entry</title>
    <link href="https://atom.example.com/entry"/>
    <updated>2024-03-04T05:06:07Z</updated>
    <content type="html">&lt;p&gt;&lt;/p&gt;&lt;p&gt;Lead paragraph.&lt;/p&gt;&lt;p&gt;More.&lt;/p&gt;</content>
  </entry>
</feed>`

func rssServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/rss", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
		fmt.Fprint(w, rssTwoItems)
	})
	mux.HandleFunc("/atom", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/atom+xml")
		fmt.Fprint(w, atomWithContent)
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("/garbage", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "this is not a feed")
	})
	mux.HandleFunc("/ua", func(w http.ResponseWriter, r *http.Request) {
		if r.UserAgent() != "pulse-test" {
			http.Error(w, "bad agent", http.StatusForbidden)
			return
		}
		fmt.Fprint(w, rssTwoItems)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRSSFetcherParsesItems(t *testing.T) {
	srv := rssServer(t)
	f := &RSSFetcher{URL: srv.URL + "/rss"}

	items, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}

	first := items[0]
	if first.Title != "First post" || first.URL != "https://lab.example.com/first" {
		t.Fatalf("unexpected first item: %+v", first)
	}
	if !strings.Contains(first.Description, "<b>world</b>") {
		t.Fatalf("raw description should be passed through for the sanitizer: %q", first.Description)
	}
	want := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	if !first.PublishedAt.Equal(want) {
		t.Fatalf("PublishedAt = %v, want %v", first.PublishedAt, want)
	}
	if first.Source != "127" {
		t.Fatalf("Source = %q, want first label of the feed host", first.Source)
	}
	if !items[1].PublishedAt.IsZero() {
		t.Fatalf("missing pubDate should stay zero, got %v", items[1].PublishedAt)
	}
}

func TestRSSFetcherLimit(t *testing.T) {
	srv := rssServer(t)
	f := &RSSFetcher{URL: srv.URL + "/rss", Limit: 1}

	items, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(items) != 1 || items[0].Title != "First post" {
		t.Fatalf("Limit=1 should keep the first entry only, got %+v", items)
	}
}

func TestRSSFetcherAtomContentFallback(t *testing.T) {
	srv := rssServer(t)
	f := &RSSFetcher{URL: srv.URL + "/atom"}

	items, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Description != "Lead paragraph." {
		t.Fatalf("Description = %q, want first non-empty paragraph", items[0].Description)
	}
	if items[0].URL != "https://atom.example.com/entry" {
		t.Fatalf("URL = %q", items[0].URL)
	}
	want := time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)
	if !items[0].PublishedAt.Equal(want) {
		t.Fatalf("PublishedAt = %v, want updated time %v", items[0].PublishedAt, want)
	}
}

func TestRSSFetcherErrors(t *testing.T) {
	srv := rssServer(t)

	_, err := (&RSSFetcher{URL: srv.URL + "/broken"}).Fetch(context.Background())
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected StatusError 500, got %v", err)
	}

	if _, err := (&RSSFetcher{URL: srv.URL + "/garbage"}).Fetch(context.Background()); err == nil {
		t.Fatal("expected parse error for non-feed body")
	}
}

func TestRSSFetcherUserAgent(t *testing.T) {
	srv := rssServer(t)
	f := &RSSFetcher{URL: srv.URL + "/ua", HTTP: HTTPOptions{UserAgent: "pulse-test"}}

	if _, err := f.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch with custom agent error: %v", err)
	}
}

func TestRSSFetcherTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	f := &RSSFetcher{URL: srv.URL, HTTP: HTTPOptions{Timeout: 50 * time.Millisecond}}
	start := time.Now()
	if _, err := f.Fetch(context.Background()); err == nil {
		t.Fatal("expected timeout error")
	}
	if time.Since(start) > 5*time.Second {
		t.Fatalf("timeout not applied, took %v", time.Since(start))
	}
}
