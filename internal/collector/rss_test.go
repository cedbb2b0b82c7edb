package collector

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>测试财经订阅</title>
    <link>https://example.com</link>
    <item>
      <title>央行发布最新货币政策报告，强调稳健货币政策灵活适度</title>
      <link>https://example.com/news/1</link>
      <description>央行发布最新货币政策报告，保持流动性合理充裕。</description>
      <pubDate>Mon, 25 Aug 2025 09:30:00 +0800</pubDate>
    </item>
    <item>
      <title>导航</title>
      <link>https://example.com/nav</link>
    </item>
    <item>
      <title>A股市场震荡上行，科技板块表现强势领涨两市</title>
      <link>https://example.com/news/2</link>
    </item>
  </channel>
</rss>`

func TestRSSFetcherParsesFeed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
		_, _ = w.Write([]byte(sampleRSS))
	}))
	defer ts.Close()

	f := &RSSFetcher{FeedURLs: []string{ts.URL}, UserAgent: "test"}
	items, err := f.Fetch()
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}

	// “导航”标题过短，应被过滤
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2: %+v", len(items), items)
	}
	if items[0].Source != "rss" {
		t.Fatalf("source = %q, want rss", items[0].Source)
	}
	if items[0].Summary == "" {
		t.Fatalf("summary should fall back to description or title")
	}
	// pubDate 解析成功时沿用条目时间
	if items[0].PublishedAt.Year() != 2025 {
		t.Fatalf("published at = %v", items[0].PublishedAt)
	}
}

func TestRSSFetcherAllFeedsFailed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	f := &RSSFetcher{FeedURLs: []string{ts.URL}, UserAgent: "test"}
	if _, err := f.Fetch(); err == nil {
		t.Fatalf("expected error when every feed fails")
	}
}
