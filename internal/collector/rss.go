package collector

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// RSSFetcher 通过 RSS/Atom 订阅补充新闻源，一次实例可聚合多个 feed。
// 单个 feed 失败只记日志，不影响其余 feed
type RSSFetcher struct {
	FeedURLs  []string
	UserAgent string
	Timeout   time.Duration
	Throttle  *Throttle
}

func (f *RSSFetcher) Name() string {
	return "rss"
}

func (f *RSSFetcher) Fetch() ([]Article, error) {
	log.Printf("fetch %d RSS feeds...", len(f.FeedURLs))

	parser := gofeed.NewParser()
	parser.UserAgent = f.UserAgent

	var results []Article
	seen := make(map[string]bool)
	parsed := 0

	for _, feedURL := range f.FeedURLs {
		f.Throttle.Wait()

		ctx, cancel := context.WithTimeout(context.Background(), f.timeout())
		feed, err := parser.ParseURLWithContext(feedURL, ctx)
		cancel()
		if err != nil {
			log.Printf("rss: parse %s: %v", feedURL, err)
			continue
		}
		parsed++

		for _, item := range feed.Items {
			title := strings.TrimSpace(item.Title)
			link := strings.TrimSpace(item.Link)
			if !validTitle(title) || link == "" || skipLink(link) {
				continue
			}
			if seen[link] {
				continue
			}
			seen[link] = true

			published := time.Now()
			if item.PublishedParsed != nil {
				published = *item.PublishedParsed
			} else if item.UpdatedParsed != nil {
				published = *item.UpdatedParsed
			}

			summary := strings.TrimSpace(item.Description)
			if summary == "" {
				summary = title
			}

			results = append(results, Article{
				Title:       title,
				URL:         link,
				Source:      "rss",
				Summary:     summary,
				PublishedAt: published,
			})
		}
	}

	if parsed == 0 && len(f.FeedURLs) > 0 {
		return nil, fmt.Errorf("rss: all %d feeds failed", len(f.FeedURLs))
	}
	return results, nil
}

func (f *RSSFetcher) timeout() time.Duration {
	if f.Timeout > 0 {
		return f.Timeout
	}
	return 10 * time.Second
}
