package collector

import (
	"log"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
)

const (
	eastmoneyBase     = "https://finance.eastmoney.com"
	eastmoneyMaxItems = 40
)

// EastmoneyFetcher 抓取东方财富网首页的要闻区块
type EastmoneyFetcher struct {
	UserAgent string
	Timeout   time.Duration
	Delay     time.Duration
}

func (f *EastmoneyFetcher) Name() string {
	return "eastmoney"
}

func (f *EastmoneyFetcher) Fetch() ([]Article, error) {
	log.Println("fetch Eastmoney finance news...")

	c := colly.NewCollector(
		colly.AllowedDomains("finance.eastmoney.com", "www.eastmoney.com"),
		colly.UserAgent(f.UserAgent),
	)
	c.SetRequestTimeout(f.timeout())
	// 站内请求之间保持礼貌间隔
	_ = c.Limit(&colly.LimitRule{DomainGlob: "*eastmoney.*", Delay: f.delay()})

	results := make([]Article, 0, eastmoneyMaxItems)
	seen := make(map[string]bool)
	now := time.Now()

	// 页面结构可能调整：要闻标题分散在 news/title 类名的块里，做“尽力而为”的解析
	c.OnHTML("h3 a[href], div[class*='news'] a[href], div[class*='title'] a[href], li a[href]", func(e *colly.HTMLElement) {
		if len(results) >= eastmoneyMaxItems {
			return
		}
		title := strings.TrimSpace(e.Text)
		href := e.Attr("href")
		if !validTitle(title) || skipLink(href) {
			return
		}
		link := absolutize(eastmoneyBase, href)
		if link == "" || !strings.Contains(link, "eastmoney.com") {
			return
		}
		if seen[link] {
			return
		}
		seen[link] = true

		results = append(results, Article{
			Title:       title,
			URL:         link,
			Source:      "eastmoney",
			Summary:     title,
			PublishedAt: now,
		})
	})

	if err := c.Visit(eastmoneyBase + "/"); err != nil {
		log.Printf("fetch Eastmoney failed: %v", err)
		return nil, err
	}

	if len(results) == 0 {
		log.Printf("fetch Eastmoney got 0 items")
	}
	return results, nil
}

func (f *EastmoneyFetcher) timeout() time.Duration {
	if f.Timeout > 0 {
		return f.Timeout
	}
	return 10 * time.Second
}

func (f *EastmoneyFetcher) delay() time.Duration {
	if f.Delay > 0 {
		return f.Delay
	}
	return time.Second
}
