package collector

import (
	"log"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
)

const (
	sinaBase     = "https://finance.sina.com.cn"
	sinaMaxItems = 40
)

// 新浪首页混排社会、体育新闻，只保留标题里带财经词的条目
var sinaFinanceKeywords = []string{
	"经济", "股票", "基金", "金融", "市场", "投资",
	"理财", "A股", "港股", "美股", "债券", "ETF",
}

// SinaFetcher 抓取新浪财经首页的新闻链接
type SinaFetcher struct {
	UserAgent string
	Timeout   time.Duration
	Delay     time.Duration
}

func (f *SinaFetcher) Name() string {
	return "sina"
}

func (f *SinaFetcher) Fetch() ([]Article, error) {
	log.Println("fetch Sina finance news...")

	c := colly.NewCollector(
		colly.AllowedDomains("finance.sina.com.cn", "sina.com.cn"),
		colly.UserAgent(f.UserAgent),
		// 新浪历史页面仍有 gb2312 输出，交给 colly 按响应头/内容探测转码
		colly.DetectCharset(),
	)
	c.SetRequestTimeout(f.timeout())
	_ = c.Limit(&colly.LimitRule{DomainGlob: "*sina.com.cn*", Delay: f.delay()})

	results := make([]Article, 0, sinaMaxItems)
	seen := make(map[string]bool)
	now := time.Now()

	// 新浪的新闻标题通常在 h2/h3 或带 news/title/article 类名的块里，外链均带 target=_blank
	c.OnHTML("a[target='_blank'][href]", func(e *colly.HTMLElement) {
		if len(results) >= sinaMaxItems {
			return
		}
		title := strings.TrimSpace(e.Text)
		href := e.Attr("href")
		if !validTitle(title) || skipLink(href) {
			return
		}
		if !strings.HasPrefix(href, "http") {
			return
		}
		if !isFinanceTitle(title) {
			return
		}
		if seen[href] {
			return
		}
		seen[href] = true

		results = append(results, Article{
			Title:       title,
			URL:         href,
			Source:      "sina",
			Summary:     title,
			PublishedAt: now,
		})
	})

	if err := c.Visit(sinaBase + "/"); err != nil {
		log.Printf("fetch Sina failed: %v", err)
		return nil, err
	}

	if len(results) == 0 {
		log.Printf("fetch Sina got 0 items")
	}
	return results, nil
}

func isFinanceTitle(title string) bool {
	for _, kw := range sinaFinanceKeywords {
		if strings.Contains(title, kw) {
			return true
		}
	}
	return false
}

func (f *SinaFetcher) timeout() time.Duration {
	if f.Timeout > 0 {
		return f.Timeout
	}
	return 10 * time.Second
}

func (f *SinaFetcher) delay() time.Duration {
	if f.Delay > 0 {
		return f.Delay
	}
	return time.Second
}
