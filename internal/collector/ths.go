package collector

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const thsMaxBodyBytes = 2 << 20 // 2MB，防止超大 HTML 拖垮解析

const thsDefaultURL = "https://news.10jqka.com.cn/"

// THSFetcher 抓取同花顺财经的要闻列表页
type THSFetcher struct {
	UserAgent string
	Timeout   time.Duration
	Throttle  *Throttle

	// BaseURL 默认同花顺要闻页，测试时可指向本地服务
	BaseURL string
}

func (f *THSFetcher) Name() string {
	return "ths"
}

func (f *THSFetcher) Fetch() ([]Article, error) {
	log.Println("fetch THS finance news...")

	base := f.BaseURL
	if base == "" {
		base = thsDefaultURL
	}

	f.Throttle.Wait()

	client := &http.Client{Timeout: f.timeout()}
	req, err := http.NewRequest(http.MethodGet, base, nil)
	if err != nil {
		return nil, fmt.Errorf("ths: build request: %w", err)
	}
	req.Header.Set("User-Agent", f.UserAgent)
	req.Header.Set("Referer", "https://www.10jqka.com.cn/")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ths: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ths: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, thsMaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("ths: read body: %w", err)
	}
	body = decodeToUTF8(body, resp.Header.Get("Content-Type"))

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ths: parse html: %w", err)
	}

	results := make([]Article, 0, 40)
	seen := make(map[string]bool)
	now := time.Now()

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		title := strings.TrimSpace(s.Text())
		href, _ := s.Attr("href")
		if !validTitle(title) || skipLink(href) {
			return
		}
		link := absolutize(strings.TrimSuffix(base, "/"), href)
		if link == "" {
			return
		}
		if seen[link] {
			return
		}
		seen[link] = true

		results = append(results, Article{
			Title:       title,
			URL:         link,
			Source:      "ths",
			Summary:     title,
			PublishedAt: now,
		})
	})

	if len(results) == 0 {
		log.Printf("fetch THS got 0 items")
	}
	return results, nil
}

func (f *THSFetcher) timeout() time.Duration {
	if f.Timeout > 0 {
		return f.Timeout
	}
	return 10 * time.Second
}
