package collector

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const detailMaxBodyBytes = 2 << 20

// 常见正文容器，按命中优先级排列（东方财富、新浪以及通用兜底）
var detailSelectors = []string{
	"div.art_context_box",
	"div.article",
	"div.article-content",
	"div.content",
	"div.main-content",
	"article",
}

// 广告与推荐位的类名片段，提取正文前先移除
var detailNoiseSelector = "script, style, [class*='ad'], [class*='advert'], [class*='promo'], [class*='recommend'], [class*='share']"

// DetailExtractor 打开新闻详情页并提取正文作为摘要。
// 静态解析拿不到正文时，可选地调用 cmd/extractor 的 headless 接口兜底
type DetailExtractor struct {
	UserAgent string
	Timeout   time.Duration
	Throttle  *Throttle
	MaxRunes  int

	// ExtractorURL cmd/extractor 的 /extract 地址，为空则不启用兜底
	ExtractorURL string
}

// Extract 返回正文文本；取不到时返回空串（调用方保留原摘要），
// 网络失败返回 error 由调用方决定是否忽略
func (d *DetailExtractor) Extract(pageURL string) (string, error) {
	d.Throttle.Wait()

	client := &http.Client{Timeout: d.timeout()}
	req, err := http.NewRequest(http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("detail: build request: %w", err)
	}
	req.Header.Set("User-Agent", d.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("detail: request %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("detail: %s status %d", pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, detailMaxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("detail: read %s: %w", pageURL, err)
	}
	body = decodeToUTF8(body, resp.Header.Get("Content-Type"))

	text := extractFromHTML(body)
	if text == "" && d.ExtractorURL != "" {
		text = d.extractViaSidecar(pageURL)
	}
	return truncateRunes(text, d.maxRunes()), nil
}

// extractFromHTML 按选择器优先级找正文容器，剔除广告节点后取文本
func extractFromHTML(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	for _, selector := range detailSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		sel.Find(detailNoiseSelector).Remove()

		var parts []string
		sel.Find("p").Each(func(_ int, p *goquery.Selection) {
			if t := strings.TrimSpace(p.Text()); t != "" {
				parts = append(parts, t)
			}
		})
		text := strings.Join(parts, "\n")
		if text == "" {
			text = strings.TrimSpace(sel.Text())
		}
		if utf8.RuneCountInString(text) >= 20 {
			return text
		}
	}
	return ""
}

// extractViaSidecar 调用 headless 浏览器边车，处理 JS 渲染的页面
func (d *DetailExtractor) extractViaSidecar(pageURL string) string {
	payload, _ := json.Marshal(map[string]any{
		"url":      pageURL,
		"maxChars": d.maxRunes(),
	})

	client := &http.Client{Timeout: d.timeout() + 20*time.Second}
	resp, err := client.Post(d.ExtractorURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		log.Printf("detail: sidecar %s: %v", pageURL, err)
		return ""
	}
	defer resp.Body.Close()

	var out struct {
		OK    bool   `json:"ok"`
		Text  string `json:"text"`
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, detailMaxBodyBytes)).Decode(&out); err != nil {
		log.Printf("detail: sidecar decode: %v", err)
		return ""
	}
	if !out.OK {
		if out.Error != "" {
			log.Printf("detail: sidecar: %s", out.Error)
		}
		return ""
	}
	return strings.TrimSpace(out.Text)
}

// truncateRunes 按 rune 截断，避免把中文截成半个字符
func truncateRunes(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return s
	}
	rs := []rune(s)
	if len(rs) <= limit {
		return s
	}
	return string(rs[:limit])
}

func (d *DetailExtractor) timeout() time.Duration {
	if d.Timeout > 0 {
		return d.Timeout
	}
	return 10 * time.Second
}

func (d *DetailExtractor) maxRunes() int {
	if d.MaxRunes > 0 {
		return d.MaxRunes
	}
	return 500
}
