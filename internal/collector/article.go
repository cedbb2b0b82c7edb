package collector

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// Article 采集到的一条原始新闻，标签与新旧标记在 processor 阶段补齐
type Article struct {
	Title       string
	URL         string
	Source      string
	Summary     string
	PublishedAt time.Time
}

// Fetcher 抽象每一个新闻源，一个站点一个实现
type Fetcher interface {
	Name() string
	Fetch() ([]Article, error)
}

// 标题长度过滤：过短的是导航/栏目链接，过长的多半是拼接的广告文案
const (
	minTitleRunes = 10
	maxTitleRunes = 150
)

var badLinkFragments = []string{"javascript:", "mailto:", "#", "login", "register", "video"}

// validTitle 判断标题是否像一条真实新闻
func validTitle(title string) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(title))
	return n >= minTitleRunes && n <= maxTitleRunes
}

// skipLink 过滤导航、登录等非新闻链接
func skipLink(href string) bool {
	lower := strings.ToLower(href)
	for _, frag := range badLinkFragments {
		if strings.Contains(lower, frag) {
			return true
		}
	}
	return false
}

// absolutize 将站内相对链接补全为完整 URL；无法补全时返回空串
func absolutize(base, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "/") {
		return strings.TrimSuffix(base, "/") + href
	}
	return ""
}

// Throttle 请求间隔控制，避免被站点封禁。
// 运行是单线程的，加锁只是防止未来被并发复用时出错
type Throttle struct {
	mu       sync.Mutex
	last     time.Time
	interval time.Duration
}

func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{interval: interval}
}

// Wait 距上次请求不足 interval 时阻塞补足
func (t *Throttle) Wait() {
	if t == nil || t.interval <= 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if elapsed := time.Since(t.last); elapsed < t.interval {
		time.Sleep(t.interval - elapsed)
	}
	t.last = time.Now()
}

// decodeToUTF8 将响应体按声明的 charset 转成合法 UTF-8。
// 新浪、同花顺的历史页面仍有 gb2312 输出，直接入库会产生乱码
func decodeToUTF8(body []byte, contentType string) []byte {
	ct := strings.ToLower(contentType)
	isGBK := strings.Contains(ct, "gbk") || strings.Contains(ct, "gb2312") || strings.Contains(ct, "gb18030")
	if !isGBK && utf8.Valid(body) {
		return body
	}
	decoded, _, err := transform.Bytes(simplifiedchinese.GB18030.NewDecoder(), body)
	if err != nil || !utf8.Valid(decoded) {
		return body
	}
	return decoded
}
