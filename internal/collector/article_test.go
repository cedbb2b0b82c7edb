package collector

import (
	"testing"
	"time"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

func TestValidTitleBounds(t *testing.T) {
	if validTitle("短标题") {
		t.Fatalf("too-short title should be rejected")
	}
	if !validTitle("央行发布最新货币政策执行报告") {
		t.Fatalf("normal news title should pass")
	}

	long := make([]rune, 151)
	for i := range long {
		long[i] = '长'
	}
	if validTitle(string(long)) {
		t.Fatalf("overlong title should be rejected")
	}
}

func TestSkipLinkFiltersNavigation(t *testing.T) {
	for _, href := range []string{
		"javascript:void(0)",
		"mailto:a@b.com",
		"/news/list#top",
		"https://example.com/Login",
		"https://example.com/video/123",
	} {
		if !skipLink(href) {
			t.Fatalf("skipLink(%q) = false, want true", href)
		}
	}
	if skipLink("https://finance.eastmoney.com/a/2025.html") {
		t.Fatalf("normal article link should not be skipped")
	}
}

func TestAbsolutize(t *testing.T) {
	base := "https://finance.eastmoney.com"
	if got := absolutize(base, "/a/1.html"); got != "https://finance.eastmoney.com/a/1.html" {
		t.Fatalf("absolutize = %q", got)
	}
	if got := absolutize(base, "https://other.com/x"); got != "https://other.com/x" {
		t.Fatalf("absolute link should pass through: %q", got)
	}
	// 既非绝对也非根路径的链接无法补全
	if got := absolutize(base, "a/1.html"); got != "" {
		t.Fatalf("relative link without slash should drop: %q", got)
	}
}

func TestDecodeToUTF8HandlesGBK(t *testing.T) {
	raw := "基金市场持续回暖"
	gbk, _, err := transform.Bytes(simplifiedchinese.GB18030.NewEncoder(), []byte(raw))
	if err != nil {
		t.Fatalf("encode to GBK: %v", err)
	}

	got := decodeToUTF8(gbk, "text/html; charset=gb2312")
	if string(got) != raw {
		t.Fatalf("decodeToUTF8 = %q, want %q", got, raw)
	}

	// 已经是 UTF-8 的内容原样返回
	if got := decodeToUTF8([]byte(raw), "text/html; charset=utf-8"); string(got) != raw {
		t.Fatalf("utf-8 body should pass through: %q", got)
	}
}

func TestThrottleEnforcesInterval(t *testing.T) {
	const interval = 30 * time.Millisecond
	th := NewThrottle(interval)

	th.Wait()
	start := time.Now()
	th.Wait()
	if elapsed := time.Since(start); elapsed < interval {
		t.Fatalf("second Wait returned after %v, want >= %v", elapsed, interval)
	}

	// nil throttle 不做限速也不 panic
	var none *Throttle
	none.Wait()
}
