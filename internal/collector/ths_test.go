package collector

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

const sampleTHSPage = `<!DOCTYPE html>
<html><body>
<div class="list-con">
  <ul>
    <li><a href="/20250825/c001.shtml">半导体设备订单回暖，晶圆厂扩产提速明显</a></li>
    <li><a href="https://news.10jqka.com.cn/20250825/c002.shtml">新能源汽车渗透率持续提升，智能驾驶加速落地</a></li>
    <li><a href="/20250825/c001.shtml">半导体设备订单回暖，晶圆厂扩产提速明显</a></li>
    <li><a href="javascript:void(0)">点击登录查看更多精彩内容请点击这里</a></li>
    <li><a href="/nav">首页</a></li>
  </ul>
</div>
</body></html>`

func TestTHSFetcherParsesListPage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(sampleTHSPage))
	}))
	defer ts.Close()

	f := &THSFetcher{UserAgent: "test", BaseURL: ts.URL + "/"}
	items, err := f.Fetch()
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}

	// 重复链接、导航和 javascript 链接都应被过滤
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2: %+v", len(items), items)
	}
	if items[0].URL != ts.URL+"/20250825/c001.shtml" {
		t.Fatalf("relative link not absolutized: %q", items[0].URL)
	}
	if items[0].Source != "ths" {
		t.Fatalf("source = %q, want ths", items[0].Source)
	}
}

func TestTHSFetcherNonOKStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	f := &THSFetcher{UserAgent: "test", BaseURL: ts.URL}
	if _, err := f.Fetch(); err == nil {
		t.Fatalf("expected error on 403")
	}
}
