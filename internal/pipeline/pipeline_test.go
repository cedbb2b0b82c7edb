package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cxyo/fundnews/internal/collector"
	"github.com/cxyo/fundnews/internal/fund"
	"github.com/cxyo/fundnews/internal/generator"
	"github.com/cxyo/fundnews/internal/processor"
)

// fakeFetcher 测试用数据源，固定返回预设结果
type fakeFetcher struct {
	name  string
	items []collector.Article
	err   error
}

func (f *fakeFetcher) Name() string { return f.name }

func (f *fakeFetcher) Fetch() ([]collector.Article, error) { return f.items, f.err }

func newTestPipeline(t *testing.T, outputPath string, fetchers ...collector.Fetcher) *Pipeline {
	t.Helper()
	g, err := generator.New()
	if err != nil {
		t.Fatalf("generator.New: %v", err)
	}
	p := processor.New(fund.NewCatalog(), processor.Options{})
	return New(fetchers, p, g, outputPath)
}

func TestRunWritesDigest(t *testing.T) {
	now := time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)
	out := filepath.Join(t.TempDir(), "index.html")

	ok := &fakeFetcher{name: "eastmoney", items: []collector.Article{
		{Title: "人工智能大模型应用进入快速落地阶段", URL: "https://a.com/1", Source: "eastmoney", Summary: "多家公司披露大模型在产业端的落地进展", PublishedAt: now},
	}}
	broken := &fakeFetcher{name: "sina", err: errors.New("boom")}

	res, err := newTestPipeline(t, out, ok, broken).Run(now)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.SourcesOK != 1 || res.ArticleCount != 1 {
		t.Fatalf("result = %+v", res)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if !strings.Contains(string(data), "人工智能大模型应用进入快速落地阶段") {
		t.Fatal("output does not contain the article")
	}
}

func TestRunAllSourcesFailedKeepsOldOutput(t *testing.T) {
	now := time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)
	out := filepath.Join(t.TempDir(), "index.html")
	if err := os.WriteFile(out, []byte("昨天的日报"), 0o644); err != nil {
		t.Fatalf("seed old output: %v", err)
	}

	a := &fakeFetcher{name: "eastmoney", err: errors.New("timeout")}
	b := &fakeFetcher{name: "sina", err: errors.New("blocked")}

	if _, err := newTestPipeline(t, out, a, b).Run(now); err == nil {
		t.Fatal("expected error when every source fails")
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read old output: %v", err)
	}
	if string(data) != "昨天的日报" {
		t.Fatalf("old output was touched: %q", data)
	}
}

func TestRunNoArticlesIsError(t *testing.T) {
	now := time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)
	out := filepath.Join(t.TempDir(), "index.html")

	empty := &fakeFetcher{name: "eastmoney"}
	if _, err := newTestPipeline(t, out, empty).Run(now); err == nil {
		t.Fatal("expected error when sources yield nothing")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatal("output file should not be created on failed run")
	}
}

func TestRunPartialSourceFailureStillPublishes(t *testing.T) {
	// 北京时间 2025-09-03 周三 16:00
	now := time.Date(2025, 9, 3, 8, 0, 0, 0, time.UTC)
	out := filepath.Join(t.TempDir(), "index.html")

	ok := &fakeFetcher{name: "ths", items: []collector.Article{
		{Title: "芯片半导体板块持续走强成交活跃", URL: "https://a.com/chip", Source: "ths", PublishedAt: now},
		{Title: "创新药企业公布重要临床试验数据", URL: "https://a.com/pharma", Source: "ths", PublishedAt: now},
	}}
	broken := &fakeFetcher{name: "rss", err: errors.New("dns")}

	res, err := newTestPipeline(t, out, broken, ok).Run(now)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// 数量不足批次上限时照常发布，不补充编造内容
	if res.ArticleCount != 2 {
		t.Fatalf("article count = %d, want 2", res.ArticleCount)
	}
	if res.TradingDay != "2025-09-02" {
		t.Fatalf("trading day = %q, want 2025-09-02", res.TradingDay)
	}
}
