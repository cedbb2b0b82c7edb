package generator

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/cxyo/fundnews/internal/processor"
)

func sampleBatch() processor.Batch {
	return processor.Batch{
		TradingDay: "2025-08-29",
		CoreTip:    []string{"今日市场关注点聚焦于芯片等领域。", "市场整体呈现震荡态势。"},
		Articles: []processor.ProcessedArticle{
			{
				ID:          "abc",
				Title:       "芯片半导体设备订单明显回暖",
				URL:         "https://a.com/1",
				Source:      "eastmoney",
				Summary:     "半导体设备厂商订单环比回升",
				PublishedAt: time.Date(2025, 8, 29, 10, 0, 0, 0, time.UTC),
				FundTags:    []string{"chip", "cloud"},
				Funds:       []string{"芯片ETF(512760)", "云计算ETF(516510)"},
				Icon:        "📈",
				Fresh:       true,
			},
			{
				ID:       "def",
				Title:    "创新药企业集中发布研发进展",
				URL:      "https://a.com/2",
				Source:   "sina",
				Summary:  "多家创新药企业公布临床数据",
				FundTags: []string{"pharma", "bigdata"},
				Funds:    []string{"医疗ETF(512170)", "大数据ETF(515400)"},
				Icon:     "🔬",
				Fresh:    false,
			},
		},
	}
}

func TestRenderProducesSelfContainedHTML(t *testing.T) {
	g, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	out, err := g.Render(sampleBatch())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	html := string(out)

	if !utf8.Valid(out) {
		t.Fatal("output is not valid UTF-8")
	}
	for _, want := range []string{
		"<title>财经基金日报 - 2025-08-29</title>",
		"核心提示",
		"📈1. 芯片半导体设备订单明显回暖",
		"<strong>摘要</strong>：半导体设备厂商订单环比回升",
		"<strong>关联基金</strong>：芯片ETF(512760)、云计算ETF(516510)",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("output missing %q", want)
		}
	}
	// 自包含：不引用任何外部资源
	for _, bad := range []string{"<link", "<script", "src="} {
		if strings.Contains(html, bad) {
			t.Fatalf("output references external resource: found %q", bad)
		}
	}
}

func TestRenderMarksReplayedArticles(t *testing.T) {
	g, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, err := g.Render(sampleBatch())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	html := string(out)

	// 只有回放的旧文章带 🔄 标记
	if !strings.Contains(html, "创新药企业集中发布研发进展 🔄") {
		t.Fatal("replayed article missing marker")
	}
	if strings.Contains(html, "芯片半导体设备订单明显回暖 🔄") {
		t.Fatal("fresh article should not carry marker")
	}
}

func TestRenderIsByteIdentical(t *testing.T) {
	g, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	batch := sampleBatch()

	a, err := g.Render(batch)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	b, err := g.Render(batch)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("repeated render of the same batch differs")
	}
}

func TestWriteAtomicOverwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.html")

	if err := os.WriteFile(path, []byte("旧内容"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	if err := WriteAtomic(path, []byte("新内容")); err != nil {
		t.Fatalf("WriteAtomic: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "新内容" {
		t.Fatalf("got %q, want 新内容", got)
	}

	// 临时文件不得残留
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("directory has %d entries, want only the output file", len(entries))
	}
}
