package pipeline

import (
	"fmt"
	"log"
	"time"

	"github.com/cxyo/fundnews/internal/collector"
	"github.com/cxyo/fundnews/internal/generator"
	"github.com/cxyo/fundnews/internal/processor"
	"github.com/cxyo/fundnews/internal/storage"
)

// Result 一次成功运行的汇总，供入口打日志与退出码判断
type Result struct {
	TradingDay   string
	ArticleCount int
	SourcesOK    int
	OutputPath   string
}

// Pipeline 串行执行 采集 → 处理 → 渲染 → 原子写盘 的完整批次。
// 整个流程单线程跑到结束，运行之间不保留任何内存状态
type Pipeline struct {
	fetchers   []collector.Fetcher
	processor  *processor.Processor
	generator  *generator.Generator
	outputPath string

	// detail 可选：打标签前用详情页正文替换标题式摘要
	detail *collector.DetailExtractor
	// store 可选：归档本次批次，失败只告警不影响出报
	store *storage.Store
}

func New(fetchers []collector.Fetcher, p *processor.Processor, g *generator.Generator, outputPath string) *Pipeline {
	return &Pipeline{
		fetchers:   fetchers,
		processor:  p,
		generator:  g,
		outputPath: outputPath,
	}
}

// WithDetailExtractor 启用详情页正文抓取
func (p *Pipeline) WithDetailExtractor(d *collector.DetailExtractor) *Pipeline {
	p.detail = d
	return p
}

// WithStore 启用归档
func (p *Pipeline) WithStore(s *storage.Store) *Pipeline {
	p.store = s
	return p
}

// Run 执行一轮。全部数据源失败或一条新闻都没拿到时返回错误，
// 此时不触碰已有的输出文件
func (p *Pipeline) Run(now time.Time) (*Result, error) {
	log.Println("start digest run...")

	var all []collector.Article
	okSources := 0
	for _, f := range p.fetchers {
		name := f.Name()
		log.Printf("fetch from %s...", name)
		items, err := f.Fetch()
		if err != nil {
			// 单个源失败不终止整轮，跳过继续
			log.Printf("fetch %s error: %v", name, err)
			continue
		}
		okSources++
		log.Printf("%s done, fetched=%d items", name, len(items))
		all = append(all, items...)
	}

	if okSources == 0 {
		return nil, fmt.Errorf("all %d sources failed", len(p.fetchers))
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("%d sources responded but yielded no articles", okSources)
	}

	merged := p.processor.Select(all)
	if p.detail != nil {
		p.enrichSummaries(merged)
	}

	batch := p.processor.Build(now, merged)
	if len(batch.Articles) == 0 {
		return nil, fmt.Errorf("no articles left after processing")
	}
	// 数量不足时照常发布真实抓到的内容，绝不补充编造的新闻
	log.Printf("processed %d articles (trading day %s)", len(batch.Articles), batch.TradingDay)

	html, err := p.generator.Render(batch)
	if err != nil {
		return nil, err
	}
	if err := generator.WriteAtomic(p.outputPath, html); err != nil {
		return nil, err
	}

	if p.store != nil {
		if err := p.store.SaveRun(batch, p.outputPath); err != nil {
			log.Printf("warn: archive run: %v", err)
		}
	}

	log.Println("digest run done")
	return &Result{
		TradingDay:   batch.TradingDay,
		ArticleCount: len(batch.Articles),
		SourcesOK:    okSources,
		OutputPath:   p.outputPath,
	}, nil
}

// enrichSummaries 只对入选批次的新闻抓详情页，失败保留原摘要
func (p *Pipeline) enrichSummaries(merged []collector.Article) {
	for i := range merged {
		text, err := p.detail.Extract(merged[i].URL)
		if err != nil {
			log.Printf("detail %s: %v", merged[i].URL, err)
			continue
		}
		if text != "" {
			merged[i].Summary = text
		}
	}
}
