package processor

import (
	"crypto/sha1"
	"encoding/hex"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cxyo/fundnews/internal/collector"
	"github.com/cxyo/fundnews/internal/fund"
)

// ProcessedArticle 是渲染与归档前的统一结构
type ProcessedArticle struct {
	ID          string
	Title       string
	URL         string
	Source      string
	Summary     string
	PublishedAt time.Time
	// FundTags 主题 ID（按主题表顺序），同一批次内组合不重复
	FundTags []string
	// Funds 渲染用的代表性 ETF 文案，每个标签取一只
	Funds []string
	Icon  string
	// Fresh 本轮抓取的为新；从归档回放的为旧，渲染时加 🔄 标记
	Fresh bool
}

// Batch 一次运行处理完成的完整批次
type Batch struct {
	TradingDay string
	CoreTip    []string
	Articles   []ProcessedArticle
}

type Options struct {
	BatchSize       int
	SummaryMinRunes int
	SummaryMaxRunes int
	DedupKeyRunes   int
	SimilarityRatio float64
	Holidays        []string
}

// Processor 串起去重、打标签、排序与摘要约束
type Processor struct {
	catalog  *fund.Catalog
	opts     Options
	tagger   *Tagger
	calendar *TradingCalendar
}

func New(catalog *fund.Catalog, opts Options) *Processor {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 10
	}
	if opts.SummaryMinRunes <= 0 {
		opts.SummaryMinRunes = 10
	}
	if opts.SummaryMaxRunes < opts.SummaryMinRunes {
		opts.SummaryMaxRunes = 200
	}
	if opts.DedupKeyRunes <= 0 {
		opts.DedupKeyRunes = 20
	}
	if opts.SimilarityRatio <= 0 {
		opts.SimilarityRatio = 0.85
	}
	return &Processor{
		catalog:  catalog,
		opts:     opts,
		tagger:   NewTagger(catalog),
		calendar: NewTradingCalendar(opts.Holidays),
	}
}

// Process 把原始采集结果处理成一个批次。
// now 为本次运行时间，用于计算上一交易日标题
func (p *Processor) Process(now time.Time, items []collector.Article) Batch {
	return p.Build(now, p.Select(items))
}

// Select 清洗、去重、排序并截取批次大小。
// 单独暴露是为了让管道在打标签前有机会补抓正文摘要
func (p *Processor) Select(items []collector.Article) []collector.Article {
	cleaned := make([]collector.Article, 0, len(items))
	for _, it := range items {
		it.Title = strings.TrimSpace(it.Title)
		it.Summary = strings.TrimSpace(it.Summary)
		if it.Title == "" || it.URL == "" {
			continue
		}
		cleaned = append(cleaned, it)
	}

	merged := dedupe(cleaned, p.opts.DedupKeyRunes, p.opts.SimilarityRatio)

	// 最新的排在最前；时间相同按标题排序，保证输出确定
	sort.SliceStable(merged, func(i, j int) bool {
		if !merged[i].PublishedAt.Equal(merged[j].PublishedAt) {
			return merged[i].PublishedAt.After(merged[j].PublishedAt)
		}
		return merged[i].Title < merged[j].Title
	})

	if len(merged) > p.opts.BatchSize {
		merged = merged[:p.opts.BatchSize]
	}
	return merged
}

// Build 对已选定的批次打标签、约束摘要并生成核心提示
func (p *Processor) Build(now time.Time, merged []collector.Article) Batch {
	usedTagSets := make(map[string]struct{})
	articles := make([]ProcessedArticle, 0, len(merged))
	for _, it := range merged {
		summary := p.clampSummary(it)
		tags := p.tagger.Assign(it.Title+summary, usedTagSets)

		articles = append(articles, ProcessedArticle{
			ID:          hashURL(it.URL),
			Title:       it.Title,
			URL:         it.URL,
			Source:      it.Source,
			Summary:     summary,
			PublishedAt: it.PublishedAt,
			FundTags:    tags,
			Funds:       p.representativeFunds(tags),
			Icon:        pickIcon(it.URL),
			Fresh:       true,
		})
	}

	return Batch{
		TradingDay: p.calendar.PrevTradingDayLabel(now),
		CoreTip:    p.coreTip(articles),
		Articles:   articles,
	}
}

// clampSummary 把摘要压进配置的长度区间。
// 摘要只允许是抓到的原文：过短时退回标题，绝不生成文案
func (p *Processor) clampSummary(it collector.Article) string {
	summary := it.Summary
	if utf8.RuneCountInString(summary) < p.opts.SummaryMinRunes {
		summary = it.Title
	}
	rs := []rune(summary)
	if len(rs) > p.opts.SummaryMaxRunes {
		summary = string(rs[:p.opts.SummaryMaxRunes])
	}
	return summary
}

// representativeFunds 每个标签取该主题的第一只代表 ETF
func (p *Processor) representativeFunds(tags []string) []string {
	funds := make([]string, 0, len(tags))
	for _, id := range tags {
		if cat, ok := p.catalog.Get(id); ok && len(cat.Codes) > 0 {
			funds = append(funds, cat.Codes[0])
		}
	}
	return funds
}

// coreTip 统计全批次的主题热度，生成开篇的核心提示。
// 固定句式加确定性排序，保证同一批次每次生成的文案一致
func (p *Processor) coreTip(articles []ProcessedArticle) []string {
	counts := make(map[string]int)
	for _, a := range articles {
		text := a.Title + a.Summary
		for _, cat := range p.catalog.Categories() {
			if hits := fund.Score(text, cat); hits > 0 {
				counts[cat.ID] += hits
			}
		}
	}

	type kv struct {
		id   string
		hits int
	}
	ranked := make([]kv, 0, len(counts))
	for id, hits := range counts {
		ranked = append(ranked, kv{id, hits})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].hits != ranked[j].hits {
			return ranked[i].hits > ranked[j].hits
		}
		return p.catalog.Index(ranked[i].id) < p.catalog.Index(ranked[j].id)
	})
	if len(ranked) > 3 {
		ranked = ranked[:3]
	}

	lead := "今日市场关注点聚焦于宏观经济数据、行业政策及市场热点等领域，资金对高股息及科技主题的偏好依然明显。"
	if len(ranked) > 0 {
		names := make([]string, 0, len(ranked))
		for _, r := range ranked {
			if cat, ok := p.catalog.Get(r.id); ok {
				names = append(names, cat.Name)
			}
		}
		lead = "今日市场关注点聚焦于" + strings.Join(names, "、") + "等领域，资金对高股息及科技主题的偏好依然明显。"
	}

	return []string{
		lead,
		"市场整体呈现震荡态势，成交量有所放大，投资者信心逐步恢复。",
		"基金方面，相关 ETF 份额与价格表现活跃，科技类 ETF 资金流入明显，反映市场对科技创新领域的长期看好。",
		"此外，消费、医药等防御性板块也受到部分资金关注，显示出当前环境下的多元化配置思路。",
		"展望后市，政策面的持续支持和基本面的逐步改善将为市场提供支撑，建议关注政策利好的细分行业与业绩确定性较高的优质标的。",
	}
}

// icons 文章序号前的装饰图标，按 URL 哈希确定性选取
var icons = []string{"🪙", "🤖", "📊", "💡", "🔬", "🚀", "💹", "📈", "🎯", "🏆", "🌟", "⚡"}

func pickIcon(url string) string {
	h := sha1.Sum([]byte(url))
	return icons[int(h[0])%len(icons)]
}

func hashURL(url string) string {
	h := sha1.New()
	h.Write([]byte(url))
	return hex.EncodeToString(h.Sum(nil))
}
