package processor

import (
	"sort"
	"strings"

	"github.com/cxyo/fundnews/internal/fund"
)

// Tagger 给单条新闻分配基金主题标签，并保证同一批次内
// 不出现两条新闻共用同一个标签组合
type Tagger struct {
	catalog *fund.Catalog
}

func NewTagger(catalog *fund.Catalog) *Tagger {
	return &Tagger{catalog: catalog}
}

// Assign 返回至少两个主题 ID（按主题表顺序）。
// used 记录本批次已占用的组合；命中组合冲突时按偏好顺序
// 确定性地换入次优主题，而不是随机扰动
func (t *Tagger) Assign(text string, used map[string]struct{}) []string {
	ranked, hitCount := t.rank(text)

	size := 2
	if hitCount >= 3 {
		size = 3
	}
	if size > len(ranked) {
		size = len(ranked)
	}

	// 按偏好顺序枚举固定大小的组合，第一个未被占用的组合即为结果；
	// 当前大小全部被占用时扩大组合（词表 10 个主题共 968 种组合，
	// 正常批次规模远用不完）
	for ; size <= len(ranked); size++ {
		if ids, ok := t.firstFreeCombo(ranked, size, used); ok {
			return ids
		}
	}

	// 组合空间耗尽（批次大得离谱才会发生）：退回最优前缀
	return t.canonical(ranked[:min(2, len(ranked))])
}

// rank 返回主题偏好顺序：先按命中次数降序（同分按表内顺序），
// 零命中的主题排在后面，其中兜底主题对优先
func (t *Tagger) rank(text string) ([]string, int) {
	type scored struct {
		id   string
		hits int
		idx  int
	}

	cats := t.catalog.Categories()
	all := make([]scored, 0, len(cats))
	for i, cat := range cats {
		all = append(all, scored{id: cat.ID, hits: fund.Score(text, cat), idx: i})
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].hits != all[j].hits {
			return all[i].hits > all[j].hits
		}
		return all[i].idx < all[j].idx
	})

	hitCount := 0
	for _, s := range all {
		if s.hits > 0 {
			hitCount++
		}
	}

	ranked := make([]string, 0, len(all))
	for _, s := range all {
		if s.hits > 0 {
			ranked = append(ranked, s.id)
		}
	}
	// 零命中部分：兜底主题对在前，其余按表内顺序
	for _, id := range t.catalog.FallbackIDs() {
		if !contains(ranked, id) {
			ranked = append(ranked, id)
		}
	}
	for _, s := range all {
		if s.hits == 0 && !contains(ranked, s.id) {
			ranked = append(ranked, s.id)
		}
	}

	return ranked, hitCount
}

// firstFreeCombo 在 ranked 上按字典序枚举大小为 size 的组合，
// 返回第一个未被占用的；枚举顺序即偏好顺序（首个组合是最优前缀）
func (t *Tagger) firstFreeCombo(ranked []string, size int, used map[string]struct{}) ([]string, bool) {
	if size > len(ranked) {
		return nil, false
	}

	idx := make([]int, size)
	for i := range idx {
		idx[i] = i
	}

	for {
		combo := make([]string, size)
		for i, j := range idx {
			combo[i] = ranked[j]
		}
		ids := t.canonical(combo)
		key := strings.Join(ids, "+")
		if _, taken := used[key]; !taken {
			used[key] = struct{}{}
			return ids, true
		}

		// 下一个字典序组合
		i := size - 1
		for i >= 0 && idx[i] == len(ranked)-size+i {
			i--
		}
		if i < 0 {
			return nil, false
		}
		idx[i]++
		for j := i + 1; j < size; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// canonical 按主题表顺序排序，让同一组合只有一种写法
func (t *Tagger) canonical(ids []string) []string {
	out := append([]string(nil), ids...)
	sort.Slice(out, func(i, j int) bool {
		return t.catalog.Index(out[i]) < t.catalog.Index(out[j])
	})
	return out
}

func contains(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
