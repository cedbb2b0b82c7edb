package processor

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cxyo/fundnews/internal/collector"
)

// dedupe 合并标题近似重复的新闻：归一化后的前缀相同，
// 或二元组相似度超过阈值的视为同一条，保留内容更完整/更新的版本
func dedupe(items []collector.Article, keyRunes int, threshold float64) []collector.Article {
	type entry struct {
		art  collector.Article
		norm string
	}

	var kept []entry
	byKey := make(map[string]int)

	for _, it := range items {
		norm := normalizeTitle(it.Title)
		if norm == "" {
			continue
		}
		key := prefixRunes(norm, keyRunes)

		idx := -1
		if i, ok := byKey[key]; ok {
			idx = i
		} else {
			for i := range kept {
				if bigramSimilarity(norm, kept[i].norm) >= threshold {
					idx = i
					break
				}
			}
		}

		if idx >= 0 {
			kept[idx].art = preferArticle(kept[idx].art, it)
			continue
		}

		byKey[key] = len(kept)
		kept = append(kept, entry{art: it, norm: norm})
	}

	out := make([]collector.Article, 0, len(kept))
	for _, e := range kept {
		out = append(out, e.art)
	}
	return out
}

// preferArticle 两条重复新闻里选摘要更长的；一样长选发布时间更新的
func preferArticle(a, b collector.Article) collector.Article {
	al := utf8.RuneCountInString(a.Summary)
	bl := utf8.RuneCountInString(b.Summary)
	if bl > al {
		return b
	}
	if bl == al && b.PublishedAt.After(a.PublishedAt) {
		return b
	}
	return a
}

// normalizeTitle 去掉空白、标点并转小写，只留文字内容做比较
func normalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func prefixRunes(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n])
}

// bigramSimilarity 基于字符二元组的 Dice 系数，对中文标题效果稳定。
// 返回 [0, 1]，完全相同为 1
func bigramSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	ga := bigrams(a)
	gb := bigrams(b)
	if len(ga) == 0 || len(gb) == 0 {
		return 0
	}

	overlap := 0
	for g, ca := range ga {
		if cb, ok := gb[g]; ok {
			if ca < cb {
				overlap += ca
			} else {
				overlap += cb
			}
		}
	}
	total := 0
	for _, c := range ga {
		total += c
	}
	for _, c := range gb {
		total += c
	}
	return 2 * float64(overlap) / float64(total)
}

func bigrams(s string) map[string]int {
	rs := []rune(s)
	out := make(map[string]int)
	for i := 0; i+1 < len(rs); i++ {
		out[string(rs[i:i+2])]++
	}
	return out
}
