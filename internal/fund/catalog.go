package fund

import "strings"

// Category 一个基金主题分类：关键词命中后给新闻打上该标签，
// Codes 为该主题下的代表性 ETF（按推荐顺序排列）
type Category struct {
	ID       string
	Name     string
	Keywords []string
	Codes    []string
}

// Catalog 进程级只读的基金主题表，初始化后不再修改，
// 由调用方显式传入 Processor / Generator，避免全局可变状态
type Catalog struct {
	categories []Category
	byID       map[string]int
}

// builtinCategories 固定的十个主题。标签只允许来自这张表
var builtinCategories = []Category{
	{
		ID:       "ai",
		Name:     "AI",
		Keywords: []string{"人工智能", "AI", "大模型", "算力", "ChatGPT"},
		Codes:    []string{"人工智能AI ETF(515070)", "AI人工智能ETF(512930)"},
	},
	{
		ID:       "cloud",
		Name:     "云计算",
		Keywords: []string{"云计算", "云服务", "数据中心", "服务器"},
		Codes:    []string{"云计算ETF(516510)", "大数据产业ETF(516700)"},
	},
	{
		ID:       "bigdata",
		Name:     "大数据",
		Keywords: []string{"大数据", "数据要素", "数据资产"},
		Codes:    []string{"大数据ETF(515400)", "数据ETF(515050)"},
	},
	{
		ID:       "chip",
		Name:     "芯片",
		Keywords: []string{"芯片", "半导体", "集成电路", "晶圆"},
		Codes:    []string{"芯片ETF(512760)", "半导体ETF(512480)"},
	},
	{
		ID:       "fintech",
		Name:     "金融科技",
		Keywords: []string{"金融科技", "数字金融", "FinTech", "金融AI"},
		Codes:    []string{"金融科技ETF(159851)", "证券ETF(512880)"},
	},
	{
		ID:       "dividend",
		Name:     "高股息",
		Keywords: []string{"高股息", "红利", "分红", "股息率"},
		Codes:    []string{"红利低波ETF(512890)", "央企红利ETF(561580)"},
	},
	{
		ID:       "pharma",
		Name:     "医药",
		Keywords: []string{"医药", "创新药", "医疗器械", "生物医药"},
		Codes:    []string{"医疗ETF(512170)", "创新药ETF(159992)"},
	},
	{
		ID:       "newenergy",
		Name:     "新能源",
		Keywords: []string{"新能源", "光伏", "风电", "储能"},
		Codes:    []string{"新能源汽车ETF(515030)", "光伏ETF(515790)"},
	},
	{
		ID:       "auto",
		Name:     "汽车",
		Keywords: []string{"汽车", "新能源汽车", "智能驾驶", "车联网"},
		Codes:    []string{"智能驾驶ETF(516520)", "汽车ETF(516110)"},
	},
	{
		ID:       "gaming",
		Name:     "游戏",
		Keywords: []string{"游戏", "电竞", "元宇宙", "游戏AI"},
		Codes:    []string{"游戏ETF(159869)", "传媒ETF(512980)"},
	},
}

// fallbackIDs 新闻一个关键词都没命中时使用的兜底主题对
var fallbackIDs = []string{"cloud", "bigdata"}

// NewCatalog 返回内置主题表
func NewCatalog() *Catalog {
	return newCatalog(builtinCategories)
}

func newCatalog(categories []Category) *Catalog {
	byID := make(map[string]int, len(categories))
	for i, c := range categories {
		byID[c.ID] = i
	}
	return &Catalog{categories: categories, byID: byID}
}

// Categories 按表内顺序返回全部主题（返回副本的切片头，内容不可修改）
func (c *Catalog) Categories() []Category {
	return c.categories
}

// Len 主题数量
func (c *Catalog) Len() int {
	return len(c.categories)
}

// Has 判断 id 是否属于固定词表
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// Get 按 id 取主题，不存在时返回 ok=false
func (c *Catalog) Get(id string) (Category, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Category{}, false
	}
	return c.categories[i], true
}

// Index 主题在表内的序号，用于确定性排序；不存在返回 -1
func (c *Catalog) Index(id string) int {
	i, ok := c.byID[id]
	if !ok {
		return -1
	}
	return i
}

// FallbackIDs 零命中时的兜底主题，保证每条新闻仍有至少两个标签
func (c *Catalog) FallbackIDs() []string {
	return fallbackIDs
}

// Score 统计文本对某个主题的关键词命中次数。
// 英文关键词（AI、ChatGPT 等）忽略大小写，中文按原样匹配
func Score(text string, cat Category) int {
	lower := strings.ToLower(text)
	hits := 0
	for _, kw := range cat.Keywords {
		hits += strings.Count(lower, strings.ToLower(kw))
	}
	return hits
}
