package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/cxyo/fundnews/internal/processor"
)

// Run 一次日报生成的记录
type Run struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	TradingDay   string `gorm:"size:10;index" json:"tradingDay"`
	ArticleCount int    `json:"articleCount"`
	OutputPath   string `gorm:"size:512" json:"outputPath"`

	CreatedAt time.Time `json:"createdAt"`
}

// ArchivedArticle 归档的一条日报新闻。管道本身不读归档，
// 只有 cmd/api 用它提供历史查询
type ArchivedArticle struct {
	ID     string `gorm:"primaryKey;size:40" json:"id"`
	RunID  uint   `gorm:"index" json:"runId"`
	Title  string `gorm:"size:512" json:"title"`
	URL    string `gorm:"size:1024;index" json:"url"`
	Source string `gorm:"size:64;index" json:"source"`
	// 摘要长度在 processor 已约束；这里再按 rune 截断做入库双保险
	Summary       string                      `gorm:"size:600" json:"summary"`
	FundTags      datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"fundTags"`
	PublishedAt   time.Time                   `gorm:"index" json:"publishedAt"`
	PublishedDate string                      `gorm:"size:10;index" json:"publishedDate"`
	Fresh         bool                        `json:"fresh"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Store struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewStore(dsn, redisAddr string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&Run{}, &ArchivedArticle{}); err != nil {
		return nil, err
	}

	var rdb *redis.Client
	if redisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: redisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("warn: redis ping failed: %v", err)
		}
	}

	return &Store{DB: db, Redis: rdb}, nil
}

// 东八区，归档日期与 processor 的交易日标签保持一致
var locEast8 *time.Location

func init() {
	locEast8, _ = time.LoadLocation("Asia/Shanghai")
	if locEast8 == nil {
		locEast8 = time.FixedZone("CST", 8*3600)
	}
}

// toValidUTF8 规范为合法 UTF-8，避免 PostgreSQL invalid byte sequence 错误
func toValidUTF8(s string) string {
	return strings.ToValidUTF8(s, "�")
}

// truncateRunesDB 按 rune 截断，确保不超过数据库字段长度
func truncateRunesDB(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	s = strings.TrimSpace(s)
	rs := []rune(s)
	if len(rs) <= limit {
		return s
	}
	return string(rs[:limit])
}

// SaveRun 归档一次生成：写入 Run 记录和本批全部新闻。
// 以 URL 作为幂等键，同一条新闻再次出现时更新而不是重复插入
func (s *Store) SaveRun(batch processor.Batch, outputPath string) error {
	run := &Run{
		TradingDay:   batch.TradingDay,
		ArticleCount: len(batch.Articles),
		OutputPath:   outputPath,
	}
	if err := s.DB.Create(run).Error; err != nil {
		return fmt.Errorf("storage: create run: %w", err)
	}

	for _, it := range batch.Articles {
		a := &ArchivedArticle{
			ID:            it.ID,
			RunID:         run.ID,
			Title:         truncateRunesDB(toValidUTF8(it.Title), 512),
			URL:           it.URL,
			Source:        it.Source,
			Summary:       truncateRunesDB(toValidUTF8(it.Summary), 600),
			FundTags:      datatypes.NewJSONSlice(it.FundTags),
			PublishedAt:   it.PublishedAt,
			PublishedDate: it.PublishedAt.In(locEast8).Format("2006-01-02"),
			Fresh:         it.Fresh,
		}

		if err := s.DB.Where("url = ?", it.URL).FirstOrCreate(a).Error; err != nil {
			return fmt.Errorf("storage: archive article: %w", err)
		}
		_ = s.DB.Model(a).Updates(map[string]any{
			"run_id":         run.ID,
			"title":          a.Title,
			"summary":        a.Summary,
			"fund_tags":      a.FundTags,
			"published_at":   a.PublishedAt,
			"published_date": a.PublishedDate,
			"fresh":          a.Fresh,
		}).Error
	}

	// 归档后不做通配删除，依赖短 TTL 的缓存自然过期
	return nil
}

// LatestRun 最近一次生成的记录；没有任何记录时返回 nil
func (s *Store) LatestRun() (*Run, error) {
	var run Run
	err := s.DB.Order("id DESC").First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

const listCacheTTL = 5 * time.Minute

// ListArticles 按来源与可选日期返回归档新闻，Redis 做短 TTL 缓存
// source: 来源 code，可为空
// date: 可选，格式 2006-01-02
func (s *Store) ListArticles(source string, limit int, date string) ([]ArchivedArticle, error) {
	if limit <= 0 || limit > 500 {
		limit = 20
	}

	ctx := context.Background()
	cacheKey := fmt.Sprintf("digest:articles:%s:%d:%s", source, limit, date)

	if s.Redis != nil {
		if bs, err := s.Redis.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached []ArchivedArticle
			if err := json.Unmarshal(bs, &cached); err == nil {
				return cached, nil
			}
		}
	}

	var list []ArchivedArticle
	db := s.DB.Model(&ArchivedArticle{})
	if source != "" {
		db = db.Where("source = ?", source)
	}
	if date != "" {
		db = db.Where("published_date = ?", date)
	}
	if err := db.Order("published_at DESC").Limit(limit).Find(&list).Error; err != nil {
		return nil, err
	}

	if s.Redis != nil && len(list) > 0 {
		if bs, err := json.Marshal(list); err == nil {
			_ = s.Redis.Set(ctx, cacheKey, bs, listCacheTTL).Err()
		}
	}

	return list, nil
}

// ListTradingDays 返回有归档的交易日列表（倒序），供 API 做日期筛选
func (s *Store) ListTradingDays(limit int) ([]string, error) {
	if limit <= 0 || limit > 365 {
		limit = 31
	}
	var rows []struct{ D string }
	err := s.DB.Raw(
		`SELECT DISTINCT trading_day AS d FROM runs ORDER BY d DESC LIMIT ?`, limit,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	days := make([]string, 0, len(rows))
	for _, r := range rows {
		if r.D != "" {
			days = append(days, r.D)
		}
	}
	return days, nil
}
