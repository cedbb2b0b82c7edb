package pipeline

import (
	"log"

	"github.com/cxyo/fundnews/internal/collector"
	"github.com/cxyo/fundnews/internal/config"
	"github.com/cxyo/fundnews/internal/fund"
	"github.com/cxyo/fundnews/internal/generator"
	"github.com/cxyo/fundnews/internal/processor"
	"github.com/cxyo/fundnews/internal/storage"
)

// FromConfig 按配置组装整条管道，cmd/generate 与 cmd/api 共用。
// 归档库连不上只告警降级，不阻止出报
func FromConfig(cfg *config.Config) (*Pipeline, *storage.Store, error) {
	catalog := fund.NewCatalog()

	fetchers := []collector.Fetcher{
		&collector.EastmoneyFetcher{
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.RequestTimeout,
			Delay:     cfg.RequestDelay,
		},
		&collector.SinaFetcher{
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.RequestTimeout,
			Delay:     cfg.RequestDelay,
		},
		&collector.THSFetcher{
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.RequestTimeout,
			Throttle:  collector.NewThrottle(cfg.RequestDelay),
		},
	}
	if len(cfg.RSSFeeds) > 0 {
		fetchers = append(fetchers, &collector.RSSFetcher{
			FeedURLs:  cfg.RSSFeeds,
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.RequestTimeout,
			Throttle:  collector.NewThrottle(cfg.RequestDelay),
		})
	}

	proc := processor.New(catalog, processor.Options{
		BatchSize:       cfg.BatchSize,
		SummaryMinRunes: cfg.SummaryMinRunes,
		SummaryMaxRunes: cfg.SummaryMaxRunes,
		DedupKeyRunes:   cfg.DedupKeyRunes,
		SimilarityRatio: cfg.SimilarityRatio,
		Holidays:        cfg.Holidays,
	})

	gen, err := generator.New()
	if err != nil {
		return nil, nil, err
	}

	p := New(fetchers, proc, gen, cfg.OutputPath)

	if cfg.FetchDetails {
		p.WithDetailExtractor(&collector.DetailExtractor{
			UserAgent:    cfg.UserAgent,
			Timeout:      cfg.RequestTimeout,
			Throttle:     collector.NewThrottle(cfg.RequestDelay),
			MaxRunes:     cfg.SummaryMaxRunes,
			ExtractorURL: cfg.ExtractorURL,
		})
	}

	var store *storage.Store
	if cfg.PostgresDSN != "" {
		store, err = storage.NewStore(cfg.PostgresDSN, cfg.RedisAddr)
		if err != nil {
			log.Printf("warn: archive store unavailable, continue without it: %v", err)
			store = nil
		} else {
			p.WithStore(store)
		}
	}

	return p, store, nil
}
