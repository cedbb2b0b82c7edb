package main

import (
	"log"
	"os"
	"time"

	"github.com/cxyo/fundnews/internal/config"
	"github.com/cxyo/fundnews/internal/pipeline"
)

// 单次执行的命令行入口：抓取 → 处理 → 生成日报后退出。
// 每天一次的调度交给外部 cron / CI，全部源失败时退出码非零
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}
	if cfg == nil { // --help
		return
	}

	p, _, err := pipeline.FromConfig(cfg)
	if err != nil {
		log.Fatalf("init pipeline failed: %v", err)
	}

	res, err := p.Run(time.Now())
	if err != nil {
		log.Printf("digest run failed: %v", err)
		os.Exit(1)
	}

	log.Printf("digest written to %s: %d articles, trading day %s, %d sources ok",
		res.OutputPath, res.ArticleCount, res.TradingDay, res.SourcesOK)
}
