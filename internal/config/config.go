package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
)

// defaultUserAgent 与主流浏览器一致，部分财经站点会拒绝明显的爬虫 UA
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

type rawConfig struct {
	OutputPath string `long:"output" env:"OUTPUT_PATH" default:"index.html" description:"Digest output file path"`
	BatchSize  int    `long:"batch-size" env:"BATCH_SIZE" default:"10" description:"Max articles in one digest"`

	RequestTimeoutSec int    `long:"request-timeout" env:"REQUEST_TIMEOUT" default:"10" description:"Per-request timeout in seconds"`
	RequestDelayMs    int    `long:"request-delay" env:"REQUEST_DELAY_MS" default:"1000" description:"Politeness delay between requests in milliseconds"`
	UserAgent         string `long:"user-agent" env:"USER_AGENT" description:"User agent for outgoing requests"`

	SummaryMinRunes int     `long:"summary-min" env:"SUMMARY_MIN_RUNES" default:"10" description:"Lower bound of the summary length band (runes)"`
	SummaryMaxRunes int     `long:"summary-max" env:"SUMMARY_MAX_RUNES" default:"200" description:"Upper bound of the summary length band (runes)"`
	DedupKeyRunes   int     `long:"dedup-key-runes" env:"DEDUP_KEY_RUNES" default:"20" description:"Normalized-title prefix length used as the dedup key"`
	SimilarityRatio float64 `long:"similarity" env:"SIMILARITY_RATIO" default:"0.85" description:"Bigram similarity threshold above which titles are merged"`

	Holidays string `long:"holidays" env:"HOLIDAYS" description:"Comma separated non-trading dates (YYYY-MM-DD), besides weekends"`
	RSSFeeds string `long:"rss-feeds" env:"RSS_FEEDS" description:"Comma separated RSS feed URLs used as an extra source"`

	FetchDetails bool   `long:"fetch-details" env:"FETCH_DETAILS" description:"Follow article links and extract page bodies as summaries"`
	ExtractorURL string `long:"extractor-url" env:"EXTRACTOR_URL" description:"Optional headless extractor sidecar endpoint (cmd/extractor)"`

	PostgresDSN string `long:"postgres-dsn" env:"POSTGRES_DSN" description:"Optional archive database DSN; empty disables archiving"`
	RedisAddr   string `long:"redis-addr" env:"REDIS_ADDR" description:"Optional Redis address for API listing cache"`

	AppPort       string `long:"port" env:"APP_PORT" default:"9000" description:"HTTP port for cmd/api"`
	BasicAuthUser string `long:"basic-auth-user" env:"APP_BASIC_USER" description:"Basic auth user for cmd/api (optional)"`
	BasicAuthPass string `long:"basic-auth-pass" env:"APP_BASIC_PASS" description:"Basic auth password for cmd/api (optional)"`
}

type Config struct {
	OutputPath string
	BatchSize  int

	RequestTimeout time.Duration
	RequestDelay   time.Duration
	UserAgent      string

	SummaryMinRunes int
	SummaryMaxRunes int
	DedupKeyRunes   int
	SimilarityRatio float64

	Holidays []string
	RSSFeeds []string

	FetchDetails bool
	ExtractorURL string

	PostgresDSN string
	RedisAddr   string

	AppPort       string
	BasicAuthUser string
	BasicAuthPass string
}

// Load 从命令行参数与环境变量加载配置；--help 时返回 (nil, nil)
func Load() (*Config, error) {
	return parse(os.Args[1:])
}

func parse(args []string) (*Config, error) {
	var raw rawConfig

	parser := flags.NewParser(&raw, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg := &Config{
		OutputPath:      raw.OutputPath,
		BatchSize:       raw.BatchSize,
		RequestTimeout:  time.Duration(raw.RequestTimeoutSec) * time.Second,
		RequestDelay:    time.Duration(raw.RequestDelayMs) * time.Millisecond,
		UserAgent:       raw.UserAgent,
		SummaryMinRunes: raw.SummaryMinRunes,
		SummaryMaxRunes: raw.SummaryMaxRunes,
		DedupKeyRunes:   raw.DedupKeyRunes,
		SimilarityRatio: raw.SimilarityRatio,
		Holidays:        splitList(raw.Holidays),
		RSSFeeds:        splitList(raw.RSSFeeds),
		FetchDetails:    raw.FetchDetails,
		ExtractorURL:    raw.ExtractorURL,
		PostgresDSN:     raw.PostgresDSN,
		RedisAddr:       raw.RedisAddr,
		AppPort:         raw.AppPort,
		BasicAuthUser:   raw.BasicAuthUser,
		BasicAuthPass:   raw.BasicAuthPass,
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", c.BatchSize)
	}
	if c.SummaryMinRunes <= 0 || c.SummaryMaxRunes < c.SummaryMinRunes {
		return fmt.Errorf("invalid summary band [%d, %d]", c.SummaryMinRunes, c.SummaryMaxRunes)
	}
	if c.SimilarityRatio < 0 || c.SimilarityRatio > 1 {
		return fmt.Errorf("similarity ratio must be in [0, 1], got %v", c.SimilarityRatio)
	}
	for _, d := range c.Holidays {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return fmt.Errorf("invalid holiday date %q: %w", d, err)
		}
	}
	return nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
