package api

import (
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cxyo/fundnews/internal/pipeline"
	"github.com/cxyo/fundnews/internal/storage"
)

// nowFunc 便于测试固定运行时间
var nowFunc = time.Now

// Server 对外提供日报文件、归档查询和手动触发生成的接口。
// 定时调度交给外部 cron/CI，进程内不做
type Server struct {
	store      *storage.Store
	pipe       *pipeline.Pipeline
	outputPath string

	// 同一时刻只允许一轮生成在跑
	runMu sync.Mutex
}

func NewServer(store *storage.Store, pipe *pipeline.Pipeline, outputPath string) *Server {
	return &Server{store: store, pipe: pipe, outputPath: outputPath}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)
	r.GET("/digest", s.digest)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/articles", s.listArticles)
		v1.GET("/days", s.listDays)
		v1.POST("/generate", s.generate)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// digest 直接回最近生成的 HTML 文件，方便浏览器打开后整页复制
func (s *Server) digest(c *gin.Context) {
	if _, err := os.Stat(s.outputPath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    "not_generated",
			"message": "digest not generated yet",
		})
		return
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.File(s.outputPath)
}

func (s *Server) listArticles(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"code":    "archive_disabled",
			"message": "archive database not configured",
		})
		return
	}

	source := c.Query("source")
	date := c.Query("date")
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}

	items, err := s.store.ListArticles(source, limit, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "internal_error",
			"message": "internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    items,
	})
}

func (s *Server) listDays(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"code":    "archive_disabled",
			"message": "archive database not configured",
		})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "31"))
	if err != nil || limit <= 0 {
		limit = 31
	}

	days, err := s.store.ListTradingDays(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "internal_error",
			"message": "internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    days,
	})
}

// generate 同步执行一轮管道，外部 cron 可以直接 curl 这个接口
func (s *Server) generate(c *gin.Context) {
	if !s.runMu.TryLock() {
		c.JSON(http.StatusConflict, gin.H{
			"code":    "run_in_progress",
			"message": "another run is in progress",
		})
		return
	}
	defer s.runMu.Unlock()

	res, err := s.pipe.Run(nowFunc())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"code":    "generate_failed",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data": gin.H{
			"tradingDay":   res.TradingDay,
			"articleCount": res.ArticleCount,
			"sourcesOk":    res.SourcesOK,
			"outputPath":   res.OutputPath,
		},
	})
}
