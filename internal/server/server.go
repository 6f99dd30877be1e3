package server

import (
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	v1 "github.com/yatendra3192/recruitment-analytics-dashboard/internal/api/v1"
	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/config"
	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/model"
	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/service/aggregate"
	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/service/excel"
	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/service/pipeline"
	memstore "github.com/yatendra3192/recruitment-analytics-dashboard/internal/service/store"
	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/store"
)

// Server HTTP服务器
type Server struct {
	router *gin.Engine
	store  *store.Store
	loader *excel.Loader
	v1     *v1.Handler
}

// NewServer 创建服务器
func NewServer(cfg *config.AppConfig) (*Server, error) {
	devMode := cfg.Server.DevMode
	if !devMode {
		gin.SetMode(gin.ReleaseMode)
	}

	cache := memstore.NewTableCache()
	loader := excel.NewLoader(cfg.DefaultFilePath(), cache)

	opts := aggregate.DefaultOptions()
	if cfg.Dashboard.HistogramBins > 0 {
		opts.HistogramBins = cfg.Dashboard.HistogramBins
	}
	p := pipeline.New(aggregate.Catalog(opts))

	// 导入日志（SQLite，可关闭）
	var sqliteStore *store.Store
	var logs v1.ImportLogger
	if cfg.Data.ImportLog {
		dataDir, err := config.EnsureDataDir(cfg)
		if err != nil {
			dataDir = cfg.DataDir()
		}
		sqliteStore, err = store.Open(filepath.Join(dataDir, store.DBFileName))
		if err != nil {
			return nil, err
		}
		logs = sqliteStore
	}

	handler := v1.NewHandler(loader, cache, p, logs, v1.Options{
		MaxUploadBytes: cfg.MaxUploadBytes(),
		SheetName:      cfg.Export.SheetName,
	})

	s := &Server{
		router: gin.Default(),
		store:  sqliteStore,
		loader: loader,
		v1:     handler,
	}
	s.setupRoutes(devMode, cfg.Server.FrontendURL)

	return s, nil
}

// setupRoutes 设置路由
func (s *Server) setupRoutes(devMode bool, frontendURL string) {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Header("Access-Control-Expose-Headers", "Content-Disposition")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	api := s.router.Group("/api")
	{
		s.v1.RegisterRoutes(api)
	}

	s.router.NoRoute(func(c *gin.Context) {
		// 开发模式：页面请求转到前端开发服务器
		if devMode && frontendURL != "" && !strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.Redirect(http.StatusTemporaryRedirect, strings.TrimRight(frontendURL, "/")+c.Request.URL.Path)
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
}

// Preload 启动时预解析默认数据文件并放入缓存，首个请求时再设为当前数据集
func (s *Server) Preload() (*model.Dataset, error) {
	ds, err := s.loader.LoadDefault()
	if err != nil {
		return nil, err
	}
	log.Printf("[Server] preloaded %s (%d rows)", ds.Name, ds.Table.Len())
	return ds, nil
}

// Handler 返回 http.Handler（用于测试）
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run 启动服务器
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close 关闭数据库
func (s *Server) Close() error {
	return s.store.Close()
}

// GetStore 获取存储（用于测试）
func (s *Server) GetStore() *store.Store {
	return s.store
}
