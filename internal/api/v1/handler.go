package v1

import (
	"errors"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/model"
	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/service/excel"
	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/service/pipeline"
	memstore "github.com/yatendra3192/recruitment-analytics-dashboard/internal/service/store"
)

// ImportLogger 导入日志存储（SQLite 实现见 internal/store）
type ImportLogger interface {
	CreateImportLog(filename, sourceKind string, fileSize int64, fileHash string) (int64, error)
	CompleteImportLog(id int64, ds *model.Dataset) error
	FailImportLog(id int64, cause error) error
	ListImportLogs(limit int) ([]model.ImportLog, error)
}

// Options 处理器参数
type Options struct {
	MaxUploadBytes int64
	SheetName      string
}

// Handler 仪表盘 API 处理器
type Handler struct {
	loader   *excel.Loader
	cache    *memstore.TableCache
	pipeline *pipeline.Pipeline
	logs     ImportLogger
	opts     Options

	downloads *exportDownloadStore
	now       func() time.Time
}

// NewHandler 创建处理器；logs 可为 nil（不记录导入日志）
func NewHandler(loader *excel.Loader, cache *memstore.TableCache, p *pipeline.Pipeline, logs ImportLogger, opts Options) *Handler {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 50 << 20
	}
	return &Handler{
		loader:   loader,
		cache:    cache,
		pipeline: p,
		logs:     logs,
		opts:     opts,

		downloads: newExportDownloadStore(),
		now:       time.Now,
	}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 数据状态
	router.GET("/status", h.GetStatus)

	// 数据上传
	router.POST("/upload", h.Upload)
	router.DELETE("/upload", h.ClearUpload)

	// 筛选与仪表盘
	router.GET("/filters", h.GetFilters)
	router.GET("/dashboard", h.GetDashboard)
	router.GET("/records", h.ListRecords)

	// 导出
	router.GET("/export", h.Export)
	router.GET("/export/stream", h.ExportStream)
	router.GET("/export/download/:token", h.DownloadExport)

	// 导入日志
	router.GET("/imports", h.ListImports)
}

// currentDataset 当前数据集：优先已上传文件，否则默认数据文件（命中缓存不重复解析）
// 无数据时返回 excel.ErrNoData
func (h *Handler) currentDataset() (*model.Dataset, error) {
	if ds, ok := h.cache.Current(); ok && ds.Kind == model.SourceUpload {
		return ds, nil
	}

	src, err := h.loader.Resolve(nil)
	if err != nil {
		return nil, err
	}
	ds, err := h.loader.Load(src)
	if err != nil {
		return nil, err
	}
	if cur, ok := h.cache.Current(); !ok || cur.Identity != ds.Identity {
		// 默认文件首次加载或内容变化，旧版本（含预加载的）一并移除
		h.cache.InvalidateDefaults(ds.Identity)
		h.cache.SetCurrent(ds)
		h.recordDefaultLoad(ds)
	}
	return ds, nil
}

func (h *Handler) recordDefaultLoad(ds *model.Dataset) {
	if h.logs == nil {
		return
	}
	id, err := h.logs.CreateImportLog(ds.Name, string(ds.Kind), ds.Size, ds.Hash)
	if err != nil {
		log.Printf("[API] create import log failed: %v", err)
		return
	}
	if err := h.logs.CompleteImportLog(id, ds); err != nil {
		log.Printf("[API] complete import log failed: %v", err)
	}
}

// noDataResponse 无数据时的响应（不是错误）
type noDataResponse struct {
	Available       bool     `json:"available"`
	Message         string   `json:"message"`
	Reason          string   `json:"reason,omitempty"`
	ExpectedColumns []string `json:"expectedColumns"`
}

func newNoDataResponse(err error) noDataResponse {
	resp := noDataResponse{
		Available:       false,
		Message:         "Please upload an Excel file to view the dashboard.",
		ExpectedColumns: model.ExpectedColumns,
	}
	if err != nil && !errors.Is(err, excel.ErrNoData) {
		resp.Reason = err.Error()
	}
	return resp
}

// isNoData 加载失败是否应按"暂无数据"处理
func isNoData(err error) bool {
	return errors.Is(err, excel.ErrNoData) || errors.Is(err, excel.ErrUnreadable) || errors.Is(err, excel.ErrUnsupportedFormat)
}
