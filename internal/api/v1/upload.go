package v1

import (
	"errors"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/model"
	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/service/excel"
)

// allowedExtensions 允许上传的文件类型
var allowedExtensions = map[string]bool{
	".xlsx": true,
	".xls":  true,
	".csv":  true,
}

// Upload 上传数据文件并设为当前数据集（旧的上传缓存失效）
// POST /api/upload
func (h *Handler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.opts.MaxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing upload file"})
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type: " + ext})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open upload"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read upload"})
		return
	}

	src := excel.UploadSource(fileHeader.Filename, data)

	var logID int64
	if h.logs != nil {
		if logID, err = h.logs.CreateImportLog(src.Name, string(model.SourceUpload), src.Size, src.Hash()); err != nil {
			log.Printf("[API] create import log failed: %v", err)
		}
	}

	ds, err := h.loader.Load(src)
	if err != nil {
		if logID > 0 {
			if ferr := h.logs.FailImportLog(logID, err); ferr != nil {
				log.Printf("[API] fail import log failed: %v", ferr)
			}
		}
		// 无法解析的上传按"暂无数据"处理，之前的上传一并失效
		h.cache.InvalidateUploads("")
		log.Printf("[API] upload %s rejected: %v", src.Name, err)
		c.JSON(http.StatusOK, newNoDataResponse(err))
		return
	}

	h.cache.InvalidateUploads(ds.Identity)
	h.cache.SetCurrent(ds)
	if logID > 0 {
		if err := h.logs.CompleteImportLog(logID, ds); err != nil {
			log.Printf("[API] complete import log failed: %v", err)
		}
	}

	c.JSON(http.StatusOK, StatusResponse{
		Available:   true,
		Dataset:     toDatasetResponse(ds),
		CachedCount: h.cache.Len(),
		DefaultFile: h.loader.DefaultPath(),
	})
}

// ClearUpload 移除已上传数据，回退到默认数据文件
// DELETE /api/upload
func (h *Handler) ClearUpload(c *gin.Context) {
	removed := h.cache.InvalidateUploads("")
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}
