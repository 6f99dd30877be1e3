package v1

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/exporter"
	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/service/filter"
)

const (
	csvContentType  = "text/csv; charset=utf-8"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Export 下载筛选后的数据（csv / xlsx）
// GET /api/export?format=csv&businessUnit=&department=&location=
func (h *Handler) Export(c *gin.Context) {
	ds, ok := h.loadOrRespond(c)
	if !ok {
		return
	}

	format := strings.ToLower(c.DefaultQuery("format", "csv"))
	filtered := filter.Apply(ds.Table, filter.SelectionFromQuery(c.Query))
	fileName := exporter.FileName(h.now(), format)

	switch format {
	case "csv":
		var buf bytes.Buffer
		if err := exporter.WriteCSV(&buf, filtered); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", contentDisposition(fileName))
		c.Data(http.StatusOK, csvContentType, buf.Bytes())
	case "xlsx":
		f, err := exporter.WriteXLSX(filtered, exporter.XLSXOptions{SheetName: h.opts.SheetName})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer f.Close()
		buf, err := f.WriteToBuffer()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to write workbook: " + err.Error()})
			return
		}
		c.Header("Content-Disposition", contentDisposition(fileName))
		c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported export format: " + format})
	}
}

func contentDisposition(fileName string) string {
	return fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", fileName, url.PathEscape(fileName))
}
