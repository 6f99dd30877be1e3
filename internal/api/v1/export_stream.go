package v1

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/exporter"
	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/service/filter"
)

type exportStreamEvent struct {
	Type      string      `json:"type"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// ExportStream 导出筛选后的数据（SSE 进度 + 完成后提供下载地址）
// GET /api/export/stream?format=xlsx&businessUnit=&department=&location=
func (h *Handler) ExportStream(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", "xlsx"))
	if format != "csv" && format != "xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported export format: " + format})
		return
	}

	ds, ok := h.loadOrRespond(c)
	if !ok {
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming not supported"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	send := func(eventType, message string, data interface{}) {
		b, err := json.Marshal(exportStreamEvent{
			Type:      eventType,
			Message:   message,
			Data:      data,
			Timestamp: time.Now(),
		})
		if err != nil {
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", b)
		flusher.Flush()
	}

	filtered := filter.Apply(ds.Table, filter.SelectionFromQuery(c.Query))
	send("start", "export started", map[string]any{
		"format": format,
		"rows":   filtered.Len(),
	})

	item := exportDownload{fileName: exporter.FileName(h.now(), format)}
	var buf bytes.Buffer
	switch format {
	case "csv":
		if err := exporter.WriteCSV(&buf, filtered); err != nil {
			send("error", "export failed: "+err.Error(), map[string]any{})
			return
		}
		item.contentType = csvContentType
	case "xlsx":
		last := exporter.ProgressEvent{Percent: -1}
		f, err := exporter.WriteXLSX(filtered, exporter.XLSXOptions{
			SheetName: h.opts.SheetName,
			Progress: func(p exporter.ProgressEvent) {
				if p == last {
					return
				}
				last = p
				send("progress", p.Stage, p)
			},
		})
		if err != nil {
			send("error", "export failed: "+err.Error(), map[string]any{})
			return
		}
		err = f.Write(&buf)
		_ = f.Close()
		if err != nil {
			send("error", "failed to write workbook: "+err.Error(), map[string]any{})
			return
		}
		item.contentType = xlsxContentType
	}

	item.data = buf.Bytes()
	token := h.downloads.put(item, h.now())
	log.Printf("[API] export %s ready (%d rows, %d bytes)", item.fileName, filtered.Len(), len(item.data))

	send("done", "export finished", map[string]any{
		"percent":     100,
		"fileName":    item.fileName,
		"downloadUrl": "/api/export/download/" + token,
	})
}

// DownloadExport 下载流式导出的文件（一次性）
// GET /api/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	item, ok := h.downloads.take(c.Param("token"), h.now())
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "download link expired"})
		return
	}
	c.Header("Content-Disposition", contentDisposition(item.fileName))
	c.Data(http.StatusOK, item.contentType, item.data)
}
