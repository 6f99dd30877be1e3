package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/model"
)

// ListImports 导入日志
// GET /api/imports?limit=20
func (h *Handler) ListImports(c *gin.Context) {
	if h.logs == nil {
		c.JSON(http.StatusOK, gin.H{"items": []model.ImportLog{}})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	items, err := h.logs.ListImportLogs(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
